package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Version is reported by the version command.
const Version = "v0.1.0-dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config is the parsed command line.
type Config struct {
	Command   string
	Args      []string
	LogLevel  string
	LogFormat string
}

// commandArgs is the number of positional arguments each command takes.
var commandArgs = map[string]int{
	"version": 0,
	"shapes":  2,
	"plan":    1,
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("stride", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
stride - shape broadcasting and stride synthesis for N-d views.

Usage:
  stride [options] version
  stride [options] shapes SHAPE_A SHAPE_B
  stride [options] plan PLAN_FILE

Arguments:
  SHAPE_A, SHAPE_B
    Comma separated dimensions such as 2,3 or [5,1,3], or "scalar".
  PLAN_FILE
    Path to an .hcl file declaring operands and broadcasts.

Options:
`)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	command := flagSet.Arg(0)
	want, ok := commandArgs[command]
	if !ok {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", command)}
	}
	rest := flagSet.Args()[1:]
	if len(rest) != want {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("%s: expected %d arguments, got %d", command, want, len(rest))}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	if _, ok := logLevels[logLevel]; !ok {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &Config{
		Command:   command,
		Args:      rest,
		LogLevel:  logLevel,
		LogFormat: logFormat,
	}, false, nil
}
