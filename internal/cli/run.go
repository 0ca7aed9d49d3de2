package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/born-ml/stride/internal/ctxlog"
	"github.com/born-ml/stride/internal/plan"
	"github.com/born-ml/stride/internal/tensor"
)

// Run executes the parsed command. Results go to out, logs to logW.
func Run(ctx context.Context, cfg *Config, out, logW io.Writer) error {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Running command.", "command", cfg.Command, "args", cfg.Args)

	var (
		p   *plan.Plan
		err error
	)
	switch cfg.Command {
	case "version":
		fmt.Fprintf(out, "stride %s\n", Version)
		return nil
	case "shapes":
		p, err = shapesPlan(cfg.Args[0], cfg.Args[1])
		if err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
	case "plan":
		p, err = plan.LoadFile(ctx, cfg.Args[0])
		if err != nil {
			return err
		}
	default:
		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", cfg.Command)}
	}

	results, err := p.Evaluate(ctx)
	if err != nil {
		return err
	}
	for _, res := range results {
		writeResult(out, res)
	}
	return nil
}

// shapesPlan builds a one-broadcast plan over two row-major operands.
func shapesPlan(a, b string) (*plan.Plan, error) {
	sa, err := ParseShape(a)
	if err != nil {
		return nil, err
	}
	sb, err := ParseShape(b)
	if err != nil {
		return nil, err
	}
	return plan.New(
		[]*plan.Operand{{Name: "a", Shape: sa}, {Name: "b", Shape: sb}},
		[]*plan.Broadcast{{Name: "a+b", Left: "a", Right: "b"}},
	)
}

// ParseShape reads "scalar" or a comma separated list of dimensions,
// optionally in brackets. "[]" is the rank-0 shape.
func ParseShape(s string) (tensor.Shape, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "scalar") {
		return tensor.Scalar(), nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return tensor.ShapeOf(), nil
	}

	parts := strings.Split(s, ",")
	dims := make([]int, len(parts))
	for i, part := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return tensor.Shape{}, fmt.Errorf("invalid shape %q: dimension %d: %w", s, i, err)
		}
		dims[i] = d
	}
	shape := tensor.ShapeOf(dims...)
	if err := shape.Validate(); err != nil {
		return tensor.Shape{}, err
	}
	return shape, nil
}

func writeResult(w io.Writer, res plan.Result) {
	fmt.Fprintf(w, "broadcast %s\n", res.Name)
	fmt.Fprintf(w, "  shape: %v\n", res.Shape)
	fmt.Fprintf(w, "  left:  aligned %v strides %s%s\n", res.AlignedLeft, formatStrides(res.LeftStrides), aliasNote(res.LeftAliased))
	fmt.Fprintf(w, "  right: aligned %v strides %s%s\n", res.AlignedRight, formatStrides(res.RightStrides), aliasNote(res.RightAliased))
}

func formatStrides(s tensor.Strides) string {
	if s == nil {
		return "none"
	}
	return fmt.Sprint([]int(s))
}

func aliasNote(aliased bool) string {
	if aliased {
		return " (aliased, read-only)"
	}
	return ""
}
