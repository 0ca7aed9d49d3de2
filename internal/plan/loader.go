package plan

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/born-ml/stride/internal/ctxlog"
	"github.com/born-ml/stride/internal/tensor"
)

// fileRoot decodes the top-level blocks of a plan file.
type fileRoot struct {
	Operands   []*operandBlock   `hcl:"operand,block"`
	Broadcasts []*broadcastBlock `hcl:"broadcast,block"`
}

type operandBlock struct {
	Name    string         `hcl:"name,label"`
	Shape   hcl.Expression `hcl:"shape"`
	Strides hcl.Expression `hcl:"strides,optional"`
	Offset  *int           `hcl:"offset,optional"`
}

type broadcastBlock struct {
	Name  string `hcl:"name,label"`
	Left  string `hcl:"left"`
	Right string `hcl:"right"`
}

// LoadFile parses and validates the plan file at path.
func LoadFile(ctx context.Context, path string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading plan file.", "path", path)

	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, diags)
	}
	return decode(ctx, file, path)
}

// Parse parses and validates plan source. filename is used in diagnostics.
func Parse(ctx context.Context, src []byte, filename string) (*Plan, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", filename, diags)
	}
	return decode(ctx, file, filename)
}

func decode(ctx context.Context, file *hcl.File, filename string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode plan file %s: %w", filename, diags)
	}

	operands := make([]*Operand, 0, len(root.Operands))
	for _, block := range root.Operands {
		op, err := translateOperand(block)
		if err != nil {
			return nil, fmt.Errorf("%s: operand %q: %w", filename, block.Name, err)
		}
		logger.Debug("Decoded operand.", "name", op.Name, "shape", op.Shape.String())
		operands = append(operands, op)
	}

	broadcasts := make([]*Broadcast, 0, len(root.Broadcasts))
	for _, block := range root.Broadcasts {
		broadcasts = append(broadcasts, &Broadcast{Name: block.Name, Left: block.Left, Right: block.Right})
	}

	p, err := New(operands, broadcasts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	logger.Debug("Plan loaded.", "operands", len(operands), "broadcasts", len(broadcasts))
	return p, nil
}

func translateOperand(block *operandBlock) (*Operand, error) {
	op := &Operand{Name: block.Name}
	if block.Offset != nil {
		op.Offset = *block.Offset
	}

	shapeVal, diags := block.Shape.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if !shapeVal.IsNull() {
		dims, err := intList(shapeVal)
		if err != nil {
			return nil, fmt.Errorf("shape: %w", err)
		}
		op.Shape = tensor.ShapeOf(dims...)
		if err := op.Shape.Validate(); err != nil {
			return nil, err
		}
	}

	if block.Strides == nil {
		return op, nil
	}
	stridesVal, diags := block.Strides.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if !stridesVal.IsNull() {
		strides, err := intList(stridesVal)
		if err != nil {
			return nil, fmt.Errorf("strides: %w", err)
		}
		op.Strides = tensor.Strides(strides)
	}
	return op, nil
}

// intList converts a cty list or tuple of whole numbers.
func intList(val cty.Value) ([]int, error) {
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, fmt.Errorf("expected a list of numbers or null, got %s", ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value must be known")
	}

	out := make([]int, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() {
			return nil, fmt.Errorf("element %d is null", len(out))
		}
		var n int
		if err := gocty.FromCtyValue(elem, &n); err != nil {
			return nil, fmt.Errorf("element %d: %w", len(out), err)
		}
		out = append(out, n)
	}
	return out, nil
}
