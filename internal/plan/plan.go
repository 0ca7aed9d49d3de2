// Package plan loads declarative broadcast plans and evaluates them.
//
// A plan names operands by their view metadata (shape, optional strides and
// offset) and lists the pairs to broadcast. Plans are written in HCL:
//
//	operand "x" {
//	  shape = [2, 3]
//	}
//	operand "bias" {
//	  shape = [3]
//	}
//	broadcast "sum" {
//	  left  = "x"
//	  right = "bias"
//	}
//
// `shape = null` declares a scalar operand.
package plan

import (
	"context"
	"fmt"

	"github.com/born-ml/stride/internal/ctxlog"
	"github.com/born-ml/stride/internal/tensor"
)

// Operand is the view metadata of one named array.
type Operand struct {
	Name    string
	Shape   tensor.Shape
	Strides tensor.Strides // nil means row-major
	Offset  int
}

// Broadcast pairs two operands.
type Broadcast struct {
	Name  string
	Left  string
	Right string
}

// Plan is a validated set of operands and broadcasts.
type Plan struct {
	Operands   map[string]*Operand
	Broadcasts []*Broadcast
}

// Result is the outcome of one broadcast.
type Result struct {
	Name         string
	AlignedLeft  tensor.Shape
	AlignedRight tensor.Shape
	Shape        tensor.Shape
	LeftStrides  tensor.Strides
	RightStrides tensor.Strides
	LeftAliased  bool
	RightAliased bool
}

// New builds a plan and checks that every broadcast references known operands.
func New(operands []*Operand, broadcasts []*Broadcast) (*Plan, error) {
	p := &Plan{Operands: make(map[string]*Operand, len(operands))}
	for _, op := range operands {
		if _, dup := p.Operands[op.Name]; dup {
			return nil, fmt.Errorf("operand %q declared more than once", op.Name)
		}
		p.Operands[op.Name] = op
	}
	for _, b := range broadcasts {
		for _, ref := range []string{b.Left, b.Right} {
			if _, ok := p.Operands[ref]; !ok {
				return nil, fmt.Errorf("broadcast %q references unknown operand %q", b.Name, ref)
			}
		}
	}
	p.Broadcasts = broadcasts
	return p, nil
}

// Evaluate runs every broadcast in declaration order and stops at the first
// failure.
func (p *Plan) Evaluate(ctx context.Context) ([]Result, error) {
	logger := ctxlog.FromContext(ctx)
	results := make([]Result, 0, len(p.Broadcasts))

	for _, b := range p.Broadcasts {
		left, right := p.Operands[b.Left], p.Operands[b.Right]
		logger.Debug("Evaluating broadcast.", "name", b.Name, "left", left.Shape.String(), "right", right.Shape.String())

		res, err := evaluate(b.Name, left, right)
		if err != nil {
			return nil, fmt.Errorf("broadcast %q: %w", b.Name, err)
		}
		logger.Debug("Broadcast evaluated.", "name", b.Name, "shape", res.Shape.String())
		results = append(results, res)
	}
	return results, nil
}

func evaluate(name string, left, right *Operand) (Result, error) {
	alignedLeft, alignedRight, err := tensor.BroadcastShapesToMax(left.Shape, right.Shape)
	if err != nil {
		return Result{}, err
	}

	lv, err := left.view()
	if err != nil {
		return Result{}, fmt.Errorf("operand %q: %w", left.Name, err)
	}
	rv, err := right.view()
	if err != nil {
		return Result{}, fmt.Errorf("operand %q: %w", right.Name, err)
	}
	lb, rb, err := tensor.BroadcastViews(lv, rv)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Name:         name,
		AlignedLeft:  alignedLeft,
		AlignedRight: alignedRight,
		Shape:        lb.Shape(),
		LeftStrides:  lb.Strides(),
		RightStrides: rb.Strides(),
		LeftAliased:  lb.IsAliased(),
		RightAliased: rb.IsAliased(),
	}, nil
}

// view builds a metadata-only view. The buffer is a zero-width element slice
// just long enough for the bounds check, so nothing is allocated.
func (op *Operand) view() (tensor.View[struct{}], error) {
	strides := op.Strides
	if strides == nil {
		strides = op.Shape.ComputeStrides()
	}
	if len(strides) != op.Shape.Rank() {
		return tensor.View[struct{}]{}, fmt.Errorf("%w: %d strides for shape %v",
			tensor.ErrInvalidArgument, len(strides), op.Shape)
	}

	hi := op.Offset
	for i, s := range strides {
		if d := op.Shape.Dim(i); d > 0 && s > 0 {
			hi += (d - 1) * s
		}
	}
	return tensor.NewStridedView(make([]struct{}, max(hi+1, 0)), op.Shape, strides, op.Offset)
}
