// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/stride/internal/parallel"
	"github.com/born-ml/stride/internal/tensor"
)

// Type aliases for public API

// Shape is either Scalar or a ranked list of dimensions.
// Example: ShapeOf(2, 3, 4) represents a 3D view with dimensions 2×3×4.
type Shape = tensor.Shape

// Dims is an ordered list of dimension sizes, outermost first.
type Dims = tensor.Dims

// Strides holds the buffer step for each dimension. 0 marks a broadcast
// dimension.
type Strides = tensor.Strides

// View is an immutable strided descriptor over a shared buffer.
//
// Example:
//
//	v, _ := tensor.NewView([]int{1, 2, 3}, tensor.ShapeOf(3))
//	m, _ := v.Broadcast(tensor.ShapeOf(4, 3))
//	m.IsBroadcastDim(0) // true
type View[T any] = tensor.View[T]

// ShapeMismatchError reports the aligned dimension at which two shapes are
// incompatible.
type ShapeMismatchError = tensor.ShapeMismatchError

// ParallelConfig controls how View.Offsets splits its work.
type ParallelConfig = parallel.Config

// Errors.
var (
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrInvalidArgument = tensor.ErrInvalidArgument
	ErrOutOfBounds     = tensor.ErrOutOfBounds
)

// Scalar returns the scalar shape.
func Scalar() Shape {
	return tensor.Scalar()
}

// ShapeOf returns a ranked shape with the given dimensions.
func ShapeOf(dims ...int) Shape {
	return tensor.ShapeOf(dims...)
}

// PadLeft extends s with leading size-1 dimensions up to rank.
func PadLeft(s Shape, rank int) (Shape, error) {
	return tensor.PadLeft(s, rank)
}

// AlignShapes right-aligns two shapes to a common rank.
func AlignShapes(a, b Shape) (Shape, Shape) {
	return tensor.AlignShapes(a, b)
}

// BroadcastShapesToMax returns the rank-aligned, pre-broadcast shapes of two
// operands, or a *ShapeMismatchError.
//
// Example:
//
//	a, b, _ := tensor.BroadcastShapesToMax(tensor.ShapeOf(2, 3), tensor.ShapeOf(3))
//	// a == [2 3], b == [1 3]
func BroadcastShapesToMax(a, b Shape) (Shape, Shape, error) {
	return tensor.BroadcastShapesToMax(a, b)
}

// BroadcastShape returns the shape two operands broadcast to.
func BroadcastShape(a, b Shape) (Shape, error) {
	return tensor.BroadcastShape(a, b)
}

// BroadcastShapes returns the common broadcast shape of any number of operands.
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	return tensor.BroadcastShapes(shapes...)
}

// BroadcastStrides synthesizes strides for an aligned (shape, strides) pair.
func BroadcastStrides(shape Shape, strides Strides, target Shape) (Strides, error) {
	return tensor.BroadcastStrides(shape, strides, target)
}

// CreateBroadcastStrides synthesizes strides that make v read as target.
// v must already have target's rank.
func CreateBroadcastStrides[T any](v View[T], target Shape) (Strides, error) {
	return tensor.CreateBroadcastStrides(v, target)
}

// NewView creates a row-major view over data without copying it.
func NewView[T any](data []T, shape Shape) (View[T], error) {
	return tensor.NewView(data, shape)
}

// NewStridedView creates a view with explicit strides and offset.
func NewStridedView[T any](data []T, shape Shape, strides Strides, offset int) (View[T], error) {
	return tensor.NewStridedView(data, shape, strides, offset)
}

// BroadcastViews broadcasts two views to their common shape.
func BroadcastViews[T any](a, b View[T]) (View[T], View[T], error) {
	return tensor.BroadcastViews(a, b)
}

// DefaultParallelConfig returns View.Offsets defaults based on CPU count.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}
