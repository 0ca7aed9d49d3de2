// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor computes shape and stride metadata for broadcasting
// N-dimensional array views.
//
// # Overview
//
// Broadcasting lets two arrays of different but compatible shapes be combined
// element-wise without copying data. This package provides:
//   - Shape, a tagged value that is either Scalar or a list of dimensions
//   - Shape alignment and NumPy-style compatibility checks
//   - Stride synthesis: stride 0 along every broadcast dimension
//   - View[T], an immutable (shape, strides, offset, buffer) descriptor
//
// No function in this package allocates, copies or writes element data.
//
// # Basic Usage
//
//	import "github.com/born-ml/stride/tensor"
//
//	func main() {
//	    bias, _ := tensor.NewView([]float32{1, 2, 3}, tensor.ShapeOf(3))
//	    x, _ := tensor.NewView(make([]float32, 6), tensor.ShapeOf(2, 3))
//
//	    xb, bb, err := tensor.BroadcastViews(x, bias)
//	    // bb.Strides() == [0 1]: both rows read the same three cells
//	}
//
// # Two-step protocol
//
// The low-level contract mirrors how array libraries build broadcast views:
//
//	aligned, _, _ := tensor.BroadcastShapesToMax(tensor.ShapeOf(3), tensor.ShapeOf(2, 3)) // [1 3]
//	v, _ = v.WithShape(aligned)
//	strides, _ := tensor.CreateBroadcastStrides(v, tensor.ShapeOf(2, 3))               // [0 1]
//
// # Scalars
//
// Scalar() is a first-class shape distinct from the rank-0 ShapeOf(). Both
// broadcasting and stride synthesis short-circuit on it: two scalars align to
// two scalars, and a Scalar target yields nil strides.
//
// # Aliasing
//
// A broadcast view maps many logical indices to one buffer cell. Treat such
// views as read-only; View.IsBroadcastDim and View.IsAliased report it.
//
// # Errors
//
// Incompatible shapes fail with a *ShapeMismatchError (errors.Is
// ErrShapeMismatch). Protocol violations such as synthesizing strides for an
// unaligned view fail with ErrInvalidArgument.
package tensor
