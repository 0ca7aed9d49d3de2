package tensor

// BroadcastStrides computes the strides that make a view with the given shape
// and strides read as target. The shape must already be aligned to the
// target's rank (see BroadcastShapesToMax).
//
// Returns strides where size-1 dimensions stretched to a larger size have
// stride 0; all other dimensions keep their stride, including a size-1
// dimension collapsed to 0. A Scalar target yields nil strides and no error,
// whatever the shape.
//
// A dimension whose size differs from the target's and is not 1 fails with
// *ShapeMismatchError rather than passing its stride through: such a view
// cannot be stretched to the target.
//
// Example:
//
//	BroadcastStrides(ShapeOf(1, 3), Strides{3, 1}, ShapeOf(2, 3)) → [0 1]
func BroadcastStrides(shape Shape, strides Strides, target Shape) (Strides, error) {
	if target.IsScalar() {
		return nil, nil
	}
	if shape.IsScalar() {
		return nil, invalidArgf("scalar shape must be aligned to %v before stride synthesis", target)
	}
	if shape.Rank() != target.Rank() {
		return nil, invalidArgf("shape %v has rank %d, target %v has rank %d",
			shape, shape.Rank(), target, target.Rank())
	}
	if len(strides) != shape.Rank() {
		return nil, invalidArgf("%d strides for shape %v", len(strides), shape)
	}

	out := make(Strides, target.Rank())
	for i, want := range target.dims {
		have := shape.dims[i]
		switch {
		case have == want:
			out[i] = strides[i]
		case have == 1 && want > 1:
			// Broadcast dimension, stride is 0
			out[i] = 0
		case have == 1 && want == 0:
			out[i] = strides[i]
		default:
			return nil, &ShapeMismatchError{A: shape, B: target, Dim: i, SizeA: have, SizeB: want}
		}
	}
	return out, nil
}

// CreateBroadcastStrides computes the strides that make v read as target.
// v's shape must already have target's rank. See BroadcastStrides.
func CreateBroadcastStrides[T any](v View[T], target Shape) (Strides, error) {
	return BroadcastStrides(v.shape, v.strides, target)
}
