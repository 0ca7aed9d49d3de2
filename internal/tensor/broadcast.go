package tensor

import "fmt"

// AlignShapes right-aligns two shapes by left-padding the lower-rank one with
// size-1 dimensions. Scalars are returned unchanged.
//
// Example:
//
//	AlignShapes(ShapeOf(5, 1, 3), ShapeOf(3)) → [5 1 3], [1 1 3]
func AlignShapes(a, b Shape) (Shape, Shape) {
	if a.IsScalar() || b.IsScalar() {
		return a.Clone(), b.Clone()
	}
	rank := maxInt(a.Rank(), b.Rank())
	// Neither call can fail: rank is at least each input's rank.
	pa, _ := PadLeft(a, rank)
	pb, _ := PadLeft(b, rank)
	return pa, pb
}

// BroadcastShapesToMax aligns two shapes to a common rank and checks that they
// can be broadcast against each other.
//
// It returns the rank-aligned, pre-broadcast shape of each operand: each input
// left-padded with 1s. Each operand view still addresses only its own buffer,
// so the merged shape is not returned here; see BroadcastShape.
//
// When exactly one side is Scalar there is nothing to broadcast and both
// results are the ranked side's shape. When both are Scalar the result is
// (Scalar, Scalar).
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Examples:
//
//	[2 3] + [3]   → [2 3], [1 3], nil
//	[5 1 3] + [3] → [5 1 3], [1 1 3], nil
//	[2 3] + [2 4] → *ShapeMismatchError (dimension 1: 3 vs 4)
func BroadcastShapesToMax(a, b Shape) (Shape, Shape, error) {
	switch {
	case a.IsScalar() && b.IsScalar():
		return Scalar(), Scalar(), nil
	case a.IsScalar():
		return b.Clone(), b.Clone(), nil
	case b.IsScalar():
		return a.Clone(), a.Clone(), nil
	}

	pa, pb := AlignShapes(a, b)
	for i := 0; i < pa.Rank(); i++ {
		if _, ok := broadcastDim(pa.dims[i], pb.dims[i]); !ok {
			return Shape{}, Shape{}, &ShapeMismatchError{
				A: a, B: b, Dim: i, SizeA: pa.dims[i], SizeB: pb.dims[i],
			}
		}
	}
	return pa, pb, nil
}

// BroadcastShape returns the shape two operands broadcast to.
//
// Scalar against any shape yields that shape.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5)
//	(1, 5) + (3, 5) → (3, 5)
//	(3, 4) + (3, 5) → Error
func BroadcastShape(a, b Shape) (Shape, error) {
	pa, pb, err := BroadcastShapesToMax(a, b)
	if err != nil {
		return Shape{}, err
	}
	if pa.IsScalar() {
		return pa, nil
	}
	out := make(Dims, pa.Rank())
	for i := range out {
		out[i], _ = broadcastDim(pa.dims[i], pb.dims[i])
	}
	return Shape{dims: out, ranked: true}, nil
}

// BroadcastShapes returns the common broadcast shape of any number of
// operands. With no operands the result is Scalar.
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	out := Scalar()
	for i, s := range shapes {
		next, err := BroadcastShape(out, s)
		if err != nil {
			return Shape{}, fmt.Errorf("operand %d: %w", i, err)
		}
		out = next
	}
	return out, nil
}

// broadcastDim merges two aligned dimension sizes. A size of 1 yields the
// other size, so 1 against 0 broadcasts to 0.
func broadcastDim(a, b int) (int, bool) {
	switch {
	case a == b:
		return a, true
	case a == 1:
		return b, true
	case b == 1:
		return a, true
	default:
		return 0, false
	}
}
