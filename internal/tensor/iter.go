package tensor

import "github.com/born-ml/stride/internal/parallel"

// Offsets returns the buffer offset of every logical element of v, in
// row-major order of its indices. Broadcast dimensions repeat offsets.
//
// Large views are decoded in parallel according to cfg. Fails with
// ErrOutOfBounds if the view reaches past its buffer (e.g. the zero View).
func (v View[T]) Offsets(cfg parallel.Config) ([]int, error) {
	if err := v.checkBuffer(); err != nil {
		return nil, err
	}
	n := v.NumElements()
	out := make([]int, n)
	if n == 0 {
		return out, nil
	}

	outStrides := v.shape.ComputeStrides()
	parallel.For(n, func(i int) {
		out[i] = v.offset + computeFlatIndex(i, outStrides, v.strides)
	}, cfg)
	return out, nil
}

// computeFlatIndex maps a linear row-major index to a buffer offset.
// outStrides: row-major strides of the logical shape.
// inStrides: the view's (possibly broadcast) strides.
func computeFlatIndex(outIdx int, outStrides, inStrides Strides) int {
	flatIdx := 0
	for i := range outStrides {
		// Extract coordinate along dimension i
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]

		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}
