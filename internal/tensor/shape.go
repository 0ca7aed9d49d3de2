package tensor

import (
	"fmt"
	"strings"
)

// Dims is an ordered list of dimension sizes, outermost first.
type Dims []int

// Strides holds the buffer step for each dimension of a shape.
// A stride of 0 marks a broadcast dimension: every index along it reads the
// same cells.
type Strides []int

// Shape is either the scalar marker or a ranked list of dimensions.
//
// The zero value is Scalar. A rank-0 ranked shape (ShapeOf()) is a distinct
// value from Scalar, although both describe a single element.
type Shape struct {
	dims   Dims
	ranked bool
}

// Scalar returns the scalar shape.
func Scalar() Shape {
	return Shape{}
}

// ShapeOf returns a ranked shape with the given dimensions.
// The dims are copied.
func ShapeOf(dims ...int) Shape {
	d := make(Dims, len(dims))
	copy(d, dims)
	return Shape{dims: d, ranked: true}
}

// IsScalar reports whether s is the scalar marker.
func (s Shape) IsScalar() bool {
	return !s.ranked
}

// Rank returns the number of dimensions. Scalar has rank 0.
func (s Shape) Rank() int {
	return len(s.dims)
}

// Dims returns a copy of the dimensions, or nil for Scalar.
func (s Shape) Dims() Dims {
	if !s.ranked {
		return nil
	}
	d := make(Dims, len(s.dims))
	copy(d, s.dims)
	return d
}

// Dim returns the size of dimension i.
// Panics if i is out of range.
func (s Shape) Dim(i int) int {
	return s.dims[i]
}

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s.dims {
		n *= dim
	}
	return n
}

// Validate checks that no dimension is negative.
func (s Shape) Validate() error {
	for i, dim := range s.dims {
		if dim < 0 {
			return invalidArgf("dimension %d of %v is negative (%d)", i, s, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal. Scalar only equals Scalar.
func (s Shape) Equal(other Shape) bool {
	if s.ranked != other.ranked || len(s.dims) != len(other.dims) {
		return false
	}
	for i := range s.dims {
		if s.dims[i] != other.dims[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if !s.ranked {
		return Scalar()
	}
	return ShapeOf(s.dims...)
}

// ComputeStrides calculates row-major strides for the shape.
// stride[i] = product of all dimensions after i. Scalar has no strides.
func (s Shape) ComputeStrides() Strides {
	if !s.ranked {
		return nil
	}
	strides := make(Strides, len(s.dims))
	if len(s.dims) == 0 {
		return strides
	}

	strides[len(s.dims)-1] = 1
	for i := len(s.dims) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s.dims[i+1]
	}
	return strides
}

// String formats the shape as "scalar" or "[d0 d1 ...]".
func (s Shape) String() string {
	if !s.ranked {
		return "scalar"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, d := range s.dims {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, d)
	}
	b.WriteByte(']')
	return b.String()
}

// PadLeft returns s extended with leading size-1 dimensions up to rank.
// Scalar is returned unchanged.
func PadLeft(s Shape, rank int) (Shape, error) {
	if !s.ranked {
		return s, nil
	}
	if rank < len(s.dims) {
		return Shape{}, invalidArgf("cannot pad %v down to rank %d", s, rank)
	}
	d := make(Dims, rank)
	pad := rank - len(s.dims)
	for i := 0; i < pad; i++ {
		d[i] = 1
	}
	copy(d[pad:], s.dims)
	return Shape{dims: d, ranked: true}, nil
}

// maxInt returns the maximum of two integers.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
