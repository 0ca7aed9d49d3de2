package tensor

import "fmt"

// View describes a strided traversal over a shared buffer.
//
// A View never owns or copies its data: every transformation returns a new
// View over the same slice. Views produced by broadcasting carry zero strides,
// so several logical indices map to the same cell. Writing through such a
// view (or through its Data slice while another goroutine reads it) aliases;
// treat broadcast views as read-only. Use IsBroadcastDim or IsAliased to
// detect them.
type View[T any] struct {
	data    []T
	shape   Shape
	strides Strides
	offset  int
}

// NewView creates a row-major view over data.
// len(data) must equal shape.NumElements(). The slice is not copied.
//
// Example:
//
//	v, _ := tensor.NewView([]float32{1, 2, 3, 4, 5, 6}, tensor.ShapeOf(2, 3))
//	x, _ := v.At(1, 2) // 6
func NewView[T any](data []T, shape Shape) (View[T], error) {
	if err := shape.Validate(); err != nil {
		return View[T]{}, err
	}
	if shape.NumElements() != len(data) {
		return View[T]{}, invalidArgf("shape %v requires %d elements, but got %d",
			shape, shape.NumElements(), len(data))
	}
	return View[T]{
		data:    data,
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
	}, nil
}

// NewStridedView creates a view with explicit strides and offset.
// Every offset the view can reach must lie inside data.
func NewStridedView[T any](data []T, shape Shape, strides Strides, offset int) (View[T], error) {
	if err := shape.Validate(); err != nil {
		return View[T]{}, err
	}
	v := View[T]{data: data, shape: shape.Clone(), offset: offset}
	if shape.IsScalar() {
		if len(strides) != 0 {
			return View[T]{}, invalidArgf("scalar view takes no strides, got %v", strides)
		}
	} else {
		if len(strides) != shape.Rank() {
			return View[T]{}, invalidArgf("%d strides for shape %v", len(strides), shape)
		}
		v.strides = make(Strides, len(strides))
		copy(v.strides, strides)
	}
	if v.NumElements() == 0 {
		if offset < 0 || offset > len(data) {
			return View[T]{}, fmt.Errorf("%w: offset %d outside buffer of %d", ErrOutOfBounds, offset, len(data))
		}
		return v, nil
	}

	lo, hi := v.extent()
	if lo < 0 || hi >= len(data) {
		return View[T]{}, fmt.Errorf("%w: view %v strides %v offset %d reaches [%d, %d], buffer has %d",
			ErrOutOfBounds, shape, strides, offset, lo, hi, len(data))
	}
	return v, nil
}

// extent returns the lowest and highest buffer offsets the view can reach.
// Only meaningful for a non-empty view.
func (v View[T]) extent() (lo, hi int) {
	lo, hi = v.offset, v.offset
	for i, dim := range v.shape.dims {
		span := (dim - 1) * v.strides[i]
		if span < 0 {
			lo += span
		} else {
			hi += span
		}
	}
	return lo, hi
}

// checkBuffer fails with ErrOutOfBounds when the view can reach past its
// buffer. Views from the constructors always pass; the zero View does not.
func (v View[T]) checkBuffer() error {
	if v.NumElements() == 0 {
		return nil
	}
	lo, hi := v.extent()
	if lo < 0 || hi >= len(v.data) {
		return fmt.Errorf("%w: view %v reaches [%d, %d], buffer has %d",
			ErrOutOfBounds, v.shape, lo, hi, len(v.data))
	}
	return nil
}

// Shape returns the view's shape.
func (v View[T]) Shape() Shape {
	return v.shape.Clone()
}

// Strides returns a copy of the view's strides, or nil for a scalar view.
func (v View[T]) Strides() Strides {
	if v.strides == nil {
		return nil
	}
	out := make(Strides, len(v.strides))
	copy(out, v.strides)
	return out
}

// Offset returns the buffer offset of the first element.
func (v View[T]) Offset() int {
	return v.offset
}

// Data returns the shared buffer.
//
// WARNING: Modifications to the returned slice are visible through every view
// over it.
func (v View[T]) Data() []T {
	return v.data
}

// Rank returns the number of dimensions.
func (v View[T]) Rank() int {
	return v.shape.Rank()
}

// NumElements returns the number of logical elements.
func (v View[T]) NumElements() int {
	return v.shape.NumElements()
}

// IsContiguous reports whether the view walks its buffer in row-major order
// without gaps. Size-1 dimensions may carry any stride.
func (v View[T]) IsContiguous() bool {
	want := v.shape.ComputeStrides()
	for i, dim := range v.shape.dims {
		if dim != 1 && v.strides[i] != want[i] {
			return false
		}
	}
	return true
}

// IsBroadcastDim reports whether dimension i repeats a single slice of the
// buffer: its size is greater than 1 and its stride is 0.
func (v View[T]) IsBroadcastDim(i int) bool {
	if i < 0 || i >= v.shape.Rank() {
		return false
	}
	return v.shape.dims[i] > 1 && v.strides[i] == 0
}

// IsAliased reports whether any dimension is broadcast, i.e. whether distinct
// logical indices share buffer cells.
func (v View[T]) IsAliased() bool {
	for i := range v.shape.dims {
		if v.IsBroadcastDim(i) {
			return true
		}
	}
	return false
}

// Index returns the buffer offset of the element at the given indices.
func (v View[T]) Index(indices ...int) (int, error) {
	if len(indices) != v.shape.Rank() {
		return 0, invalidArgf("expected %d indices, got %d", v.shape.Rank(), len(indices))
	}
	offset := v.offset
	for i, idx := range indices {
		if idx < 0 || idx >= v.shape.dims[i] {
			return 0, fmt.Errorf("%w: index %d for dimension %d (size %d)",
				ErrOutOfBounds, idx, i, v.shape.dims[i])
		}
		offset += idx * v.strides[i]
	}
	if offset < 0 || offset >= len(v.data) {
		return 0, fmt.Errorf("%w: offset %d outside buffer of %d", ErrOutOfBounds, offset, len(v.data))
	}
	return offset, nil
}

// At returns the element at the given indices.
func (v View[T]) At(indices ...int) (T, error) {
	offset, err := v.Index(indices...)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.data[offset], nil
}

// WithShape returns a view of the same elements under a new shape.
//
// A contiguous view takes row-major strides for the new shape. Any other view
// may only gain leading size-1 dimensions, which get stride 0.
func (v View[T]) WithShape(shape Shape) (View[T], error) {
	if err := shape.Validate(); err != nil {
		return View[T]{}, err
	}
	if shape.NumElements() != v.NumElements() {
		return View[T]{}, invalidArgf("cannot view %d elements as %v", v.NumElements(), shape)
	}

	out := View[T]{data: v.data, shape: shape.Clone(), offset: v.offset}
	switch {
	case shape.IsScalar():
	case v.IsContiguous():
		out.strides = shape.ComputeStrides()
	default:
		pad := shape.Rank() - v.Rank()
		if pad < 0 {
			return View[T]{}, invalidArgf("cannot reshape non-contiguous view %v to %v", v.shape, shape)
		}
		for i := 0; i < pad; i++ {
			if shape.dims[i] != 1 {
				return View[T]{}, invalidArgf("cannot reshape non-contiguous view %v to %v", v.shape, shape)
			}
		}
		for i, dim := range v.shape.dims {
			if shape.dims[pad+i] != dim {
				return View[T]{}, invalidArgf("cannot reshape non-contiguous view %v to %v", v.shape, shape)
			}
		}
		out.strides = v.padStrides(pad)
	}
	return out, nil
}

// Broadcast returns a view that reads as target, repeating size-1 and missing
// leading dimensions with stride 0. A scalar view broadcasts to any shape.
//
// Example:
//
//	row, _ := tensor.NewView([]float32{1, 2, 3}, tensor.ShapeOf(3))
//	m, _ := row.Broadcast(tensor.ShapeOf(2, 3)) // strides [0 1]
func (v View[T]) Broadcast(target Shape) (View[T], error) {
	if err := target.Validate(); err != nil {
		return View[T]{}, err
	}
	if err := v.checkBuffer(); err != nil {
		return View[T]{}, err
	}
	if target.IsScalar() {
		if !v.shape.IsScalar() {
			return View[T]{}, invalidArgf("cannot broadcast %v to scalar", v.shape)
		}
		return v, nil
	}
	if v.shape.IsScalar() {
		return View[T]{
			data:    v.data,
			shape:   target.Clone(),
			strides: make(Strides, target.Rank()),
			offset:  v.offset,
		}, nil
	}
	if v.Rank() > target.Rank() {
		return View[T]{}, invalidArgf("cannot broadcast %v to lower rank %v", v.shape, target)
	}

	aligned, err := PadLeft(v.shape, target.Rank())
	if err != nil {
		return View[T]{}, err
	}
	strides, err := BroadcastStrides(aligned, v.padStrides(target.Rank()-v.Rank()), target)
	if err != nil {
		return View[T]{}, err
	}
	return View[T]{data: v.data, shape: target.Clone(), strides: strides, offset: v.offset}, nil
}

// BroadcastViews broadcasts two views to their common shape.
func BroadcastViews[T any](a, b View[T]) (View[T], View[T], error) {
	target, err := BroadcastShape(a.shape, b.shape)
	if err != nil {
		return View[T]{}, View[T]{}, err
	}
	ba, err := a.Broadcast(target)
	if err != nil {
		return View[T]{}, View[T]{}, fmt.Errorf("left operand: %w", err)
	}
	bb, err := b.Broadcast(target)
	if err != nil {
		return View[T]{}, View[T]{}, fmt.Errorf("right operand: %w", err)
	}
	return ba, bb, nil
}

// padStrides returns the strides with pad leading zeros.
func (v View[T]) padStrides(pad int) Strides {
	out := make(Strides, pad+len(v.strides))
	copy(out[pad:], v.strides)
	return out
}

// String returns a human-readable description of the view.
func (v View[T]) String() string {
	return fmt.Sprintf("View%v strides=%v offset=%d", v.shape, v.strides, v.offset)
}
