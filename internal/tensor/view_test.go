package tensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustView[T any](t *testing.T, data []T, shape Shape) View[T] {
	t.Helper()
	v, err := NewView(data, shape)
	require.NoError(t, err)
	return v
}

func TestNewView(t *testing.T) {
	v := mustView(t, []float32{1, 2, 3, 4, 5, 6}, ShapeOf(2, 3))
	assert.Equal(t, Strides{3, 1}, v.Strides())
	assert.Equal(t, 0, v.Offset())
	assert.Equal(t, 6, v.NumElements())
	assert.True(t, v.IsContiguous())
	assert.False(t, v.IsAliased())

	x, err := v.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(6), x)

	_, err = NewView([]float32{1, 2}, ShapeOf(3))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewView_SharesBuffer(t *testing.T) {
	data := []int{1, 2, 3}
	v := mustView(t, data, ShapeOf(3))
	data[1] = 42

	x, err := v.At(1)
	require.NoError(t, err)
	assert.Equal(t, 42, x)
}

func TestNewView_Scalar(t *testing.T) {
	v := mustView(t, []float64{3.5}, Scalar())
	assert.Nil(t, v.Strides())
	assert.Equal(t, 0, v.Rank())

	x, err := v.At()
	require.NoError(t, err)
	assert.Equal(t, 3.5, x)
}

func TestNewStridedView(t *testing.T) {
	data := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	t.Run("column of a matrix", func(t *testing.T) {
		// Column 1 of a 5x2 row-major matrix.
		v, err := NewStridedView(data, ShapeOf(5), Strides{2}, 1)
		require.NoError(t, err)
		assert.False(t, v.IsContiguous())
		assert.Equal(t, []int{1, 3, 5, 7, 9}, gather(t, v))
	})

	t.Run("negative stride", func(t *testing.T) {
		v, err := NewStridedView(data, ShapeOf(3), Strides{-1}, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1, 0}, gather(t, v))
	})

	t.Run("reaches past the buffer", func(t *testing.T) {
		_, err := NewStridedView(data, ShapeOf(6), Strides{2}, 0)
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})

	t.Run("reaches before the buffer", func(t *testing.T) {
		_, err := NewStridedView(data, ShapeOf(3), Strides{-1}, 1)
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})

	t.Run("stride count must match rank", func(t *testing.T) {
		_, err := NewStridedView(data, ShapeOf(2, 5), Strides{1}, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("scalar takes no strides", func(t *testing.T) {
		_, err := NewStridedView(data, Scalar(), Strides{1}, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		v, err := NewStridedView(data, Scalar(), nil, 9)
		require.NoError(t, err)
		x, err := v.At()
		require.NoError(t, err)
		assert.Equal(t, 9, x)
	})

	t.Run("empty view", func(t *testing.T) {
		v, err := NewStridedView(data, ShapeOf(0, 4), Strides{4, 1}, 10)
		require.NoError(t, err)
		assert.Empty(t, gather(t, v))
	})
}

func TestView_Index(t *testing.T) {
	v := mustView(t, make([]int, 6), ShapeOf(2, 3))

	off, err := v.Index(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, off)

	_, err = v.Index(2, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = v.Index(1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestView_ZeroValue(t *testing.T) {
	var v View[float32]
	assert.True(t, v.Shape().IsScalar())
	assert.Equal(t, 1, v.NumElements())

	_, err := v.Index()
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = v.At()
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = v.Broadcast(ShapeOf(2))
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestView_BroadcastToEmpty(t *testing.T) {
	v := mustView(t, []int{4}, ShapeOf(1))
	e, err := v.Broadcast(ShapeOf(0))
	require.NoError(t, err)
	assert.Equal(t, Strides{1}, e.Strides())
	assert.False(t, e.IsAliased())
	assert.Empty(t, gather(t, e))
}

func TestView_WithShape(t *testing.T) {
	t.Run("contiguous view gets row-major strides", func(t *testing.T) {
		v := mustView(t, make([]int, 6), ShapeOf(6))
		r, err := v.WithShape(ShapeOf(2, 3))
		require.NoError(t, err)
		assert.Equal(t, Strides{3, 1}, r.Strides())
		assert.True(t, r.Shape().Equal(ShapeOf(2, 3)))
	})

	t.Run("element count must match", func(t *testing.T) {
		v := mustView(t, make([]int, 6), ShapeOf(6))
		_, err := v.WithShape(ShapeOf(2, 2))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("non-contiguous view gains leading ones", func(t *testing.T) {
		data := make([]int, 10)
		v, err := NewStridedView(data, ShapeOf(5), Strides{2}, 0)
		require.NoError(t, err)

		r, err := v.WithShape(ShapeOf(1, 1, 5))
		require.NoError(t, err)
		assert.Equal(t, Strides{0, 0, 2}, r.Strides())
	})

	t.Run("non-contiguous view cannot be reflowed", func(t *testing.T) {
		data := make([]int, 12)
		v, err := NewStridedView(data, ShapeOf(3, 2), Strides{1, 3}, 0)
		require.NoError(t, err)

		_, err = v.WithShape(ShapeOf(2, 3))
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = v.WithShape(ShapeOf(2, 1, 3))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("scalar round trip", func(t *testing.T) {
		v := mustView(t, []int{7}, Scalar())
		r, err := v.WithShape(ShapeOf(1, 1))
		require.NoError(t, err)
		assert.Equal(t, Strides{1, 1}, r.Strides())

		back, err := r.WithShape(Scalar())
		require.NoError(t, err)
		assert.True(t, back.Shape().IsScalar())
		assert.Nil(t, back.Strides())
	})

	t.Run("does not modify the receiver", func(t *testing.T) {
		v := mustView(t, make([]int, 3), ShapeOf(3))
		_, err := v.WithShape(ShapeOf(1, 3))
		require.NoError(t, err)
		assert.True(t, v.Shape().Equal(ShapeOf(3)))
		assert.Equal(t, Strides{1}, v.Strides())
	})
}

func TestView_Broadcast(t *testing.T) {
	row := mustView(t, []int{1, 2, 3}, ShapeOf(3))

	t.Run("row to matrix", func(t *testing.T) {
		m, err := row.Broadcast(ShapeOf(2, 3))
		require.NoError(t, err)
		assert.Equal(t, Strides{0, 1}, m.Strides())
		assert.True(t, m.IsBroadcastDim(0))
		assert.False(t, m.IsBroadcastDim(1))
		assert.True(t, m.IsAliased())
		assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, gather(t, m))
		assert.Equal(t, 3, len(m.Data()), "broadcast must not grow the buffer")
	})

	t.Run("column to matrix", func(t *testing.T) {
		col := mustView(t, []int{10, 20}, ShapeOf(2, 1))
		m, err := col.Broadcast(ShapeOf(2, 3))
		require.NoError(t, err)
		assert.Equal(t, Strides{1, 0}, m.Strides())
		assert.Equal(t, []int{10, 10, 10, 20, 20, 20}, gather(t, m))
	})

	t.Run("scalar to matrix", func(t *testing.T) {
		s := mustView(t, []int{5}, Scalar())
		m, err := s.Broadcast(ShapeOf(2, 2))
		require.NoError(t, err)
		assert.Equal(t, Strides{0, 0}, m.Strides())
		assert.Equal(t, []int{5, 5, 5, 5}, gather(t, m))
	})

	t.Run("scalar to scalar", func(t *testing.T) {
		s := mustView(t, []int{5}, Scalar())
		m, err := s.Broadcast(Scalar())
		require.NoError(t, err)
		assert.True(t, m.Shape().IsScalar())
	})

	t.Run("ranked to scalar", func(t *testing.T) {
		_, err := row.Broadcast(Scalar())
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("lower rank target", func(t *testing.T) {
		m := mustView(t, make([]int, 6), ShapeOf(2, 3))
		_, err := m.Broadcast(ShapeOf(3))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("incompatible target", func(t *testing.T) {
		_, err := row.Broadcast(ShapeOf(2, 4))
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("cannot shrink to one", func(t *testing.T) {
		_, err := row.Broadcast(ShapeOf(2, 1))
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("keeps offset and existing strides", func(t *testing.T) {
		data := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		col, err := NewStridedView(data, ShapeOf(5), Strides{2}, 1)
		require.NoError(t, err)

		m, err := col.Broadcast(ShapeOf(2, 5))
		require.NoError(t, err)
		assert.Equal(t, Strides{0, 2}, m.Strides())
		assert.Equal(t, 1, m.Offset())
		assert.Equal(t, []int{1, 3, 5, 7, 9, 1, 3, 5, 7, 9}, gather(t, m))
	})
}

func TestBroadcastViews(t *testing.T) {
	col := mustView(t, []int{10, 20, 30}, ShapeOf(3, 1))
	row := mustView(t, []int{1, 2, 3, 4}, ShapeOf(4))

	a, b, err := BroadcastViews(col, row)
	require.NoError(t, err)
	assert.True(t, a.Shape().Equal(ShapeOf(3, 4)))
	assert.True(t, b.Shape().Equal(ShapeOf(3, 4)))
	assert.Equal(t, Strides{1, 0}, a.Strides())
	assert.Equal(t, Strides{0, 1}, b.Strides())

	x, err := a.At(2, 3)
	require.NoError(t, err)
	y, err := b.At(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 30, x)
	assert.Equal(t, 4, y)

	_, _, err = BroadcastViews(row, mustView(t, make([]int, 3), ShapeOf(3)))
	var mismatch *ShapeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 0, mismatch.Dim)
}

func TestBroadcastViews_Self(t *testing.T) {
	v := mustView(t, make([]int, 6), ShapeOf(2, 3))
	a, b, err := BroadcastViews(v, v)
	require.NoError(t, err)
	assert.Equal(t, v.Strides(), a.Strides())
	assert.Equal(t, v.Strides(), b.Strides())
	assert.False(t, a.IsAliased())
}

// gather reads every element of v in row-major order.
func gather[T any](t *testing.T, v View[T]) []T {
	t.Helper()
	data := v.Data()
	offsets, err := v.Offsets(parallelOff)
	require.NoError(t, err)
	out := make([]T, len(offsets))
	for i, off := range offsets {
		out[i] = data[off]
	}
	return out
}
