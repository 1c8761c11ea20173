package tensor

import "fmt"

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t := tensor.Zeros[float32](Shape{3, 4})
func Zeros[T DType](shape Shape) *Tensor[T] {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("Zeros: invalid shape: %v", err))
	}
	return newTensor(make([]T, shape.NumElements()), shape)
}

// Ones creates a tensor filled with ones.
func Ones[T DType](shape Shape) *Tensor[T] {
	return Full[T](shape, 1)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{3, 3}, 3.14)
func Full[T DType](shape Shape, value T) *Tensor[T] {
	t := Zeros[T](shape)
	t.Fill(value)
	return t
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	owned := make([]T, len(data))
	copy(owned, data)
	return newTensor(owned, shape), nil
}

// Scalar creates a rank-0 tensor holding value.
func Scalar[T DType](value T) *Tensor[T] {
	return newTensor([]T{value}, Shape{})
}

// NewLike creates a new tensor shaped like t, filled with value.
func (t *Tensor[T]) NewLike(value T) *Tensor[T] {
	return Full[T](t.shape, value)
}

// ResizeAs reshapes t in place to other's shape. Elements that fit are kept and
// new elements are zero. The tensor keeps its id.
func (t *Tensor[T]) ResizeAs(other AnyTensor) *Tensor[T] {
	shape := other.Shape()
	n := shape.NumElements()
	if n <= cap(t.data) {
		old := len(t.data)
		t.data = t.data[:n]
		for i := old; i < n; i++ {
			var zero T
			t.data[i] = zero
		}
	} else {
		data := make([]T, n)
		copy(data, t.data)
		t.data = data
	}
	t.shape = shape.Clone()
	t.stride = shape.ComputeStrides()
	return t
}

// Zero fills t with zeros in place.
func (t *Tensor[T]) Zero() *Tensor[T] {
	clear(t.data)
	return t
}

// Fill sets every element of t to value in place.
func (t *Tensor[T]) Fill(value T) *Tensor[T] {
	for i := range t.data {
		t.data[i] = value
	}
	return t
}
