package tensor

import (
	"fmt"
	"sync/atomic"
)

// TensorID identifies a tensor allocation for the lifetime of the process.
// Clones and resized tensors get fresh ids; in-place ops keep theirs.
type TensorID int64

var lastTensorID atomic.Int64

func newTensorID() TensorID {
	return TensorID(lastTensorID.Add(1))
}

// Tensor is a dense row-major tensor of element type T.
//
// Example:
//
//	t := tensor.Zeros[float32](tensor.Shape{3, 4})
//	t.Set(2, 1, 2)
type Tensor[T DType] struct {
	id     TensorID
	shape  Shape
	stride []int
	data   []T
}

// newTensor wraps data without copying; len(data) must equal shape.NumElements().
func newTensor[T DType](data []T, shape Shape) *Tensor[T] {
	return &Tensor[T]{
		id:     newTensorID(),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   data,
	}
}

// ID returns the tensor's process-unique id.
func (t *Tensor[T]) ID() TensorID {
	return t.id
}

// Shape returns the tensor's shape.
func (t *Tensor[T]) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's row-major strides.
func (t *Tensor[T]) Strides() []int {
	return t.stride
}

// DType returns the tensor's data type.
func (t *Tensor[T]) DType() DataType {
	return DataTypeOf[T]()
}

// NumElements returns the total number of elements.
func (t *Tensor[T]) NumElements() int {
	return len(t.data)
}

// ByteSize returns the memory used by the elements.
func (t *Tensor[T]) ByteSize() int {
	return len(t.data) * t.DType().Size()
}

// Data returns the flat element slice.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor[T]) Data() []T {
	return t.data
}

// Item returns the single value of a one-element tensor.
func (t *Tensor[T]) Item() T {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("Item() only works for one-element tensors, got shape %v", t.shape))
	}
	return t.data[0]
}

// Index returns the element at flat position idx.
func (t *Tensor[T]) Index(idx int) T {
	if idx < 0 || idx >= len(t.data) {
		panic(fmt.Sprintf("flat index %d out of bounds for %d elements", idx, len(t.data)))
	}
	return t.data[idx]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T]) At(indices ...int) T {
	return t.data[t.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T]) Set(value T, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor[T]) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * t.stride[i]
	}
	return offset
}

// Validate checks the internal consistency of the tensor.
// prefix is prepended to the error message.
func (t *Tensor[T]) Validate(prefix string) error {
	if err := t.shape.Validate(); err != nil {
		return fmt.Errorf("%s%w", prefix, err)
	}
	if len(t.stride) != len(t.shape) {
		return fmt.Errorf("%srank %d has %d strides", prefix, len(t.shape), len(t.stride))
	}
	if n := t.shape.NumElements(); n != len(t.data) {
		return fmt.Errorf("%sshape %v requires %d elements, but holds %d", prefix, t.shape, n, len(t.data))
	}
	return nil
}

// String returns a human-readable representation of the tensor.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor[%s]%v#%d", t.DType(), t.shape, t.id)
}

// Clone creates a deep copy of the tensor with a fresh id.
func (t *Tensor[T]) Clone() *Tensor[T] {
	data := make([]T, len(t.data))
	copy(data, t.data)
	return newTensor(data, t.shape)
}

// Equal reports whether both tensors have the same shape and elements.
func (t *Tensor[T]) Equal(other *Tensor[T]) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i, v := range t.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

func (t *Tensor[T]) sealed() {}
