// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/autograd/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor data types.
// Supported types: float32, int64, uint8.
type DType = tensor.DType

// Element is the constraint for element types that variables may hold.
// Supported types: float32, int64.
type Element = tensor.Element

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
// An empty Shape is a scalar.
type Shape = tensor.Shape

// TensorID identifies a tensor allocation. Clones get a new id.
type TensorID = tensor.TensorID

// Tensor is a dense, row-major tensor of element type T.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3})
//	y := tensor.Ones[float32](tensor.Shape{2, 3})
//	z := tensor.Add(x, y)
type Tensor[T DType] = tensor.Tensor[T]

// AnyTensor is a tensor whose element type is only known at runtime.
type AnyTensor = tensor.AnyTensor

// DataTypeOf returns the DataType for the type parameter T.
func DataTypeOf[T DType]() DataType {
	return tensor.DataTypeOf[T]()
}

// Creation functions

// Zeros creates a tensor filled with zeros. It panics on an invalid shape.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3})
func Zeros[T DType](shape Shape) *Tensor[T] {
	return tensor.Zeros[T](shape)
}

// Ones creates a tensor filled with ones.
func Ones[T DType](shape Shape) *Tensor[T] {
	return tensor.Ones[T](shape)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	x := tensor.Full[float32](tensor.Shape{2, 3}, 3.14)
func Full[T DType](shape Shape, value T) *Tensor[T] {
	return tensor.Full[T](shape, value)
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
//
// Example:
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape)
}

// Scalar creates a rank-0 tensor.
func Scalar[T DType](value T) *Tensor[T] {
	return tensor.Scalar(value)
}

// Element-wise operations

// Add returns a + b.
func Add[T DType](a, b *Tensor[T]) *Tensor[T] {
	return tensor.Add(a, b)
}

// Sub returns a - b.
func Sub[T DType](a, b *Tensor[T]) *Tensor[T] {
	return tensor.Sub(a, b)
}

// Mul returns the element-wise product a * b.
func Mul[T DType](a, b *Tensor[T]) *Tensor[T] {
	return tensor.Mul(a, b)
}

// Scale returns alpha * a.
func Scale[T DType](a *Tensor[T], alpha T) *Tensor[T] {
	return tensor.Scale(a, alpha)
}

// Sum returns the rank-0 sum of every element of a.
func Sum[T DType](a *Tensor[T]) *Tensor[T] {
	return tensor.Sum(a)
}

// Erased tensors

// As returns t as a *Tensor[T] if its element type is T.
func As[T DType](t AnyTensor) (*Tensor[T], bool) {
	return tensor.As[T](t)
}

// CloneAny deep-copies an erased tensor.
func CloneAny(t AnyTensor) AnyTensor {
	return tensor.CloneAny(t)
}
