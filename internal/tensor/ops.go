package tensor

import (
	"fmt"

	"github.com/born-ml/autograd/internal/parallel"
	"gonum.org/v1/gonum/blas/blas32"
)

// kernelConfig controls range splitting for the element-wise kernels.
var kernelConfig = parallel.DefaultConfig()

func vec32(data []float32) blas32.Vector {
	return blas32.Vector{N: len(data), Inc: 1, Data: data}
}

func mustMatch(op string, a, b Shape) {
	if !a.Equal(b) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a, b))
	}
}

// elementwise writes f(a[i], b[i]) into dst[i].
func elementwise[T DType](dst, a, b []T, f func(x, y T) T) {
	parallel.Ranges(len(dst), kernelConfig, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(a[i], b[i])
		}
	})
}

// AddScaled computes t += alpha * other in place and returns t.
func (t *Tensor[T]) AddScaled(alpha T, other *Tensor[T]) *Tensor[T] {
	mustMatch("AddScaled", t.shape, other.shape)
	if dst, ok := any(t.data).([]float32); ok {
		blas32.Axpy(any(alpha).(float32), vec32(any(other.data).([]float32)), vec32(dst))
		return t
	}
	elementwise(t.data, t.data, other.data, func(x, y T) T { return x + alpha*y })
	return t
}

// ScaleInPlace computes t *= alpha in place and returns t.
func (t *Tensor[T]) ScaleInPlace(alpha T) *Tensor[T] {
	if dst, ok := any(t.data).([]float32); ok {
		blas32.Scal(any(alpha).(float32), vec32(dst))
		return t
	}
	elementwise(t.data, t.data, t.data, func(x, _ T) T { return alpha * x })
	return t
}

// Add returns a + b as a new tensor.
func Add[T DType](a, b *Tensor[T]) *Tensor[T] {
	mustMatch("Add", a.shape, b.shape)
	return a.Clone().AddScaled(1, b)
}

// Sub returns a - b as a new tensor.
func Sub[T DType](a, b *Tensor[T]) *Tensor[T] {
	mustMatch("Sub", a.shape, b.shape)
	out := Zeros[T](a.shape)
	elementwise(out.data, a.data, b.data, func(x, y T) T { return x - y })
	return out
}

// Mul returns the element-wise product a * b as a new tensor.
func Mul[T DType](a, b *Tensor[T]) *Tensor[T] {
	mustMatch("Mul", a.shape, b.shape)
	out := Zeros[T](a.shape)
	elementwise(out.data, a.data, b.data, func(x, y T) T { return x * y })
	return out
}

// Scale returns alpha * a as a new tensor.
func Scale[T DType](a *Tensor[T], alpha T) *Tensor[T] {
	return a.Clone().ScaleInPlace(alpha)
}

// Sum returns the sum of all elements as a rank-0 tensor.
func Sum[T DType](a *Tensor[T]) *Tensor[T] {
	var total T
	for _, v := range a.data {
		total += v
	}
	return Scalar(total)
}
