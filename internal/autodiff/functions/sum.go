package functions

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// sumFn represents output = sum(a), a rank-0 tensor.
//
// Backward pass: every element of a receives the scalar output gradient.
type sumFn[T tensor.Element] struct {
	inputs []autodiff.VarKind // [a]
	shape  tensor.Shape       // shape of a
}

// Sum reduces a to the scalar sum of its elements.
func Sum[T tensor.Element](a autodiff.Variable[T]) autodiff.Variable[T] {
	data := a.DataRef()
	fn := &sumFn[T]{inputs: []autodiff.VarKind{a}, shape: data.Shape().Clone()}
	return output(fn, tensor.Sum(data), a)
}

// Inputs returns [a].
func (fn *sumFn[T]) Inputs() []autodiff.VarKind {
	return fn.inputs
}

// Backward broadcasts the scalar gradient to the input shape.
func (fn *sumFn[T]) Backward(gradOutput tensor.AnyTensor) []tensor.AnyTensor {
	grad := typedGrad[T]("Sum", gradOutput)
	return []tensor.AnyTensor{tensor.Full[T](fn.shape, grad.Item())}
}
