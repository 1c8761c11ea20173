package functions

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// addFn represents output = a + b.
//
// Backward pass:
//   - grad_a = outputGrad
//   - grad_b = outputGrad
type addFn[T tensor.Element] struct {
	inputs []autodiff.VarKind // [a, b]
}

// Add returns the element-wise sum a + b.
func Add[T tensor.Element](a, b autodiff.Variable[T]) autodiff.Variable[T] {
	fn := &addFn[T]{inputs: []autodiff.VarKind{a, b}}
	return output(fn, tensor.Add(a.DataRef(), b.DataRef()), a, b)
}

// Inputs returns [a, b].
func (fn *addFn[T]) Inputs() []autodiff.VarKind {
	return fn.inputs
}

// Backward passes the output gradient to both inputs unchanged.
func (fn *addFn[T]) Backward(gradOutput tensor.AnyTensor) []tensor.AnyTensor {
	grad := typedGrad[T]("Add", gradOutput)
	return []tensor.AnyTensor{grad, grad}
}

// subFn represents output = a - b.
//
// Backward pass:
//   - grad_a = outputGrad
//   - grad_b = -outputGrad
type subFn[T tensor.Element] struct {
	inputs []autodiff.VarKind // [a, b]
}

// Sub returns the element-wise difference a - b.
func Sub[T tensor.Element](a, b autodiff.Variable[T]) autodiff.Variable[T] {
	fn := &subFn[T]{inputs: []autodiff.VarKind{a, b}}
	return output(fn, tensor.Sub(a.DataRef(), b.DataRef()), a, b)
}

// Inputs returns [a, b].
func (fn *subFn[T]) Inputs() []autodiff.VarKind {
	return fn.inputs
}

// Backward negates the gradient for b.
func (fn *subFn[T]) Backward(gradOutput tensor.AnyTensor) []tensor.AnyTensor {
	grad := typedGrad[T]("Sub", gradOutput)
	return []tensor.AnyTensor{grad, tensor.Scale(grad, -1)}
}
