package functions

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// mulFn represents output = a * b (element-wise).
//
// Backward pass:
//   - grad_a = outputGrad * b
//   - grad_b = outputGrad * a
//
// The input tensors are saved at forward time and dropped by ReleaseSaved.
type mulFn[T tensor.Element] struct {
	inputs   []autodiff.VarKind // [a, b]
	a, b     *tensor.Tensor[T]
	released bool
}

// Mul returns the element-wise product a * b.
func Mul[T tensor.Element](a, b autodiff.Variable[T]) autodiff.Variable[T] {
	fn := &mulFn[T]{
		inputs: []autodiff.VarKind{a, b},
		a:      a.DataRef(),
		b:      b.DataRef(),
	}
	return output(fn, tensor.Mul(fn.a, fn.b), a, b)
}

// Inputs returns [a, b].
func (fn *mulFn[T]) Inputs() []autodiff.VarKind {
	return fn.inputs
}

// Backward computes input gradients from the saved tensors.
func (fn *mulFn[T]) Backward(gradOutput tensor.AnyTensor) []tensor.AnyTensor {
	if fn.released {
		autodiff.Fatalf(autodiff.ErrReleased,
			"Mul: backward through the graph a second time; pass retainVariables to keep saved tensors")
	}
	grad := typedGrad[T]("Mul", gradOutput)
	return []tensor.AnyTensor{tensor.Mul(grad, fn.b), tensor.Mul(grad, fn.a)}
}

// ReleaseSaved drops the tensors saved for backward.
func (fn *mulFn[T]) ReleaseSaved() {
	fn.a, fn.b = nil, nil
	fn.released = true
}

// scaleFn represents output = alpha * a.
type scaleFn[T tensor.Element] struct {
	inputs []autodiff.VarKind // [a]
	alpha  T
}

// Scale returns alpha * a.
func Scale[T tensor.Element](a autodiff.Variable[T], alpha T) autodiff.Variable[T] {
	fn := &scaleFn[T]{inputs: []autodiff.VarKind{a}, alpha: alpha}
	return output(fn, tensor.Scale(a.DataRef(), alpha), a)
}

// Inputs returns [a].
func (fn *scaleFn[T]) Inputs() []autodiff.VarKind {
	return fn.inputs
}

// Backward scales the output gradient by alpha.
func (fn *scaleFn[T]) Backward(gradOutput tensor.AnyTensor) []tensor.AnyTensor {
	grad := typedGrad[T]("Scale", gradOutput)
	return []tensor.AnyTensor{tensor.Scale(grad, fn.alpha)}
}
