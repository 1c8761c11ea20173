// Package functions provides differentiable operations over autodiff variables.
//
// Each operation computes its result eagerly and, when any input requires
// grad, records itself as the creator of the output variable:
//   - Add: element-wise addition (d(a+b)/da = 1, d(a+b)/db = 1)
//   - Sub: element-wise subtraction (d(a-b)/db = -1)
//   - Mul: element-wise multiplication (d(a*b)/da = b, d(a*b)/db = a)
//   - Scale: multiplication by a constant (d(k*a)/da = k)
//   - Sum: reduction to a scalar (d(sum(a))/da = 1)
package functions

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// output wraps data as the result of fn applied to inputs.
//
// The result is volatile if any input is volatile. Otherwise it requires grad,
// and records fn as its creator, if any input requires grad.
func output[T tensor.Element](fn autodiff.Function, data *tensor.Tensor[T], inputs ...autodiff.VarKind) autodiff.Variable[T] {
	arena := inputs[0].Arena()
	volatile, requiresGrad := false, false
	for _, in := range inputs {
		if in.Arena() != arena {
			autodiff.Fatalf(autodiff.ErrForeignArena, "inputs %s and %s", inputs[0], in)
		}
		volatile = volatile || in.IsVolatile()
		requiresGrad = requiresGrad || in.RequiresGrad()
	}
	if volatile || !requiresGrad {
		return autodiff.NewVariable(arena, data,
			autodiff.WithVolatile(volatile), autodiff.WithRequiresGrad(false))
	}
	return autodiff.NewVariable(arena, data, autodiff.WithCreator(fn))
}

// typedGrad converts the erased output gradient received by a function.
func typedGrad[T tensor.Element](op string, gradOutput tensor.AnyTensor) *tensor.Tensor[T] {
	grad, ok := tensor.As[T](gradOutput)
	if !ok {
		autodiff.Fatalf(autodiff.ErrKindMismatch, "%s: %s gradient for a %s output",
			op, gradOutput.DType(), tensor.DataTypeOf[T]())
	}
	return grad
}
