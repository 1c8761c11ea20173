package autodiff

import (
	"github.com/born-ml/autograd/internal/tensor"
)

// Accumulate adds gradOutput into the variable's gradient.
//
// Algorithm:
//  1. Fail with ErrDirty if the variable was modified in place
//  2. Call registered hooks with gradOutput
//  3. Create a zero gradient shaped like the data if none exists yet
//  4. grad += 1 * gradOutput, in place
//
// Gradients are summed rather than replaced, so a variable consumed by several
// functions ends up with the total of every path.
func (v Variable[T]) Accumulate(gradOutput *tensor.Tensor[T]) {
	rec, release := v.borrow()
	defer release()

	if rec.dirty {
		Fatalf(ErrDirty, "%s was modified in place after being used by a function", v)
	}
	if !gradOutput.Shape().Equal(rec.data.Shape()) {
		Fatalf(ErrShapeMismatch, "%s of shape %v received a gradient of shape %v", v, rec.data.Shape(), gradOutput.Shape())
	}
	rec.callHooks(gradOutput)

	if !rec.hasGrad() {
		zeros := tensor.Zeros[T](tensor.Shape{1}).ResizeAs(rec.data).Zero()
		rec.grad = NewVariable(v.arena, zeros, WithRequiresGrad(false))
	}
	rec.grad.Data().AddScaled(1, gradOutput)
}

// Backward computes the gradient of the variable with respect to the leaves of
// its graph, seeding it with ones.
func (v Variable[T]) Backward() {
	v.BackwardWith(nil, false)
}

// BackwardWith computes gradients seeded with gradient, or ones shaped like
// the variable when gradient is nil. With retainVariables false, functions
// may drop the tensors they saved for backward.
func (v Variable[T]) BackwardWith(gradient *tensor.Tensor[T], retainVariables bool) {
	var seed tensor.AnyTensor
	if gradient != nil {
		seed = gradient
	}
	v.arena.Backward([]VarKind{v}, []tensor.AnyTensor{seed}, retainVariables)
}

// TryBackward runs BackwardWith and returns the error it failed with, if any.
// Gradients accumulated before a failure are unspecified.
func (v Variable[T]) TryBackward(gradient *tensor.Tensor[T], retainVariables bool) error {
	return Try(func() { v.BackwardWith(gradient, retainVariables) })
}

// Backward runs one backward pass from several roots. seeds[i] is the gradient
// for roots[i]; a nil entry, typed or not, means ones shaped like the root.
//
// Every root must be differentiable: not volatile and requiring grad.
func (a *Arena) Backward(roots []VarKind, seeds []tensor.AnyTensor, retainVariables bool) {
	if len(roots) != len(seeds) {
		Fatalf(ErrGradientArity, "%d roots with %d seeds", len(roots), len(seeds))
	}
	grads := make([]tensor.AnyTensor, len(roots))
	for i, root := range roots {
		if root.Arena() != a {
			Fatalf(ErrForeignArena, "root %s does not belong to arena %s", root, a.tag)
		}
		if root.IsVolatile() {
			Fatalf(ErrVolatile, "calling backward on volatile %s", root)
		}
		if !root.RequiresGrad() {
			Fatalf(ErrNoGrad, "calling backward on %s, which does not require grad", root)
		}
		switch seed := seeds[i]; {
		case tensor.IsNil(seed):
			grads[i] = root.onesLike()
		case seed.DType() != root.Kind():
			Fatalf(ErrKindMismatch, "%s seed for %s", seed.DType(), root)
		case !seed.Shape().Equal(root.Tensor().Shape()):
			Fatalf(ErrShapeMismatch, "seed of shape %v for %s of shape %v", seed.Shape(), root, root.Tensor().Shape())
		default:
			grads[i] = seed
		}
	}
	a.engine.RunBackward(roots, grads, retainVariables)
}

// TryBackward runs Backward and returns the error it failed with, if any.
func (a *Arena) TryBackward(roots []VarKind, seeds []tensor.AnyTensor, retainVariables bool) error {
	return Try(func() { a.Backward(roots, seeds, retainVariables) })
}
