package autodiff

import "github.com/born-ml/autograd/internal/tensor"

// Function is the operation that created a variable. The engine walks
// functions backward through their inputs.
//
// Implementations must be comparable (typically pointers): the engine uses
// them as map keys and fails with ErrInvalidFunction otherwise.
type Function interface {
	// Inputs returns the variables the function consumed, in order.
	Inputs() []VarKind

	// Backward computes the gradient for each input given the gradient of the
	// function's output. It returns one entry per input; nil, typed or not, means
	// no gradient.
	Backward(gradOutput tensor.AnyTensor) []tensor.AnyTensor
}

// Releaser is implemented by functions holding tensors saved for backward.
// The engine calls ReleaseSaved after a pass run without retainVariables.
type Releaser interface {
	ReleaseSaved()
}
