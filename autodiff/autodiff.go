// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over
// arena-allocated variables.
//
// Variables live in an Arena and are referred to by small handles. Functions
// such as Add or Mul compute their result eagerly and record themselves as the
// creator of the output; Backward then walks the creators from the output to
// the leaves and accumulates gradients.
//
// Example:
//
//	import (
//	    "github.com/born-ml/autograd/autodiff"
//	    "github.com/born-ml/autograd/tensor"
//	)
//
//	func main() {
//	    arena := autodiff.NewArena()
//	    x := autodiff.NewVariable(arena, tensor.Full[float32](tensor.Shape{3}, 2))
//	    w := autodiff.NewVariable(arena, tensor.Ones[float32](tensor.Shape{3}))
//
//	    loss := autodiff.Sum(autodiff.Mul(x, w))
//	    loss.Backward()
//
//	    fmt.Println(w.GradTensor().Data()) // [2 2 2]
//	    arena.Reset(w.ID())                // discard intermediates
//	}
package autodiff

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/autodiff/functions"
	"github.com/born-ml/autograd/tensor"
)

// Arena stores variable records. It is owned by one goroutine.
type Arena = autodiff.Arena

// ArenaConfig configures a new Arena.
type ArenaConfig = autodiff.ArenaConfig

// ArenaOption configures an Arena.
type ArenaOption = autodiff.ArenaOption

// ArenaStats summarizes arena contents.
type ArenaStats = autodiff.ArenaStats

// VarID identifies a variable within one Arena.
type VarID = autodiff.VarID

// NoVarID is the sentinel for "no variable".
const NoVarID = autodiff.NoVarID

// Variable is a typed handle to a variable in an Arena.
type Variable[T tensor.Element] = autodiff.Variable[T]

// VarKind is a variable handle whose element type is only known at runtime.
type VarKind = autodiff.VarKind

// VarKey identifies a variable slot for equality and hashing.
type VarKey = autodiff.VarKey

// VariableConfig holds the construction options of a variable.
type VariableConfig = autodiff.VariableConfig

// VariableOption configures a new variable.
type VariableOption = autodiff.VariableOption

// GradHook observes the gradient delivered to a variable during backward.
type GradHook[T tensor.Element] = autodiff.GradHook[T]

// Function is the operation that created a variable.
type Function = autodiff.Function

// Releaser is implemented by functions holding tensors saved for backward.
type Releaser = autodiff.Releaser

// Engine walks a graph backward from a batch of roots.
type Engine = autodiff.Engine

// ExecutionEngine is the default Engine.
type ExecutionEngine = autodiff.ExecutionEngine

// Errors wrapped by autodiff panics. Match them with errors.Is on the result
// of Try or TryBackward.
var (
	ErrKindMismatch    = autodiff.ErrKindMismatch
	ErrUnsupportedKind = autodiff.ErrUnsupportedKind
	ErrOutOfBounds     = autodiff.ErrOutOfBounds
	ErrStaleHandle     = autodiff.ErrStaleHandle
	ErrAliasedAccess   = autodiff.ErrAliasedAccess
	ErrForeignArena    = autodiff.ErrForeignArena
	ErrDirty           = autodiff.ErrDirty
	ErrVolatile        = autodiff.ErrVolatile
	ErrNoGrad          = autodiff.ErrNoGrad
	ErrShapeMismatch   = autodiff.ErrShapeMismatch
	ErrGradientArity   = autodiff.ErrGradientArity
	ErrReleased        = autodiff.ErrReleased
	ErrCyclicGraph     = autodiff.ErrCyclicGraph
	ErrInvalidFunction = autodiff.ErrInvalidFunction
)

// NewArena creates an empty arena.
//
// Example:
//
//	arena := autodiff.NewArena(autodiff.WithCapacity(1024))
func NewArena(opts ...ArenaOption) *Arena {
	return autodiff.NewArena(opts...)
}

// DefaultArenaConfig returns the configuration used by NewArena without options.
func DefaultArenaConfig() ArenaConfig {
	return autodiff.DefaultArenaConfig()
}

// WithCapacity reserves room for n variables.
func WithCapacity(n int) ArenaOption {
	return autodiff.WithCapacity(n)
}

// WithEngine sets the traversal engine used by Backward.
func WithEngine(e Engine) ArenaOption {
	return autodiff.WithEngine(e)
}

// NewExecutionEngine creates the default engine.
func NewExecutionEngine() *ExecutionEngine {
	return autodiff.NewExecutionEngine()
}

// NewVariable wraps data in a new variable allocated in arena.
func NewVariable[T tensor.Element](arena *Arena, data *tensor.Tensor[T], opts ...VariableOption) Variable[T] {
	return autodiff.NewVariable(arena, data, opts...)
}

// DefaultVariableConfig returns the configuration of a plain leaf variable.
func DefaultVariableConfig() VariableConfig {
	return autodiff.DefaultVariableConfig()
}

// WithCreator records fn as the operation that produced the variable.
func WithCreator(fn Function) VariableOption {
	return autodiff.WithCreator(fn)
}

// WithVolatile marks the variable as permanently excluded from backward.
func WithVolatile(volatile bool) VariableOption {
	return autodiff.WithVolatile(volatile)
}

// WithRequiresGrad sets whether the variable receives gradients.
func WithRequiresGrad(requiresGrad bool) VariableOption {
	return autodiff.WithRequiresGrad(requiresGrad)
}

// NewVarKind wraps an erased tensor in a new variable of the matching kind.
func NewVarKind(arena *Arena, data tensor.AnyTensor, opts ...VariableOption) VarKind {
	return autodiff.NewVarKind(arena, data, opts...)
}

// Typed converts an erased handle to a typed one.
func Typed[T tensor.Element](v VarKind) Variable[T] {
	return autodiff.Typed[T](v)
}

// FromID returns an erased handle for the live variable id in arena.
func FromID(arena *Arena, id VarID) VarKind {
	return autodiff.FromID(arena, id)
}

// SameVariable reports whether a and b name the same variable.
func SameVariable(a, b VarKind) bool {
	return autodiff.SameVariable(a, b)
}

// Try runs fn and returns the autodiff error it panicked with, or nil.
func Try(fn func()) error {
	return autodiff.Try(fn)
}

// Fatalf panics with an error wrapping sentinel. Custom Function
// implementations use it to report misuse.
func Fatalf(sentinel error, format string, args ...any) {
	autodiff.Fatalf(sentinel, format, args...)
}

// Differentiable functions

// Add returns the element-wise sum a + b.
func Add[T tensor.Element](a, b Variable[T]) Variable[T] {
	return functions.Add(a, b)
}

// Sub returns the element-wise difference a - b.
func Sub[T tensor.Element](a, b Variable[T]) Variable[T] {
	return functions.Sub(a, b)
}

// Mul returns the element-wise product a * b.
func Mul[T tensor.Element](a, b Variable[T]) Variable[T] {
	return functions.Mul(a, b)
}

// Scale returns alpha * a.
func Scale[T tensor.Element](a Variable[T], alpha T) Variable[T] {
	return functions.Scale(a, alpha)
}

// Sum reduces a to the scalar sum of its elements.
func Sum[T tensor.Element](a Variable[T]) Variable[T] {
	return functions.Sum(a)
}
