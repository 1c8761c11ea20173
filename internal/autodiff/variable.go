package autodiff

import (
	"fmt"

	"github.com/born-ml/autograd/internal/tensor"
)

// VariableConfig holds the resolved construction options of a variable.
type VariableConfig struct {
	Creator      Function // Operation that produced the variable; nil for leaves.
	Volatile     bool     // Permanently excluded from backward.
	RequiresGrad bool     // Receives gradients during backward.
}

// DefaultVariableConfig returns the configuration of a plain leaf variable.
func DefaultVariableConfig() VariableConfig {
	return VariableConfig{
		Creator:      nil,
		Volatile:     false,
		RequiresGrad: true,
	}
}

// VariableOption configures a new variable.
type VariableOption func(*VariableConfig)

// WithCreator records fn as the operation that produced the variable.
func WithCreator(fn Function) VariableOption {
	return func(c *VariableConfig) {
		c.Creator = fn
	}
}

// WithVolatile marks the variable as permanently excluded from backward.
func WithVolatile(volatile bool) VariableOption {
	return func(c *VariableConfig) {
		c.Volatile = volatile
	}
}

// WithRequiresGrad sets whether the variable receives gradients.
func WithRequiresGrad(requiresGrad bool) VariableOption {
	return func(c *VariableConfig) {
		c.RequiresGrad = requiresGrad
	}
}

// Variable is a typed handle to a record in an Arena.
//
// Handles are small values: copying one does not copy the tensor, and any
// number of handles may name the same variable.
type Variable[T tensor.Element] struct {
	arena *Arena
	id    VarID
	gen   uint32
}

func noVariable[T tensor.Element]() Variable[T] {
	return Variable[T]{id: NoVarID}
}

// NewVariable wraps data in a new variable allocated in arena.
//
// Example:
//
//	w := autodiff.NewVariable(arena, tensor.Zeros[float32](tensor.Shape{3}))
//	x := autodiff.NewVariable(arena, input, autodiff.WithRequiresGrad(false))
func NewVariable[T tensor.Element](arena *Arena, data *tensor.Tensor[T], opts ...VariableOption) Variable[T] {
	cfg := DefaultVariableConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	id, gen := arena.allocate(newRecord(data, cfg))
	return Variable[T]{arena: arena, id: id, gen: gen}
}

// borrow returns the record for exclusive access. The caller must call release,
// typically with defer.
func (v Variable[T]) borrow() (rec *record[T], release func()) {
	s := v.slot()
	if s.borrowed {
		Fatalf(ErrAliasedAccess, "%s is already borrowed", v)
	}
	rec = v.typedRecord(s)
	s.borrowed = true
	return rec, func() { v.arena.release(v.id) }
}

// peek returns the record for a read that completes before any other access.
func (v Variable[T]) peek() *record[T] {
	s := v.slot()
	if s.borrowed {
		Fatalf(ErrAliasedAccess, "%s is borrowed for mutation", v)
	}
	return v.typedRecord(s)
}

func (v Variable[T]) slot() *slot {
	if v.arena == nil {
		Fatalf(ErrOutOfBounds, "variable %d has no arena", v.id)
	}
	return v.arena.slotAt(v.id, v.gen)
}

func (v Variable[T]) typedRecord(s *slot) *record[T] {
	rec, ok := s.rec.(*record[T])
	if !ok {
		Fatalf(ErrKindMismatch, "variable %d holds %s, accessed as %s", v.id, s.rec.dataType(), tensor.DataTypeOf[T]())
	}
	return rec
}

// ID returns the variable id.
func (v Variable[T]) ID() VarID {
	return v.id
}

// Arena returns the arena holding the variable.
func (v Variable[T]) Arena() *Arena {
	return v.arena
}

// String returns a human-readable name for the handle.
func (v Variable[T]) String() string {
	return fmt.Sprintf("Variable[%s]#%d", tensor.DataTypeOf[T](), v.id)
}

// Data returns the variable's tensor. Mutations are visible to every handle
// of this variable; call MarkDirty if the tensor was already used by a Function.
func (v Variable[T]) Data() *tensor.Tensor[T] {
	return v.peek().data
}

// DataRef returns the variable's tensor for reading. It must not be mutated.
func (v Variable[T]) DataRef() *tensor.Tensor[T] {
	return v.peek().data
}

// SetData replaces the variable's tensor. An accumulated gradient of a
// different shape is discarded.
func (v Variable[T]) SetData(data *tensor.Tensor[T]) {
	rec, release := v.borrow()
	defer release()
	if rec.hasGrad() && !rec.data.Shape().Equal(data.Shape()) {
		rec.grad = noVariable[T]()
	}
	rec.data = data
}

// Apply calls fn on the variable's tensor.
func (v Variable[T]) Apply(fn func(data *tensor.Tensor[T])) {
	fn(v.Data())
}

// At returns the element at flat index idx.
func (v Variable[T]) At(idx int) T {
	return v.peek().data.Index(idx)
}

// TensorID returns the id of the variable's tensor.
func (v Variable[T]) TensorID() tensor.TensorID {
	return v.peek().data.ID()
}

// Validate checks the consistency of the variable's tensor and gradient.
func (v Variable[T]) Validate() error {
	rec := v.peek()
	if err := rec.data.Validate(fmt.Sprintf("%s: ", v)); err != nil {
		return err
	}
	if rec.hasGrad() {
		grad := rec.grad.DataRef()
		if !grad.Shape().Equal(rec.data.Shape()) {
			return fmt.Errorf("%s: gradient shape %v does not match data shape %v", v, grad.Shape(), rec.data.Shape())
		}
	}
	return nil
}

// Grad returns the variable holding the accumulated gradient, if any.
func (v Variable[T]) Grad() (Variable[T], bool) {
	rec := v.peek()
	return rec.grad, rec.hasGrad()
}

// GradTensor returns the accumulated gradient tensor, or nil.
func (v Variable[T]) GradTensor() *tensor.Tensor[T] {
	grad, ok := v.Grad()
	if !ok {
		return nil
	}
	return grad.Data()
}

// SetGrad replaces the gradient slot. Pass a handle with id NoVarID, as
// returned by Grad on a variable without gradient, to clear it.
func (v Variable[T]) SetGrad(grad Variable[T]) {
	rec, release := v.borrow()
	defer release()
	if grad.id.IsValid() {
		if grad.arena != v.arena {
			Fatalf(ErrForeignArena, "gradient %s for %s", grad, v)
		}
		if shape := grad.DataRef().Shape(); !shape.Equal(rec.data.Shape()) {
			Fatalf(ErrShapeMismatch, "gradient shape %v for %s of shape %v", shape, v, rec.data.Shape())
		}
	}
	rec.grad = grad
}

// ZeroGrad fills the accumulated gradient with zeros, keeping its variable.
func (v Variable[T]) ZeroGrad() {
	if grad := v.GradTensor(); grad != nil {
		grad.Zero()
	}
}

// GradFn returns the Function that created the variable, or nil for leaves.
func (v Variable[T]) GradFn() Function {
	return v.peek().creator
}

// IsVolatile returns true if the variable is excluded from backward.
func (v Variable[T]) IsVolatile() bool {
	return v.peek().volatile
}

// RequiresGrad returns true if the variable receives gradients.
func (v Variable[T]) RequiresGrad() bool {
	return v.peek().requiresGrad
}

// IsDirty returns true if the variable was marked as modified in place.
func (v Variable[T]) IsDirty() bool {
	return v.peek().dirty
}

// Detach removes the variable from future backward passes: it stops requiring
// grad and its accumulated gradient is discarded.
func (v Variable[T]) Detach() {
	rec, release := v.borrow()
	defer release()
	rec.requiresGrad = false
	rec.grad = noVariable[T]()
}

// MarkDirty flags that the tensor was modified in place after a Function used it.
// Backward through the variable fails from then on.
func (v Variable[T]) MarkDirty() {
	rec, release := v.borrow()
	defer release()
	rec.dirty = true
}

// RequiresNoGrad stops the variable from receiving gradients.
func (v Variable[T]) RequiresNoGrad() {
	rec, release := v.borrow()
	defer release()
	rec.requiresGrad = false
}

// CopyRefs overwrites creator, gradient and flags with those of other, keeping
// the variable's own tensor. Used when an in-place result rebinds an existing id.
func (v Variable[T]) CopyRefs(other Variable[T]) {
	if other.arena != v.arena {
		Fatalf(ErrForeignArena, "copy refs from %s into %s", other, v)
	}
	src := other.peek()
	if other.id == v.id {
		v.slot()
		return
	}
	rec, release := v.borrow()
	defer release()
	rec.copyRefs(src)
}

// RegisterHook adds a hook called with every gradient delivered to the
// variable. The returned function removes it.
func (v Variable[T]) RegisterHook(hook GradHook[T]) (remove func()) {
	rec, release := v.borrow()
	defer release()
	id := rec.addHook(hook)
	return func() {
		rec, release := v.borrow()
		defer release()
		rec.removeHook(id)
	}
}
