package autodiff

import (
	"github.com/born-ml/autograd/internal/tensor"
)

// VarKind is a variable handle whose element type is only known at runtime.
//
// It is sealed: the only implementations are Variable[float32] and
// Variable[int64], so graphs may mix both kinds in one collection.
type VarKind interface {
	ID() VarID
	Kind() tensor.DataType
	Key() VarKey
	Arena() *Arena
	String() string

	RequiresGrad() bool
	GradFn() Function
	IsVolatile() bool
	IsDirty() bool
	TensorID() tensor.TensorID

	// Tensor returns the variable's tensor as an erased value.
	Tensor() tensor.AnyTensor

	// RequiresNoGrad stops the variable from receiving gradients.
	RequiresNoGrad()

	// DoBackward accumulates gradOutput into the variable's gradient.
	// A nil gradOutput, typed or not, is ignored.
	DoBackward(gradOutput tensor.AnyTensor)

	onesLike() tensor.AnyTensor
	varKind()
}

// VarKey identifies a variable slot for equality and hashing.
// Two erased handles name the same variable iff their keys are equal.
type VarKey struct {
	Kind tensor.DataType
	ID   VarID
}

// Kind returns the variable's element type.
func (v Variable[T]) Kind() tensor.DataType {
	return tensor.DataTypeOf[T]()
}

// Key returns the identity of the variable's slot.
func (v Variable[T]) Key() VarKey {
	return VarKey{Kind: v.Kind(), ID: v.id}
}

// Tensor returns the variable's tensor as an erased value.
func (v Variable[T]) Tensor() tensor.AnyTensor {
	return v.Data()
}

// DoBackward accumulates an erased gradient. The gradient's element type must
// match the variable's.
func (v Variable[T]) DoBackward(gradOutput tensor.AnyTensor) {
	if tensor.IsNil(gradOutput) {
		return
	}
	grad, ok := tensor.As[T](gradOutput)
	if !ok {
		Fatalf(ErrKindMismatch, "%s received a %s gradient", v, gradOutput.DType())
	}
	v.Accumulate(grad)
}

func (v Variable[T]) onesLike() tensor.AnyTensor {
	return v.DataRef().NewLike(1)
}

func (v Variable[T]) varKind() {}

// SameVariable reports whether a and b name the same arena slot.
func SameVariable(a, b VarKind) bool {
	return a.Key() == b.Key()
}

// NewVarKind wraps an erased tensor in a new variable of the matching kind.
// Uint8 and nil tensors cannot be variables and fail with ErrUnsupportedKind.
func NewVarKind(arena *Arena, data tensor.AnyTensor, opts ...VariableOption) VarKind {
	if tensor.IsNil(data) {
		Fatalf(ErrUnsupportedKind, "cannot create a variable from a nil tensor")
	}
	switch t := data.(type) {
	case *tensor.Tensor[float32]:
		return NewVariable(arena, t, opts...)
	case *tensor.Tensor[int64]:
		return NewVariable(arena, t, opts...)
	default:
		Fatalf(ErrUnsupportedKind, "cannot create a variable from a %s tensor", data.DType())
		return nil
	}
}

// Typed converts an erased handle to a typed one.
// It fails with ErrKindMismatch if v does not hold T.
func Typed[T tensor.Element](v VarKind) Variable[T] {
	typed, ok := v.(Variable[T])
	if !ok {
		Fatalf(ErrKindMismatch, "%s is not a %s variable", v, tensor.DataTypeOf[T]())
	}
	return typed
}

// FromID returns an erased handle for the live variable id in arena.
func FromID(arena *Arena, id VarID) VarKind {
	if id < 0 || int(id) >= len(arena.slots) {
		Fatalf(ErrOutOfBounds, "variable %d out of bounds: arena holds %d", id, len(arena.slots))
	}
	s := arena.slots[id]
	switch s.rec.(type) {
	case *record[float32]:
		return Variable[float32]{arena: arena, id: id, gen: s.gen}
	case *record[int64]:
		return Variable[int64]{arena: arena, id: id, gen: s.gen}
	default:
		panic("unreachable: arena records are float32 or int64")
	}
}
