package tensor

// AnyTensor is a tensor whose element type is only known at runtime.
//
// It is sealed: the only implementations are *Tensor[float32], *Tensor[int64]
// and *Tensor[uint8], so type switches over those three are exhaustive.
type AnyTensor interface {
	ID() TensorID
	DType() DataType
	Shape() Shape
	NumElements() int
	ByteSize() int
	Validate(prefix string) error
	String() string

	sealed()
}

// As returns t as a *Tensor[T] if its element type is T.
func As[T DType](t AnyTensor) (*Tensor[T], bool) {
	typed, ok := t.(*Tensor[T])
	return typed, ok
}

// CloneAny deep-copies an erased tensor.
func CloneAny(t AnyTensor) AnyTensor {
	switch typed := t.(type) {
	case *Tensor[float32]:
		return typed.Clone()
	case *Tensor[int64]:
		return typed.Clone()
	case *Tensor[uint8]:
		return typed.Clone()
	default:
		panic("unreachable: AnyTensor is sealed")
	}
}

// IsNil reports whether t is nil, either as an interface or as a typed nil pointer.
func IsNil(t AnyTensor) bool {
	switch typed := t.(type) {
	case nil:
		return true
	case *Tensor[float32]:
		return typed == nil
	case *Tensor[int64]:
		return typed == nil
	case *Tensor[uint8]:
		return typed == nil
	default:
		return false
	}
}
