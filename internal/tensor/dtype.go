// Package tensor provides the minimal typed tensor used as variable payload.
package tensor

// DType is a constraint for supported tensor element types.
type DType interface {
	float32 | int64 | uint8
}

// Element is the subset of DType that autodiff variables may hold.
// Byte tensors exist (masks, raw bytes) but are never wrapped as variables.
type Element interface {
	float32 | int64
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Int64
	Uint8
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Int64:
		return 8
	case Uint8:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	default:
		return "unknown"
	}
}

// IsElement reports whether variables may hold this data type.
func (dt DataType) IsElement() bool {
	return dt == Float32 || dt == Int64
}

// DataTypeOf returns the DataType for the type parameter T.
func DataTypeOf[T DType]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case int64:
		return Int64
	case uint8:
		return Uint8
	default:
		panic("unsupported type")
	}
}
