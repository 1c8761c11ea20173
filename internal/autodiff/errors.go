package autodiff

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Sentinel errors carried by autodiff panics. Match them with errors.Is on the
// error returned by Try or TryBackward.
var (
	ErrKindMismatch    = errors.New("element kind mismatch")
	ErrUnsupportedKind = errors.New("unsupported element kind")
	ErrOutOfBounds     = errors.New("variable id out of bounds")
	ErrStaleHandle     = errors.New("stale variable handle")
	ErrAliasedAccess   = errors.New("variable record already borrowed")
	ErrForeignArena    = errors.New("variables belong to different arenas")
	ErrDirty           = errors.New("variable modified in place")
	ErrVolatile        = errors.New("backward on volatile variable")
	ErrNoGrad          = errors.New("variable does not require grad")
	ErrShapeMismatch   = errors.New("gradient shape mismatch")
	ErrGradientArity   = errors.New("gradient count mismatch")
	ErrReleased        = errors.New("saved tensors already released")
	ErrCyclicGraph     = errors.New("graph has variables backward cannot reach")
	ErrInvalidFunction = errors.New("invalid function")
)

// Fatalf panics with an error wrapping sentinel.
// Function implementations use it to report misuse the same way the core does.
func Fatalf(sentinel error, format string, args ...any) {
	panic(errors.Wrapf(sentinel, format, args...))
}

// Try runs fn and returns the error it panicked with, or nil.
// Panics with non-error values are not recovered.
func Try(fn func()) error {
	return exceptions.TryCatch[error](fn)
}
