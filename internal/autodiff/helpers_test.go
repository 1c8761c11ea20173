package autodiff

import (
	"testing"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func f32(shape tensor.Shape, values ...float32) *tensor.Tensor[float32] {
	return must.M1(tensor.FromSlice(values, shape))
}

func i64(shape tensor.Shape, values ...int64) *tensor.Tensor[int64] {
	return must.M1(tensor.FromSlice(values, shape))
}

// requireFatal checks that fn panics with an error wrapping sentinel.
func requireFatal(t *testing.T, sentinel error, fn func()) {
	t.Helper()
	err := Try(fn)
	require.Error(t, err)
	require.ErrorIs(t, err, sentinel)
}
