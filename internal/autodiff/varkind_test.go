package autodiff

import (
	"testing"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarKind_Dispatch(t *testing.T) {
	arena := NewArena()
	vars := []VarKind{
		NewVariable(arena, f32(tensor.Shape{2}, 1, 2)),
		NewVariable(arena, i64(tensor.Shape{2}, 3, 4)),
	}
	assert.Equal(t, tensor.Float32, vars[0].Kind())
	assert.Equal(t, tensor.Int64, vars[1].Kind())

	vars[0].DoBackward(f32(tensor.Shape{2}, 1, 1))
	vars[1].DoBackward(i64(tensor.Shape{2}, 5, 6))
	vars[1].DoBackward(nil)

	assert.Equal(t, []float32{1, 1}, Typed[float32](vars[0]).GradTensor().Data())
	assert.Equal(t, []int64{5, 6}, Typed[int64](vars[1]).GradTensor().Data())

	requireFatal(t, ErrKindMismatch, func() { vars[0].DoBackward(i64(tensor.Shape{2}, 1, 1)) })
	requireFatal(t, ErrKindMismatch, func() { Typed[int64](vars[0]) })

	assert.Equal(t, tensor.Int64, vars[1].Tensor().DType())
	assert.Equal(t, 2, vars[1].Tensor().NumElements())
}

func TestVarKind_Keys(t *testing.T) {
	arena := NewArena()
	a := NewVariable(arena, f32(tensor.Shape{1}, 1))
	b := NewVariable(arena, f32(tensor.Shape{1}, 1))

	var erased VarKind = a
	assert.True(t, SameVariable(a, erased))
	assert.True(t, SameVariable(a, FromID(arena, a.ID())))
	assert.False(t, SameVariable(a, b))
	assert.Equal(t, VarKey{Kind: tensor.Float32, ID: a.ID()}, a.Key())

	seen := map[VarKey]int{}
	for _, v := range []VarKind{a, b, erased, FromID(arena, b.ID())} {
		seen[v.Key()]++
	}
	assert.Equal(t, map[VarKey]int{a.Key(): 2, b.Key(): 2}, seen)
}

func TestNewVarKind(t *testing.T) {
	arena := NewArena()
	v := NewVarKind(arena, i64(tensor.Shape{1}, 7), WithRequiresGrad(false))
	assert.Equal(t, tensor.Int64, v.Kind())
	assert.False(t, v.RequiresGrad())
	assert.Equal(t, int64(7), Typed[int64](v).At(0))

	requireFatal(t, ErrUnsupportedKind, func() {
		NewVarKind(arena, tensor.Zeros[uint8](tensor.Shape{2}))
	})
	assert.Equal(t, 1, arena.Len())
}

func TestFromID(t *testing.T) {
	arena := NewArena()
	NewVariable(arena, f32(tensor.Shape{1}, 1))
	i := NewVariable(arena, i64(tensor.Shape{1}, 2))

	v := FromID(arena, i.ID())
	require.Equal(t, tensor.Int64, v.Kind())
	assert.Equal(t, i, Typed[int64](v))

	requireFatal(t, ErrOutOfBounds, func() { FromID(arena, 2) })
	requireFatal(t, ErrOutOfBounds, func() { FromID(arena, NoVarID) })
}

func TestVarKind_NilTensors(t *testing.T) {
	arena := NewArena()
	requireFatal(t, ErrUnsupportedKind, func() { NewVarKind(arena, nil) })
	var typed *tensor.Tensor[float32]
	requireFatal(t, ErrUnsupportedKind, func() { NewVarKind(arena, typed) })
	assert.Equal(t, 0, arena.Len())

	v := NewVarKind(arena, f32(tensor.Shape{1}, 1))
	assert.NotPanics(t, func() { v.DoBackward(typed) })
	assert.Nil(t, Typed[float32](v).GradTensor())
}
