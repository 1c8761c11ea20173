package autodiff

import (
	"testing"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFn is a creator that never runs backward.
type stubFn struct{ inputs []VarKind }

func (f *stubFn) Inputs() []VarKind { return f.inputs }
func (f *stubFn) Backward(tensor.AnyTensor) []tensor.AnyTensor {
	return make([]tensor.AnyTensor, len(f.inputs))
}

func TestNewVariable_Defaults(t *testing.T) {
	arena := NewArena()
	data := f32(tensor.Shape{2, 2}, 1, 2, 3, 4)
	v := NewVariable(arena, data)

	assert.Same(t, data, v.Data())
	assert.Same(t, data, v.DataRef())
	assert.Equal(t, data.ID(), v.TensorID())
	assert.True(t, v.RequiresGrad())
	assert.False(t, v.IsVolatile())
	assert.False(t, v.IsDirty())
	assert.Nil(t, v.GradFn())
	_, ok := v.Grad()
	assert.False(t, ok)
	assert.Equal(t, float32(3), v.At(2))
	assert.Same(t, arena, v.Arena())
	assert.Equal(t, "Variable[float32]#0", v.String())
}

func TestNewVariable_Options(t *testing.T) {
	arena := NewArena()
	fn := &stubFn{}
	tests := []struct {
		name string
		opts []VariableOption
		want VariableConfig
	}{
		{"defaults", nil, VariableConfig{RequiresGrad: true}},
		{"creator", []VariableOption{WithCreator(fn)}, VariableConfig{Creator: fn, RequiresGrad: true}},
		{"volatile", []VariableOption{WithVolatile(true)}, VariableConfig{Volatile: true, RequiresGrad: true}},
		{"no grad", []VariableOption{WithRequiresGrad(false)}, VariableConfig{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tensor.Ones[int64](tensor.Shape{3})
			v := NewVariable(arena, data, tt.opts...)
			assert.True(t, v.Data().Equal(tensor.Ones[int64](tensor.Shape{3})))
			assert.Equal(t, tt.want.Creator, v.GradFn())
			assert.Equal(t, tt.want.Volatile, v.IsVolatile())
			assert.Equal(t, tt.want.RequiresGrad, v.RequiresGrad())
		})
	}
	assert.Equal(t, VariableConfig{RequiresGrad: true}, DefaultVariableConfig())
}

func TestVariable_HandlesAlias(t *testing.T) {
	arena := NewArena()
	v := NewVariable(arena, f32(tensor.Shape{1}, 1))
	alias := v
	alias.RequiresNoGrad()
	assert.False(t, v.RequiresGrad())
}

func TestVariable_Detach(t *testing.T) {
	arena := NewArena()
	v := NewVariable(arena, f32(tensor.Shape{2}, 1, 2))
	v.Backward()
	require.NotNil(t, v.GradTensor())

	v.Detach()
	assert.False(t, v.RequiresGrad())
	_, ok := v.Grad()
	assert.False(t, ok)
	requireFatal(t, ErrNoGrad, func() { v.Backward() })
}

func TestVariable_MarkDirtyAndRequiresNoGrad(t *testing.T) {
	arena := NewArena()
	v := NewVariable(arena, f32(tensor.Shape{1}, 1))
	v.MarkDirty()
	assert.True(t, v.IsDirty())

	w := NewVariable(arena, f32(tensor.Shape{1}, 1))
	w.RequiresNoGrad()
	assert.False(t, w.RequiresGrad())
}

func TestVariable_CopyRefs(t *testing.T) {
	arena := NewArena()
	fn := &stubFn{}
	a := NewVariable(arena, f32(tensor.Shape{2}, 1, 2), WithCreator(fn), WithVolatile(true))
	gradA := NewVariable(arena, f32(tensor.Shape{2}, 5, 5))
	a.SetGrad(gradA)
	a.MarkDirty()

	bData := f32(tensor.Shape{2}, 7, 8)
	b := NewVariable(arena, bData)
	b.CopyRefs(a)

	assert.Equal(t, a.GradFn(), b.GradFn())
	gradB, ok := b.Grad()
	require.True(t, ok)
	assert.Equal(t, gradA.ID(), gradB.ID())
	assert.Equal(t, a.IsDirty(), b.IsDirty())
	assert.Equal(t, a.IsVolatile(), b.IsVolatile())
	assert.Equal(t, a.RequiresGrad(), b.RequiresGrad())

	assert.Same(t, bData, b.Data(), "tensor data is kept")
	assert.Equal(t, []float32{7, 8}, b.Data().Data())

	// Copying from itself is a no-op.
	assert.NotPanics(t, func() { b.CopyRefs(b) })
	requireFatal(t, ErrForeignArena, func() { b.CopyRefs(NewVariable(NewArena(), f32(tensor.Shape{1}, 1))) })
}

func TestVariable_SetData(t *testing.T) {
	arena := NewArena()
	v := NewVariable(arena, f32(tensor.Shape{2}, 1, 2))
	v.Backward()

	same := f32(tensor.Shape{2}, 3, 4)
	v.SetData(same)
	assert.Same(t, same, v.Data())
	assert.NotNil(t, v.GradTensor(), "same shape keeps the gradient")

	v.SetData(f32(tensor.Shape{3}, 1, 2, 3))
	assert.Nil(t, v.GradTensor(), "new shape drops the gradient")
	assert.NoError(t, v.Validate())
}

func TestVariable_SetGradAndZeroGrad(t *testing.T) {
	arena := NewArena()
	v := NewVariable(arena, f32(tensor.Shape{2}, 1, 2))
	g := NewVariable(arena, f32(tensor.Shape{2}, 3, 4), WithRequiresGrad(false))
	v.SetGrad(g)
	assert.Equal(t, []float32{3, 4}, v.GradTensor().Data())

	v.ZeroGrad()
	assert.Equal(t, []float32{0, 0}, v.GradTensor().Data())
	grad, _ := v.Grad()
	assert.Equal(t, g.ID(), grad.ID(), "ZeroGrad keeps the gradient variable")

	requireFatal(t, ErrShapeMismatch, func() {
		v.SetGrad(NewVariable(arena, f32(tensor.Shape{3}, 1, 2, 3)))
	})

	none, ok := NewVariable(arena, f32(tensor.Shape{1}, 0)).Grad()
	require.False(t, ok)
	v.SetGrad(none)
	assert.Nil(t, v.GradTensor())
	assert.NotPanics(t, func() { v.ZeroGrad() })
}

func TestVariable_Apply(t *testing.T) {
	arena := NewArena()
	v := NewVariable(arena, f32(tensor.Shape{2}, 1, 2))
	v.Apply(func(data *tensor.Tensor[float32]) { data.ScaleInPlace(10) })
	assert.Equal(t, []float32{10, 20}, v.Data().Data())
}

func TestVariable_Validate(t *testing.T) {
	arena := NewArena()
	v := NewVariable(arena, f32(tensor.Shape{2}, 1, 2))
	assert.NoError(t, v.Validate())

	v.Backward()
	grad, _ := v.Grad()
	grad.SetData(f32(tensor.Shape{3}, 1, 2, 3))
	err := v.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gradient shape")
}

func TestVariable_KindMismatchOnSlot(t *testing.T) {
	arena := NewArena()
	f := NewVariable(arena, f32(tensor.Shape{1}, 1))
	forged := Variable[int64]{arena: arena, id: f.ID(), gen: f.gen}
	requireFatal(t, ErrKindMismatch, func() { forged.Data() })
}

func TestVariable_ZeroHandle(t *testing.T) {
	var v Variable[float32]
	requireFatal(t, ErrOutOfBounds, func() { v.Data() })
}

func TestVariable_CopyRefsStaleSameID(t *testing.T) {
	arena := NewArena()
	old := NewVariable(arena, f32(tensor.Shape{1}, 1))
	arena.Reset(NoVarID)
	current := NewVariable(arena, f32(tensor.Shape{1}, 2))
	require.Equal(t, old.ID(), current.ID())

	requireFatal(t, ErrStaleHandle, func() { current.CopyRefs(old) })
	requireFatal(t, ErrStaleHandle, func() { old.CopyRefs(current) })
	assert.True(t, current.RequiresGrad())
}
