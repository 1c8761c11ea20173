package functions

import (
	"math"
	"testing"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/stretchr/testify/assert"
)

// numericalGradient computes df/dx[i] for every element of x using central
// finite differences.
func numericalGradient(f func(x *tensor.Tensor[float32]) float32, x *tensor.Tensor[float32], epsilon float32) []float32 {
	grads := make([]float32, x.NumElements())
	for i := range grads {
		probe := x.Clone()
		orig := probe.Data()[i]
		probe.Data()[i] = orig + epsilon
		plus := f(probe)
		probe.Data()[i] = orig - epsilon
		minus := f(probe)
		grads[i] = (plus - minus) / (2 * epsilon)
	}
	return grads
}

func TestNumericalGradient(t *testing.T) {
	tests := []struct {
		name  string
		graph func(x autodiff.Variable[float32]) autodiff.Variable[float32]
		point []float32
	}{
		{
			name:  "square",
			graph: func(x autodiff.Variable[float32]) autodiff.Variable[float32] { return Sum(Mul(x, x)) },
			point: []float32{3},
		},
		{
			// f(x) = sum((x + 2) * 3)
			name: "composite",
			graph: func(x autodiff.Variable[float32]) autodiff.Variable[float32] {
				two := autodiff.NewVariable(x.Arena(), tensor.Full[float32](x.DataRef().Shape(), 2), autodiff.WithRequiresGrad(false))
				return Sum(Scale(Add(x, two), 3))
			},
			point: []float32{5, -1},
		},
		{
			// f(x) = sum(x*x*x - 4x)
			name: "cubic",
			graph: func(x autodiff.Variable[float32]) autodiff.Variable[float32] {
				return Sum(Sub(Mul(Mul(x, x), x), Scale(x, 4)))
			},
			point: []float32{0.5, 1, -2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arena := autodiff.NewArena()
			x := autodiff.NewVariable(arena, vec(tt.point...))
			tt.graph(x).Backward()
			analytic := x.GradTensor().Data()

			f := func(probe *tensor.Tensor[float32]) float32 {
				scratch := autodiff.NewArena()
				in := autodiff.NewVariable(scratch, probe, autodiff.WithRequiresGrad(false))
				return tt.graph(in).Data().Item()
			}
			numeric := numericalGradient(f, vec(tt.point...), 1e-2)

			for i := range analytic {
				// Finite differences in float32 carry ~1% error.
				tol := 0.01 * math.Max(1, math.Abs(float64(analytic[i])))
				assert.InDelta(t, analytic[i], numeric[i], tol, "element %d", i)
			}
		})
	}
}
