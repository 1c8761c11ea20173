package autodiff

import "github.com/born-ml/autograd/internal/tensor"

// GradHook observes the gradient delivered to a variable during backward.
//
// Hooks run before the gradient is accumulated. They must treat grad as
// read-only and must not keep it after returning.
type GradHook[T tensor.Element] func(grad *tensor.Tensor[T])

type hookEntry[T tensor.Element] struct {
	id int
	fn GradHook[T]
}

// record is the payload stored in an arena slot.
type record[T tensor.Element] struct {
	data         *tensor.Tensor[T]
	creator      Function
	grad         Variable[T] // id NoVarID when no gradient was accumulated yet
	dirty        bool
	volatile     bool
	requiresGrad bool

	hooks      []hookEntry[T]
	lastHookID int
}

func newRecord[T tensor.Element](data *tensor.Tensor[T], cfg VariableConfig) *record[T] {
	return &record[T]{
		data:         data,
		creator:      cfg.Creator,
		grad:         noVariable[T](),
		volatile:     cfg.Volatile,
		requiresGrad: cfg.RequiresGrad,
	}
}

func (r *record[T]) dataType() tensor.DataType { return tensor.DataTypeOf[T]() }
func (r *record[T]) payload() tensor.AnyTensor { return r.data }
func (r *record[T]) gradID() VarID { return r.grad.id }
func (r *record[T]) dropGrad() { r.grad = noVariable[T]() }
func (r *record[T]) hasGrad() bool { return r.grad.id.IsValid() }

// copyRefs overwrites graph bookkeeping from rhs, keeping r's tensor.
func (r *record[T]) copyRefs(rhs *record[T]) {
	r.creator = rhs.creator
	r.grad = rhs.grad
	r.dirty = rhs.dirty
	r.volatile = rhs.volatile
	r.requiresGrad = rhs.requiresGrad
}

func (r *record[T]) addHook(fn GradHook[T]) int {
	r.lastHookID++
	r.hooks = append(r.hooks, hookEntry[T]{id: r.lastHookID, fn: fn})
	return r.lastHookID
}

func (r *record[T]) removeHook(id int) {
	for i, h := range r.hooks {
		if h.id == id {
			r.hooks = append(r.hooks[:i], r.hooks[i+1:]...)
			return
		}
	}
}

func (r *record[T]) callHooks(grad *tensor.Tensor[T]) {
	for _, h := range r.hooks {
		h.fn(grad)
	}
}
