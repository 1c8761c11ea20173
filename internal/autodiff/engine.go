package autodiff

import (
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/autograd/internal/tensor"
	"k8s.io/klog/v2"
)

// Engine walks a graph backward from a batch of roots.
//
// On return, every variable on a path from a root to a leaf that requires
// grad has had its incoming gradients accumulated with DoBackward.
type Engine interface {
	RunBackward(roots []VarKind, grads []tensor.AnyTensor, retainVariables bool)
}

// ExecutionEngine is the default Engine.
//
// Algorithm:
//  1. Discover the variables reachable from the roots through creator links,
//     counting how many function inputs consume each of them
//  2. Process variables once every consumer has delivered its gradient:
//     accumulate the summed gradient, then push it through the creator
//  3. Release saved tensors unless retainVariables is set
//
// Volatile variables and variables that do not require grad are not visited.
// A graph whose creator links lead back into itself fails with ErrCyclicGraph.
type ExecutionEngine struct{}

// NewExecutionEngine creates the default engine.
func NewExecutionEngine() *ExecutionEngine {
	return &ExecutionEngine{}
}

// pendingGrad is a gradient summed over the consumers delivered so far.
// owned is false while the tensor may still be referenced by a Function or a
// caller, so the first in-place sum must clone it.
type pendingGrad struct {
	t     tensor.AnyTensor
	owned bool
}

type backwardPass struct {
	nodes     map[VarKey]VarKind
	consumers map[VarKey]int   // input edges not yet delivered
	edges     map[VarKey][]int // creator input indices counted at discovery
	grads     map[VarKey]*pendingGrad
	seenFn    map[Function]bool
	functions []Function // in discovery order, each once
}

// tracked reports whether v takes part in backward.
func tracked(v VarKind) bool {
	return !v.IsVolatile() && v.RequiresGrad()
}

// RunBackward implements Engine.
func (e *ExecutionEngine) RunBackward(roots []VarKind, grads []tensor.AnyTensor, retainVariables bool) {
	if len(roots) != len(grads) {
		Fatalf(ErrGradientArity, "%d roots with %d gradients", len(roots), len(grads))
	}
	if len(roots) == 0 {
		return
	}
	pass := e.discover(roots)

	for i, root := range roots {
		pass.deliver(root.Key(), grads[i])
	}
	queue := make([]VarKind, 0, len(pass.nodes))
	queued := make(map[VarKey]bool, len(pass.nodes))
	for _, root := range roots {
		key := root.Key()
		if pass.consumers[key] == 0 && !queued[key] {
			queued[key] = true
			queue = append(queue, root)
		}
	}

	visited := 0
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		visited++
		for _, input := range e.process(pass, v) {
			key := input.Key()
			pass.consumers[key]--
			if pass.consumers[key] == 0 && !queued[key] {
				queued[key] = true
				queue = append(queue, input)
			}
		}
	}
	if visited != len(pass.nodes) {
		pass.failStuck(queued)
	}

	if !retainVariables {
		for _, fn := range pass.functions {
			if r, ok := fn.(Releaser); ok {
				r.ReleaseSaved()
			}
		}
	}
	klog.V(1).Infof("backward on arena %s: %d roots, %d variables reached, %d visited, %d functions, retain=%v",
		roots[0].Arena().Tag(), len(roots), len(pass.nodes), visited, len(pass.functions), retainVariables)
}

// failStuck reports the variables whose consumers never all delivered, which
// happens when a creator link leads back into the graph.
func (p *backwardPass) failStuck(queued map[VarKey]bool) {
	var stuck []string
	for key, v := range p.nodes {
		if !queued[key] {
			stuck = append(stuck, fmt.Sprintf("%s (%d pending)", v, p.consumers[key]))
		}
	}
	slices.Sort(stuck)
	Fatalf(ErrCyclicGraph, "%d of %d variables never became ready: %s",
		len(stuck), len(p.nodes), strings.Join(stuck, ", "))
}

// discover collects reachable variables and counts their consumers.
// Dirty variables abort the pass before any gradient is accumulated.
func (e *ExecutionEngine) discover(roots []VarKind) *backwardPass {
	pass := &backwardPass{
		nodes:     make(map[VarKey]VarKind),
		consumers: make(map[VarKey]int),
		edges:     make(map[VarKey][]int),
		grads:     make(map[VarKey]*pendingGrad),
		seenFn:    make(map[Function]bool),
	}
	stack := make([]VarKind, 0, len(roots))
	for _, root := range roots {
		if _, ok := pass.nodes[root.Key()]; !ok {
			pass.nodes[root.Key()] = root
			stack = append(stack, root)
		}
	}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v.IsDirty() {
			Fatalf(ErrDirty, "%s was modified in place after being used by a function", v)
		}
		fn := v.GradFn()
		if fn == nil {
			continue
		}
		pass.addFunction(fn)
		var counted []int
		for i, input := range fn.Inputs() {
			if !tracked(input) {
				continue
			}
			counted = append(counted, i)
			key := input.Key()
			pass.consumers[key]++
			if _, ok := pass.nodes[key]; !ok {
				pass.nodes[key] = input
				stack = append(stack, input)
			}
		}
		pass.edges[v.Key()] = counted
	}
	return pass
}

// addFunction records fn once, in discovery order.
func (p *backwardPass) addFunction(fn Function) {
	defer func() {
		if r := recover(); r != nil {
			Fatalf(ErrInvalidFunction, "creator %T is not comparable: %v", fn, r)
		}
	}()
	if !p.seenFn[fn] {
		p.seenFn[fn] = true
		p.functions = append(p.functions, fn)
	}
}

// process accumulates v's gradient and pushes it through v's creator.
// It returns the creator inputs counted for v at discovery, each of which has
// now received its delivery from v.
func (e *ExecutionEngine) process(pass *backwardPass, v VarKind) []VarKind {
	key := v.Key()
	pending := pass.grads[key]
	delete(pass.grads, key)

	var grad tensor.AnyTensor
	if pending != nil {
		grad = pending.t
		// A hook may have stopped v from requiring grad after discovery.
		if v.RequiresGrad() {
			v.DoBackward(grad)
		}
	}

	counted, ok := pass.edges[key]
	if !ok {
		return nil
	}
	fn := v.GradFn()
	if fn == nil {
		Fatalf(ErrInvalidFunction, "creator of %s was removed during backward", v)
	}
	inputs := fn.Inputs()
	var inputGrads []tensor.AnyTensor
	if grad != nil {
		inputGrads = fn.Backward(grad)
		if len(inputGrads) != len(inputs) {
			Fatalf(ErrGradientArity, "creator of %s returned %d gradients for %d inputs", v, len(inputGrads), len(inputs))
		}
	}
	if klog.V(2).Enabled() {
		klog.Infof("backward: %s -> %d inputs (gradient=%v)", v, len(inputs), grad != nil)
	}

	delivered := make([]VarKind, 0, len(counted))
	for _, i := range counted {
		if i >= len(inputs) {
			Fatalf(ErrGradientArity, "creator of %s lost inputs during backward: had at least %d, now %d", v, i+1, len(inputs))
		}
		input := inputs[i]
		if inputGrads != nil {
			pass.deliver(input.Key(), inputGrads[i])
		}
		delivered = append(delivered, input)
	}
	return delivered
}

// deliver sums g into the pending gradient of key. A nil g, typed or not,
// delivers nothing.
func (p *backwardPass) deliver(key VarKey, g tensor.AnyTensor) {
	if tensor.IsNil(g) {
		return
	}
	pending, ok := p.grads[key]
	if !ok {
		p.grads[key] = &pendingGrad{t: g}
		return
	}
	if !pending.owned {
		pending.t = tensor.CloneAny(pending.t)
		pending.owned = true
	}
	addInto(pending.t, g)
}

// addInto computes dst += src for tensors of the same element kind.
func addInto(dst, src tensor.AnyTensor) {
	if !dst.Shape().Equal(src.Shape()) {
		Fatalf(ErrShapeMismatch, "adding a gradient of shape %v into one of shape %v", src.Shape(), dst.Shape())
	}
	switch d := dst.(type) {
	case *tensor.Tensor[float32]:
		s, ok := tensor.As[float32](src)
		if !ok {
			Fatalf(ErrKindMismatch, "adding a %s gradient into a float32 gradient", src.DType())
		}
		d.AddScaled(1, s)
	case *tensor.Tensor[int64]:
		s, ok := tensor.As[int64](src)
		if !ok {
			Fatalf(ErrKindMismatch, "adding a %s gradient into an int64 gradient", src.DType())
		}
		d.AddScaled(1, s)
	default:
		Fatalf(ErrUnsupportedKind, "gradient of kind %s", dst.DType())
	}
}
