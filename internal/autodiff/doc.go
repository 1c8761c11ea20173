// Package autodiff implements the variable store and gradient accumulation core
// of a reverse-mode automatic differentiation engine.
//
// Architecture:
//   - Arena: growable table of variable records owned by one goroutine, indexed by VarID
//   - Variable[T]: typed handle (arena, id, generation) into an Arena; carries no payload
//   - VarKind: erased handle over the closed set {float32, int64} for mixed-type graphs
//   - Function: the operation that created a variable, walked backward by an Engine
//   - Engine: traverses creator links and calls DoBackward on every visited variable
//
// Records are never destroyed individually. Memory is reclaimed by truncating the
// arena with Reset, which invalidates every handle past the truncation point.
//
// Misuse (kind mismatches, stale or out-of-bounds handles, backward through dirty,
// volatile or non-differentiable variables) panics with an error wrapping one of
// the Err* sentinels. Use Try or TryBackward to turn those panics into errors.
//
// Usage:
//
//	arena := autodiff.NewArena()
//	x := autodiff.NewVariable(arena, tensor.Ones[float32](tensor.Shape{2, 2}))
//	y := functions.Mul(x, x)
//	functions.Sum(y).Backward()
//	fmt.Println(x.GradTensor().Data()) // dy/dx = 2x
//	arena.Reset(x.ID()) // drop everything allocated after x
package autodiff
