// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the typed tensors carried by autograd variables.
//
// # Overview
//
// Tensors are dense, row-major and live in CPU memory. This package provides:
//   - Generic type-safe tensors (Tensor[T])
//   - Erased tensors (AnyTensor) for code that mixes element types
//   - The element-wise kernels used by differentiable functions
//
// # Basic Usage
//
//	import "github.com/born-ml/autograd/tensor"
//
//	func main() {
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3})
//	    y := tensor.Ones[float32](tensor.Shape{2, 3})
//	    z := tensor.Add(x, y)
//	    total := tensor.Sum(z).Item() // 6
//	}
//
// # Supported Data Types
//
// The DType constraint admits:
//   - float32 (floating-point)
//   - int64 (signed integers)
//   - uint8 (masks and raw bytes)
//
// Only float32 and int64 (the Element constraint) may be wrapped in autograd
// variables.
//
// # Identity
//
// Every tensor allocation gets a TensorID. Clones get a new id, while in-place
// operations (Fill, Zero, ResizeAs) keep it.
package tensor
