// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensors and trainable
// parameters shared by the convoys packages.
//
// # Overview
//
// Tensors are row-major and own their data. A Parameter wraps a tensor
// with a name and an optional gradient, and is the unit that optim.Maximize
// mutates in place.
//
// # Basic Usage
//
//	import "github.com/born-ml/convoys/tensor"
//
//	func main() {
//	    w := tensor.NewParameter("w", tensor.Zeros(tensor.Shape{3}))
//	    b := tensor.NewParameter("b", tensor.Scalar(0))
//
//	    // Query times for a survival curve, any shape.
//	    ts, err := tensor.FromSlice([]float64{1, 7, 30, 90}, tensor.Shape{2, 2})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = ts
//	}
package tensor
