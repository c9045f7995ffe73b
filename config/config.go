// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package config loads convoys YAML configuration.
//
// The optimizer section becomes optim.Maximize options and the prediction
// section drives predict sampling:
//
//	cfg, err := config.Load("convoys.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := optim.Maximize(objective, params, cfg.Optimizer.Options(logger)...)
//	h, err := autodiff.Hessian(objective, params, 0)
//	samples, err := cfg.Prediction.Predict(x, params[0].Tensor().Data(), h)
package config

import (
	"github.com/born-ml/convoys/internal/config"
)

// Config is the top-level configuration.
type Config = config.Config

// OptimizerConfig controls the learning-rate schedule of optim.Maximize.
type OptimizerConfig = config.OptimizerConfig

// SurvivalConfig holds Kaplan-Meier query defaults.
type SurvivalConfig = config.SurvivalConfig

// PredictionConfig holds sampling defaults.
type PredictionConfig = config.PredictionConfig

// LoggingConfig selects the zap logger.
type LoggingConfig = config.LoggingConfig

// Default returns the built-in configuration.
func Default() Config {
	return config.Default()
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	return config.Load(path)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	return config.Parse(data)
}
