// Package config loads the YAML configuration shared by the convoys CLI
// and library callers.
//
// The survival and logging sections drive the CLI. The optimizer and
// prediction sections are applied by callers through
// OptimizerConfig.Options and PredictionConfig.Predict.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/convoys/internal/optim"
	"github.com/born-ml/convoys/internal/predict"
	"github.com/born-ml/convoys/internal/tensor"
)

// Config is the top-level configuration.
type Config struct {
	Optimizer  OptimizerConfig  `yaml:"optimizer"`
	Survival   SurvivalConfig   `yaml:"survival"`
	Prediction PredictionConfig `yaml:"prediction"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// OptimizerConfig controls the learning-rate schedule of optim.Maximize.
type OptimizerConfig struct {
	Algorithm      string `yaml:"algorithm" validate:"oneof=adam sgd"`
	Patience       int    `yaml:"patience" validate:"gte=0"`
	StepsPerDecade int    `yaml:"steps_per_decade" validate:"gt=0"`
	MinExponent    int    `yaml:"min_exponent" validate:"ltefield=MaxExponent"`
	MaxExponent    int    `yaml:"max_exponent" validate:"lte=3"`
	MaxSteps       int    `yaml:"max_steps" validate:"gte=0"`
}

// SurvivalConfig holds Kaplan-Meier query defaults.
type SurvivalConfig struct {
	Confidence float64 `yaml:"confidence" validate:"gte=0,lt=1"`
}

// PredictionConfig holds sampling defaults.
type PredictionConfig struct {
	Samples    int     `yaml:"samples" validate:"gt=0"`
	Confidence float64 `yaml:"confidence" validate:"gte=0,lt=1"`
	Seed       uint64  `yaml:"seed"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Optimizer: OptimizerConfig{
			Algorithm:      "adam",
			Patience:       optim.DefaultPatience,
			StepsPerDecade: optim.DefaultStepsPerDecade,
			MinExponent:    optim.DefaultMinExponent,
			MaxExponent:    optim.DefaultMaxExponent,
		},
		Survival: SurvivalConfig{
			Confidence: 0.95,
		},
		Prediction: PredictionConfig{
			Samples:    1000,
			Confidence: 0.95,
			Seed:       1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path on top of Default and validates the result. Keys absent
// from the file keep their default values; unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document leaves the defaults untouched.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Options converts the optimizer section into optim.Maximize options.
func (c OptimizerConfig) Options(logger *zap.Logger) []optim.Option {
	opts := []optim.Option{
		optim.WithPatience(c.Patience),
		optim.WithStepsPerDecade(c.StepsPerDecade),
		optim.WithLearningRateRange(c.MinExponent, c.MaxExponent),
		optim.WithMaxSteps(c.MaxSteps),
		optim.WithLogger(logger),
	}
	if c.Algorithm == "sgd" {
		opts = append(opts, optim.WithOptimizer(func(params []*tensor.Parameter) optim.Optimizer {
			return optim.NewSGD(params, optim.SGDConfig{})
		}))
	}
	return opts
}

// NewSampler returns a sampler seeded from the prediction section.
func (c PredictionConfig) NewSampler() *predict.Sampler {
	return predict.NewSampler(c.Seed)
}

// Predict projects value onto x with the configured sample count and
// confidence level. With a zero confidence level it returns the point
// prediction only.
func (c PredictionConfig) Predict(x, value []float64, hessian mat.Symmetric) ([]float64, error) {
	return c.NewSampler().ProjectAndPredict(x, value, hessian, c.Samples, c.Confidence)
}
