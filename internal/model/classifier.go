package model

import (
	"errors"
	"fmt"

	"github.com/Brownie44l1/photovocalizer/internal/logger"
)

// ErrClassificationFailed is the only error Classifier reports. Details of
// the underlying failure are logged, not returned.
var ErrClassificationFailed = errors.New("classification failed")

// Model is an opened model handle able to run inference.
type Model interface {
	Infer(input Tensor) (ConfidenceVector, error)
	Close() error
}

// Loader opens a new model handle.
type Loader interface {
	Load() (Model, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func() (Model, error)

func (f LoaderFunc) Load() (Model, error) { return f() }

// Classifier runs single inferences. Each call opens its own model handle
// and closes it before returning.
type Classifier struct {
	loader Loader
	logger *logger.Logger
}

func NewClassifier(loader Loader, log *logger.Logger) *Classifier {
	if log == nil {
		log = logger.Discard()
	}
	return &Classifier{loader: loader, logger: log}
}

// Infer validates the tensor, runs the model once and returns its output.
func (c *Classifier) Infer(input Tensor) (ConfidenceVector, error) {
	confidences, err := c.infer(input)
	if err != nil {
		c.logger.Error("Classification failed: %v", err)
		return nil, ErrClassificationFailed
	}
	return confidences, nil
}

// Classify runs Infer and applies the decision rule.
func (c *Classifier) Classify(input Tensor) (*Prediction, error) {
	confidences, err := c.Infer(input)
	if err != nil {
		return nil, err
	}
	return NewPrediction(confidences), nil
}

func (c *Classifier) infer(input Tensor) (out ConfidenceVector, err error) {
	if len(input) != TensorSize {
		return nil, fmt.Errorf("input holds %d values, expected %d", len(input), TensorSize)
	}

	m, err := c.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			c.logger.Warning("Failed to release model: %v", cerr)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("model panicked: %v", r)
		}
	}()

	out, err = m.Infer(input)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	if len(out) != len(Classes) {
		return nil, fmt.Errorf("model returned %d confidences, expected %d", len(out), len(Classes))
	}
	return out, nil
}
