package model

import (
	"errors"
	"testing"
)

// fakeModel records how it was used so tests can check the handle lifecycle.
type fakeModel struct {
	output ConfidenceVector
	err    error
	panics bool
	closed int
	lastIn Tensor
}

func (m *fakeModel) Infer(input Tensor) (ConfidenceVector, error) {
	m.lastIn = input
	if m.panics {
		panic("interpreter crashed")
	}
	return m.output, m.err
}

func (m *fakeModel) Close() error {
	m.closed++
	return nil
}

type countingLoader struct {
	model *fakeModel
	err   error
	loads int
}

func (l *countingLoader) Load() (Model, error) {
	l.loads++
	if l.err != nil {
		return nil, l.err
	}
	return l.model, nil
}

func validTensor() Tensor {
	return make(Tensor, TensorSize)
}

func TestClassifier_Success(t *testing.T) {
	m := &fakeModel{output: ConfidenceVector{0.1, 0.9, 0.05}}
	loader := &countingLoader{model: m}
	c := NewClassifier(loader, nil)

	p, err := c.Classify(validTensor())
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if p.Class != "Banana" {
		t.Errorf("Expected Banana, got %s", p.Class)
	}
	if m.closed != 1 {
		t.Errorf("Expected model closed once, got %d", m.closed)
	}
	if len(m.lastIn) != TensorSize {
		t.Errorf("Expected model to receive %d values, got %d", TensorSize, len(m.lastIn))
	}
}

func TestClassifier_FreshHandlePerCall(t *testing.T) {
	m := &fakeModel{output: ConfidenceVector{1, 0, 0}}
	loader := &countingLoader{model: m}
	c := NewClassifier(loader, nil)

	for i := 0; i < 3; i++ {
		if _, err := c.Infer(validTensor()); err != nil {
			t.Fatalf("Infer %d failed: %v", i, err)
		}
	}
	if loader.loads != 3 || m.closed != 3 {
		t.Errorf("Expected 3 loads and 3 closes, got %d and %d", loader.loads, m.closed)
	}
}

func TestClassifier_Failures(t *testing.T) {
	tests := []struct {
		name        string
		input       Tensor
		model       *fakeModel
		loadErr     error
		expectLoads int
		expectClose int
	}{
		{"short tensor", make(Tensor, 10), &fakeModel{}, nil, 0, 0},
		{"load error", validTensor(), &fakeModel{}, errors.New("missing file"), 1, 0},
		{"inference error", validTensor(), &fakeModel{err: errors.New("bad op")}, nil, 1, 1},
		{"panic", validTensor(), &fakeModel{panics: true}, nil, 1, 1},
		{"wrong output length", validTensor(), &fakeModel{output: ConfidenceVector{1, 2}}, nil, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &countingLoader{model: tt.model, err: tt.loadErr}
			c := NewClassifier(loader, nil)

			_, err := c.Classify(tt.input)
			if err != ErrClassificationFailed {
				t.Errorf("Expected ErrClassificationFailed, got %v", err)
			}
			if loader.loads != tt.expectLoads {
				t.Errorf("Expected %d loads, got %d", tt.expectLoads, loader.loads)
			}
			if tt.model.closed != tt.expectClose {
				t.Errorf("Expected %d closes, got %d", tt.expectClose, tt.model.closed)
			}
		})
	}
}
