package model

import (
	"errors"
	"fmt"

	"github.com/mattn/go-tflite"
)

// TFLiteLoader opens interpreters on the TensorFlow Lite export of the model.
type TFLiteLoader struct {
	modelPath string
	threads   int
}

func NewTFLiteLoader(modelPath string, threads int) *TFLiteLoader {
	return &TFLiteLoader{modelPath: modelPath, threads: threads}
}

func (l *TFLiteLoader) Load() (Model, error) {
	m := tflite.NewModelFromFile(l.modelPath)
	if m == nil {
		return nil, fmt.Errorf("cannot load model %s", l.modelPath)
	}

	options := tflite.NewInterpreterOptions()
	defer options.Delete()
	if l.threads > 0 {
		options.SetNumThread(l.threads)
	}

	interpreter := tflite.NewInterpreter(m, options)
	if interpreter == nil {
		m.Delete()
		return nil, errors.New("cannot create interpreter")
	}

	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		m.Delete()
		return nil, fmt.Errorf("allocate tensors failed: %v", status)
	}

	return &tfliteModel{model: m, interpreter: interpreter}, nil
}

type tfliteModel struct {
	model       *tflite.Model
	interpreter *tflite.Interpreter
}

func (m *tfliteModel) Infer(input Tensor) (ConfidenceVector, error) {
	in := m.interpreter.GetInputTensor(0)
	if in == nil {
		return nil, errors.New("model has no input tensor")
	}
	if in.Type() != tflite.Float32 {
		return nil, fmt.Errorf("input tensor type is %v, expected float32", in.Type())
	}
	if err := in.SetFloat32s(input); err != nil {
		return nil, fmt.Errorf("set input: %w", err)
	}

	if status := m.interpreter.Invoke(); status != tflite.OK {
		return nil, fmt.Errorf("invoke failed: %v", status)
	}

	out := m.interpreter.GetOutputTensor(0)
	if out == nil {
		return nil, errors.New("model has no output tensor")
	}
	return append(ConfidenceVector(nil), out.Float32s()...), nil
}

func (m *tfliteModel) Close() error {
	m.interpreter.Delete()
	m.model.Delete()
	return nil
}
