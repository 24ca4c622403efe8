package model

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXLoader opens sessions on an ONNX export of the model.
type ONNXLoader struct {
	modelPath string
	metadata  Metadata
	threads   int
}

// InitONNX initializes the ONNX Runtime environment once per process.
// libraryPath may be empty to use the platform default.
func InitONNX(libraryPath string) error {
	if ort.IsInitialized() {
		return nil
	}
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return nil
}

// ShutdownONNX tears down the ONNX Runtime environment.
func ShutdownONNX() {
	if ort.IsInitialized() {
		ort.DestroyEnvironment()
	}
}

func NewONNXLoader(modelPath string, metadata Metadata, threads int) *ONNXLoader {
	return &ONNXLoader{modelPath: modelPath, metadata: metadata, threads: threads}
}

func (l *ONNXLoader) Load() (Model, error) {
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(l.metadata.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(l.metadata.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()
	if l.threads > 0 {
		options.SetIntraOpNumThreads(l.threads)
	}

	session, err := ort.NewAdvancedSession(l.modelPath,
		[]string{l.metadata.InputName}, []string{l.metadata.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		options)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &onnxModel{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

type onnxModel struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

func (m *onnxModel) Infer(input Tensor) (ConfidenceVector, error) {
	data := m.inputTensor.GetData()
	if len(data) != len(input) {
		return nil, fmt.Errorf("session expects %d input values, got %d", len(data), len(input))
	}
	copy(data, input)

	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := m.outputTensor.GetData()
	return append(ConfidenceVector(nil), out...), nil
}

func (m *onnxModel) Close() error {
	var err error
	if m.session != nil {
		err = m.session.Destroy()
	}
	if m.inputTensor != nil {
		m.inputTensor.Destroy()
	}
	if m.outputTensor != nil {
		m.outputTensor.Destroy()
	}
	return err
}
