package model

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"
)

const (
	// ImageSize is the side length of the square image the model was trained on.
	ImageSize = 32
	Channels  = 3
	// TensorSize is the number of float32 values in one encoded image.
	TensorSize = ImageSize * ImageSize * Channels
)

// Tensor is an encoded image: row-major pixels, R,G,B interleaved.
type Tensor []float32

// Bytes packs the tensor as float32 values in native byte order.
func (t Tensor) Bytes() []byte {
	buf := make([]byte, 4*len(t))
	for i, v := range t {
		binary.NativeEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// ConfidenceVector holds the raw model output, one score per class.
type ConfidenceVector []float32

type Class struct {
	Name  string
	Color color.RGBA
}

// Hex returns the class color as #rrggbb.
func (c Class) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Color.R, c.Color.G, c.Color.B)
}

// Classes is ordered to match the model output.
var Classes = []Class{
	{Name: "Apple", Color: color.RGBA{R: 0xff, A: 0xff}},
	{Name: "Banana", Color: color.RGBA{R: 0xff, G: 0xff, A: 0xff}},
	{Name: "Orange", Color: color.RGBA{R: 0xff, G: 0xa5, A: 0xff}},
}

// Metadata describes the tensors of an exported model.
type Metadata struct {
	InputName   string  `json:"input_name"`
	OutputName  string  `json:"output_name"`
	InputShape  []int64 `json:"input_shape"`
	OutputShape []int64 `json:"output_shape"`
}

// DefaultMetadata matches the fruit model: [1,32,32,3] -> [1,3].
func DefaultMetadata() Metadata {
	return Metadata{
		InputName:   "input",
		OutputName:  "output",
		InputShape:  []int64{1, ImageSize, ImageSize, Channels},
		OutputShape: []int64{1, int64(len(Classes))},
	}
}

// LoadMetadata reads metadata from a JSON file. Fields missing from the file
// keep their defaults.
func LoadMetadata(path string) (Metadata, error) {
	meta := DefaultMetadata()
	if path == "" {
		return meta, nil
	}

	metaFile, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(metaFile, &meta); err != nil {
		return meta, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if n := shapeSize(meta.InputShape); n != TensorSize {
		return meta, fmt.Errorf("metadata input shape %v holds %d values, expected %d", meta.InputShape, n, TensorSize)
	}
	if n := shapeSize(meta.OutputShape); n != len(Classes) {
		return meta, fmt.Errorf("metadata output shape %v holds %d values, expected %d", meta.OutputShape, n, len(Classes))
	}
	return meta, nil
}

func shapeSize(shape []int64) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, dim := range shape {
		n *= int(dim)
	}
	return n
}

type PredictionRequest struct {
	Image []float32 `json:"image"`
}

// Prediction is the outcome of one classification.
type Prediction struct {
	Index       int                `json:"index"`
	Class       string             `json:"class"`
	Color       string             `json:"color"`
	Confidence  float32            `json:"confidence"`
	Predictions map[string]float32 `json:"predictions"`
}
