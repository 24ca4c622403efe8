package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	BackendONNX   = "onnx"
	BackendTFLite = "tflite"
)

// ResolveBackend returns the configured backend, or derives it from the
// model file extension when none is configured.
func ResolveBackend(backend, modelPath string) (string, error) {
	if backend == "" {
		backend = strings.TrimPrefix(strings.ToLower(filepath.Ext(modelPath)), ".")
	}
	switch backend {
	case BackendONNX, BackendTFLite:
		return backend, nil
	default:
		return "", fmt.Errorf("unknown model backend %q (supported: onnx, tflite)", backend)
	}
}
