package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MODEL_PATH", "MODEL_BACKEND", "NORMALIZE_INPUT", "NOTIFICATIONS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.ModelPath != filepath.Join(".", "models", "fruit_model.tflite") {
		t.Errorf("Unexpected default model path: %s", cfg.ModelPath)
	}
	if cfg.NormalizeInput {
		t.Error("Expected normalization to be disabled by default")
	}
	if !cfg.Notifications {
		t.Error("Expected notifications to be enabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_BACKEND", "onnx")
	t.Setenv("NORMALIZE_INPUT", "true")
	t.Setenv("CAMERA_DEVICE", "not-a-number")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.ModelBackend != "onnx" {
		t.Errorf("Expected onnx backend, got %q", cfg.ModelBackend)
	}
	if !cfg.NormalizeInput {
		t.Error("Expected normalization to be enabled")
	}
	if cfg.CameraDevice != 0 {
		t.Errorf("Expected invalid camera device to fall back to 0, got %d", cfg.CameraDevice)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("VOSK_MODEL_PATH=/opt/vosk-pl\nLOG_DIR=/tmp/pv-logs\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already present
	t.Setenv("LOG_DIR", "/var/log/pv")
	os.Unsetenv("VOSK_MODEL_PATH")
	defer os.Unsetenv("VOSK_MODEL_PATH")

	cfg := Load(envFile, filepath.Join(dir, "missing.env"))

	if cfg.VoskModelPath != "/opt/vosk-pl" {
		t.Errorf("Expected vosk path from .env, got %q", cfg.VoskModelPath)
	}
	if cfg.LogDirectory != "/var/log/pv" {
		t.Errorf("Expected environment to win over .env, got %q", cfg.LogDirectory)
	}
}
