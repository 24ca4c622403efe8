package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	ModelPath       string
	MetadataPath    string
	ModelBackend    string // "onnx", "tflite" or empty to pick by file extension
	ONNXLibraryPath string
	ModelThreads    int
	NormalizeInput  bool // scale pixel components to 0..1 instead of passing 0..255 through
	VoskModelPath   string
	CameraDevice    int
	DatabasePath    string
	LogDirectory    string
	Notifications   bool
}

// Load reads the configuration from the environment. Values found in the
// given .env files are applied first without overriding variables that are
// already set; missing files are ignored.
func Load(envFiles ...string) *Config {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	return &Config{
		Port:            getEnvAsInt("PORT", 8080),
		ModelPath:       getEnv("MODEL_PATH", filepath.Join(".", "models", "fruit_model.tflite")),
		MetadataPath:    getEnv("MODEL_METADATA", ""),
		ModelBackend:    getEnv("MODEL_BACKEND", ""),
		ONNXLibraryPath: getEnv("ONNX_LIBRARY_PATH", ""),
		ModelThreads:    getEnvAsInt("MODEL_THREADS", 1),
		NormalizeInput:  getEnvAsBool("NORMALIZE_INPUT", false),
		VoskModelPath:   getEnv("VOSK_MODEL_PATH", ""),
		CameraDevice:    getEnvAsInt("CAMERA_DEVICE", 0),
		DatabasePath:    getEnv("DATABASE_PATH", filepath.Join(".", "photovocalizer.db")),
		LogDirectory:    getEnv("LOG_DIR", ""),
		Notifications:   getEnvAsBool("NOTIFICATIONS", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
