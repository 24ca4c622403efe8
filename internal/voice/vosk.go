package voice

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"
)

// VoskRecognizer implements Recognizer with an offline Vosk model. The model
// decides the language; a Polish model is expected.
type VoskRecognizer struct {
	mu         sync.Mutex
	model      *vosk.VoskModel
	recognizer *vosk.VoskRecognizer
}

type voskResult struct {
	Text string `json:"text"`
}

// NewVosk loads the model directory at modelPath.
func NewVosk(modelPath string) (*VoskRecognizer, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("vosk model not found: %s", modelPath)
	}

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vosk model: %w", err)
	}

	rec, err := vosk.NewRecognizer(model, SampleRate)
	if err != nil {
		model.Free()
		return nil, fmt.Errorf("failed to create vosk recognizer: %w", err)
	}

	return &VoskRecognizer{model: model, recognizer: rec}, nil
}

func (v *VoskRecognizer) Transcribe(pcm []byte) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer == nil {
		return "", fmt.Errorf("vosk recognizer is closed")
	}

	v.recognizer.AcceptWaveform(pcm)
	resultJSON := v.recognizer.FinalResult()
	v.recognizer.Reset()

	var result voskResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return "", fmt.Errorf("failed to parse vosk result: %w", err)
	}
	return strings.TrimSpace(result.Text), nil
}

func (v *VoskRecognizer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer != nil {
		v.recognizer.Free()
		v.recognizer = nil
	}
	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
}
