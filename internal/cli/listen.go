package cli

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Brownie44l1/photovocalizer/internal/app"
	"github.com/Brownie44l1/photovocalizer/internal/history"
	"github.com/Brownie44l1/photovocalizer/internal/notify"
	"github.com/Brownie44l1/photovocalizer/internal/voice"
	"github.com/spf13/cobra"
)

var listenAudio []string

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Run voice commands typed on stdin or recognized from audio files",
	Long: `Runs voice commands. Without --audio every line read from stdin is
treated as a transcript. With --audio each file (16 kHz mono PCM16, raw or
WAV) is transcribed with the Vosk model from VOSK_MODEL_PATH first.

Commands: "wybierz" picks a photo, "zrób"/"wykonaj" takes one,
"klasyfikuj" classifies the loaded photo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier, cleanup, err := newClassifier(cfg, appLog)
		if err != nil {
			return fmt.Errorf("failed to initialize model: %w", err)
		}
		defer cleanup()

		store, err := history.New(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		a := newApp(cfg, appLog, classifier, store)
		notifyEvents(a, notify.New(cfg.Notifications))

		if len(listenAudio) == 0 {
			return listenLines(cmd.Context(), a, os.Stdin, os.Stdout)
		}

		recognizer, err := newRecognizer(cfg)
		if err != nil {
			return fmt.Errorf("failed to load speech model: %w", err)
		}
		if recognizer == nil {
			return fmt.Errorf("VOSK_MODEL_PATH is required with --audio")
		}
		defer recognizer.Close()

		return listenAudioFiles(cmd.Context(), a, recognizer, listenAudio, os.Stdout)
	},
}

func init() {
	listenCmd.Flags().StringSliceVar(&listenAudio, "audio", nil, "Audio files to transcribe instead of reading stdin")
	rootCmd.AddCommand(listenCmd)
}

// listenLines runs every non-empty line of r as a transcript until r is
// exhausted or ctx is canceled.
func listenLines(ctx context.Context, a *app.App, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		runCommand(ctx, a, scanner.Text(), w)
	}
	return scanner.Err()
}

func listenAudioFiles(ctx context.Context, a *app.App, rec voice.Recognizer, paths []string, w io.Writer) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read audio: %w", err)
		}
		transcript, err := rec.Transcribe(pcmData(data))
		if err != nil {
			appLog.Error("Transcription of %s failed: %v", path, err)
			continue
		}
		runCommand(ctx, a, transcript, w)
	}
	return nil
}

// pcmData returns the samples of a WAV file's data chunk. Anything that is
// not RIFF/WAVE is taken to be raw PCM already.
func pcmData(data []byte) []byte {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return data
	}

	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if id == "data" {
			end := body + size
			if end > len(data) {
				end = len(data)
			}
			return data[body:end]
		}
		// chunks are padded to an even length
		off = body + size + size%2
	}
	return nil
}

func runCommand(ctx context.Context, a *app.App, transcript string, w io.Writer) {
	if strings.TrimSpace(transcript) == "" {
		return
	}
	result, err := a.HandleTranscript(ctx, transcript)
	if err != nil {
		fmt.Fprintf(w, "%q -> %s\n", transcript, userMessage(err))
		return
	}

	switch {
	case result.Prediction != nil:
		fmt.Fprintf(w, "%q -> %s (%.4f)\n", transcript, result.Prediction.Class, result.Prediction.Confidence)
	case result.Action == voice.ActionNone:
		fmt.Fprintf(w, "%q -> no command\n", transcript)
	default:
		fmt.Fprintf(w, "%q -> %s\n", transcript, result.Action)
	}
}
