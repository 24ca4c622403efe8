package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/Brownie44l1/photovocalizer/internal/app"
	"github.com/Brownie44l1/photovocalizer/internal/config"
	"github.com/Brownie44l1/photovocalizer/internal/encoder"
	"github.com/Brownie44l1/photovocalizer/internal/history"
	"github.com/Brownie44l1/photovocalizer/internal/logger"
	"github.com/Brownie44l1/photovocalizer/internal/model"
	"github.com/Brownie44l1/photovocalizer/internal/notify"
	"github.com/Brownie44l1/photovocalizer/internal/source"
	"github.com/Brownie44l1/photovocalizer/internal/voice"
)

// newClassifier builds a classifier for the configured model backend. The
// returned function releases the backend runtime.
func newClassifier(cfg *config.Config, log *logger.Logger) (*model.Classifier, func(), error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, nil, fmt.Errorf("model not found: %w", err)
	}

	backend, err := model.ResolveBackend(cfg.ModelBackend, cfg.ModelPath)
	if err != nil {
		return nil, nil, err
	}

	var loader model.Loader
	cleanup := func() {}
	switch backend {
	case model.BackendONNX:
		meta, err := model.LoadMetadata(cfg.MetadataPath)
		if err != nil {
			return nil, nil, err
		}
		if err := model.InitONNX(cfg.ONNXLibraryPath); err != nil {
			return nil, nil, err
		}
		loader = model.NewONNXLoader(cfg.ModelPath, meta, cfg.ModelThreads)
		cleanup = model.ShutdownONNX
	case model.BackendTFLite:
		loader = model.NewTFLiteLoader(cfg.ModelPath, cfg.ModelThreads)
	}

	log.Info("Using %s model %s", backend, cfg.ModelPath)
	return model.NewClassifier(loader, log), cleanup, nil
}

// newApp wires the app around classifier. store may be nil.
func newApp(cfg *config.Config, log *logger.Logger, classifier app.Classifier, store *history.Store) *app.App {
	opts := app.Options{
		Classifier: classifier,
		Encoder:    encoder.New(cfg.NormalizeInput),
		Camera:     source.Camera{Device: cfg.CameraDevice},
		Gallery:    source.Gallery{},
		Logger:     log,
	}
	if store != nil {
		opts.History = store
	}
	return app.New(opts)
}

// newRecognizer loads the Vosk model when one is configured.
func newRecognizer(cfg *config.Config) (voice.Recognizer, error) {
	if cfg.VoskModelPath == "" {
		return nil, nil
	}
	return voice.NewVosk(cfg.VoskModelPath)
}

// toastMessage returns the notification text for an event, or "" when the
// event is not shown.
func toastMessage(e app.Event) string {
	switch e.Type {
	case app.EventFailed, app.EventClassified, app.EventTranscript:
		return e.Message
	default:
		return ""
	}
}

func notifyEvents(a *app.App, n *notify.Notifier) {
	a.Subscribe(func(e app.Event) {
		if msg := toastMessage(e); msg != "" {
			n.Show(msg)
		}
	})
}

// userMessage is the short text shown for a failed action.
func userMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNoImage):
		return app.MsgNoImage
	case errors.Is(err, model.ErrClassificationFailed):
		return app.MsgClassificationFailed
	case errors.Is(err, source.ErrCanceled):
		return "Canceled"
	default:
		return err.Error()
	}
}
