// Package app holds the loaded photo and runs the capture, pick and classify
// actions, whether they come from buttons, HTTP or voice.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/Brownie44l1/photovocalizer/internal/encoder"
	"github.com/Brownie44l1/photovocalizer/internal/history"
	"github.com/Brownie44l1/photovocalizer/internal/logger"
	"github.com/Brownie44l1/photovocalizer/internal/model"
	"github.com/Brownie44l1/photovocalizer/internal/source"
	"github.com/Brownie44l1/photovocalizer/internal/voice"
)

// ErrNoImage is returned by Classify before any image was loaded.
var ErrNoImage = errors.New("no image loaded")

const (
	MsgNoImage              = "No image loaded"
	MsgClassificationFailed = "Classification failed"
)

// Classifier runs the model on an encoded image.
type Classifier interface {
	Classify(input model.Tensor) (*model.Prediction, error)
}

// Recorder persists classification results.
type Recorder interface {
	Insert(rec *history.Record) (int64, error)
}

type Options struct {
	Classifier Classifier
	Encoder    *encoder.Encoder
	Camera     source.Source
	Gallery    source.Source
	Commands   voice.Commands
	History    Recorder
	Logger     *logger.Logger
}

type App struct {
	mu         sync.Mutex
	classifyMu sync.Mutex
	image      image.Image
	origin     source.Origin

	classifier Classifier
	encoder    *encoder.Encoder
	camera     source.Source
	gallery    source.Source
	commands   voice.Commands
	history    Recorder
	logger     *logger.Logger

	listenersMu sync.RWMutex
	listeners   []Listener
}

func New(opts Options) *App {
	a := &App{
		classifier: opts.Classifier,
		encoder:    opts.Encoder,
		camera:     opts.Camera,
		gallery:    opts.Gallery,
		commands:   opts.Commands,
		history:    opts.History,
		logger:     opts.Logger,
	}
	if a.encoder == nil {
		a.encoder = encoder.New(false)
	}
	if a.commands == nil {
		a.commands = voice.DefaultCommands()
	}
	if a.logger == nil {
		a.logger = logger.Discard()
	}
	return a
}

// Load replaces the current image with img scaled to the model resolution.
func (a *App) Load(img image.Image, origin source.Origin) {
	prepared := encoder.Prepare(img, origin == source.OriginCamera)

	a.mu.Lock()
	a.image = prepared
	a.origin = origin
	a.mu.Unlock()

	b := img.Bounds()
	a.logger.Info("Loaded %s image (%dx%d)", origin, b.Dx(), b.Dy())
	a.emit(Event{Type: EventImageLoaded, Origin: origin})
}

// HasImage reports whether Classify has something to work on.
func (a *App) HasImage() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.image != nil
}

// Capture takes a photo with the camera and loads it.
func (a *App) Capture(ctx context.Context) error {
	return a.acquire(ctx, a.camera, source.OriginCamera)
}

// Pick lets the user choose a photo from the gallery and loads it.
func (a *App) Pick(ctx context.Context) error {
	return a.acquire(ctx, a.gallery, source.OriginGallery)
}

func (a *App) acquire(ctx context.Context, src source.Source, origin source.Origin) error {
	if src == nil {
		return fmt.Errorf("%w: no %s configured", source.ErrUnavailable, origin)
	}
	img, err := src.Acquire(ctx)
	if err != nil {
		if !errors.Is(err, source.ErrCanceled) {
			a.logger.Warning("Failed to get %s image: %v", origin, err)
		}
		return err
	}
	a.Load(img, origin)
	return nil
}

// Classify encodes the loaded image and runs the model once. It returns
// ErrNoImage when nothing is loaded and model.ErrClassificationFailed for any
// other failure. The loaded image is kept either way.
func (a *App) Classify() (*model.Prediction, error) {
	a.classifyMu.Lock()
	defer a.classifyMu.Unlock()

	a.mu.Lock()
	img, origin := a.image, a.origin
	a.mu.Unlock()

	if img == nil {
		a.emit(Event{Type: EventFailed, Message: MsgNoImage})
		return nil, ErrNoImage
	}

	prediction, err := a.classify(img)
	if err != nil {
		a.emit(Event{Type: EventFailed, Message: MsgClassificationFailed})
		return nil, model.ErrClassificationFailed
	}

	if a.history != nil {
		rec := &history.Record{
			Origin:      string(origin),
			Class:       prediction.Class,
			Confidence:  prediction.Confidence,
			Predictions: prediction.Predictions,
		}
		if _, err := a.history.Insert(rec); err != nil {
			a.logger.Warning("Failed to record classification: %v", err)
		}
	}

	a.logger.Info("Classified as %s (%.3f)", prediction.Class, prediction.Confidence)
	a.emit(Event{Type: EventClassified, Message: prediction.Class, Origin: origin, Prediction: prediction})
	return prediction, nil
}

// ClassifyTensor runs the model on an already encoded tensor. It shares the
// lock with Classify, leaves the loaded image alone and records nothing.
func (a *App) ClassifyTensor(input model.Tensor) (*model.Prediction, error) {
	a.classifyMu.Lock()
	defer a.classifyMu.Unlock()

	prediction, err := a.classifier.Classify(input)
	if err != nil {
		return nil, model.ErrClassificationFailed
	}
	return prediction, nil
}

func (a *App) classify(img image.Image) (*model.Prediction, error) {
	tensor, err := a.encoder.Encode(img)
	if err != nil {
		a.logger.Error("Failed to encode image: %v", err)
		return nil, err
	}
	return a.classifier.Classify(tensor)
}

// CommandResult describes what a transcript triggered.
type CommandResult struct {
	Transcript string            `json:"transcript"`
	Action     voice.Action      `json:"action"`
	Prediction *model.Prediction `json:"prediction,omitempty"`
}

// HandleTranscript runs the action matching a speech transcript. Transcripts
// that match nothing yield voice.ActionNone and no error.
func (a *App) HandleTranscript(ctx context.Context, transcript string) (*CommandResult, error) {
	result := &CommandResult{
		Transcript: transcript,
		Action:     a.commands.Match(transcript),
	}
	if transcript != "" {
		a.emit(Event{Type: EventTranscript, Message: transcript, Action: result.Action})
	}

	var err error
	switch result.Action {
	case voice.ActionSelect:
		err = a.Pick(ctx)
	case voice.ActionCapture:
		err = a.Capture(ctx)
	case voice.ActionClassify:
		result.Prediction, err = a.Classify()
	}
	return result, err
}
