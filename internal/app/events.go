package app

import (
	"github.com/Brownie44l1/photovocalizer/internal/model"
	"github.com/Brownie44l1/photovocalizer/internal/source"
	"github.com/Brownie44l1/photovocalizer/internal/voice"
)

type EventType string

const (
	EventImageLoaded EventType = "image_loaded"
	EventClassified  EventType = "classified"
	EventFailed      EventType = "failed"
	EventTranscript  EventType = "transcript"
)

// Event is what listeners see of the app: the toasts and result label of a
// mobile screen.
type Event struct {
	Type       EventType         `json:"type"`
	Message    string            `json:"message,omitempty"`
	Origin     source.Origin     `json:"origin,omitempty"`
	Action     voice.Action      `json:"action,omitempty"`
	Prediction *model.Prediction `json:"prediction,omitempty"`
}

type Listener func(Event)

// Subscribe registers l for every future event. Listeners run synchronously.
func (a *App) Subscribe(l Listener) {
	a.listenersMu.Lock()
	defer a.listenersMu.Unlock()
	a.listeners = append(a.listeners, l)
}

func (a *App) emit(e Event) {
	a.listenersMu.RLock()
	listeners := a.listeners
	a.listenersMu.RUnlock()

	for _, l := range listeners {
		l(e)
	}
}
