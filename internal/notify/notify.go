// Package notify shows short desktop notifications, the CLI stand-in for toasts.
package notify

import (
	"github.com/gen2brain/beeep"
)

const appName = "Photo Vocalizer"

// maxMessageRunes caps the notification body, counted in characters.
const maxMessageRunes = 100

// Notifier sends desktop notifications when enabled.
type Notifier struct {
	enabled bool
	send    func(title, message string) error
}

// New creates a Notifier backed by beeep.
func New(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// Show displays message; messages over maxMessageRunes characters are
// shortened.
func (n *Notifier) Show(message string) {
	if !n.enabled {
		return
	}
	if r := []rune(message); len(r) > maxMessageRunes {
		message = string(r[:maxMessageRunes]) + "..."
	}
	// notification failures are not critical
	_ = n.send(appName, message)
}
