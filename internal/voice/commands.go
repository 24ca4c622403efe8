// Package voice maps spoken Polish transcripts to app actions.
package voice

import (
	"regexp"
	"strings"
)

// Action is something a voice command can trigger.
type Action string

const (
	ActionNone     Action = ""
	ActionSelect   Action = "select"
	ActionCapture  Action = "capture"
	ActionClassify Action = "classify"
)

// Command pairs a keyword pattern with the action it triggers.
type Command struct {
	Pattern *regexp.Regexp
	Action  Action
}

// Commands is evaluated in order; the first matching pattern wins.
type Commands []Command

// DefaultCommands recognizes "wybierz" (pick from gallery), "zrób"/"wykonaj"
// (take a photo) and any form of "klasyfikuj".
func DefaultCommands() Commands {
	return Commands{
		{Pattern: regexp.MustCompile(`(?i)wybierz`), Action: ActionSelect},
		{Pattern: regexp.MustCompile(`(?i)zrób|wykonaj`), Action: ActionCapture},
		{Pattern: regexp.MustCompile(`(?i)klasyfik`), Action: ActionClassify},
	}
}

// Match returns the action for a transcript, or ActionNone.
func (c Commands) Match(transcript string) Action {
	if strings.TrimSpace(transcript) == "" {
		return ActionNone
	}
	for _, cmd := range c {
		if cmd.Pattern.MatchString(transcript) {
			return cmd.Action
		}
	}
	return ActionNone
}
