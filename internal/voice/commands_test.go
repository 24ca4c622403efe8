package voice

import "testing"

func TestMatch(t *testing.T) {
	commands := DefaultCommands()

	tests := []struct {
		transcript string
		expected   Action
	}{
		{"klasyfikuj", ActionClassify},
		{"Klasyfikacja zdjęcia", ActionClassify},
		{"wybierz zdjęcie", ActionSelect},
		{"WYBIERZ", ActionSelect},
		{"zrób zdjęcie", ActionCapture},
		{"ZRÓB zdjęcie", ActionCapture},
		{"wykonaj fotkę", ActionCapture},
		// select is checked before capture and classify
		{"wybierz i klasyfikuj", ActionSelect},
		{"zrób i klasyfikuj", ActionCapture},
		{"dzień dobry", ActionNone},
		{"", ActionNone},
		{"   ", ActionNone},
	}

	for _, tt := range tests {
		if got := commands.Match(tt.transcript); got != tt.expected {
			t.Errorf("Match(%q) = %q, expected %q", tt.transcript, got, tt.expected)
		}
	}
}

func TestMatch_CustomTable(t *testing.T) {
	commands := Commands{DefaultCommands()[2]}

	if got := commands.Match("wybierz"); got != ActionNone {
		t.Errorf("Expected no match without select entry, got %q", got)
	}
	if got := commands.Match("klasyfikuj"); got != ActionClassify {
		t.Errorf("Expected classify, got %q", got)
	}
}
