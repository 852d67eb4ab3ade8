package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestAskConfirmation(t *testing.T) {
	tests := []struct {
		input string
		force bool
		want  bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", false, false},
		{"\n", false, false},
		{"", false, false},
		{"", true, true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		i := &InputUtils{In: strings.NewReader(tt.input), Out: &out}
		if got := i.AskConfirmation("Truncate tables?", tt.force); got != tt.want {
			t.Errorf("AskConfirmation(%q, force=%v) = %v, want %v", tt.input, tt.force, got, tt.want)
		}
		if tt.force && out.Len() != 0 {
			t.Errorf("forced confirmation should not prompt, got %q", out.String())
		}
	}
}
