package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Lumos-Labs-HQ/flashseed/internal/seeder"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestLabel(t *testing.T) {
	if got := Label(seeder.PhaseTruncate, "users"); got != "TRUNCATE:   users" {
		t.Errorf("unexpected label %q", got)
	}
	if got := Label(seeder.PhasePostScript, "users"); got != "POSTSCRIPT: users" {
		t.Errorf("unexpected label %q", got)
	}
}

func TestPhaseLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.PhaseStart(seeder.PhaseTruncate, "users")
	r.Outcome(seeder.StatusSuccess, "")
	r.PhaseStart(seeder.PhaseSeed, "users")
	r.PhaseStart(seeder.PhasePreScript, "users")
	r.Outcome(seeder.StatusFailure, "Unable To Complete Callback (Pre) - boom")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	want := "TRUNCATE:   users" + strings.Repeat(".", lineWidth-len("TRUNCATE:   users")) + "SUCCESS"
	if lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[1], "SEED:       users...") || strings.Contains(lines[1], "SUCCESS") {
		t.Errorf("interrupted seed line should stay open, got %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "FAILURE Unable To Complete Callback (Pre) - boom") {
		t.Errorf("unexpected failure line %q", lines[2])
	}
}

func TestFooter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Footer(1500*time.Millisecond, nil)
	if !strings.Contains(buf.String(), "Seeding Job Complete") || !strings.Contains(buf.String(), "Runtime Duration: 00:00:01.500") {
		t.Errorf("unexpected footer: %s", buf.String())
	}

	buf.Reset()
	r.Footer(time.Second, errors.New("insert users failed"))
	if !strings.Contains(buf.String(), "Seeding Halted") || !strings.Contains(buf.String(), "insert users failed") {
		t.Errorf("unexpected failure footer: %s", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                   "00:00:00.000",
		42 * time.Millisecond:               "00:00:00.042",
		61*time.Second + 5*time.Millisecond: "00:01:01.005",
		3*time.Hour + 2*time.Minute + 1*time.Second: "03:02:01.000",
		-time.Second: "00:00:00.000",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%v) = %s, want %s", in, got, want)
		}
	}
}
