// Package console renders seeding progress as dot padded status lines.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/flashseed/internal/seeder"
	"github.com/fatih/color"
)

const lineWidth = 50

var _ seeder.Reporter = (*Reporter)(nil)

var rule = strings.Repeat("~", 75)

var banner = []string{
	`  __ _           _                     _ `,
	` / _| | __ _ ___| |__  ___  ___  ___ __| |`,
	`| |_| |/ _' / __| '_ \/ __|/ _ \/ _ \/ _' |`,
	`|  _| | (_| \__ \ | | \__ \  __/  __/ (_| |`,
	`|_| |_|\__,_|___/_| |_|___/\___|\___|\__,_|`,
}

type Reporter struct {
	w       io.Writer
	open    bool
	success *color.Color
	warning *color.Color
	failure *color.Color
	accent  *color.Color
}

func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{
		w:       w,
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
		accent:  color.New(color.FgGreen, color.Bold),
	}
}

func (r *Reporter) Header() {
	r.closeLine()
	fmt.Fprintln(r.w, rule)
	for _, line := range banner {
		r.accent.Fprintln(r.w, line)
	}
	fmt.Fprintln(r.w, rule)
}

func (r *Reporter) PhaseStart(phase seeder.Phase, table string) {
	r.closeLine()
	label := Label(phase, table)
	fmt.Fprint(r.w, label)
	if pad := lineWidth - len(label); pad > 0 {
		r.warning.Fprint(r.w, strings.Repeat(".", pad))
	}
	r.open = true
}

func (r *Reporter) Outcome(status seeder.Status, detail string) {
	style := r.warning
	switch status {
	case seeder.StatusSuccess, seeder.StatusStarted:
		style = r.success
	case seeder.StatusFailure:
		style = r.failure
	}
	style.Fprint(r.w, status.String())
	if detail != "" {
		fmt.Fprintf(r.w, " %s", detail)
	}
	fmt.Fprintln(r.w)
	r.open = false
}

func (r *Reporter) Footer(elapsed time.Duration, err error) {
	r.closeLine()
	fmt.Fprintln(r.w, rule)
	if err != nil {
		r.failure.Fprintln(r.w, "Seeding Halted")
		fmt.Fprintf(r.w, "%s %v\n", r.failure.Sprint("Error:"), err)
	} else {
		r.success.Fprintln(r.w, "Seeding Job Complete")
	}
	fmt.Fprintf(r.w, "%s %s\n", r.success.Sprint("Runtime Duration:"), FormatDuration(elapsed))
	fmt.Fprintln(r.w, rule)
}

func (r *Reporter) closeLine() {
	if r.open {
		fmt.Fprintln(r.w)
		r.open = false
	}
}

// Label aligns the phase name so table names line up in a column.
func Label(phase seeder.Phase, table string) string {
	return fmt.Sprintf("%-12s%s", string(phase)+":", table)
}

// FormatDuration renders d as HH:MM:SS.mmm.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
