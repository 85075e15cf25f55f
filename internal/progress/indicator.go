// Package progress draws a single-line activity indicator while a request is
// in flight.
package progress

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Style selects how the indicator animates
type Style int

const (
	// Spinner cycles through a fixed set of braille glyphs
	Spinner Style = iota
	// Ellipsis grows a trailing ".", "..", "..." and then resets
	Ellipsis
)

// Elapsed is replaced with the elapsed milliseconds in every template
const Elapsed = "{elapsed}"

var (
	glyphs = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧"}
	dots   = []string{".", "..", "..."}
)

// Templates holds the messages drawn while running and after stopping
type Templates struct {
	Running string
	Done    string
	Failed  string
}

// Indicator owns the current terminal line between Start and Stop. The
// animation is only drawn when stdout is a terminal; the final line is
// always written.
type Indicator struct {
	out   io.Writer
	style Style
	sp    *spinner.Spinner

	mu      sync.Mutex
	tmpl    Templates
	running bool
	started time.Time
}

// New creates an indicator writing to out
func New(out io.Writer, style Style) *Indicator {
	charset, interval := glyphs, 80*time.Millisecond
	if style == Ellipsis {
		charset, interval = dots, 400*time.Millisecond
	}

	sp := spinner.New(charset, interval, spinner.WithWriter(out))
	sp.HideCursor = true

	return &Indicator{out: out, style: style, sp: sp}
}

// Configure sets the templates used by the next Start and Stop
func (i *Indicator) Configure(t Templates) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.tmpl = t
}

// SetInterval changes the tick interval
func (i *Indicator) SetInterval(d time.Duration) {
	if d > 0 {
		i.sp.UpdateSpeed(d)
	}
}

// Running reports whether the indicator is between Start and Stop
func (i *Indicator) Running() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.running
}

// Start begins drawing. Starting a running indicator does nothing.
func (i *Indicator) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.running {
		return
	}
	i.running = true
	i.started = time.Now()

	i.sp.Lock()
	if i.style == Ellipsis {
		i.sp.Prefix, i.sp.Suffix = i.tmpl.Running, ""
	} else {
		i.sp.Prefix, i.sp.Suffix = "", " "+i.tmpl.Running
	}
	i.sp.Unlock()

	i.sp.Start()
}

// Stop clears the line and writes the Done or Failed template. Calling Stop
// on an indicator that was never started does nothing.
func (i *Indicator) Stop(errored bool) {
	tmpl, ok := i.halt()
	if !ok {
		return
	}

	msg := tmpl.Done
	if errored {
		msg = tmpl.Failed
	}
	if msg != "" {
		fmt.Fprintln(i.out, msg)
	}
}

// Abort clears the line without writing a final message
func (i *Indicator) Abort() {
	i.halt()
}

// halt stops the animation and returns the templates with the elapsed time
// filled in
func (i *Indicator) halt() (Templates, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.running {
		return Templates{}, false
	}
	i.running = false
	i.sp.Stop()

	ms := strconv.FormatInt(time.Since(i.started).Milliseconds(), 10)
	return Templates{
		Running: i.tmpl.Running,
		Done:    strings.ReplaceAll(i.tmpl.Done, Elapsed, ms),
		Failed:  strings.ReplaceAll(i.tmpl.Failed, Elapsed, ms),
	}, true
}
