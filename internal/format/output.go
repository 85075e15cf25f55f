package format

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/vedsharma/soar/internal/model"
)

// sanitizeOutput removes or escapes potentially dangerous control characters
// that could manipulate terminal display or execute commands
func sanitizeOutput(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			result.WriteRune(r)
		case r == '\x1b':
			result.WriteString("\\x1b")
		case unicode.IsControl(r) && r < 0x20:
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		case r == 0x7F:
			result.WriteString("\\x7f")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// Printer writes user-facing messages. Colour is decided per printer so the
// config's use_colour toggle and --no-color never touch package state.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	colour bool
	quiet  bool

	baseColor      *color.Color
	infoColor      *color.Color
	successColor   *color.Color
	warnColor      *color.Color
	errColor       *color.Color
	httpColor      *color.Color
	redirectColor  *color.Color
	serverErrColor *color.Color
	methodColor    *color.Color
	urlColor       *color.Color
	dimColor       *color.Color
	addColor       *color.Color
	removeColor    *color.Color
	countColor     *color.Color
}

// NewPrinter creates a printer writing normal output to out and errors to errOut
func NewPrinter(out, errOut io.Writer, useColour bool) *Printer {
	p := &Printer{
		out:            out,
		errOut:         errOut,
		colour:         useColour,
		baseColor:      color.New(color.FgCyan),
		infoColor:      color.New(color.FgBlue),
		successColor:   color.New(color.FgGreen, color.Bold),
		warnColor:      color.New(color.FgYellow),
		errColor:       color.New(color.FgRed, color.Bold),
		httpColor:      color.New(color.FgBlue, color.Bold),
		redirectColor:  color.New(color.FgYellow, color.Bold),
		serverErrColor: color.New(color.FgRed, color.Bold, color.BgWhite),
		methodColor:    color.New(color.FgMagenta, color.Bold),
		urlColor:       color.New(color.FgBlue),
		dimColor:       color.New(color.Faint),
		addColor:       color.New(color.FgGreen),
		removeColor:    color.New(color.FgRed),
		countColor:     color.New(color.FgCyan),
	}

	for _, c := range p.colors() {
		if useColour {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p *Printer) colors() []*color.Color {
	return []*color.Color{
		p.baseColor, p.infoColor, p.successColor, p.warnColor, p.errColor,
		p.httpColor, p.redirectColor, p.serverErrColor, p.methodColor,
		p.urlColor, p.dimColor, p.addColor, p.removeColor, p.countColor,
	}
}

// SetQuiet suppresses everything except errors and plain lines
func (p *Printer) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// Colour reports whether the printer emits ANSI colour codes
func (p *Printer) Colour() bool {
	return p.colour
}

// Writer returns the writer used for normal output
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) border(level string, c *color.Color) string {
	return fmt.Sprintf("[%s] %s: ", p.baseColor.Sprint("soar"), c.Sprint(level))
}

func (p *Printer) block(w io.Writer, border, kind string, lines []string) {
	if kind != "" {
		fmt.Fprintln(w, border+sanitizeOutput(kind))
	}
	for _, line := range lines {
		fmt.Fprintln(w, border+sanitizeOutput(line))
	}
}

// Line prints a line as-is
func (p *Printer) Line(s string) {
	fmt.Fprintln(p.out, s)
}

// Info prints informational lines
func (p *Printer) Info(lines ...string) {
	if p.quiet {
		return
	}
	p.block(p.out, p.border("info", p.infoColor), "", lines)
}

// Success prints success lines
func (p *Printer) Success(lines ...string) {
	if p.quiet {
		return
	}
	p.block(p.out, p.border("success", p.successColor), "", lines)
}

// HTTP prints an http trace line
func (p *Printer) HTTP(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s: %s\n", p.httpColor.Sprint("http"), sanitizeOutput(msg))
}

// Warn prints a labelled warning block
func (p *Printer) Warn(kind string, lines ...string) {
	if p.quiet {
		return
	}
	p.block(p.out, p.border("warning", p.warnColor), kind, lines)
}

// Error prints a labelled error block. Errors are never silenced.
func (p *Printer) Error(kind string, lines ...string) {
	p.block(p.errOut, p.border("error", p.errColor), kind, lines)
}

// Changes prints the diff summary line of an update
func (p *Printer) Changes(view model.View) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%smade %s changes (%s | %s)\n",
		p.border("success", p.successColor),
		p.countColor.Sprint(view.TotalChanges),
		p.addColor.Sprintf("+%d", view.Additions),
		p.removeColor.Sprintf("-%d", view.Subtractions),
	)
}

func (p *Printer) statusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return p.successColor
	case code >= 300 && code < 400:
		return p.redirectColor
	case code >= 400 && code < 500:
		return p.errColor
	default:
		return p.serverErrColor
	}
}

// PrintRequestLogs prints request log entries in a compact table
func (p *Printer) PrintRequestLogs(logs []model.ReqLog, limit int) {
	if len(logs) == 0 {
		p.dimColor.Fprintln(p.out, "No request logs found")
		return
	}

	count := len(logs)
	if limit > 0 && limit < count {
		count = limit
	}

	for i := 0; i < count; i++ {
		l := logs[i]
		p.dimColor.Fprintf(p.out, "%s  ", l.Time().Format("2006-01-02 15:04:05"))
		p.methodColor.Fprintf(p.out, "%-7s ", l.Method)
		p.statusColor(l.Response).Fprintf(p.out, "%d ", l.Response)
		p.urlColor.Fprintf(p.out, "%s", sanitizeOutput(l.Domain))
		fmt.Fprintf(p.out, "%s", sanitizeOutput(l.Path))
		if l.Type != model.LogTypeDirect {
			p.dimColor.Fprintf(p.out, " (%s)", l.Type)
		}
		fmt.Fprintln(p.out)
	}

	if limit > 0 && len(logs) > limit {
		p.dimColor.Fprintf(p.out, "\n... and %d more logs\n", len(logs)-limit)
	}
}

// PrintErrorLogs prints saved error reports in a compact format
func (p *Printer) PrintErrorLogs(logs []model.ErrorLog) {
	if len(logs) == 0 {
		p.dimColor.Fprintln(p.out, "No error logs saved")
		return
	}

	for i, l := range logs {
		p.dimColor.Fprintf(p.out, "[%d] ", i+1)
		p.errColor.Fprintf(p.out, "%s ", sanitizeOutput(l.Kind))
		p.dimColor.Fprintf(p.out, "%s %s", l.ID, l.Timestamp.Format("2006-01-02 15:04:05"))
		if l.Command != "" {
			fmt.Fprintf(p.out, "  %s", sanitizeOutput(l.Command))
		}
		fmt.Fprintln(p.out)
	}
}

// PrintErrorLogDetail prints one saved error report in full
func (p *Printer) PrintErrorLogDetail(l *model.ErrorLog) {
	fmt.Fprintln(p.out, "Error:")
	fmt.Fprintln(p.out, strings.Repeat("-", 40))
	p.errColor.Fprintln(p.out, sanitizeOutput(l.Kind))
	p.dimColor.Fprintf(p.out, "ID: %s\n", l.ID)
	p.dimColor.Fprintf(p.out, "Time: %s\n", l.Timestamp.Format("2006-01-02 15:04:05"))
	if l.Command != "" {
		p.dimColor.Fprintf(p.out, "Command: %s\n", sanitizeOutput(l.Command))
	}
	fmt.Fprintln(p.out)

	for _, line := range l.Lines {
		fmt.Fprintln(p.out, sanitizeOutput(line))
	}
}
