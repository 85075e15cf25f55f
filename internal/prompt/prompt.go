// Package prompt asks the user questions on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrClosed is returned when asking through a closed prompt
var ErrClosed = errors.New("prompt is closed")

// Prompt reads one answer per question. Open one per command, ask every
// question through it and Close it on every exit path. Input buffered for a
// later question is kept between questions.
type Prompt struct {
	in     *bufio.Reader
	out    io.Writer
	closed bool
}

// New creates a prompt reading answers from in and writing questions to out.
// The caller owns in: Close never closes it.
func New(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

func (p *Prompt) ask(msg string) (string, error) {
	if p.closed {
		return "", ErrClosed
	}

	fmt.Fprint(p.out, msg)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// Bool asks a yes/no question. Only y and yes, in any case, mean yes.
func (p *Prompt) Bool(msg string) (bool, error) {
	answer, err := p.ask(msg + " (y/n) ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// String asks for free text, asking again on an empty answer unless
// allowEmpty is set
func (p *Prompt) String(msg string, allowEmpty bool) (string, error) {
	for {
		answer, err := p.ask(msg + " ")
		if err != nil {
			return "", err
		}
		if answer != "" || allowEmpty {
			return answer, nil
		}
	}
}

// Close ends the prompt. Questions asked afterwards fail with ErrClosed.
func (p *Prompt) Close() error {
	p.closed = true
	return nil
}
