package prompt

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func TestBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"yep\n", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)
			defer p.Close()

			got, err := p.Bool("Delete user 4?")
			if err != nil {
				t.Fatalf("Bool() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Bool(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if out.String() != "Delete user 4? (y/n) " {
				t.Errorf("question = %q", out.String())
			}
		})
	}
}

func TestStringAsksAgainOnEmpty(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("\n\nnew@example.com\n"), &out)
	defer p.Close()

	got, err := p.String("New email:", false)
	if err != nil {
		t.Fatalf("String() error = %v", err)
	}
	if got != "new@example.com" {
		t.Errorf("String() = %q", got)
	}
	if n := strings.Count(out.String(), "New email:"); n != 3 {
		t.Errorf("asked %d times, want 3", n)
	}
}

func TestStringAllowEmpty(t *testing.T) {
	p := New(strings.NewReader("\nlater\n"), io.Discard)
	defer p.Close()

	got, err := p.String("Description:", true)
	if err != nil || got != "" {
		t.Errorf("String() = %q, %v", got, err)
	}
}

func TestEOF(t *testing.T) {
	p := New(strings.NewReader(""), io.Discard)
	defer p.Close()

	if _, err := p.String("Name:", false); !errors.Is(err, io.EOF) {
		t.Errorf("String() error = %v, want io.EOF", err)
	}
}

type closeRecorder struct {
	io.Reader
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestCloseLeavesInputOpen(t *testing.T) {
	in := &closeRecorder{Reader: strings.NewReader("y\n")}
	p := New(in, io.Discard)

	p.Close()
	p.Close()

	if in.closed != 0 {
		t.Errorf("input closed %d times, want 0", in.closed)
	}
	if _, err := p.Bool("Continue?"); !errors.Is(err, ErrClosed) {
		t.Errorf("Bool() after Close error = %v, want ErrClosed", err)
	}
}

func TestQuestionsShareOnePipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := w.WriteString("current\nnext\n"); err != nil {
		t.Fatal(err)
	}
	w.Close()

	p := New(r, io.Discard)
	first, err := p.String("Current password:", false)
	if err != nil {
		t.Fatalf("first String() error = %v", err)
	}
	second, err := p.String("New password:", false)
	if err != nil {
		t.Fatalf("second String() error = %v", err)
	}
	p.Close()

	if first != "current" || second != "next" {
		t.Errorf("answers = %q, %q, want current, next", first, second)
	}

	// the pipe is still ours to close
	if err := r.Close(); err != nil {
		t.Errorf("pipe was closed by the prompt: %v", err)
	}
}
