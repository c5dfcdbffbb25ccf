// Package prompt asks the user for values the command line left out. It
// reads answers line by line from any io.Reader so callers can script it.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned when the input ends before an answer was given.
var ErrNoInput = errors.New("no input available")

// Prompter writes questions to w and reads answers from r.
type Prompter struct {
	reader *bufio.Reader
	w      io.Writer
}

// New creates a Prompter.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(r), w: w}
}

// Ask prints label and returns the trimmed answer. An empty answer yields def.
func (p *Prompter) Ask(label, def string) (string, error) {
	fmt.Fprint(p.w, label)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// AskLines reads a multi-line answer terminated by a line holding only ".".
// Indentation inside the answer is preserved.
func (p *Prompter) AskLines(label string) (string, error) {
	fmt.Fprintf(p.w, "%s (finish with a single '.' line)\n", label)
	var lines []string
	for {
		line, err := p.reader.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "." {
			break
		}
		if err != nil {
			if err == io.EOF && trimmed != "" {
				lines = append(lines, trimmed)
				break
			}
			if err == io.EOF && len(lines) > 0 {
				break
			}
			return "", fmt.Errorf("reading %s: %w", strings.TrimSpace(label), ErrNoInput)
		}
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, "\n"), nil
}

// Choose presents a numbered menu and keeps asking until the answer is one
// of options, either by number or by name.
func (p *Prompter) Choose(label string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options to choose from for %q", label)
	}
	fmt.Fprintf(p.w, "\n%s\n", label)
	for i, opt := range options {
		fmt.Fprintf(p.w, "  %d) %s\n", i+1, opt)
	}

	for {
		fmt.Fprintf(p.w, "Enter choice [1-%d]: ", len(options))
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if choice, ok := match(line, options); ok {
			return choice, nil
		}
		fmt.Fprintf(p.w, "Invalid choice. Please choose from %s.\n", strings.Join(options, ", "))
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func match(answer string, options []string) (string, bool) {
	answer = strings.ToLower(answer)
	for i, opt := range options {
		if answer == strings.ToLower(opt) || answer == fmt.Sprint(i+1) {
			return opt, true
		}
	}
	return "", false
}
