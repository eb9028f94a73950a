// Package prompt provides the operator input used by the governance commands. A Prompter is
// created once per command invocation and passed to whatever needs to ask a question, instead
// of sharing a process wide reader.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrNoMoreAnswers is returned by a Scripted prompter once every answer has been consumed.
var ErrNoMoreAnswers = errors.New("prompt: no more answers")

// Prompter asks the operator questions. Answers are returned with surrounding whitespace
// trimmed.
type Prompter interface {
	// Ask prints question and reads one line.
	Ask(ctx context.Context, question string) (string, error)
	// AskSecret prints question and reads one line without echoing it when the input is a
	// terminal.
	AskSecret(ctx context.Context, question string) (string, error)
	// Close releases the prompter. Further questions fail.
	Close() error
}

var (
	_ Prompter = (*Terminal)(nil)
	_ Prompter = (*Scripted)(nil)
)

// Terminal reads answers from in and writes questions to out.
type Terminal struct {
	mu     sync.Mutex
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
	closed bool
}

// NewTerminal returns a Terminal prompter over in and out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// Stdio returns a Terminal bound to the process standard input and output.
func Stdio() *Terminal {
	return NewTerminal(os.Stdin, os.Stdout)
}

// Ask implements Prompter.
func (t *Terminal) Ask(ctx context.Context, question string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ready(ctx); err != nil {
		return "", err
	}

	if _, err := fmt.Fprint(t.out, question); err != nil {
		return "", err
	}

	return t.readLine()
}

// AskSecret implements Prompter.
func (t *Terminal) AskSecret(ctx context.Context, question string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ready(ctx); err != nil {
		return "", err
	}

	if _, err := fmt.Fprint(t.out, question); err != nil {
		return "", err
	}

	f, ok := t.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return t.readLine()
	}

	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}

// Close implements Prompter.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true

	return nil
}

func (t *Terminal) ready(ctx context.Context) error {
	if t.closed {
		return errors.New("prompt: closed")
	}

	return ctx.Err()
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// Scripted answers questions from a fixed list. It records every question it was asked.
type Scripted struct {
	mu        sync.Mutex
	answers   []string
	Questions []string
}

// NewScripted returns a Scripted prompter that replies with answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Ask implements Prompter.
func (s *Scripted) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Questions = append(s.Questions, question)
	if len(s.answers) == 0 {
		return "", ErrNoMoreAnswers
	}

	answer := s.answers[0]
	s.answers = s.answers[1:]

	return strings.TrimSpace(answer), nil
}

// AskSecret implements Prompter.
func (s *Scripted) AskSecret(ctx context.Context, question string) (string, error) {
	return s.Ask(ctx, question)
}

// Close implements Prompter.
func (*Scripted) Close() error { return nil }
