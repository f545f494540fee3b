// Package prompt asks the user yes/no questions before destructive
// operations.
//
// Three implementations satisfy Confirmer:
//   - LineConfirmer reads one line from a reader; used when stdin is a
//     pipe or file, and in tests
//   - TerminalConfirmer renders a charmbracelet/huh confirm field on an
//     interactive terminal
//   - Static answers every question with a fixed value; used for -y
//
// New picks between the first two based on whether stdin is a TTY.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// DefaultQuestion is asked when the caller passes an empty question.
const DefaultQuestion = "Continue?"

// Confirmer asks a yes/no question. A false answer with a nil error
// means the user declined.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// New returns a TerminalConfirmer when in is an interactive terminal and
// a LineConfirmer otherwise.
func New(in *os.File, out io.Writer) Confirmer {
	if in == nil {
		return NewLineConfirmer(nil, out)
	}
	if isTerminal(in.Fd()) {
		return NewTerminalConfirmer(in, out)
	}
	return NewLineConfirmer(in, out)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// normalizeQuestion trims surrounding whitespace and substitutes
// DefaultQuestion for an empty question.
func normalizeQuestion(question string) string {
	q := strings.TrimSpace(question)
	if q == "" {
		return DefaultQuestion
	}
	return q
}

// LineConfirmer reads the answer as one line of text.
type LineConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewLineConfirmer creates a LineConfirmer. A nil in behaves as an
// immediately closed stream.
func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	if in == nil {
		in = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	return &LineConfirmer{in: in, out: out}
}

// Confirm prints the question with a [y/N] hint and reads one line.
//
// Only "y" is accepted, case-insensitively and with surrounding
// whitespace trimmed. Any other line, an empty line and end of input all
// decline.
func (c *LineConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(c.out, "%s [y/N] ", normalizeQuestion(question))

	scanner := bufio.NewScanner(c.in)
	if scanner.Scan() {
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return answer == "y", nil
	}

	if err := scanner.Err(); err != nil {
		return false, err
	}
	// EOF
	fmt.Fprintln(c.out)
	return false, nil
}

// TerminalConfirmer asks through an interactive huh form.
type TerminalConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewTerminalConfirmer creates a TerminalConfirmer on the given streams.
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: in, out: out}
}

// Confirm renders a confirm field defaulting to "No". Aborting the form
// (Ctrl+C or Esc) declines rather than erroring.
func (c *TerminalConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(normalizeQuestion(question)).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithInput(c.in).WithOutput(c.out)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

// Static answers every question with Answer without reading input.
type Static struct {
	Answer bool
}

// AssumeYes is the confirmer selected by -y.
var AssumeYes = Static{Answer: true}

// Confirm returns s.Answer.
func (s Static) Confirm(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.Answer, nil
}
