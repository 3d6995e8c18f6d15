package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/stubgen/internal/ports/secondary"
)

// ConsolePrompter implements secondary.Prompter on a line-oriented terminal.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsolePrompter creates a prompter reading answers from in.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks question and reports whether the operator answered yes.
// Anything but y/yes, including end of input, is a no.
func (p *ConsolePrompter) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(p.out, "%s (yes/no) [no]: ", question)
	response, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	if err == io.EOF && response == "" {
		fmt.Fprintln(p.out)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// Ensure ConsolePrompter implements the interface
var _ secondary.Prompter = (*ConsolePrompter)(nil)
