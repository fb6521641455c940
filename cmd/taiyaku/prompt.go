package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// stdinIsTerminal reports whether r is an interactive terminal. Tests swap it
// to drive prompts from a buffer.
var stdinIsTerminal = func(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// prompter reads one answer per question from the command's stdin.
type prompter struct {
	out    io.Writer
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	if !stdinIsTerminal(in) {
		return nil
	}
	return &prompter{out: cmd.ErrOrStderr(), reader: bufio.NewReader(in)}
}

// ask prints question and returns the trimmed answer. An empty answer or end
// of input returns "".
func (p *prompter) ask(question string) (string, error) {
	if p == nil {
		return "", nil
	}
	fmt.Fprintf(p.out, "%s (blank to cancel): ", question)
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
