package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
)

// LineReader yields one command line at a time.  ReadLine returns io.EOF
// once input is exhausted.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// NewLineReader picks an interactive reader with history and line editing
// when in is a terminal, and a plain scanner otherwise so that piped
// scripts work.
func NewLineReader(in *os.File, out io.Writer) (LineReader, error) {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return NewTerminalReader(in, out)
	}
	return NewScannerReader(in, out), nil
}

type terminalReader struct {
	rl *readline.Instance
}

// NewTerminalReader reads lines through readline with the shell prompt.
func NewTerminalReader(in io.ReadCloser, out io.Writer) (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		InterruptPrompt: "^C",
		Stdin:           in,
		Stdout:          out,
	})
	if err != nil {
		return nil, fmt.Errorf("readline: %w", err)
	}
	return &terminalReader{rl: rl}, nil
}

func (r *terminalReader) ReadLine() (string, error) {
	for {
		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// ^C drops the current line, it does not leave the shell.
			continue
		}
		return line, err
	}
}

func (r *terminalReader) Close() error { return r.rl.Close() }

type scannerReader struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewScannerReader reads newline separated commands from in, writing the
// prompt to out before each one.
func NewScannerReader(in io.Reader, out io.Writer) LineReader {
	return &scannerReader{sc: bufio.NewScanner(in), out: out}
}

func (r *scannerReader) ReadLine() (string, error) {
	fmt.Fprint(r.out, Prompt)
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scannerReader) Close() error { return nil }
