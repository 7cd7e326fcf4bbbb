// Package shell is the line-oriented operator console of the box office.
// Each line is split on whitespace into a command and positional
// arguments, dispatched to the box office and answered with a message.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/box-office/internal/boxoffice"
)

const (
	Prompt = "> "
	Intro  = "\nWelcome to the Box Office!\nType `help` or `?` to list commands.\nType `quit` to exit app."
)

type command struct {
	name    string
	usage   string
	help    string
	minArgs int
	maxArgs int // -1 for no limit
	run     func(ctx context.Context, args []string) (quit bool)
}

// Shell dispatches command lines to a BoxOffice and writes the answers to
// out.  A Shell is not safe for concurrent use; the BoxOffice it drives is.
type Shell struct {
	office   *boxoffice.BoxOffice
	out      io.Writer
	zaplog   *zap.Logger
	commands map[string]*command
}

// New builds a shell writing to out.  A nil logger disables logging.
func New(office *boxoffice.BoxOffice, out io.Writer, zaplog *zap.Logger) *Shell {
	if zaplog == nil {
		zaplog = zap.NewNop()
	}
	s := &Shell{office: office, out: out, zaplog: zaplog}
	s.commands = s.register()
	return s
}

// Run prints the intro and executes lines from r until quit, end of input
// or ctx is cancelled.
func (s *Shell) Run(ctx context.Context, r LineReader) error {
	defer r.Close()

	s.println(Intro)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if s.Execute(ctx, line) {
			return nil
		}
	}
}

// Execute runs a single command line.  It reports whether the line asked
// the shell to quit.  Every error is answered on the output; none is
// returned.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		s.println("Did not receive entry." + Intro)
		return false
	}

	name, args := fields[0], fields[1:]
	if strings.HasPrefix(name, "?") {
		// "?buy" and "? buy" both mean "help buy".
		if rest := strings.TrimPrefix(name, "?"); rest != "" {
			args = append([]string{rest}, args...)
		}
		name = "help"
	}

	cmd, ok := s.commands[name]
	if !ok {
		s.printf("*** Unknown syntax: %s\n", strings.TrimSpace(line))
		return false
	}
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		s.printf("Usage: %s\n", cmd.usage)
		return false
	}

	s.zaplog.Debug("shell command", zap.String("command", name), zap.Strings("args", args))
	return cmd.run(ctx, args)
}

func (s *Shell) names() []string {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Shell) println(a ...any) { fmt.Fprintln(s.out, a...) }

func (s *Shell) printf(format string, a ...any) { fmt.Fprintf(s.out, format, a...) }
