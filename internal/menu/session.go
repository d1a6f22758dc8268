package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Title is the heading printed above the menu.
const Title = "Task Manager"

// Session runs the numbered menu over a line-oriented reader and writer.
type Session struct {
	dispatcher *Dispatcher
	in         io.Reader
	out        io.Writer
}

// NewSession creates a menu session reading commands from in.
func NewSession(d *Dispatcher, in io.Reader, out io.Writer) *Session {
	return &Session{dispatcher: d, in: in, out: out}
}

type line struct {
	text string
	err  error
}

// Run shows the menu until the exit choice, end of input, or ctx is done.
// Commands run to completion before the next prompt; cancellation is only
// observed while waiting for input. After a cancelled Run returns, the
// reader goroutine stays blocked in its pending Read until the input yields
// a line, fails, or is closed.
func (s *Session) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(s.in, done)

	for {
		WriteMenu(s.out)
		choice, ok, err := s.prompt(ctx, lines, "Choose an option: ")
		if !ok {
			return err
		}

		cmd := Command{Action: ParseChoice(choice)}
		if cmd.Action.NeedsArg() {
			arg, ok, err := s.prompt(ctx, lines, cmd.Action.Prompt())
			if !ok {
				return err
			}
			cmd.Arg = arg
		}

		result := s.dispatcher.Dispatch(cmd)
		for _, l := range result.Lines {
			fmt.Fprintln(s.out, l)
		}
		if result.Exit() {
			return nil
		}
	}
}

// prompt writes label and waits for one line. ok is false when the session
// should stop; err is non-nil only for read failures and cancellation.
func (s *Session) prompt(ctx context.Context, lines <-chan line, label string) (string, bool, error) {
	fmt.Fprint(s.out, label)
	select {
	case <-ctx.Done():
		fmt.Fprintln(s.out)
		return "", false, ctx.Err()
	case l, open := <-lines:
		if !open {
			fmt.Fprintln(s.out)
			return "", false, nil
		}
		if l.err != nil {
			if l.err == io.EOF {
				if l.text == "" {
					fmt.Fprintln(s.out)
					return "", false, nil
				}
				return l.text, true, nil
			}
			return "", false, fmt.Errorf("read input: %w", l.err)
		}
		return l.text, true, nil
	}
}

// readLines feeds lines from r until EOF, a read error, or done is closed.
func readLines(r io.Reader, done <-chan struct{}) <-chan line {
	out := make(chan line)
	go func() {
		defer close(out)
		br := bufio.NewReader(r)
		for {
			text, err := br.ReadString('\n')
			text = strings.TrimRight(text, "\r\n")
			select {
			case out <- line{text: text, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return out
}

// WriteMenu prints the numbered menu.
func WriteMenu(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", Title)
	for _, c := range Choices {
		fmt.Fprintf(w, "%s. %s\n", c.Key, c.Label)
	}
}
