package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// SimpleSpinner animates a one-line message without bubbletea, for one-shot
// commands run with --no-ansi or --disable-animation. It draws nothing unless
// out is a terminal.
type SimpleSpinner struct {
	out      io.Writer
	message  string
	frames   []string
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewSimpleSpinner creates a spinner writing to out.
func NewSimpleSpinner(out io.Writer, message string) *SimpleSpinner {
	return &SimpleSpinner{
		out:     out,
		message: message,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the animation in the background.
func (s *SimpleSpinner) Start() {
	if !isTerminalWriter(s.out) {
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.stop:
				//nolint:errcheck // Terminal output, error not actionable
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				//nolint:errcheck // Terminal output, error not actionable
				fmt.Fprintf(s.out, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			}
		}
	}()
}

// Stop ends the animation and clears the line. Safe to call more than once.
func (s *SimpleSpinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
