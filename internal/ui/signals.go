package ui

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SignalCancelMsg is sent to the program when SIGINT or SIGTERM arrives.
// Models that own a running job stop it before quitting.
type SignalCancelMsg struct {
	Signal os.Signal
}

const (
	defaultShutdownTimeout = 100 * time.Millisecond
	forceQuitExitCode      = 130
)

// SetupSignalHandling replaces bubbletea's signal handler with one that sends
// SignalCancelMsg. A second signal, or no exit within shutdownTimeout, kills
// the process. Close the returned channel once p.Run returns.
// NOTE: call this before p.Run(), since it alters the program config.
func SetupSignalHandling(p *tea.Program, shutdownTimeout time.Duration) chan<- struct{} {
	if shutdownTimeout == 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	tea.WithoutSignalHandler()(p)

	sigChan := make(chan os.Signal, 1)
	doneCh := make(chan struct{})
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)

		var sig os.Signal
		select {
		case sig = <-sigChan:
		case <-doneCh:
			return
		}
		p.Send(SignalCancelMsg{Signal: sig})

		timer := time.NewTimer(shutdownTimeout)
		defer timer.Stop()

		select {
		case <-sigChan:
			fmt.Fprintf(os.Stderr, "\nForce quitting...\n")
			os.Exit(forceQuitExitCode)
		case <-timer.C:
			fmt.Fprintf(os.Stderr, "\nTimeout trying to clean up, force quitting...\n")
			os.Exit(forceQuitExitCode)
		case <-doneCh:
		}
	}()
	return doneCh
}
