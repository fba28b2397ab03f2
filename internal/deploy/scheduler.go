package deploy

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultPollInterval is the time between status polls.
const DefaultPollInterval = time.Second

// TickMsg fires once per poll interval while a scheduler epoch is live.
type TickMsg struct {
	Epoch uint64
}

// Scheduler is a recurring poll timer with exact cancellation.
//
// Every Start opens a new epoch. Ticks and poll results carry the epoch they
// were issued in, and anything from an older epoch is dropped, so nothing
// scheduled before Stop can run or land after it. Within an epoch each
// accepted tick gets an increasing sequence number, and a result older than
// one already applied is dropped too.
type Scheduler struct {
	interval time.Duration
	epoch    uint64
	active   bool
	seq      uint64
	applied  uint64
}

// NewScheduler returns a stopped scheduler. A non-positive interval means DefaultPollInterval.
func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Scheduler{interval: interval}
}

// Interval returns the time between ticks.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Active reports whether ticks are currently being accepted.
func (s *Scheduler) Active() bool {
	return s.active
}

// Epoch returns the current epoch.
func (s *Scheduler) Epoch() uint64 {
	return s.epoch
}

// Start opens a new epoch and schedules its first tick one interval from now.
// There is no immediate fetch on start: the first status request goes out a
// full interval after the deploy is submitted, like a repeating interval timer.
func (s *Scheduler) Start() tea.Cmd {
	s.epoch++
	s.active = true
	s.seq = 0
	s.applied = 0
	return s.next()
}

// Stop ends the current epoch. Pending ticks and in-flight results become stale.
func (s *Scheduler) Stop() {
	if !s.active {
		return
	}
	s.active = false
	s.epoch++
}

// Accept validates a tick. For a live tick it returns the sequence number for
// the poll it triggers and the command for the following tick.
func (s *Scheduler) Accept(tick TickMsg) (seq uint64, next tea.Cmd, ok bool) {
	if !s.active || tick.Epoch != s.epoch {
		return 0, nil, false
	}
	s.seq++
	return s.seq, s.next(), true
}

// Admit reports whether a poll result issued at (epoch, seq) may be applied,
// and records it as the newest applied result if so.
func (s *Scheduler) Admit(epoch, seq uint64) bool {
	if !s.active || epoch != s.epoch || seq <= s.applied {
		return false
	}
	s.applied = seq
	return true
}

func (s *Scheduler) next() tea.Cmd {
	epoch := s.epoch
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return TickMsg{Epoch: epoch}
	})
}
