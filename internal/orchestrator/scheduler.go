package orchestrator

import (
	"log/slog"
	"time"
)

// pollScheduler drives status polling on a single recurring timer. The timer
// runs exactly while the registry is non-empty: ensureRunning is called after
// every insert and stopIfEmpty after every remove.
//
// The running/stopped state is guarded by the orchestrator's lock, which must
// be held for every method call. The timer goroutine itself never touches
// scheduler state; it only fires the sweep callback.
type pollScheduler struct {
	interval time.Duration
	sweep    func()
	logger   *slog.Logger
	stopc    chan struct{}
}

func newPollScheduler(interval time.Duration, sweep func(), logger *slog.Logger) *pollScheduler {
	return &pollScheduler{
		interval: interval,
		sweep:    sweep,
		logger:   logger,
	}
}

// ensureRunning starts the timer if it is not already running. Idempotent.
func (s *pollScheduler) ensureRunning() {
	if s.stopc != nil {
		return
	}
	s.stopc = make(chan struct{})
	go s.loop(s.stopc)
	s.logger.Debug("poll timer started", "interval", s.interval)
}

// stopIfEmpty stops the timer iff empty reports the registry drained.
// Idempotent.
func (s *pollScheduler) stopIfEmpty(empty bool) {
	if s.stopc == nil || !empty {
		return
	}
	s.stop()
}

// stop halts the timer unconditionally.
func (s *pollScheduler) stop() {
	if s.stopc == nil {
		return
	}
	close(s.stopc)
	s.stopc = nil
	s.logger.Debug("poll timer stopped")
}

// active reports whether the timer is currently running.
func (s *pollScheduler) active() bool {
	return s.stopc != nil
}

func (s *pollScheduler) loop(stopc chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopc:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}
