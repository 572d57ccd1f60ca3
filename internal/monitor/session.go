// internal/monitor/session.go
//
// A Session owns the monitoring screen's mutable state: the known
// identifier set, the last good snapshot, and the notification
// sequencer. The polling timer and a manual refresh can race to invoke
// a fetch, so cycles are serialized by skipping: a poll that arrives
// while another is in flight returns immediately and the next tick
// tries again. All state mutation happens under one mutex.

package monitor

import (
	"context"
	"errors"
	"sync"

	"tableside/internal/order"
)

// ErrPollInProgress reports a skipped cycle: another fetch was already
// outstanding when this one was requested.
var ErrPollInProgress = errors.New("monitor: poll already in progress")

// ErrClosed reports a poll attempted after teardown.
var ErrClosed = errors.New("monitor: session closed")

// Fetcher retrieves the current full order snapshot.
type Fetcher interface {
	Orders(ctx context.Context) ([]order.Order, error)
}

// Session ties a fetcher, detector, and sequencer to one monitoring
// screen instance. It is created when the screen opens and closed when
// the screen is torn down; nothing is shared across screens.
type Session struct {
	mu       sync.Mutex
	fetcher  Fetcher
	detector *Detector
	seq      *Sequencer
	last     []order.Order
	inFlight bool
	closed   bool
}

// NewSession wires a session around the given fetcher and cue.
func NewSession(fetcher Fetcher, alerter Alerter, logger Logger) *Session {
	return &Session{
		fetcher:  fetcher,
		detector: NewDetector(),
		seq:      NewSequencer(alerter, logger),
	}
}

// Poll runs one fetch cycle: fetch, detect arrivals, enqueue them, and
// replace the last snapshot. On any fetch error the cycle is a no-op —
// known set, queue, and snapshot are left untouched and the error is
// returned for the operator notice. Returns ErrPollInProgress when a
// cycle is already outstanding and ErrClosed after teardown.
func (s *Session) Poll(ctx context.Context) ([]order.Order, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrPollInProgress
	}
	s.inFlight = true
	s.mu.Unlock()

	snapshot, err := s.fetcher.Orders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.closed {
		// Torn down while the fetch was in flight; no side effects.
		return nil, ErrClosed
	}
	if err != nil {
		return nil, err
	}
	fresh := s.detector.Detect(snapshot)
	s.seq.Enqueue(fresh)
	s.last = snapshot
	return snapshot, nil
}

// Orders returns a copy of the last good snapshot.
func (s *Session) Orders() []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]order.Order(nil), s.last...)
}

// Displaying exposes the sequencer's currently shown entry.
func (s *Session) Displaying() (order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Displaying()
}

// Acknowledge consumes the displayed entry, promoting the next one.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.seq.Acknowledge()
}

// Pending reports how many arrivals wait behind the displayed one.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Pending()
}

// Close tears the session down. Any fetch still in flight has its
// result discarded; no alerts or state mutation happen afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
