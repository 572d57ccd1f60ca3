// internal/monitor/sequencer.go
//
// One-at-a-time presentation of detected arrivals. Bursts of any size
// queue up behind a single displayed entry; the operator acknowledges
// each one before the next appears. The cue fires exactly once per
// entry, at the moment it becomes the displayed one.

package monitor

import "tableside/internal/order"

// Alerter plays the new-order cue. Playback failures are logged and
// never block a state transition.
type Alerter interface {
	Play() error
}

// Logger is the slice of the logbook the sequencer needs.
type Logger interface {
	Warn(format string, args ...any)
}

// Sequencer is a FIFO queue with at most one entry in the displayed
// position. Entries are order snapshots captured at detection time and
// immutable afterwards. Not safe for concurrent use on its own;
// Session serializes access.
type Sequencer struct {
	queue   []order.Order
	current *order.Order
	alerter Alerter
	logger  Logger
}

// NewSequencer builds an idle sequencer. A nil alerter disables the
// cue; a nil logger discards cue failures.
func NewSequencer(alerter Alerter, logger Logger) *Sequencer {
	return &Sequencer{alerter: alerter, logger: logger}
}

// Enqueue appends entries in detection order. If nothing is displayed,
// the head is promoted immediately and the cue fires.
func (s *Sequencer) Enqueue(entries []order.Order) {
	if len(entries) == 0 {
		return
	}
	s.queue = append(s.queue, entries...)
	if s.current == nil {
		s.advance()
	}
}

// Acknowledge consumes the displayed entry. With a non-empty queue the
// next head is promoted (firing the cue again); otherwise the
// sequencer returns to idle. Acknowledging while idle is a no-op.
func (s *Sequencer) Acknowledge() {
	if s.current == nil {
		return
	}
	s.current = nil
	if len(s.queue) > 0 {
		s.advance()
	}
}

// Displaying returns the entry currently shown, if any.
func (s *Sequencer) Displaying() (order.Order, bool) {
	if s.current == nil {
		return order.Order{}, false
	}
	return *s.current, true
}

// Pending reports how many entries wait behind the displayed one.
func (s *Sequencer) Pending() int {
	return len(s.queue)
}

func (s *Sequencer) advance() {
	head := s.queue[0]
	s.queue = s.queue[1:]
	s.current = &head
	if s.alerter == nil {
		return
	}
	if err := s.alerter.Play(); err != nil && s.logger != nil {
		s.logger.Warn("alert cue failed for order %s: %v", head.ID, err)
	}
}
