package monitor

import (
	"errors"
	"fmt"
	"testing"

	"tableside/internal/order"
)

type countingAlerter struct {
	fired int
	fail  bool
}

func (c *countingAlerter) Play() error {
	c.fired++
	if c.fail {
		return errors.New("speaker unplugged")
	}
	return nil
}

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Warn(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestEnqueueWhileIdleDisplaysImmediately(t *testing.T) {
	cue := &countingAlerter{}
	s := NewSequencer(cue, nil)
	s.Enqueue(snapshot("a"))
	got, ok := s.Displaying()
	if !ok || got.ID != "a" {
		t.Fatalf("displaying = %v/%v, want a", got.ID, ok)
	}
	if cue.fired != 1 {
		t.Fatalf("cue fired %d times, want 1", cue.fired)
	}
}

// Property: across arbitrary burst groupings, every entry is displayed
// exactly once, in FIFO order, with exactly one cue firing each.
func TestBurstsDrainFIFOWithOneCuePerEntry(t *testing.T) {
	bursts := [][]string{
		{"a", "b", "c"},
		{},
		{"d"},
		{"e", "f"},
	}
	cue := &countingAlerter{}
	s := NewSequencer(cue, nil)
	for _, burst := range bursts {
		s.Enqueue(snapshot(burst...))
	}

	var displayed []string
	for {
		got, ok := s.Displaying()
		if !ok {
			break
		}
		displayed = append(displayed, got.ID)
		s.Acknowledge()
	}
	want := []string{"a", "b", "c", "d", "e", "f"}
	if !equalIDs(displayed, want) {
		t.Fatalf("display order = %v, want %v", displayed, want)
	}
	if cue.fired != len(want) {
		t.Fatalf("cue fired %d times, want %d", cue.fired, len(want))
	}
}

func TestAtMostOneDisplayedEntry(t *testing.T) {
	s := NewSequencer(nil, nil)
	s.Enqueue(snapshot("a", "b", "c"))
	got, ok := s.Displaying()
	if !ok || got.ID != "a" {
		t.Fatalf("displaying = %v, want a", got.ID)
	}
	if s.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", s.Pending())
	}
}

func TestAcknowledgeWhileIdleIsNoop(t *testing.T) {
	s := NewSequencer(nil, nil)
	s.Acknowledge()
	if _, ok := s.Displaying(); ok {
		t.Fatalf("idle sequencer should display nothing")
	}
}

func TestCueFailureDoesNotBlockTransitions(t *testing.T) {
	cue := &countingAlerter{fail: true}
	log := &recordingLogger{}
	s := NewSequencer(cue, log)
	s.Enqueue(snapshot("a", "b"))
	if got, ok := s.Displaying(); !ok || got.ID != "a" {
		t.Fatalf("first entry not displayed despite cue failure")
	}
	s.Acknowledge()
	if got, ok := s.Displaying(); !ok || got.ID != "b" {
		t.Fatalf("second entry not displayed despite cue failure")
	}
	if len(log.lines) != 2 {
		t.Fatalf("logged %d cue failures, want 2", len(log.lines))
	}
}

// Queue entries are snapshots captured at detection: mutating the
// caller's slice afterwards must not leak into what gets displayed.
func TestEnqueuedEntriesAreImmutableSnapshots(t *testing.T) {
	s := NewSequencer(nil, nil)
	entries := []order.Order{{ID: "a", Total: 100}, {ID: "b", Total: 50}}
	s.Enqueue(entries)
	entries[1].Total = 9999
	s.Acknowledge()
	got, ok := s.Displaying()
	if !ok || got.Total != 50 {
		t.Fatalf("entry mutated after enqueue: total = %v", got.Total)
	}
}
