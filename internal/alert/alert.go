// internal/alert/alert.go
//
// The new-order audio cue. Playback is fire-and-forget and
// failure-tolerant: a cue that cannot play never blocks or corrupts
// the notification flow, it only gets logged by the caller.

package alert

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Alerter plays the new-order cue.
type Alerter interface {
	Play() error
}

// Bell rings the terminal bell. It is the fallback when no player
// command is configured.
type Bell struct {
	W io.Writer
}

func (b Bell) Play() error {
	w := b.W
	if w == nil {
		w = os.Stdout
	}
	if _, err := w.Write([]byte("\a")); err != nil {
		return fmt.Errorf("alert: ring bell: %w", err)
	}
	return nil
}

// Command invokes an external player (afplay, aplay, mpv ...) with the
// configured cue file. The process is detached; only a failure to
// start is reported.
type Command struct {
	Name  string
	Sound string
}

func (c Command) Play() error {
	args := []string{}
	if c.Sound != "" {
		args = append(args, c.Sound)
	}
	cmd := exec.Command(c.Name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("alert: start %s: %w", c.Name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// New picks the configured player command, or the terminal bell when
// none is set.
func New(command, sound string) Alerter {
	if command == "" {
		return Bell{}
	}
	return Command{Name: command, Sound: sound}
}
