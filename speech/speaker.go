// Package speech says announcements out loud.
package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/fatih/color"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
)

const DefaultCommand = "espeak"

// Speaker prints each announcement and then passes it as the last argument
// to a text-to-speech command. With no command it only prints.
type Speaker struct {
	Command string
	Args    []string

	out   io.Writer
	color *color.Color
}

func NewSpeaker(command string, args ...string) *Speaker {
	return &Speaker{
		Command: command,
		Args:    args,
		out:     os.Stdout,
		color:   color.New(color.FgHiYellow, color.Bold),
	}
}

// SetOutput redirects printed announcements.
func (s *Speaker) SetOutput(w io.Writer) {
	s.out = w
}

var _ alarmclock.Announcer = (*Speaker)(nil)

func (s *Speaker) Announce(ctx context.Context, text string) error {
	s.color.Fprintln(s.out, text)
	if s.Command == "" {
		return nil
	}
	args := append(append([]string(nil), s.Args...), text)
	if out, err := exec.CommandContext(ctx, s.Command, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", s.Command, err, out)
	}
	return nil
}
