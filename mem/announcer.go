package mem

import (
	"context"
	"sync"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/logger"
)

// Announcer records announcements instead of voicing them, optionally
// writing each one to a logger.
type Announcer struct {
	log logger.Logger

	mu   sync.Mutex
	said []string

	// Err, if set, is returned by every call to Announce after recording.
	Err error
}

func NewAnnouncer(log logger.Logger) *Announcer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Announcer{log: log}
}

var _ alarmclock.Announcer = (*Announcer)(nil)

func (a *Announcer) Announce(ctx context.Context, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.said = append(a.said, text)
	a.log.Info("Announce %q", text)
	return a.Err
}

// Said returns every text announced so far, oldest first.
func (a *Announcer) Said() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.said...)
}
