package mem

import (
	"sync"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
)

// Schedule is a fixed list of alarms that can be swapped wholesale.
type Schedule struct {
	mu     sync.Mutex
	alarms []alarmclock.WeekTime
}

func NewSchedule(alarms ...alarmclock.WeekTime) *Schedule {
	s := &Schedule{}
	s.Reload(alarms...)
	return s
}

var _ alarmclock.Schedule = (*Schedule)(nil)

// Reload replaces the alarm list.
func (s *Schedule) Reload(alarms ...alarmclock.WeekTime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alarms = append([]alarmclock.WeekTime(nil), alarms...)
}

func (s *Schedule) Alarms() []alarmclock.WeekTime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]alarmclock.WeekTime(nil), s.alarms...)
}
