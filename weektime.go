package alarmclock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerDay  = 24 * 60
	minutesPerWeek = 7 * minutesPerDay
)

var dayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekTime is a minute within a repeating week that starts on Monday at
// 00:00. The zero value is Monday 00:00.
type WeekTime struct {
	minutes int // always in [0, minutesPerWeek)
}

// NewWeekTime returns the WeekTime at the given day (Monday = 0), hour and
// minute. Out-of-range components wrap around the week.
func NewWeekTime(day, hour, minute int) WeekTime {
	return weekTime(day*minutesPerDay + hour*60 + minute)
}

// WeekTimeOf returns the WeekTime of t's weekday, hour and minute. Seconds and
// the calendar date are discarded.
func WeekTimeOf(t time.Time) WeekTime {
	day := (int(t.Weekday()) + 6) % 7
	return NewWeekTime(day, t.Hour(), t.Minute())
}

func weekTime(minutes int) WeekTime {
	m := minutes % minutesPerWeek
	if m < 0 {
		m += minutesPerWeek
	}
	return WeekTime{m}
}

// Sub returns how far forward from u one must travel to reach w, wrapping at
// the end of the week.
func (w WeekTime) Sub(u WeekTime) WeekTime {
	return weekTime(w.minutes - u.minutes)
}

func (w WeekTime) Before(u WeekTime) bool { return w.minutes < u.minutes }
func (w WeekTime) Equal(u WeekTime) bool  { return w.minutes == u.minutes }

// Compare returns -1, 0 or +1 depending on whether w is before, equal to or
// after u.
func (w WeekTime) Compare(u WeekTime) int {
	switch {
	case w.minutes < u.minutes:
		return -1
	case w.minutes > u.minutes:
		return +1
	}
	return 0
}

func (w WeekTime) Day() int     { return w.minutes / minutesPerDay }
func (w WeekTime) Hour() int    { return w.minutes % minutesPerDay / 60 }
func (w WeekTime) Minute() int  { return w.minutes % 60 }
func (w WeekTime) Minutes() int { return w.minutes }

// Duration interprets w as an offset from the start of the week.
func (w WeekTime) Duration() time.Duration {
	return time.Duration(w.minutes) * time.Minute
}

// String formats w as in "Mo 09:00".
func (w WeekTime) String() string {
	name := dayNames[w.Day()]
	return fmt.Sprintf("%c%s %02d:%02d", name[0]-'a'+'A', name[1:2], w.Hour(), w.Minute())
}

// ParseWeekTime parses a day name followed by a 24-hour clock time, as in
// "Mo 09:00" or "friday 17:30". The day may be any prefix of at least two
// letters of its English name.
func ParseWeekTime(s string) (WeekTime, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return WeekTime{}, Errorf(ErrInvalid, "week time %q: want \"<day> <hh:mm>\"", s)
	}
	day, err := parseDay(fields[0])
	if err != nil {
		return WeekTime{}, err
	}
	hh, mm, ok := strings.Cut(fields[1], ":")
	if !ok {
		return WeekTime{}, Errorf(ErrInvalid, "week time %q: missing ':' in clock time", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return WeekTime{}, Errorf(ErrInvalid, "week time %q: bad hour %q", s, hh)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || minute < 0 || minute > 59 {
		return WeekTime{}, Errorf(ErrInvalid, "week time %q: bad minute %q", s, mm)
	}
	return NewWeekTime(day, hour, minute), nil
}

func parseDay(s string) (int, error) {
	s = strings.ToLower(s)
	if len(s) >= 2 {
		for i, name := range dayNames {
			if strings.HasPrefix(name, s) {
				return i, nil
			}
		}
	}
	return 0, Errorf(ErrInvalid, "unknown day %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (w WeekTime) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WeekTime) UnmarshalText(text []byte) error {
	v, err := ParseWeekTime(string(text))
	if err != nil {
		return err
	}
	*w = v
	return nil
}
