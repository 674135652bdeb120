package alarmclock_test

import (
	"testing"
	"time"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
)

func TestNewWeekTimeNormalizes(t *testing.T) {
	tests := []struct {
		name                string
		day, hour, minute   int
		wantDay, wantHour   int
		wantMinute, wantMin int
	}{
		{"start of week", 0, 0, 0, 0, 0, 0, 0},
		{"end of week", 6, 23, 59, 6, 23, 59, 10079},
		{"wraps a whole week", 7, 0, 0, 0, 0, 0, 0},
		{"minutes overflow into hours", 0, 0, 61, 0, 1, 1, 61},
		{"hours overflow into days", 1, 25, 0, 2, 1, 0, 2940},
		{"negative minute wraps backwards", 0, 0, -1, 6, 23, 59, 10079},
		{"negative day", -1, 8, 0, 6, 8, 0, 9120},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := alarmclock.NewWeekTime(tt.day, tt.hour, tt.minute)
			if got := w.Minutes(); got != tt.wantMin {
				t.Errorf("wrong minutes\ngot:  %d\nwant: %d", got, tt.wantMin)
			}
			if w.Day() != tt.wantDay || w.Hour() != tt.wantHour || w.Minute() != tt.wantMinute {
				t.Errorf("wrong components\ngot:  %d %d %d\nwant: %d %d %d",
					w.Day(), w.Hour(), w.Minute(), tt.wantDay, tt.wantHour, tt.wantMinute)
			}
		})
	}
}

func TestNewWeekTimeRoundTrip(t *testing.T) {
	for day := -8; day < 16; day += 3 {
		for hour := -2; hour < 30; hour += 5 {
			for minute := -70; minute < 130; minute += 17 {
				w := alarmclock.NewWeekTime(day, hour, minute)
				if m := w.Minutes(); m < 0 || m >= 7*24*60 {
					t.Fatalf("minutes out of range: %d", m)
				}
				if again := alarmclock.NewWeekTime(w.Day(), w.Hour(), w.Minute()); !again.Equal(w) {
					t.Fatalf("rebuilding %v gave %v", w, again)
				}
			}
		}
	}
}

func TestWeekTimeSub(t *testing.T) {
	mon8 := alarmclock.NewWeekTime(0, 8, 0)
	tue0 := alarmclock.NewWeekTime(1, 0, 0)
	wed8 := alarmclock.NewWeekTime(2, 8, 0)

	tests := []struct {
		name string
		a, b alarmclock.WeekTime
		want time.Duration
	}{
		{"same time", wed8, wed8, 0},
		{"forward within week", wed8, tue0, 32 * time.Hour},
		{"wraps past end of week", mon8, tue0, 6*24*time.Hour + 8*time.Hour},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Sub(tt.b).Duration(); got != tt.want {
				t.Errorf("wrong difference\ngot:  %v\nwant: %v", got, tt.want)
			}
		})
	}

	for a := 0; a < 7*24*60; a += 997 {
		for b := 0; b < 7*24*60; b += 1013 {
			wa := alarmclock.NewWeekTime(0, 0, a)
			wb := alarmclock.NewWeekTime(0, 0, b)
			if d := wa.Sub(wb).Minutes(); d < 0 {
				t.Fatalf("negative difference %d for %v - %v", d, wa, wb)
			}
			if !wa.Sub(wa).Equal(alarmclock.WeekTime{}) {
				t.Fatalf("%v - itself isn't zero", wa)
			}
		}
	}
}

func TestWeekTimeOrder(t *testing.T) {
	a := alarmclock.NewWeekTime(0, 9, 0)
	b := alarmclock.NewWeekTime(0, 9, 1)
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Error("wrong Before ordering")
	}
	if a.Compare(b) != -1 || b.Compare(a) != +1 || a.Compare(a) != 0 {
		t.Error("wrong Compare ordering")
	}
}

func TestWeekTimeOf(t *testing.T) {
	tests := []struct {
		at   time.Time
		want alarmclock.WeekTime
	}{
		{time.Date(2024, 1, 1, 8, 0, 59, 999, time.UTC), alarmclock.NewWeekTime(0, 8, 0)},
		{time.Date(2023, 12, 31, 23, 59, 30, 0, time.UTC), alarmclock.NewWeekTime(6, 23, 59)},
		{time.Date(2024, 1, 3, 17, 33, 0, 0, time.UTC), alarmclock.NewWeekTime(2, 17, 33)},
	}
	for _, tt := range tests {
		if got := alarmclock.WeekTimeOf(tt.at); !got.Equal(tt.want) {
			t.Errorf("wrong week time for %v\ngot:  %v\nwant: %v", tt.at, got, tt.want)
		}
	}
}

func TestParseWeekTime(t *testing.T) {
	tests := []struct {
		in   string
		want alarmclock.WeekTime
	}{
		{"Mo 09:00", alarmclock.NewWeekTime(0, 9, 0)},
		{"tu 7:05", alarmclock.NewWeekTime(1, 7, 5)},
		{"Friday 17:30", alarmclock.NewWeekTime(4, 17, 30)},
		{"  sun   23:59 ", alarmclock.NewWeekTime(6, 23, 59)},
	}
	for _, tt := range tests {
		got, err := alarmclock.ParseWeekTime(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error\n%v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%q: wrong week time\ngot:  %v\nwant: %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "Mo", "M 09:00", "Xy 09:00", "Mo 0900", "Mo 24:00", "Mo 09:60", "Mo 09:5", "Mo 9:00 extra"} {
		_, err := alarmclock.ParseWeekTime(in)
		if got, want := alarmclock.ErrorCode(err), alarmclock.ErrInvalid; got != want {
			t.Errorf("%q: wrong error code\ngot:  %s\nwant: %s", in, got, want)
		}
	}
}

func TestWeekTimeText(t *testing.T) {
	w := alarmclock.NewWeekTime(3, 6, 45)
	if got, want := w.String(), "Th 06:45"; got != want {
		t.Errorf("wrong string\ngot:  %s\nwant: %s", got, want)
	}
	text, err := w.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var back alarmclock.WeekTime
	if err := back.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(w) {
		t.Errorf("wrong week time\ngot:  %v\nwant: %v", back, w)
	}
}
