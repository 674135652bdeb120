package file_test

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock"
	"github.com/GeoffChurch/raspberry-pi-alarm-clock/file"
)

const cachePath = "/home/pi/.clock/next_alarm_cache"

func TestCacheMissingFile(t *testing.T) {
	c := file.NewCache(afero.NewMemMapFs(), cachePath)
	got, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error\n%v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected far future sentinel, got %v", got)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	c := file.NewCache(fs, cachePath)

	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	if err := c.Store(ctx, at); err != nil {
		t.Fatal(err)
	}

	// A fresh cache over the same file, as after a restart.
	got, err := file.NewCache(fs, cachePath).Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(at) {
		t.Errorf("wrong cached time\ngot:  %v\nwant: %v", got, at)
	}
	if exists, _ := afero.Exists(fs, cachePath+".tmp"); exists {
		t.Error("temporary file left behind")
	}
}

func TestCacheReset(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	c := file.NewCache(fs, cachePath)

	if err := c.Store(ctx, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if err := c.Store(ctx, time.Time{}); err != nil {
		t.Fatal(err)
	}

	buf, err := afero.ReadFile(fs, cachePath)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'N', 'X', 'A', 1, 0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	if string(buf) != string(want) {
		t.Errorf("wrong file contents\ngot:  % x\nwant: % x", buf, want)
	}
	if got, err := c.Load(ctx); err != nil || !got.IsZero() {
		t.Errorf("expected far future sentinel, got %v (err %v)", got, err)
	}
}

func TestCacheCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated", []byte("NXA\x01\x00")},
		{"wrong magic", []byte("PKL\x01\x00\x00\x00\x00\x00\x00\x00\x00")},
		{"future version", []byte("NXA\x02\x00\x00\x00\x00\x00\x00\x00\x00")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, cachePath, tt.data, 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := file.NewCache(fs, cachePath).Load(context.Background())
			if got, want := alarmclock.ErrorCode(err), alarmclock.ErrInvalid; got != want {
				t.Errorf("wrong error code\ngot:  %s\nwant: %s", got, want)
			}
		})
	}
}

func TestCacheReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := file.NewCache(fs, cachePath).Store(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
}
