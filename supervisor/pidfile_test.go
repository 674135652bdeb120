package supervisor_test

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"

	"github.com/GeoffChurch/raspberry-pi-alarm-clock/supervisor"
)

const pidPath = "/tmp/clock.pid"

func TestPIDFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := supervisor.NewPIDFile(fs, pidPath)

	if _, err := p.Read(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("wrong error for missing file\ngot:  %v\nwant: %v", err, os.ErrNotExist)
	}
	if err := p.Create(4242); err != nil {
		t.Fatal(err)
	}
	if err := p.Create(4243); !errors.Is(err, supervisor.ErrAlreadyRunning) {
		t.Errorf("wrong error\ngot:  %v\nwant: %v", err, supervisor.ErrAlreadyRunning)
	}
	pid, err := p.Read()
	if err != nil {
		t.Fatal(err)
	}
	if pid != 4242 {
		t.Errorf("wrong pid\ngot:  %d\nwant: %d", pid, 4242)
	}
	if err := p.Remove(); err != nil {
		t.Fatal(err)
	}
	if err := p.Remove(); err != nil {
		t.Errorf("removing a missing pid file: %v", err)
	}
}

func TestPIDFileCorrupt(t *testing.T) {
	for _, data := range []string{"", "abc", "-3", "0"} {
		fs := afero.NewMemMapFs()
		if err := afero.WriteFile(fs, pidPath, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := supervisor.NewPIDFile(fs, pidPath).Read(); !errors.Is(err, supervisor.ErrInvalidPID) {
			t.Errorf("%q: wrong error\ngot:  %v\nwant: %v", data, err, supervisor.ErrInvalidPID)
		}
	}
}
