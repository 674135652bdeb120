//go:build unix

// Package supervisor starts, stops and restarts the alarm clock daemon,
// tracking it through a PID file.
package supervisor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultStopTimeout  = 10 * time.Second
)

type Supervisor struct {
	PID *PIDFile

	// Spawn starts the daemon detached from the caller and returns its PID.
	Spawn func() (int, error)

	// Kill sends sig to pid.
	Kill func(pid int, sig syscall.Signal) error

	Sleep        func(time.Duration)
	PollInterval time.Duration

	// StopTimeout is how long Stop keeps sending SIGTERM before it falls
	// back to SIGKILL.
	StopTimeout time.Duration

	// Stderr receives warnings that don't fail the operation.
	Stderr io.Writer
}

// New returns a supervisor for the PID file at path that starts the daemon
// by running the current executable with args.
func New(path string, args ...string) *Supervisor {
	return &Supervisor{
		PID:          NewPIDFile(afero.NewOsFs(), path),
		Spawn:        func() (int, error) { return Detach(args...) },
		Kill:         unix.Kill,
		Sleep:        time.Sleep,
		PollInterval: DefaultPollInterval,
		StopTimeout:  DefaultStopTimeout,
		Stderr:       os.Stderr,
	}
}

// Start launches the daemon unless its PID file exists. Stale PID files
// aren't detected; remove them by hand.
func (s *Supervisor) Start() (int, error) {
	exists, err := s.PID.Exists()
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyRunning, s.PID.Path())
	}
	pid, err := s.Spawn()
	if err != nil {
		return 0, fmt.Errorf("spawn daemon: %w", err)
	}
	return pid, nil
}

// Stop terminates the daemon and removes its PID file. A missing PID file
// only produces a warning, so that Restart works when nothing is running.
func (s *Supervisor) Stop() error {
	pid, err := s.PID.Read()
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(s.Stderr, "Warning: pid file %q does not exist!\n", s.PID.Path())
		return nil
	}
	if err != nil {
		return err
	}

	sig := unix.SIGTERM
	var waited time.Duration
	for {
		err := s.Kill(pid, sig)
		if errors.Is(err, unix.ESRCH) {
			break
		}
		if err != nil {
			return fmt.Errorf("signal %d: %w", pid, err)
		}
		if sig == unix.SIGTERM && s.StopTimeout > 0 && waited >= s.StopTimeout {
			fmt.Fprintf(s.Stderr, "Process %d ignored SIGTERM for %v, killing it\n", pid, s.StopTimeout)
			sig = unix.SIGKILL
		}
		s.Sleep(s.PollInterval)
		waited += s.PollInterval
	}
	return s.PID.Remove()
}

// Restart stops the daemon, if any, and starts a new one.
func (s *Supervisor) Restart() (int, error) {
	if err := s.Stop(); err != nil {
		return 0, err
	}
	return s.Start()
}

// Status returns the recorded PID and whether that process is alive.
func (s *Supervisor) Status() (pid int, alive bool, err error) {
	pid, err = s.PID.Read()
	if err != nil {
		return 0, false, err
	}
	err = s.Kill(pid, syscall.Signal(0))
	return pid, err == nil || errors.Is(err, unix.EPERM), nil
}

// Acquire records the calling process in the PID file and returns a function
// that removes it again. The daemon calls it on startup.
func (s *Supervisor) Acquire() (release func() error, err error) {
	if err := s.PID.Create(os.Getpid()); err != nil {
		return nil, err
	}
	return s.PID.Remove, nil
}

// Detach runs the current executable with args in a new session, with its
// standard streams closed, and returns its PID without waiting for it.
func Detach(args ...string) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, err
	}
	cmd := exec.Command(exe, args...)
	cmd.Dir = "/"
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	return pid, cmd.Process.Release()
}
