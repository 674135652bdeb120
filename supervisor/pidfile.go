package supervisor

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrAlreadyRunning is returned when the PID file already exists.
	ErrAlreadyRunning = errors.New("pid file already exists")

	// ErrInvalidPID is returned when the PID file can't be parsed.
	ErrInvalidPID = errors.New("invalid pid file")
)

// PIDFile is the file holding the daemon's process ID. Its existence is what
// keeps a second daemon from starting.
type PIDFile struct {
	fs   afero.Fs
	path string
}

func NewPIDFile(fs afero.Fs, path string) *PIDFile {
	return &PIDFile{fs: fs, path: path}
}

func (p *PIDFile) Path() string { return p.path }

func (p *PIDFile) Exists() (bool, error) {
	return afero.Exists(p.fs, p.path)
}

// Create writes pid to a new PID file, failing with ErrAlreadyRunning if one
// exists.
func (p *PIDFile) Create(pid int) error {
	f, err := p.fs.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, p.path)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", p.path, err)
	}
	if _, err := f.WriteString(strconv.Itoa(pid)); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", p.path, err)
	}
	return f.Close()
}

// Read returns the recorded PID. A missing file is reported as an error
// satisfying errors.Is(err, os.ErrNotExist).
func (p *PIDFile) Read() (int, error) {
	buf, err := afero.ReadFile(p.fs, p.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(buf)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w %s: %q", ErrInvalidPID, p.path, buf)
	}
	return pid, nil
}

// Remove deletes the PID file. A missing file isn't an error.
func (p *PIDFile) Remove() error {
	err := p.fs.Remove(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
