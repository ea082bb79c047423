// Package instance keeps a single controller running per host.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another process runs the same executable.
var ErrAlreadyRunning = errors.New("another instance is already running")

// minTruncatedNameLen is the shortest process name the kernel may have cut.
// Linux keeps 15 bytes of the command name, macOS keeps 16.
const minTruncatedNameLen = 15

// Ensure fails with ErrAlreadyRunning when a process other than this one runs
// an executable called name. An empty name selects this process' executable.
func Ensure(name string) error {
	if name == "" {
		executable, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}

		name = filepath.Base(executable)
	}

	processList, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	return ensure(processList, os.Getpid(), name)
}

func ensure(processList []ps.Process, self int, name string) error {
	for _, process := range processList {
		if process.Pid() == self {
			continue
		}

		if !sameExecutable(process.Executable(), name) {
			continue
		}

		return fmt.Errorf("%w: %s (pid %d)", ErrAlreadyRunning, name, process.Pid())
	}

	return nil
}

// sameExecutable reports whether a listed process name stands for name.
// Long names are listed truncated, so a name at the truncation limit matches
// by prefix.
func sameExecutable(listed, name string) bool {
	if listed == name {
		return true
	}

	return len(listed) >= minTruncatedNameLen && len(listed) < len(name) && strings.HasPrefix(name, listed)
}
