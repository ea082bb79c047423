package instance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	pid        int
	executable string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.executable }

// TestEnsure checks that only other processes with the same executable conflict.
func TestEnsure(t *testing.T) {
	t.Parallel()

	processList := []ps.Process{
		fakeProcess{pid: 1, executable: "init"},
		fakeProcess{pid: 42, executable: "traffic-light"},
	}

	require.NoError(t, ensure(processList, 42, "traffic-light"))
	require.NoError(t, ensure(processList, 7, "other"))
	require.ErrorIs(t, ensure(processList, 7, "traffic-light"), ErrAlreadyRunning)
}

// TestEnsure_ClientBinary verifies a running client whose name shares the
// controller prefix does not block the controller.
func TestEnsure_ClientBinary(t *testing.T) {
	t.Parallel()

	processList := []ps.Process{
		// traffic-light-ctl as listed by Linux.
		fakeProcess{pid: 10, executable: "traffic-light-c"},
		fakeProcess{pid: 11, executable: "traffic-light-ctl"},
		fakeProcess{pid: 12, executable: "traffic"},
	}

	require.NoError(t, ensure(processList, 7, "traffic-light"))
}

// TestEnsure_TruncatedName matches a long executable name against the
// truncated name the kernel reports.
func TestEnsure_TruncatedName(t *testing.T) {
	t.Parallel()

	linux := []ps.Process{fakeProcess{pid: 10, executable: "traffic-light-c"}}
	require.ErrorIs(t, ensure(linux, 7, "traffic-light-controller"), ErrAlreadyRunning)

	darwin := []ps.Process{fakeProcess{pid: 10, executable: "traffic-light-co"}}
	require.ErrorIs(t, ensure(darwin, 7, "traffic-light-controller"), ErrAlreadyRunning)

	// Short listed names are never treated as truncated.
	short := []ps.Process{fakeProcess{pid: 10, executable: "traffic"}}
	require.NoError(t, ensure(short, 7, "traffic-light-controller"))
}

// TestEnsure_Self verifies the running test binary does not conflict with itself.
func TestEnsure_Self(t *testing.T) {
	t.Parallel()

	executable, err := os.Executable()
	require.NoError(t, err)

	require.NoError(t, Ensure(filepath.Base(executable)))
	require.NoError(t, Ensure(""))
}
