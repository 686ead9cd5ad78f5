// Package lock provides the filesystem mutex that serializes runs: a
// plain directory whose existence is the locked state.
package lock

import (
	"os"
	"path/filepath"
	"time"

	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

// DefaultDirectory is the lock directory name used when the caller does
// not supply one.
const DefaultDirectory = "wardrobe.lock.d"

// Manager acquires and releases the lock directory. The directory's
// existence is the sole source of truth: atomically creating it acquires
// the lock, removing it releases it. A crash leaves the directory behind
// and later acquisitions correctly report it busy until someone cleans
// up (ForceRelease).
//
// Managers are not safe for concurrent use within a process. The lock
// serializes processes, not goroutines.
type Manager struct {
	path string
	held bool
}

// NewManager returns a manager for the given lock directory. A relative
// path is qualified under the system temp directory; empty means
// DefaultDirectory.
func NewManager(path string) *Manager {
	if path == "" {
		path = DefaultDirectory
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(os.TempDir(), path)
	}
	return &Manager{path: path}
}

// Path returns the absolute lock directory path.
func (m *Manager) Path() string {
	return m.path
}

// Held reports whether this manager holds the lock.
func (m *Manager) Held() bool {
	return m.held
}

// Acquire takes the lock. It fails with E_ALREADY_LOCKED when this
// manager already holds it, and with E_LOCK_BUSY when the directory
// exists, i.e. another process holds it. Any other filesystem error
// propagates unchanged.
func (m *Manager) Acquire() error {
	if m.held {
		return errclass.ErrAlreadyLocked.WithMessage("already locked, cannot lock again")
	}
	return m.acquire()
}

// AcquireIfFree takes the lock, or does nothing when this manager
// already holds it.
func (m *Manager) AcquireIfFree() error {
	if m.held {
		return nil
	}
	return m.acquire()
}

func (m *Manager) acquire() error {
	if err := os.Mkdir(m.path, 0o755); err != nil {
		if os.IsExist(err) {
			return errclass.ErrLockBusy.WithMessagef("could not acquire lock %q", m.path)
		}
		return err
	}
	m.held = true
	return nil
}

// Release frees the lock. It fails with E_NOT_LOCKED when this manager
// does not hold it. Removal only succeeds while the directory is empty;
// a filesystem error propagates unchanged and leaves the lock held.
func (m *Manager) Release() error {
	if !m.held {
		return errclass.ErrNotLocked.WithMessage("not locked, cannot unlock")
	}
	return m.release()
}

// ReleaseIfHeld frees the lock when held and does nothing otherwise.
// Operations that acquire the lock defer this call so every exit path,
// error paths included, releases it.
func (m *Manager) ReleaseIfHeld() error {
	if !m.held {
		return nil
	}
	return m.release()
}

func (m *Manager) release() error {
	if err := os.Remove(m.path); err != nil {
		return err
	}
	m.held = false
	return nil
}

// ForceRelease removes the lock directory no matter who created it, for
// cleaning up after a crashed holder. The caller asserts that no run is
// in progress. Removing an already absent lock succeeds.
func (m *Manager) ForceRelease() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	m.held = false
	return nil
}

// Status describes the lock's on-disk state.
type Status struct {
	Path  string    `json:"path"`
	Held  bool      `json:"held"`  // the directory exists
	Mine  bool      `json:"mine"`  // this manager created it
	Since time.Time `json:"since"` // directory mtime, meaningful while held
}

// Status reports whether the lock is held and since when.
func (m *Manager) Status() (Status, error) {
	st := Status{Path: m.path, Mine: m.held}
	fi, err := os.Stat(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, err
	}
	st.Held = true
	st.Since = fi.ModTime()
	return st, nil
}
