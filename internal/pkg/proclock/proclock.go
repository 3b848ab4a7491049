// Package proclock enforces process-singleton execution through a lock
// file. A second instance refuses to start while the file exists; the
// holder removes it on every exit path, including fatal faults, so a
// restart is never blocked by a stale claim from a clean shutdown.
package proclock

import (
	"fmt"
	"os"

	"github.com/jianghu-rpg/jianghu-api/internal/errors"
)

// Lock is a held singleton claim
type Lock struct {
	path string
}

// Acquire claims the lock file, failing if another instance holds it
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.AlreadyExistsf("another instance is already running (lock file %s)", path)
		}
		return nil, errors.Wrapf(err, "failed to create lock file")
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		os.Remove(path)
		return nil, errors.Wrapf(err, "failed to write lock file")
	}
	return &Lock{path: path}, nil
}

// Release removes the lock file. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	l.path = ""
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove lock file")
	}
	return nil
}
