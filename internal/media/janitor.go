package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Janitor removes transient per-user files that were not rewritten for a while.
type Janitor struct {
	dirs   []string
	maxAge time.Duration
	now    func() time.Time
}

func NewJanitor(maxAge time.Duration, dirs ...string) *Janitor {
	return &Janitor{dirs: dirs, maxAge: maxAge, now: time.Now}
}

// Sweep deletes regular files older than maxAge and returns how many were removed.
// Missing directories are skipped.
func (j *Janitor) Sweep() (int, error) {
	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	var errs []error
	for _, dir := range j.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			errs = append(errs, fmt.Errorf("read %s: %w", dir, err))
			continue
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			info, err := e.Info()
			if err != nil || !info.ModTime().Before(cutoff) {
				continue
			}
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
				continue
			}
			removed++
		}
	}
	return removed, errors.Join(errs...)
}
