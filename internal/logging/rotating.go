package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter writes to one log file per ISO week and prunes old files.
type RotatingWriter struct {
	dir       string
	retention time.Duration
	now       func() time.Time

	mu          sync.Mutex
	file        *os.File
	currentWeek string
}

// NewRotatingWriter creates a writer keeping retentionWeeks weeks of logs in dir.
func NewRotatingWriter(dir string, retentionWeeks int) (*RotatingWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	rw := &RotatingWriter{
		dir:       dir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		now:       time.Now,
	}
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if err := rw.rotate(weekKey(rw.now())); err != nil {
		return nil, err
	}
	return rw, nil
}

// weekKey returns the week key in YYYY-Www format (ISO week)
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// rotate opens the file for week (caller holds mu) and prunes expired files.
func (rw *RotatingWriter) rotate(week string) error {
	if rw.file != nil {
		_ = rw.file.Close()
		rw.file = nil
	}
	path := filepath.Join(rw.dir, fmt.Sprintf("app-%s.log", week))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	rw.file = f
	rw.currentWeek = week
	rw.cleanup()
	return nil
}

func (rw *RotatingWriter) cleanup() {
	entries, err := os.ReadDir(rw.dir)
	if err != nil {
		return
	}
	cutoff := rw.now().Add(-rw.retention)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		if name == fmt.Sprintf("app-%s.log", rw.currentWeek) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(rw.dir, name))
		}
	}
}

func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if week := weekKey(rw.now()); week != rw.currentWeek || rw.file == nil {
		if err := rw.rotate(week); err != nil {
			return 0, err
		}
	}
	return rw.file.Write(p)
}

// Close closes the current file.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.file == nil {
		return nil
	}
	err := rw.file.Close()
	rw.file = nil
	return err
}
