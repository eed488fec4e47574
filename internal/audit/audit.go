// Package audit keeps the append-only record of publish attempts in
// posts.json. Unlike the ledger it is informational: the daily cap and the
// stats view read it, but losing it never causes a double publish.
package audit

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"postforge/internal/fileutil"
	"postforge/internal/logging"
	"postforge/internal/services"
)

// Record is one publish attempt.
type Record struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	PostedAt     time.Time `json:"posted_at"`
	Status       string    `json:"status"`
	HasMedia     bool      `json:"hasMedia"`
	PublishedURL string    `json:"published_url,omitempty"`
	Source       string    `json:"source"`
}

const (
	StatusPosted = "posted"
	StatusFailed = "failed"
)

// Log is the flat-file audit log.
type Log struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	records []Record
}

// Open loads the audit log at path. Missing or corrupt files degrade to an
// empty log with a warning.
func Open(path string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = logging.NewNop()
	}
	l := &Log{
		path:   path,
		logger: logger.With(logging.String(logging.FieldComponent, "audit")),
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("audit log unreadable, starting empty",
				logging.String("path", path),
				logging.Error(err))
		}
		return l
	}
	if err := json.Unmarshal(raw, &l.records); err != nil {
		l.logger.Warn("audit log corrupt, starting empty",
			logging.String("path", path),
			logging.Error(err))
		l.records = nil
	}
	return l
}

// Append records a publish attempt and persists the log.
func (l *Log) Append(record Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	if err := l.persistLocked(); err != nil {
		l.records = l.records[:len(l.records)-1]
		return err
	}
	return nil
}

// Records returns a copy of all records, oldest first.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// CountPostedToday counts successful publishes on the same calendar day as
// now, in now's location.
func (l *Log) CountPostedToday(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	year, month, day := now.Date()
	count := 0
	for _, record := range l.records {
		if record.Status != StatusPosted {
			continue
		}
		ry, rm, rd := record.PostedAt.In(now.Location()).Date()
		if ry == year && rm == month && rd == day {
			count++
		}
	}
	return count
}

// Prune drops records older than the cutoff and persists. Returns how many
// records were removed.
func (l *Log) Prune(cutoff time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.records[:0]
	for _, record := range l.records {
		if !record.PostedAt.Before(cutoff) {
			kept = append(kept, record)
		}
	}
	removed := len(l.records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	l.records = kept
	if err := l.persistLocked(); err != nil {
		return 0, err
	}
	l.logger.Info("audit records pruned", logging.Int("removed", removed))
	return removed, nil
}

func (l *Log) persistLocked() error {
	encoded, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrDataIntegrity, "audit", "persist", "encode", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return services.Wrap(services.ErrDataIntegrity, "audit", "persist", "ensure data dir", err)
	}
	if err := fileutil.WriteFileAtomic(l.path, encoded, 0o644); err != nil {
		return services.Wrap(services.ErrDataIntegrity, "audit", "persist", "write", err)
	}
	return nil
}
