// Package ledger tracks which post units have been published. The ledger is
// the source of truth for the at-most-once publish guarantee: a unit listed
// here is never picked up again, whatever happens to the unit directory or
// the audit log.
package ledger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"postforge/internal/fileutil"
	"postforge/internal/logging"
	"postforge/internal/services"
)

type entry struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"publishedAt"`
}

type ledgerFile struct {
	PublishedIDs []string  `json:"publishedIds"`
	LastUpdated  time.Time `json:"lastUpdated"`
	Posts        []entry   `json:"posts"`
}

// Ledger is a flat-file record of published unit IDs.
type Ledger struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	ids   map[string]time.Time
	dirty bool
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// Open loads the ledger at path. A missing or corrupt file yields an empty
// ledger with a warning; publish history should never block the pipeline.
func Open(path string, logger *slog.Logger, opts ...Option) *Ledger {
	if logger == nil {
		logger = logging.NewNop()
	}
	l := &Ledger{
		path:   path,
		logger: logger.With(logging.String(logging.FieldComponent, "ledger")),
		now:    time.Now,
		ids:    make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.load()
	return l
}

func (l *Ledger) load() {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("ledger unreadable, starting empty",
				logging.String("path", l.path),
				logging.Error(err))
		}
		return
	}
	var file ledgerFile
	if err := json.Unmarshal(raw, &file); err != nil {
		l.logger.Warn("ledger corrupt, starting empty",
			logging.String("path", l.path),
			logging.Error(err))
		return
	}
	for _, id := range file.PublishedIDs {
		l.ids[id] = time.Time{}
	}
	for _, e := range file.Posts {
		if _, ok := l.ids[e.ID]; ok {
			l.ids[e.ID] = e.PublishedAt
		}
	}
}

// IsPublished reports whether the unit ID is recorded as published.
func (l *Ledger) IsPublished(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.ids[id]
	return ok
}

// PublishedIDs returns all recorded unit IDs, sorted.
func (l *Ledger) PublishedIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarkPublished records a unit ID and persists the ledger. Marking an ID that
// is already present is a no-op.
func (l *Ledger) MarkPublished(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.ids[id]; ok {
		return nil
	}
	l.ids[id] = l.now().UTC()
	if err := l.persistLocked(); err != nil {
		delete(l.ids, id)
		return err
	}
	l.logger.Info("unit marked published", logging.String("unit", id))
	return nil
}

// Len returns the number of recorded IDs.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

func (l *Ledger) persistLocked() error {
	file := ledgerFile{
		PublishedIDs: make([]string, 0, len(l.ids)),
		LastUpdated:  l.now().UTC(),
		Posts:        make([]entry, 0, len(l.ids)),
	}
	for id := range l.ids {
		file.PublishedIDs = append(file.PublishedIDs, id)
	}
	sort.Strings(file.PublishedIDs)
	for _, id := range file.PublishedIDs {
		file.Posts = append(file.Posts, entry{ID: id, PublishedAt: l.ids[id]})
	}

	encoded, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrDataIntegrity, "ledger", "persist", "encode", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return services.Wrap(services.ErrDataIntegrity, "ledger", "persist", "ensure data dir", err)
	}
	if err := fileutil.WriteFileAtomic(l.path, encoded, 0o644); err != nil {
		return services.Wrap(services.ErrDataIntegrity, "ledger", "persist", "write", err)
	}
	return nil
}
