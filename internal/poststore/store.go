package poststore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"postforge/internal/fileutil"
	"postforge/internal/logging"
	"postforge/internal/services"
)

const (
	contentFileName  = "post.txt"
	folderTimeLayout = "2006-01-02_15-04-05"
)

var imageExtensions = []string{".png", ".svg", ".jpg", ".jpeg", ".gif"}

// Unit is one queued post: a directory holding the body and optional media.
// Units are immutable once created.
type Unit struct {
	ID        string
	Dir       string
	Topic     string
	Content   string
	CreatedAt time.Time
	ImagePath string
}

// HasMedia reports whether the unit carries an image.
func (u Unit) HasMedia() bool {
	return u.ImagePath != ""
}

// Store manages the posts directory.
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore constructs a Store rooted at dir.
func NewStore(dir string, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	store := &Store{
		dir:    dir,
		logger: logger.With(logging.String(logging.FieldComponent, "poststore")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Dir returns the store root.
func (s *Store) Dir() string {
	return s.dir
}

// CreateUnit writes a new unit directory named
// <YYYY-MM-DD_HH-MM-SS>_<topic-slug> containing post.txt. A name collision
// within the same second gets a short random suffix instead of overwriting.
func (s *Store) CreateUnit(content, topic string) (Unit, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Unit{}, services.Wrap(services.ErrValidation, "poststore", "create", "post content required", nil)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Unit{}, services.Wrap(services.ErrDataIntegrity, "poststore", "create", "ensure posts dir", err)
	}

	createdAt := s.now().UTC()
	slug := slugify(topic)
	name := createdAt.Format(folderTimeLayout) + "_" + slug
	dir := filepath.Join(s.dir, name)
	if _, err := os.Stat(dir); err == nil {
		name = name + "_" + uuid.NewString()[:8]
		dir = filepath.Join(s.dir, name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Unit{}, services.Wrap(services.ErrDataIntegrity, "poststore", "create", "create unit dir", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(dir, contentFileName), []byte(content), 0o644); err != nil {
		return Unit{}, services.Wrap(services.ErrDataIntegrity, "poststore", "create", "write content", err)
	}

	s.logger.Info("post unit created",
		logging.String("unit", name),
		logging.String("topic", topic))
	return Unit{
		ID:        name,
		Dir:       dir,
		Topic:     topic,
		Content:   content,
		CreatedAt: createdAt,
	}, nil
}

// List returns every readable unit in the store, oldest first. Malformed
// entries (no content file, unreadable, empty body) are logged and skipped
// rather than failing the listing.
func (s *Store) List() ([]Unit, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrDataIntegrity, "poststore", "list", "read posts dir", err)
	}

	units := make([]Unit, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		unit, err := s.readUnit(entry.Name())
		if err != nil {
			s.logger.Warn("skipping malformed post unit",
				logging.String("unit", entry.Name()),
				logging.Error(err))
			continue
		}
		units = append(units, unit)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units, nil
}

// Get loads a single unit by ID.
func (s *Store) Get(id string) (Unit, error) {
	unit, err := s.readUnit(id)
	if err != nil {
		return Unit{}, err
	}
	return unit, nil
}

func (s *Store) readUnit(name string) (Unit, error) {
	dir := filepath.Join(s.dir, name)
	contentPath := filepath.Join(dir, contentFileName)
	raw, err := os.ReadFile(contentPath)
	if err != nil {
		return Unit{}, fmt.Errorf("read %s: %w", contentFileName, err)
	}
	content := strings.TrimSpace(string(raw))
	if content == "" {
		return Unit{}, fmt.Errorf("empty content file")
	}

	unit := Unit{
		ID:      name,
		Dir:     dir,
		Content: content,
	}
	unit.CreatedAt, unit.Topic = parseUnitName(name)
	unit.ImagePath = findImage(dir)
	return unit, nil
}

// ImagePath returns the media file inside a unit directory, if any.
func (s *Store) ImagePath(id string) string {
	return findImage(filepath.Join(s.dir, id))
}

func findImage(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		for _, ext := range imageExtensions {
			if strings.HasSuffix(name, ext) {
				return filepath.Join(dir, entry.Name())
			}
		}
	}
	return ""
}

// parseUnitName recovers the creation time and display topic from a unit
// directory name. Names that do not follow the layout yield a zero time and
// the raw name as topic.
func parseUnitName(name string) (time.Time, string) {
	parts := strings.SplitN(name, "_", 3)
	if len(parts) < 3 {
		return time.Time{}, topicFromSlug(name)
	}
	createdAt, err := time.Parse(folderTimeLayout, parts[0]+"_"+parts[1])
	if err != nil {
		return time.Time{}, topicFromSlug(name)
	}
	slug := parts[2]
	// Strip a collision suffix when present.
	if idx := strings.LastIndex(slug, "_"); idx > 0 {
		slug = slug[:idx]
	}
	return createdAt, topicFromSlug(slug)
}
