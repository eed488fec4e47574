package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"postforge/internal/config"
	"postforge/internal/logging"
)

func TestNewFromConfigWritesPrunableLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("new from config: %v", err)
	}
	logger.Info("startup")

	want := logging.LogFileName(time.Now())
	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, want)); err != nil {
		t.Fatalf("expected log file %s: %v", want, err)
	}
	matched, err := filepath.Match(logging.LogFilePattern, want)
	if err != nil || !matched {
		t.Fatalf("log file %s does not match retention pattern %s", want, logging.LogFilePattern)
	}
}

func TestRetentionPrunesAgedLogFile(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, logging.LogFileName(time.Now().AddDate(0, 0, -400)))
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	expired := time.Now().AddDate(0, 0, -400)
	if err := os.Chtimes(stale, expired, expired); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	current := filepath.Join(dir, logging.LogFileName(time.Now()))
	if err := os.WriteFile(current, []byte("new"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	removed := logging.CleanupOldFiles(logging.NewNop(), 30, logging.RetentionTarget{
		Dir:     dir,
		Pattern: logging.LogFilePattern,
	})
	if removed != 1 {
		t.Fatalf("expected 1 file removed, got %d", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("expected aged log file to be removed")
	}
	if _, err := os.Stat(current); err != nil {
		t.Fatal("expected current log file to remain")
	}
}
