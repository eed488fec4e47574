package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
posts_dir = %q
log_dir = %q

[schedule]
selection_policy = "fifo"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "posts"),
		filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIGenerateAndStats(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, configPath, "generate", "2", "--text-only")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "Generated 2 post(s)") {
		t.Fatalf("unexpected generate output: %q", out)
	}

	out, _, err = runCLI(t, configPath, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Total posts") || !strings.Contains(out, "2") {
		t.Fatalf("unexpected stats output: %q", out)
	}

	out, _, err = runCLI(t, configPath, "stats", "--detail")
	if err != nil {
		t.Fatalf("stats --detail: %v", err)
	}
	if !strings.Contains(out, "Topic") {
		t.Fatalf("detail output missing queue table: %q", out)
	}
}

func TestCLIGenerateRejectsUnknownDomain(t *testing.T) {
	configPath := writeTestConfig(t)

	_, _, err := runCLI(t, configPath, "generate", "--domain", "underwater basket weaving")
	if err == nil || !strings.Contains(err.Error(), "unknown content domain") {
		t.Fatalf("expected unknown domain error, got %v", err)
	}
}

func TestCLIGenerateRejectsBadCount(t *testing.T) {
	configPath := writeTestConfig(t)

	_, _, err := runCLI(t, configPath, "generate", "zero")
	if err == nil || !strings.Contains(err.Error(), "positive integer") {
		t.Fatalf("expected count error, got %v", err)
	}
}

func TestCLIConfigShowRedactsSecrets(t *testing.T) {
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
posts_dir = %q
log_dir = %q

[linkedin]
email = "user@example.com"
password = "hunter2"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "posts"),
		filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, _, err := runCLI(t, configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "hunter2") {
		t.Fatal("password leaked in config show output")
	}
	if !strings.Contains(out, "<redacted>") {
		t.Fatalf("expected redaction marker in output: %q", out)
	}
}

func TestCLIConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[linkedin]") {
		t.Fatalf("sample config missing linkedin section: %q", string(data))
	}

	cmd = newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected overwrite refusal without --force")
	}
}

func TestCLITestNotifyUnconfigured(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, configPath, "test-notify")
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	if !strings.Contains(out, "not configured") {
		t.Fatalf("unexpected test-notify output: %q", out)
	}
}
