package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("ASTEROIDS_TEST_INT", "42")
	t.Setenv("ASTEROIDS_TEST_BAD", "forty-two")
	t.Setenv("ASTEROIDS_TEST_FLOAT", "0.25")
	t.Setenv("ASTEROIDS_TEST_BOOL", "true")
	t.Setenv("ASTEROIDS_TEST_DUR", "1500ms")

	if got := GetEnvInt("ASTEROIDS_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d, want 42", got)
	}
	if got := GetEnvInt("ASTEROIDS_TEST_BAD", 7); got != 7 {
		t.Errorf("GetEnvInt malformed = %d, want fallback 7", got)
	}
	if got := GetEnvInt("ASTEROIDS_TEST_MISSING", 3); got != 3 {
		t.Errorf("GetEnvInt missing = %d, want 3", got)
	}
	if got := GetEnvFloat("ASTEROIDS_TEST_FLOAT", 1); got != 0.25 {
		t.Errorf("GetEnvFloat = %f, want 0.25", got)
	}
	if got := GetEnvBool("ASTEROIDS_TEST_BOOL", false); !got {
		t.Error("GetEnvBool = false, want true")
	}
	if got := GetEnvDuration("ASTEROIDS_TEST_DUR", time.Second); got != 1500*time.Millisecond {
		t.Errorf("GetEnvDuration = %v, want 1.5s", got)
	}
	if got := GetEnv("ASTEROIDS_TEST_MISSING", "x"); got != "x" {
		t.Errorf("GetEnv missing = %q, want x", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("ASTEROIDS_DOTENV_VALUE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("ASTEROIDS_DOTENV_VALUE") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("ASTEROIDS_DOTENV_VALUE"); got != "loaded" {
		t.Fatalf("dotenv value = %q, want loaded", got)
	}
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "test")
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %q", out)
	}
}
