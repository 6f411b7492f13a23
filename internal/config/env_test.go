package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ZONEMAP_TEST_STR", "value")
	t.Setenv("ZONEMAP_TEST_INT", "42")
	t.Setenv("ZONEMAP_TEST_BAD_INT", "forty")
	t.Setenv("ZONEMAP_TEST_BOOL", "yes")
	t.Setenv("ZONEMAP_TEST_DUR", "90s")

	if got := GetEnv("ZONEMAP_TEST_STR", "x"); got != "value" {
		t.Errorf("GetEnv() = %q, want value", got)
	}
	if got := GetEnv("ZONEMAP_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnv(unset) = %q, want fallback", got)
	}
	if got := GetEnvInt("ZONEMAP_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt() = %d, want 42", got)
	}
	if got := GetEnvInt("ZONEMAP_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetEnvInt(bad) = %d, want 7", got)
	}
	if got := GetEnvBool("ZONEMAP_TEST_BOOL", false); !got {
		t.Errorf("GetEnvBool() = %v, want true", got)
	}
	if got := GetEnvDuration("ZONEMAP_TEST_DUR", time.Second); got != 90*time.Second {
		t.Errorf("GetEnvDuration() = %v, want 90s", got)
	}
}

func TestLoadEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ZONEMAP_TEST_FILE=from-file\nZONEMAP_TEST_KEEP=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	t.Setenv("ZONEMAP_TEST_KEEP", "from-env")
	t.Setenv("ZONEMAP_TEST_FILE", "")
	os.Unsetenv("ZONEMAP_TEST_FILE")

	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := os.Getenv("ZONEMAP_TEST_FILE"); got != "from-file" {
		t.Errorf("ZONEMAP_TEST_FILE = %q, want from-file", got)
	}
	if got := os.Getenv("ZONEMAP_TEST_KEEP"); got != "from-env" {
		t.Errorf("ZONEMAP_TEST_KEEP = %q, want from-env", got)
	}
}
