package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("REFLEX_TEST_STR", "hello")
	if got := GetEnv("REFLEX_TEST_STR", "x"); got != "hello" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("REFLEX_TEST_UNSET", "x"); got != "x" {
		t.Errorf("fallback = %q", got)
	}
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("REFLEX_TEST_INT", " 42 ")
	t.Setenv("REFLEX_TEST_BAD", "forty")
	t.Setenv("REFLEX_TEST_BOOL", "true")
	t.Setenv("REFLEX_TEST_FLOAT", "0.25")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"int", GetEnvInt("REFLEX_TEST_INT", 1), 42},
		{"bad int", GetEnvInt("REFLEX_TEST_BAD", 7), 7},
		{"unset int", GetEnvInt("REFLEX_TEST_UNSET", 7), 7},
		{"bool", GetEnvBool("REFLEX_TEST_BOOL", false), true},
		{"bad bool", GetEnvBool("REFLEX_TEST_BAD", true), true},
		{"float", GetEnvFloat("REFLEX_TEST_FLOAT", 1), 0.25},
		{"bad float", GetEnvFloat("REFLEX_TEST_BAD", 0.5), 0.5},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("REFLEX_DOTENV_A=from-file\nREFLEX_DOTENV_B=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REFLEX_DOTENV_B", "from-env")
	// Registered so t.Setenv restores it after godotenv sets it.
	t.Setenv("REFLEX_DOTENV_A", "")
	os.Unsetenv("REFLEX_DOTENV_A")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("REFLEX_DOTENV_A"); got != "from-file" {
		t.Errorf("A = %q, want from-file", got)
	}
	if got := os.Getenv("REFLEX_DOTENV_B"); got != "from-env" {
		t.Errorf("B = %q, existing variables must win", got)
	}
}
