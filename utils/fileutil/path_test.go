package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("Failed to get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty path", "", ""},
		{"tilde only", "~", homeDir},
		{"tilde with subpath", "~/chains", filepath.Join(homeDir, "chains")},
		{"absolute path unchanged", "/usr/local/bin", "/usr/local/bin"},
		{"relative path cleaned", "./chains/../docs", "docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("ExpandPath() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExpandPathWithEnvVar(t *testing.T) {
	t.Setenv("CHAINFORGE_TEST_PATH", "/test/path")

	got, err := ExpandPath("$CHAINFORGE_TEST_PATH/subdir")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if want := filepath.Join("/test/path", "subdir"); got != want {
		t.Errorf("ExpandPath() = %v, want %v", got, want)
	}
}
