package theme

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoad_Builtin(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "mocha"},
		{"mocha", "mocha"},
		{"Latte", "latte"},
		{"frappe", "frappe"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			th, err := Load(tc.input)
			if err != nil {
				t.Fatalf("Load(%q) failed: %v", tc.input, err)
			}
			if th.Name != tc.want {
				t.Errorf("Name = %q, want %q", th.Name, tc.want)
			}
			if th.Preferred == "" || th.Holiday == "" {
				t.Errorf("theme %q has empty colors", th.Name)
			}
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	if _, err := Load("dracula"); !errors.Is(err, ErrUnknownTheme) {
		t.Errorf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := "name = \"custom\"\npreferred = \"#00ff00\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing theme: %v", err)
	}

	th, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if th.Name != "custom" || th.Preferred != "#00ff00" {
		t.Errorf("got %+v", th)
	}
	if th.Holiday != builtin[DefaultName].Holiday {
		t.Errorf("missing colors should come from the default theme, got %q", th.Holiday)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("preferred = "), 0o644); err != nil {
		t.Fatalf("writing theme: %v", err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for invalid toml")
	}
}

func TestAvailable(t *testing.T) {
	names := Available()
	if !slices.Equal(names, []string{"frappe", "latte", "mocha"}) {
		t.Errorf("Available() = %v", names)
	}
	for _, name := range names {
		if !IsAvailable(name) {
			t.Errorf("IsAvailable(%q) = false", name)
		}
	}
	if IsAvailable("custom.toml") {
		t.Error("files are not built-in themes")
	}
}
