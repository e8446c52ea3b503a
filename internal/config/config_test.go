package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shmpipe.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCommonAndSection(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
log_format = "json"

[detector]
blur = 3
diff_threshold = 25
`)
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Common().LogLevel != "debug" || f.Common().LogFormat != "json" {
		t.Errorf("common = %+v", f.Common())
	}
	if !f.HasSection("detector") {
		t.Fatal("detector section not found")
	}

	var cfg struct {
		Blur          int `toml:"blur"`
		DiffThreshold int `toml:"diff_threshold"`
	}
	if err := f.Section("detector", &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Blur != 3 || cfg.DiffThreshold != 25 {
		t.Errorf("section = %+v", cfg)
	}
}

func TestSectionMissingKey(t *testing.T) {
	f, err := Load(writeConfig(t, `[other]`))
	if err != nil {
		t.Fatal(err)
	}
	var out struct{}
	if err := f.Section("detector", &out); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("err = %v, want ErrSectionNotFound", err)
	}
	if f.HasSection("detector") {
		t.Error("HasSection true for missing key")
	}
}

func TestSectionRejectsUnknownFields(t *testing.T) {
	f, err := Load(writeConfig(t, `
[detector]
blur = 3
blurr = 4
`))
	if err != nil {
		t.Fatal(err)
	}
	var cfg struct {
		Blur int `toml:"blur"`
	}
	if err := f.Section("detector", &cfg); err == nil {
		t.Error("misspelled option accepted")
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	if _, err := Load(writeConfig(t, `log_level = `)); err == nil {
		t.Error("syntactically invalid file accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("missing file accepted")
	}
}
