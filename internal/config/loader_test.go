package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml",
		"addr: :9999\ncache_dir: /tmp/cache\ntemp_dir: /tmp/work\nmax_workers: 4\ndefault_service: espeak\nlame_flags: \"--quiet\"\naliases:\n  g: google\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.CacheDir != "/tmp/cache" || cfg.TempDir != "/tmp/work" ||
		cfg.MaxWorkers != 4 || cfg.DefaultService != "espeak" || cfg.LameFlags != "--quiet" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Aliases["g"] != "google" {
		t.Fatalf("unexpected aliases: %+v", cfg.Aliases)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json",
		`{"addr":":7070","cache_dir":"/c","max_workers":2,"default_service":"google","aliases":{"gt":"google"}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.CacheDir != "/c" || cfg.MaxWorkers != 2 || cfg.DefaultService != "google" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Aliases["gt"] != "google" {
		t.Fatalf("unexpected aliases: %+v", cfg.Aliases)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml",
		"addr=\":8081\"\ncache_dir=\"/x\"\nmax_workers=9\nlame_flags=\"-q 2\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.CacheDir != "/x" || cfg.MaxWorkers != 9 || cfg.LameFlags != "-q 2" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := Load(filepath.Join(d, "missing.yaml")); err == nil {
		t.Fatalf("expected error on missing file")
	}
}
