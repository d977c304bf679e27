package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FIANCHETTO_DEPTH", "")
	t.Setenv("FIANCHETTO_WORKERS", "")
	t.Setenv("FIANCHETTO_BOOK", "")
	t.Setenv("FIANCHETTO_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Depth != 0 || cfg.Workers != 0 || cfg.BookPath != "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log level %q, want info", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FIANCHETTO_DEPTH", "5")
	t.Setenv("FIANCHETTO_WORKERS", "3")
	t.Setenv("FIANCHETTO_BOOK", "/tmp/book.bin")
	t.Setenv("FIANCHETTO_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Depth != 5 || cfg.Workers != 3 {
		t.Errorf("numeric settings not read: %+v", cfg)
	}
	if cfg.BookPath != "/tmp/book.bin" || cfg.LogLevel != "debug" {
		t.Errorf("string settings not read: %+v", cfg)
	}
}

func TestLoadRejectsBadInteger(t *testing.T) {
	t.Setenv("FIANCHETTO_DEPTH", "deep")

	if _, err := Load(); err == nil {
		t.Error("non-integer depth accepted")
	}
}
