package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndCovers(t *testing.T) {
	path := writeConfig(t, `
service_name = "matchcore-test"
universe = ["AAA", "BBB"]

[[partitions]]
name = "p0"
symbols = ["AAA", "BBB"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Matching.Workers != 5 {
		t.Fatalf("expected default workers 5, got %d", cfg.Matching.Workers)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("expected default http port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Logger.Format != "json" {
		t.Fatalf("expected default logger format json, got %q", cfg.Logger.Format)
	}
}

func TestLoadRejectsDuplicateSymbol(t *testing.T) {
	path := writeConfig(t, `
service_name = "matchcore-test"
universe = ["AAA"]

[[partitions]]
name = "p0"
symbols = ["AAA"]

[[partitions]]
name = "p1"
symbols = ["AAA"]
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for duplicate symbol")
	}
	if !errors.Is(err, ErrDuplicatePartitionSymbol) {
		t.Fatalf("expected ErrDuplicatePartitionSymbol, got %v", err)
	}
}

func TestLoadRejectsIncompleteCover(t *testing.T) {
	path := writeConfig(t, `
service_name = "matchcore-test"
universe = ["AAA", "BBB"]

[[partitions]]
name = "p0"
symbols = ["AAA"]
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for incomplete cover")
	}
	if !errors.Is(err, ErrIncompletePartitionCover) {
		t.Fatalf("expected ErrIncompletePartitionCover, got %v", err)
	}
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	cfg := &Config{
		ServiceName: "x",
		Universe:    []string{"AAA"},
		Partitions:  []PartitionConfig{{Name: "p0", Symbols: []string{"AAA"}}},
		HTTP:        HTTPConfig{Port: 8080},
		Matching:    MatchingConfig{Workers: 0},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero workers")
	}
}

func TestValidateDefaultsServiceName(t *testing.T) {
	cfg := &Config{
		Universe:   []string{"AAA"},
		Partitions: []PartitionConfig{{Name: "p0", Symbols: []string{"AAA"}}},
		HTTP:       HTTPConfig{Port: 8080},
		Matching:   MatchingConfig{Workers: 1},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.ServiceName != "matchcore" {
		t.Fatalf("expected default service name matchcore, got %q", cfg.ServiceName)
	}
}
