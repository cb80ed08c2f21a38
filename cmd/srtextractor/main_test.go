package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/batch"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/config"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")

	cfg := &cfgVal
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestCLIConfigShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "paths.output_dir")
	requireContains(t, out, env.cfg.Paths.OutputDir)
	requireContains(t, out, "correction.mode")
	requireContains(t, out, env.cfg.Correction.Mode)
}

func TestCLIBatchStatusEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"batch", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("batch status: %v", err)
	}
	requireContains(t, out, "Batch database is empty")
}

func TestCLIBatchStatusListsItems(t *testing.T) {
	env := setupCLITestEnv(t)

	dbPath := filepath.Join(env.baseDir, "batch.db")
	store, err := batch.Open(dbPath)
	if err != nil {
		t.Fatalf("batch.Open: %v", err)
	}
	if _, err := store.Add(context.Background(), filepath.Join(env.baseDir, "alpha.mkv")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Add(context.Background(), filepath.Join(env.baseDir, "beta.mkv")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out, _, err := runCLI(t, []string{"batch", "status", "--db", dbPath}, env.configPath)
	if err != nil {
		t.Fatalf("batch status: %v", err)
	}
	requireContains(t, out, "alpha.mkv")
	requireContains(t, out, "beta.mkv")
	requireContains(t, out, string(batch.StatusPending))
}

func TestCLIBatchClear(t *testing.T) {
	env := setupCLITestEnv(t)

	dbPath := filepath.Join(env.baseDir, "batch.db")
	store, err := batch.Open(dbPath)
	if err != nil {
		t.Fatalf("batch.Open: %v", err)
	}
	if _, err := store.Add(context.Background(), filepath.Join(env.baseDir, "alpha.mkv")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out, _, err := runCLI(t, []string{"batch", "clear", "--db", dbPath}, env.configPath)
	if err != nil {
		t.Fatalf("batch clear: %v", err)
	}
	requireContains(t, out, "Removed 1 item(s)")
}

func TestCLIConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

func TestCLIExtractRequiresArgument(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"extract"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing file argument")
	}
}
