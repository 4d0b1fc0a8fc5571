package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	configPath string
}

func setupCLITestEnv(t *testing.T) cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "adflow.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.ToSlash(filepath.Join(base, "data")) + `"`,
		`log_dir = "` + filepath.ToSlash(filepath.Join(base, "logs")) + `"`,
		`api_bind = "127.0.0.1:0"`,
	}, "\n") + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cliTestEnv{configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestTeamAddAndList(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"team", "add", "--email", "ana@example.com", "--name", "Ana", "--role", "Editor"}, env.configPath)
	if err != nil {
		t.Fatalf("team add: %v", err)
	}
	requireContains(t, out, "Added Ana <ana@example.com>")

	out, err = runCLI(t, []string{"team", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("team list: %v", err)
	}
	requireContains(t, out, "ana@example.com")
}

func TestScriptsListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"scripts", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("scripts list: %v", err)
	}
	requireContains(t, out, "No scripts found")
}

func TestTasksListRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, []string{"tasks", "list", "--status", "BOGUS"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
}
