package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"salita/internal/api"
)

type cliTestEnv struct {
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("SALITA_LLM_API_KEY", "")
	t.Setenv("SALITA_NLP_URL", "")

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[quests]
timezone = "UTC"

[nlp]
enabled = false

[logging]
level = "error"
`, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}

func createLearner(t *testing.T, env *cliTestEnv, name string) api.User {
	t.Helper()
	out, _, err := runCLI(t, []string{"--json", "user", "create", name}, env.configPath)
	if err != nil {
		t.Fatalf("user create: %v", err)
	}
	var user api.User
	if err := json.Unmarshal([]byte(out), &user); err != nil {
		t.Fatalf("decode user: %v\n%s", err, out)
	}
	return user
}

func TestCLILearnerCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	user := createLearner(t, env, "Maria")
	if user.ID == "" || user.Timezone != "UTC" {
		t.Fatalf("unexpected user %+v", user)
	}

	out, _, err := runCLI(t, []string{"user", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("user list: %v", err)
	}
	requireContains(t, out, "Maria")

	out, _, err = runCLI(t, []string{"progress", user.ID}, env.configPath)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	requireContains(t, out, "Levels:    0/20 completed")
	requireContains(t, out, "Pagbati")

	out, _, err = runCLI(t, []string{"play", user.ID, "--section", "1", "--level", "1", "--correct", "5", "--total", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	requireContains(t, out, "Level completed!")
	requireContains(t, out, "Unlocked level 1-2")

	out, _, err = runCLI(t, []string{"play", user.ID, "--section", "2", "--level", "1", "--correct", "1", "--total", "5"}, env.configPath)
	if err == nil {
		t.Fatalf("expected locked level error, got output %q", out)
	}
	requireContains(t, err.Error(), "locked")

	out, _, err = runCLI(t, []string{"history", user.ID}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "vocabulary")
	requireContains(t, out, "5/5")

	out, _, err = runCLI(t, []string{"quests", user.ID}, env.configPath)
	if err != nil {
		t.Fatalf("quests: %v", err)
	}
	requireContains(t, out, "(UTC)")

	out, _, err = runCLI(t, []string{"leaderboard"}, env.configPath)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	requireContains(t, out, "Maria")

	out, _, err = runCLI(t, []string{"user", "timezone", user.ID, "Asia/Manila"}, env.configPath)
	if err != nil {
		t.Fatalf("user timezone: %v", err)
	}
	requireContains(t, out, "Asia/Manila")

	if _, _, err := runCLI(t, []string{"progress", "missing-id"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown learner")
	}
}

func TestCLILanguageCommandsUseFallbacks(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"tag", "Kumain", "si", "Maria."}, env.configPath)
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	requireContains(t, out, "VERB")
	requireContains(t, out, "Source: fallback")

	out, _, err = runCLI(t, []string{"verify", "Kumain si Maria.", "--expected", "Kumain si Maria"}, env.configPath)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	requireContains(t, out, "[OK]")

	out, _, err = runCLI(t, []string{"--json", "chat", "Salamat!"}, env.configPath)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	requireContains(t, out, `"source": "fallback"`)

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "database:")
	requireContains(t, out, "DEGRADED")
}

func TestCLIConfigInit(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "nested", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestCLIConfigValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, env.configPath)
	requireContains(t, out, "Configuration valid")
}
