package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rostercheck/internal/pipeline"
	"rostercheck/internal/roster"
	"rostercheck/internal/testsupport"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	requireContains(t, string(data), "[api]")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected an error when the file already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, env.cfg.Cache.Dir)
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Resolve.PoolSize = 1
	env.cfg.Resolve.Parallelism = 2
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "resolve.pool_size") {
		t.Fatalf("expected pool size error, got %v", err)
	}
}

func TestValidateCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeRoster(t,
		"ABC,player1,,,ABC,,East,,p1@example.com",
		"ABC,ghost,,,ABC,,East,,p2@example.com",
	)

	out, _, err := runCLI(t, []string{"validate", input}, env.configPath)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	requireContains(t, out, "Records: 2 total, 1 valid, 1 invalid")
	requireContains(t, out, pipeline.PassPlayers)
	requireContains(t, out, "Result: "+pipeline.OutputPath(input))

	data, err := os.ReadFile(pipeline.OutputPath(input))
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 || lines[0] != roster.Header(false) {
		t.Fatalf("unexpected output %q", lines)
	}
	requireContains(t, lines[2], "The gamer tag [ghost] could not be found.")
}

func TestValidateCommandOverrides(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeRoster(t, "ABC,player1,,,ABC,,East,,p1@example.com")

	out, _, err := runCLI(t, []string{"validate", "--sqlite-export", "--parallelism", "2", input}, env.configPath)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	requireContains(t, out, "Export: ")
	exportPath := filepath.Join(env.baseDir, "valid.roster.db")
	if _, err := os.Stat(exportPath); err != nil {
		t.Fatalf("expected export at %s: %v", exportPath, err)
	}

	if _, _, err := runCLI(t, []string{"validate", "--parallelism", "0", input}, env.configPath); err == nil {
		t.Fatal("expected zero parallelism to be rejected")
	}
}

func TestValidateCommandNoRecords(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeRoster(t)

	_, _, err := runCLI(t, []string{"validate", input}, env.configPath)
	if !errors.Is(err, pipeline.ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
	if err.Error() != "pipeline: no records found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidateCommandWritesLogFile(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Logging.Dir = filepath.Join(env.baseDir, "logs")
	env.cfg.Logging.Level = "info"
	writeTestConfig(t, env.configPath, env.cfg)
	input := env.writeRoster(t, "ABC,player1,,,ABC,,East,,p1@example.com")

	_, stderr, err := runCLI(t, []string{"validate", input}, env.configPath)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	requireContains(t, stderr, "validation started")

	matches, err := filepath.Glob(filepath.Join(env.cfg.Logging.Dir, "*"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one log file, got %v (%v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	requireContains(t, string(data), "validation started")
}

func TestDivisionCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	doc := testsupport.WriteFile(t, env.baseDir, "stage.json",
		`[{"name": "NA East Division", "groups": [{"name": "Group A", "teams": [{"name": "ABC"}, {"name": "XYZ"}]}]}]`)

	out, _, err := runCLI(t, []string{"division", doc}, env.configPath)
	if err != nil {
		t.Fatalf("division: %v", err)
	}
	requireContains(t, out, "1 groups, 2 teams")
	data, err := os.ReadFile(filepath.Join(env.baseDir, "stage.csv"))
	if err != nil {
		t.Fatalf("read table: %v", err)
	}
	requireContains(t, string(data), "ABC,EAST,Group A")
}

func TestCacheStatsAndPrune(t *testing.T) {
	env := setupCLITestEnv(t)
	input := env.writeRoster(t, "ABC,player1,,,ABC,,East,,p1@example.com")
	if _, _, err := runCLI(t, []string{"validate", input}, env.configPath); err != nil {
		t.Fatalf("validate: %v", err)
	}

	out, _, err := runCLI(t, []string{"cache", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries: 3")
	requireContains(t, out, "FindClan")
	requireContains(t, out, "AccountList")
	requireContains(t, out, "ClansAccountinfo")

	out, _, err = runCLI(t, []string{"cache", "prune", "--older-than", "1h"}, env.configPath)
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "Removed 0 cache entries")

	out, _, err = runCLI(t, []string{"cache", "prune", "--older-than", "0s"}, env.configPath)
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "Removed 3 cache entries")

	out, _, err = runCLI(t, []string{"cache", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries: 0")
}

func TestFormatProgress(t *testing.T) {
	got := formatProgress(pipeline.Snapshot{Fraction: 0.45, Pass: pipeline.PassClans, Status: "clan 3 of 3"})
	if want := "[ 45%] clans: clan 3 of 3"; got != want {
		t.Fatalf("formatProgress = %q, want %q", got, want)
	}
	if got := formatProgress(pipeline.Snapshot{Fraction: 1, Pass: pipeline.PassWrite}); got != "[100%] write" {
		t.Fatalf("unexpected %q", got)
	}
}
