package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"rostercheck/internal/config"
	"rostercheck/internal/testsupport"
)

const rosterHeader = "Team Name,Gamer Tag,Checked In At,Team Name Again,Clan Tag,Clan Url,Preferred Server,Alternate Server,Contact E-Mail"

type cliTestEnv struct {
	api        *testsupport.FakeAPI
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	t.Setenv("WG_APPLICATION_ID", "")

	api := testsupport.NewFakeAPI(t)
	api.AddClan(100, "ABC")
	api.AddPlayer(555, "Player1", 100)

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithFakeAPI(api)}, opts...)...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{api: api, cfg: cfg, configPath: configPath, baseDir: base}
}

func (e *cliTestEnv) writeRoster(t *testing.T, rows ...string) string {
	t.Helper()
	return testsupport.WriteFile(t, e.baseDir, "roster.csv", rosterHeader+"\n"+strings.Join(rows, "\n")+"\n")
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
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
