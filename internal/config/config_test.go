package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/slackmoji/internal/slack"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Export.PageSize != slack.DefaultPageSize {
		t.Errorf("default page size = %d, want %d", cfg.Export.PageSize, slack.DefaultPageSize)
	}
	if cfg.Output.Color != "auto" {
		t.Errorf("default color = %q, want %q", cfg.Output.Color, "auto")
	}
	if cfg.Slack.Token != "" || cfg.Slack.Workspace != "" {
		t.Error("defaults should not carry credentials")
	}
}

func TestLoadFromPath(t *testing.T) {
	// Pin the ambient environment so file values win.
	t.Setenv("SLACK_TOKEN", "")
	t.Setenv("SLACK_WORKSPACE", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
slack:
  token: xoxs-from-file
  workspace: acme
export:
  page_size: 25
output:
  verbose: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Slack.Token != "xoxs-from-file" {
		t.Errorf("token = %q, want %q", cfg.Slack.Token, "xoxs-from-file")
	}
	if cfg.Slack.Workspace != "acme" {
		t.Errorf("workspace = %q, want %q", cfg.Slack.Workspace, "acme")
	}
	if cfg.Export.PageSize != 25 {
		t.Errorf("page size = %d, want 25", cfg.Export.PageSize)
	}
	if !cfg.Output.Verbose {
		t.Error("verbose should be true")
	}
}

func TestLoadFromPathPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("slack:\n  workspace: acme\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Export.PageSize != slack.DefaultPageSize {
		t.Errorf("page size = %d, want default %d", cfg.Export.PageSize, slack.DefaultPageSize)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "xoxs-from-env")
	t.Setenv("SLACK_WORKSPACE", "env-space")
	t.Setenv("SLACKMOJI_EXPORT_PAGE_SIZE", "50")

	cfg := Default()
	cfg.applyEnvironment()

	if cfg.Slack.Token != "xoxs-from-env" {
		t.Errorf("token = %q, want env value", cfg.Slack.Token)
	}
	if cfg.Slack.Workspace != "env-space" {
		t.Errorf("workspace = %q, want env value", cfg.Slack.Workspace)
	}
	if cfg.Export.PageSize != 50 {
		t.Errorf("page size = %d, want 50", cfg.Export.PageSize)
	}
}

func TestEnvironmentIgnoresInvalidPageSize(t *testing.T) {
	t.Setenv("SLACKMOJI_EXPORT_PAGE_SIZE", "not-a-number")

	cfg := Default()
	cfg.applyEnvironment()

	if cfg.Export.PageSize != slack.DefaultPageSize {
		t.Errorf("page size = %d, want default %d", cfg.Export.PageSize, slack.DefaultPageSize)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail without credentials")
	}

	cfg.Slack.Token = "xoxs-test"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail without a workspace")
	}

	cfg.Slack.Workspace = "acme"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed on complete config: %v", err)
	}
}
