package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// Load must work with nothing but DISPATCH_* environment variables: the
// uploader credentials are secret-typed and an env-only deployment is the
// supported way to supply them without writing them to disk.
func TestLoadFromEnvironmentOnly(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Setenv("DISPATCH_WORKFLOW_OWNER", "uploader-org")
	t.Setenv("DISPATCH_WORKFLOW_REPO", "uploader")
	t.Setenv("DISPATCH_GITHUB_TOKEN", "ghp_test")
	t.Setenv("DISPATCH_UPLOADER_API_ID", "12345")
	t.Setenv("DISPATCH_UPLOADER_API_HASH", "abcxyz")
	t.Setenv("DISPATCH_UPLOADER_BOT_TOKEN", "123:ABC")
	t.Setenv("DISPATCH_UPLOADER_CHAT_ID", "-100123456")
	t.Setenv("DISPATCH_DATABASE_PATH", filepath.Join(t.TempDir(), "dispatch.db"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with env-only configuration failed: %v", err)
	}

	if cfg.Workflow.Owner != "uploader-org" || cfg.Workflow.Repo != "uploader" {
		t.Errorf("workflow = %s/%s, want uploader-org/uploader", cfg.Workflow.Owner, cfg.Workflow.Repo)
	}
	if cfg.GitHub.Token != "ghp_test" {
		t.Errorf("github token = %q, want value from environment", cfg.GitHub.Token)
	}
	if cfg.Uploader.APIID != 12345 {
		t.Errorf("uploader api id = %d, want 12345", cfg.Uploader.APIID)
	}
	if cfg.Uploader.APIHash != "abcxyz" {
		t.Errorf("uploader api hash = %q, want abcxyz", cfg.Uploader.APIHash)
	}
	if cfg.Uploader.BotToken != "123:ABC" {
		t.Errorf("uploader bot token = %q, want 123:ABC", cfg.Uploader.BotToken)
	}
	if cfg.Uploader.ChatID != -100123456 {
		t.Errorf("uploader chat id = %d, want -100123456", cfg.Uploader.ChatID)
	}

	// Defaults still apply for keys the environment leaves unset.
	if cfg.Workflow.File != DefaultWorkflowFile {
		t.Errorf("workflow file = %q, want default %q", cfg.Workflow.File, DefaultWorkflowFile)
	}
	if cfg.Workflow.Ref != DefaultWorkflowRef {
		t.Errorf("workflow ref = %q, want default %q", cfg.Workflow.Ref, DefaultWorkflowRef)
	}
}
