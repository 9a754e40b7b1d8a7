package config

import (
	"testing"

	"github.com/lograca/lograca/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "3000" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.URL != "postgres://localhost:5432/loganalysis" {
		t.Fatalf("database url = %q", cfg.Database.URL)
	}
	if cfg.Ingest.SourceTag != model.DefaultSourceTag {
		t.Fatalf("source tag = %q", cfg.Ingest.SourceTag)
	}
	if cfg.Ingest.ServiceOverride != "" {
		t.Fatalf("service override = %q, want empty by default", cfg.Ingest.ServiceOverride)
	}
	if cfg.Chat.Model != "deepseek-chat" {
		t.Fatalf("chat model = %q", cfg.Chat.Model)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOGRCA_SERVER_PORT", "8080")
	t.Setenv("LOGRCA_DATABASE_URL", "postgres://db:5432/other")
	t.Setenv("LOGRCA_INGEST_SERVICE_OVERRIDE", model.CatchAllService)
	t.Setenv("LOGRCA_INGEST_SOURCE_TAG", "OpenStackRCA")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.URL != "postgres://db:5432/other" {
		t.Fatalf("database url = %q", cfg.Database.URL)
	}
	if cfg.Ingest.ServiceOverride != model.CatchAllService {
		t.Fatalf("service override = %q", cfg.Ingest.ServiceOverride)
	}
	if cfg.Ingest.SourceTag != "OpenStackRCA" {
		t.Fatalf("source tag = %q", cfg.Ingest.SourceTag)
	}
}
