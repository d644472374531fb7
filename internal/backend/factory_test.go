package backend

import (
	"context"
	"path/filepath"
	"testing"

	"fiscal/internal/config"
)

func TestCreateMemoryBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Repository == nil {
		t.Fatal("expected a repository")
	}
	if result.Cleanup != nil {
		t.Fatal("memory backend needs no cleanup")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "fiscal_test.db"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Cleanup == nil {
		t.Fatal("sqlite backend must provide cleanup")
	}
	if err := result.Cleanup(context.Background()); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestCreateBackendRejectsUnknownType(t *testing.T) {
	factory := NewFactory(nil)
	if _, err := factory.CreateBackend(context.Background(), Config{Type: "postgres"}); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
}

func TestFromAppConfig(t *testing.T) {
	appConfig := &config.Config{
		DataBackend:   "mongo",
		MongoURI:      "mongodb://localhost:27017/",
		MongoDatabase: "fiscal_db",
	}

	cfg, err := FromAppConfig(appConfig)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if cfg.Type != MongoBackend || cfg.MongoURI != appConfig.MongoURI || cfg.MongoDatabase != "fiscal_db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "bogus"}); err == nil {
		t.Fatal("expected error for invalid backend type")
	}
}

func TestConfigValidateRequiresBackendFields(t *testing.T) {
	if err := (Config{Type: MongoBackend}).Validate(); err == nil {
		t.Fatal("mongo config without URI must fail")
	}
	if err := (Config{Type: SQLiteBackend}).Validate(); err == nil {
		t.Fatal("sqlite config without path must fail")
	}
	if err := (Config{Type: MemoryBackend}).Validate(); err != nil {
		t.Fatalf("memory config should validate: %v", err)
	}
}
