package backend

import (
	"context"
	"path/filepath"
	"testing"

	"budgettracker/internal/config"
	"budgettracker/internal/core"
)

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		config   Config
		wantPing bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"file", Config{Type: FileBackend, DataDirectory: filepath.Join(dir, "files")}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "budget.db")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			result, err := NewFactory(nil).CreateBackend(ctx, tt.config)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer result.Cleanup()

			if (result.Ping != nil) != tt.wantPing {
				t.Fatalf("Ping presence = %v, want %v", result.Ping != nil, tt.wantPing)
			}
			if result.Ping != nil {
				if err := result.Ping(ctx); err != nil {
					t.Fatalf("Ping() error = %v", err)
				}
			}

			cats := []core.Category{{ID: "c1", Name: "Rent", Budget: core.Money{Cents: 100000}, Color: "#2196F3"}}
			if err := result.Repository.SaveCategories(ctx, cats); err != nil {
				t.Fatalf("SaveCategories() error = %v", err)
			}
			if got := result.Repository.Categories(ctx); len(got) != 1 || got[0] != cats[0] {
				t.Fatalf("Categories() = %+v", got)
			}
		})
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	tests := []Config{
		{Type: "sheets"},
		{Type: FileBackend},
		{Type: SQLiteBackend},
	}
	for _, cfg := range tests {
		if _, err := NewFactory(nil).CreateBackend(context.Background(), cfg); err == nil {
			t.Errorf("CreateBackend(%+v) expected error", cfg)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{DataBackend: "sqlite", DataDir: "./d", SQLiteDBPath: "./d/b.db"}
	got, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if got.Type != SQLiteBackend || got.SQLiteDBPath != "./d/b.db" || got.DataDirectory != "./d" {
		t.Fatalf("FromAppConfig() = %+v", got)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
