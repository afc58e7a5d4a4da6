package backend

import (
	"context"
	"path/filepath"
	"testing"

	"gagyebu/internal/config"
	"gagyebu/internal/storage/file"
	"gagyebu/internal/storage/memory"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "file", DataFile: "x.json", GoogleSheetName: "Ledger"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != FileBackend || cfg.DataFile != "x.json" || cfg.GoogleSheetName != "Ledger" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"file", Config{Type: FileBackend, DataFile: "a.json"}, false},
		{"file without path", Config{Type: FileBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"postgres without url", Config{Type: PostgresBackend}, true},
		{"unknown", Config{Type: "sheets"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultFactory_CreateStore(t *testing.T) {
	f := NewFactory(nil)
	ctx := context.Background()

	res, err := f.CreateStore(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateStore(memory) error = %v", err)
	}
	if _, ok := res.Store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", res.Store)
	}

	path := filepath.Join(t.TempDir(), "household_data.json")
	res, err = f.CreateStore(ctx, Config{Type: FileBackend, DataFile: path})
	if err != nil {
		t.Fatalf("CreateStore(file) error = %v", err)
	}
	fs, ok := res.Store.(*file.Store)
	if !ok || fs.Path() != path {
		t.Fatalf("expected file store at %s, got %T", path, res.Store)
	}

	res, err = f.CreateStore(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "g.db")})
	if err != nil {
		t.Fatalf("CreateStore(sqlite) error = %v", err)
	}
	if res.Cleanup == nil {
		t.Fatal("sqlite store needs a cleanup func")
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
}

func TestDefaultFactory_CreateMirrorFallsBackToMemory(t *testing.T) {
	res, err := NewFactory(nil).CreateMirror(context.Background(), Config{})
	if err != nil {
		t.Fatalf("CreateMirror() error = %v", err)
	}
	if res.Remote || res.Mirror == nil {
		t.Fatalf("expected in-memory mirror, got %+v", res)
	}
}
