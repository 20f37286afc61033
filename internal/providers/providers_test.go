package providers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileProjections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proj.json")
	body := `{"p1": 45.5, "p2": 38.0}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write projections: %v", err)
	}

	proj, err := FileProjections{Path: path}.Projections(context.Background())
	if err != nil {
		t.Fatalf("Projections() failed: %v", err)
	}
	if proj["p1"] != 45.5 || proj["p2"] != 38.0 {
		t.Errorf("unexpected projections: %v", proj)
	}
}

func TestFileProjectionsMissingFile(t *testing.T) {
	_, err := FileProjections{Path: "/nonexistent/proj.json"}.Projections(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileProjectionsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proj.json")
	if err := os.WriteFile(path, []byte(`{"p1": "lots"}`), 0o644); err != nil {
		t.Fatalf("failed to write projections: %v", err)
	}

	if _, err := (FileProjections{Path: path}).Projections(context.Background()); err == nil {
		t.Fatal("expected error for malformed projections")
	}
}
