package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sortable-cli/internal/ingest"
	"sortable-cli/internal/model"
)

func sample() model.Tree {
	return model.Tree{
		{ID: 1, Name: "Plan", Children: []model.Node{{ID: 2, Name: "Draft <v1>"}}},
		{ID: 3, Name: "Ship"},
	}
}

func TestWriteTree_WritesAllFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	res, err := WriteTree(sample(), dir, WriteOptions{Title: "Roadmap", Now: now})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if len(res.Written) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Written)
	}

	md, err := os.ReadFile(filepath.Join(dir, "index.md"))
	if err != nil {
		t.Fatalf("read index.md: %v", err)
	}
	if !strings.HasPrefix(string(md), "# Roadmap\n") || !strings.Contains(string(md), "  - Draft <v1>") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}

	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("read index.html: %v", err)
	}
	if !strings.Contains(string(html), `data-root="true"`) || !strings.Contains(string(html), "Draft &lt;v1&gt;") {
		t.Fatalf("unexpected html:\n%s", html)
	}
	if !strings.Contains(string(html), "2025-12-20T00:00:00Z") {
		t.Fatalf("missing export time:\n%s", html)
	}

	tree, err := ingest.ReadFile(filepath.Join(dir, "tree.json"))
	if err != nil {
		t.Fatalf("read tree.json: %v", err)
	}
	if !tree.Equal(sample()) {
		t.Fatalf("tree.json round trip mismatch: %+v", tree)
	}
}

func TestWriteTree_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := WriteTree(sample(), dir, WriteOptions{}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := WriteTree(sample(), dir, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "use --overwrite") {
		t.Fatalf("expected overwrite error, got %v", err)
	}
	if _, err := WriteTree(model.Tree{}, dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestWriteTree_MissingDir(t *testing.T) {
	t.Parallel()

	if _, err := WriteTree(sample(), "  ", WriteOptions{}); err == nil {
		t.Fatalf("expected error")
	}
}
