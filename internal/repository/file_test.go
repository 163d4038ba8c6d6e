package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const singleFileYAML = `
- name: p1
  description: first
  rules:
    - path: /a
      capabilities: [read]
- name: p2
  rules:
    - path: /b
      effect: deny
`

func TestFileStoreSingleFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.yaml")
	if err := os.WriteFile(path, []byte(singleFileYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fs, err := LoadFileStore(path)
	if err != nil {
		t.Fatalf("LoadFileStore: %v", err)
	}

	ctx := context.Background()
	all, err := fs.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("All = %v, want 2 policies", all)
	}

	p1, err := fs.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get(p1): %v", err)
	}
	if p1.Description() != "first" {
		t.Errorf("p1.Description() = %q, want %q", p1.Description(), "first")
	}
}

const singleFileJSON = `[
  {"name": "p1", "rules": [{"path": "/a", "capabilities": ["read"]}]}
]`

func TestFileStoreSingleFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.json")
	if err := os.WriteFile(path, []byte(singleFileJSON), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fs, err := LoadFileStore(path)
	if err != nil {
		t.Fatalf("LoadFileStore: %v", err)
	}

	if has, _ := fs.Has(context.Background(), "p1"); !has {
		t.Error("expected p1 loaded from JSON file")
	}
}

func TestFileStoreDirectoryMode(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}

	writeFile("enabled.yaml", "name: enabled\nrules:\n  - path: /a\n")
	writeFile("_disabled.yaml", "name: disabled\nrules:\n  - path: /b\n")
	writeFile("ignored.txt", "not a policy document")

	fs, err := LoadFileStore(dir)
	if err != nil {
		t.Fatalf("LoadFileStore: %v", err)
	}

	ctx := context.Background()
	if has, _ := fs.Has(ctx, "enabled"); !has {
		t.Error("expected enabled policy loaded")
	}
	if has, _ := fs.Has(ctx, "disabled"); has {
		t.Error("expected underscore-prefixed file to be skipped")
	}

	all, _ := fs.All(ctx)
	if len(all) != 1 {
		t.Errorf("All = %v, want exactly the enabled policy", all)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.yaml")
	os.WriteFile(path, []byte("[]"), 0o644)

	fs, err := LoadFileStore(path)
	if err != nil {
		t.Fatalf("LoadFileStore: %v", err)
	}

	if _, err := fs.Get(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing policy")
	}
}
