package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/brightloom/pathguard/internal/policy"
)

// FileStore loads policies from structured-document files on disk, in
// either of two modes:
//
//   - single-file: the file holds a JSON or YAML array of policy
//     documents.
//   - directory-of-files: every non-hidden .json/.yaml/.yml entry in the
//     directory holds exactly one policy document; a leading underscore
//     in the base filename disables that file, the way the teacher's
//     policy pack loader treats "_foo.yaml" as a disabled pack.
//
// Format is selected per-file by extension. FileStore loads once at
// construction and serves from memory afterward; callers that need to
// pick up on-disk changes should construct a fresh FileStore.
type FileStore struct {
	mu       sync.RWMutex
	policies map[string]policy.Policy
}

// LoadFileStore loads path (a file or a directory) into a FileStore.
func LoadFileStore(path string) (*FileStore, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository: stat %s: %w", path, err)
	}

	fs := &FileStore{policies: make(map[string]policy.Policy)}

	if info.IsDir() {
		if err := fs.loadDirectory(path); err != nil {
			return nil, err
		}
		return fs, nil
	}

	if err := fs.loadSingleFile(path); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) loadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("repository: read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !isDocumentFile(entry.Name()) {
			continue
		}
		baseName := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if strings.HasPrefix(baseName, "_") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("repository: read %s: %w", entry.Name(), err)
		}

		doc, err := decodeDocument(data, entry.Name())
		if err != nil {
			return fmt.Errorf("repository: parse %s: %w", entry.Name(), err)
		}

		pol, err := policy.FromDocument(doc)
		if err != nil {
			return fmt.Errorf("repository: %s: %w", entry.Name(), err)
		}

		fs.policies[pol.Name()] = pol
	}

	return nil
}

func (fs *FileStore) loadSingleFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("repository: read %s: %w", path, err)
	}

	docs, err := decodeDocuments(data, path)
	if err != nil {
		return fmt.Errorf("repository: parse %s: %w", path, err)
	}

	for _, doc := range docs {
		pol, err := policy.FromDocument(doc)
		if err != nil {
			return fmt.Errorf("repository: %s: %w", path, err)
		}
		fs.policies[pol.Name()] = pol
	}

	return nil
}

func isDocumentFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".json" || ext == ".yaml" || ext == ".yml"
}

func decodeDocument(data []byte, filename string) (policy.PolicyDocument, error) {
	var doc policy.PolicyDocument
	err := unmarshalByExtension(data, filename, &doc)
	return doc, err
}

func decodeDocuments(data []byte, filename string) ([]policy.PolicyDocument, error) {
	var docs []policy.PolicyDocument
	err := unmarshalByExtension(data, filename, &docs)
	return docs, err
}

func unmarshalByExtension(data []byte, filename string, v any) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return json.Unmarshal(data, v)
	default:
		return yaml.Unmarshal(data, v)
	}
}

// Get implements Repository.
func (fs *FileStore) Get(_ context.Context, name string) (policy.Policy, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	p, ok := fs.policies[name]
	if !ok {
		return policy.Policy{}, notFound(name)
	}
	return p, nil
}

// Has implements Repository.
func (fs *FileStore) Has(_ context.Context, name string) (bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, ok := fs.policies[name]
	return ok, nil
}

// All implements Repository.
func (fs *FileStore) All(_ context.Context) (map[string]policy.Policy, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make(map[string]policy.Policy, len(fs.policies))
	for k, v := range fs.policies {
		out[k] = v
	}
	return out, nil
}

// GetMany implements Repository.
func (fs *FileStore) GetMany(ctx context.Context, names []string) (map[string]policy.Policy, error) {
	return getManyFallback(ctx, fs, names)
}
