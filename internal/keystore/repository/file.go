package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	keystoreDomain "github.com/allisson/familykeys/internal/keystore/domain"
)

const (
	fileDocumentVersion = 1
	dirPerm             = 0o700
	filePerm            = 0o600
)

type fileDocument struct {
	Version int                             `json:"version"`
	Entries map[string]keystoreDomain.Entry `json:"entries"`
}

// FileRepository stores entries in a single JSON document on the local filesystem.
//
// The directory is created 0700 and the document written 0600. Writes go to a temporary
// file that is renamed over the document, so a crash never leaves a half-written store.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a FileRepository backed by path. Nothing is created until the
// first Save.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Save inserts or replaces the entry stored under entry.Key.
func (f *FileRepository) Save(_ context.Context, entry *keystoreDomain.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}

	stored := *entry
	if existing, ok := doc.Entries[entry.Key]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	doc.Entries[entry.Key] = stored

	return f.store(doc)
}

// Get returns the entry stored under key or ErrEntryNotFound.
func (f *FileRepository) Get(_ context.Context, key string) (*keystoreDomain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	entry, ok := doc.Entries[key]
	if !ok {
		return nil, keystoreDomain.ErrEntryNotFound
	}
	return &entry, nil
}

// Delete removes the entry stored under key.
func (f *FileRepository) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Entries[key]; !ok {
		return nil
	}
	delete(doc.Entries, key)
	return f.store(doc)
}

// DeleteAll removes the document.
func (f *FileRepository) DeleteAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return unavailable("remove key store file", err)
	}
	return nil
}

// ListKeys returns the stored names in lexical order.
func (f *FileRepository) ListKeys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc.Entries))
	for k := range doc.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *FileRepository) load() (*fileDocument, error) {
	doc := &fileDocument{Version: fileDocumentVersion, Entries: map[string]keystoreDomain.Entry{}}

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, unavailable("read key store file", err)
	}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, unavailable("decode key store file", err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]keystoreDomain.Entry{}
	}
	return doc, nil
}

func (f *FileRepository) store(doc *fileDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return unavailable("encode key store file", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return unavailable("create key store directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".keystore-*")
	if err != nil {
		return unavailable("create temporary file", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return unavailable("chmod temporary file", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return unavailable("write temporary file", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return unavailable("sync temporary file", err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("close temporary file", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return unavailable("replace key store file", err)
	}
	return nil
}
