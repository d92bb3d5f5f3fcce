package translate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStoreVersion is the cache file format version.
const FileStoreVersion = 1

// FileStore is a Store persisted as a yaml file, keyed by language pair
// and MD5 of the source text. Call Save to flush it to disk.
type FileStore struct {
	Version int                          `yaml:"version"`
	Entries map[string]map[string]string `yaml:"entries"` // pair -> md5 -> translation

	mu    sync.Mutex `yaml:"-"`
	path  string     `yaml:"-"`
	dirty bool       `yaml:"-"`
}

// LoadFileStore reads a cache file. A missing file yields an empty store.
func LoadFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		Version: FileStoreVersion,
		Entries: make(map[string]map[string]string),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, fs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	fs.path = path
	if fs.Entries == nil {
		fs.Entries = make(map[string]map[string]string)
	}
	return fs, nil
}

// Path returns the cache file path.
func (fs *FileStore) Path() string { return fs.path }

// splitKey separates a store key into pair and hash parts.
func splitKey(key string) (pair, hash string) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			return key[:i], key[i+1:]
		}
	}
	return "", key
}

// Get implements Store.
func (fs *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	pair, hash := splitKey(key)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.Entries[pair][hash]
	return v, ok, nil
}

// Put implements Store. The entry is kept in memory until Save.
func (fs *FileStore) Put(_ context.Context, key, value string) error {
	pair, hash := splitKey(key)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.Entries[pair] == nil {
		fs.Entries[pair] = make(map[string]string)
	}
	fs.Entries[pair][hash] = value
	fs.dirty = true
	return nil
}

// Save writes the store to disk when it has unsaved entries.
func (fs *FileStore) Save() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.path == "" {
		return fmt.Errorf("cache file path not set")
	}
	if !fs.dirty {
		return nil
	}

	data, err := yaml.Marshal(fs)
	if err != nil {
		return fmt.Errorf("marshaling cache file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", fs.path, err)
	}
	fs.dirty = false
	return nil
}

// Stats returns the number of language pairs and total entries.
func (fs *FileStore) Stats() (pairs, entries int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	pairs = len(fs.Entries)
	for _, m := range fs.Entries {
		entries += len(m)
	}
	return
}

// Pairs returns the sorted list of language pairs present.
func (fs *FileStore) Pairs() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	pairs := make([]string, 0, len(fs.Entries))
	for p := range fs.Entries {
		pairs = append(pairs, p)
	}
	sort.Strings(pairs)
	return pairs
}
