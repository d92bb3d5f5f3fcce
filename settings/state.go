package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// StateFile is a small persisted key-value store. Values are raw JSON so
// each owner decides its own schema. Every Put is written through to
// disk.
type StateFile struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// OpenState loads the state file from the data directory.
func OpenState() (*StateFile, error) {
	path, err := StateFilePath()
	if err != nil {
		return nil, err
	}
	return OpenStateAt(path)
}

// OpenStateAt loads a state file from path. A missing or corrupt file
// yields an empty store; a corrupt file is overwritten on the next Put.
func OpenStateAt(path string) (*StateFile, error) {
	sf := &StateFile{path: path, values: make(map[string]json.RawMessage)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &sf.values); err != nil || sf.values == nil {
		sf.values = make(map[string]json.RawMessage)
	}
	return sf, nil
}

// Path returns the backing file path.
func (s *StateFile) Path() string { return s.path }

// Get decodes the value stored under key into out. It reports false when
// the key is absent or does not decode.
func (s *StateFile) Get(key string, out any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// Put stores value under key and persists the file.
func (s *StateFile) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling state %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return writeJSON(s.path, s.values, 0600)
}
