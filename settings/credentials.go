// Package settings provides storage for revkit user settings: provider
// API keys and the small key-value state persisted across sessions.
//
// All settings are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/revkit/  (default: ~/.local/share/revkit/)
//
// Files stored:
//   - auth.json   provider API keys (and custom endpoints), 0600
//   - state.json  persisted session state such as the daily review quota
//
// Lookup order for API keys:
//  1. --api-key flag (highest priority)
//  2. REVKIT_API_KEY environment variable
//  3. The provider's conventional variable (GOOGLE_API_KEY, OPENAI_API_KEY, ...)
//  4. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName   = "revkit"
	authFileName  = "auth.json"
	stateFileName = "state.json"

	// EnvAPIKey overrides the stored API key for every provider.
	EnvAPIKey = "REVKIT_API_KEY"
)

// ---------------------------------------------------------------------------
// Auth entries
// ---------------------------------------------------------------------------

// Info is the per-provider entry stored in auth.json.
type Info struct {
	// Key is the provider API key.
	Key string `json:"key"`
	// BaseURL is an optional custom endpoint (custom-openai, ollama).
	BaseURL string `json:"baseUrl,omitempty"`
}

// Store holds all provider credentials, keyed by provider ID.
type Store map[string]*Info

// ---------------------------------------------------------------------------
// File paths
// ---------------------------------------------------------------------------

// dataDir returns the XDG data directory for revkit.
// Respects $XDG_DATA_HOME (falls back to ~/.local/share).
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

// DataDir returns the revkit data directory path.
func DataDir() (string, error) {
	return dataDir()
}

func authFilePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, authFileName), nil
}

// AuthFilePath returns the auth.json path for display purposes.
func AuthFilePath() string {
	p, err := authFilePath()
	if err != nil {
		return ""
	}
	return p
}

// StateFilePath returns the path of state.json.
func StateFilePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFileName), nil
}

// writeJSON writes v to path, creating the data directory as needed.
func writeJSON(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := authFilePath()
	if err != nil {
		return make(Store)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}
	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := authFilePath()
	if err != nil {
		return err
	}
	return writeJSON(path, store, 0600)
}

// ---------------------------------------------------------------------------
// API key helpers
// ---------------------------------------------------------------------------

// SetAPIKey stores an API key (and optional base URL) for a provider.
func SetAPIKey(providerID, key, baseURL string) error {
	store := Load()
	store[providerID] = &Info{Key: key, BaseURL: baseURL}
	return Save(store)
}

// GetAPIKey retrieves the stored API key for a provider.
// Returns empty string if not found.
func GetAPIKey(providerID string) string {
	if info := Load()[providerID]; info != nil {
		return info.Key
	}
	return ""
}

// GetBaseURL retrieves the stored base URL for a provider.
func GetBaseURL(providerID string) string {
	if info := Load()[providerID]; info != nil {
		return info.BaseURL
	}
	return ""
}

// EnvVarForProvider returns the conventional API key variable of a
// provider, or "" for providers without one.
func EnvVarForProvider(providerID string) string {
	switch providerID {
	case "google":
		return "GOOGLE_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	case "openai", "custom-openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	}
	return ""
}

// ResolveAPIKey applies the lookup order: flag, REVKIT_API_KEY, provider
// variable, store.
func ResolveAPIKey(providerID, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvAPIKey); env != "" {
		return env
	}
	if name := EnvVarForProvider(providerID); name != "" {
		if env := os.Getenv(name); env != "" {
			return env
		}
	}
	return GetAPIKey(providerID)
}

// Remove deletes credentials for a provider.
func Remove(providerID string) error {
	store := Load()
	if _, ok := store[providerID]; !ok {
		return nil // Nothing to delete
	}
	delete(store, providerID)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := authFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
