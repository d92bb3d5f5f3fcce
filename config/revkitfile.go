// Package config loads the .revkit.yaml project configuration file.
//
// The file is optional. Every field has a default, and a file that
// exists is validated strictly: unknown keys and out-of-range values are
// reported with the offending field name.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// RevkitFile is the top-level .revkit.yaml structure.
type RevkitFile struct {
	// Provider is the review provider ID (default "google").
	Provider string `yaml:"provider,omitempty"`
	// Model overrides the provider's default model.
	Model string `yaml:"model,omitempty"`
	// BaseURL overrides the provider endpoint (custom-openai, ollama).
	BaseURL string `yaml:"base_url,omitempty"`
	// Timeout bounds a single review call (default 2m).
	Timeout Duration `yaml:"timeout,omitempty"`
	// Proxy is an optional HTTP proxy URL for outbound calls.
	Proxy string `yaml:"proxy,omitempty"`

	// SourceLang is the language issues and comments are written in (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// TargetLang is the secondary language (default "si").
	TargetLang string `yaml:"target_lang,omitempty"`

	Limits  Limits  `yaml:"limits,omitempty"`
	Scanner Scanner `yaml:"scanner,omitempty"`
	Cache   Cache   `yaml:"cache,omitempty"`
}

// Limits bounds the review pipeline.
type Limits struct {
	// DailyLimit is the number of reviews allowed per local calendar day (default 100).
	DailyLimit int `yaml:"daily_limit,omitempty"`
	// MaxLines is the largest region a review may cover (default 10).
	MaxLines int `yaml:"max_lines,omitempty"`
	// AnimationTick is the scanning animation step (default 100ms).
	AnimationTick Duration `yaml:"animation_tick,omitempty"`
}

// Scanner holds the lexical scanner thresholds.
type Scanner struct {
	// MildLength flags lines longer than this many runes (default 80).
	MildLength int `yaml:"mild_length,omitempty"`
	// SevereLength flags lines longer than this many runes (default 100).
	SevereLength int `yaml:"severe_length,omitempty"`
}

// Cache configures the second-level translation store.
type Cache struct {
	// File is a yaml cache file relative to the project root.
	File string `yaml:"file,omitempty"`
	// RedisURL selects a shared redis store instead of the file.
	RedisURL string `yaml:"redis_url,omitempty"`
	// RedisTTL expires redis entries (0 keeps them forever).
	RedisTTL Duration `yaml:"redis_ttl,omitempty"`
	// RedisPrefix namespaces redis keys (default "revkit:tr:").
	RedisPrefix string `yaml:"redis_prefix,omitempty"`
}

// Duration is a time.Duration that reads "100ms" style strings from yaml.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", node.Line, s)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

const (
	DefaultProvider      = "google"
	DefaultSourceLang    = "en"
	DefaultTargetLang    = "si"
	DefaultDailyLimit    = 100
	DefaultMaxLines      = 10
	DefaultMildLength    = 80
	DefaultSevereLength  = 100
	DefaultAnimationTick = 100 * time.Millisecond
	DefaultTimeout       = 2 * time.Minute
	DefaultRedisPrefix   = "revkit:tr:"
)

// Default returns a configuration with every default applied.
func Default() *RevkitFile {
	rf := &RevkitFile{}
	rf.applyDefaults()
	return rf
}

func (rf *RevkitFile) applyDefaults() {
	if rf.Provider == "" {
		rf.Provider = DefaultProvider
	}
	if rf.Timeout == 0 {
		rf.Timeout = Duration(DefaultTimeout)
	}
	if rf.SourceLang == "" {
		rf.SourceLang = DefaultSourceLang
	}
	if rf.TargetLang == "" {
		rf.TargetLang = DefaultTargetLang
	}
	if rf.Limits.DailyLimit == 0 {
		rf.Limits.DailyLimit = DefaultDailyLimit
	}
	if rf.Limits.MaxLines == 0 {
		rf.Limits.MaxLines = DefaultMaxLines
	}
	if rf.Limits.AnimationTick == 0 {
		rf.Limits.AnimationTick = Duration(DefaultAnimationTick)
	}
	if rf.Scanner.MildLength == 0 {
		rf.Scanner.MildLength = DefaultMildLength
	}
	if rf.Scanner.SevereLength == 0 {
		rf.Scanner.SevereLength = DefaultSevereLength
	}
	if rf.Cache.RedisPrefix == "" {
		rf.Cache.RedisPrefix = DefaultRedisPrefix
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// RevkitFileName is the default config file name.
const RevkitFileName = ".revkit.yaml"

// LoadRevkitFile loads and validates .revkit.yaml from the given directory.
// A missing file yields the defaults.
func LoadRevkitFile(rootDir string) (*RevkitFile, error) {
	path := filepath.Join(rootDir, RevkitFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var rf RevkitFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	rf.applyDefaults()
	if err := rf.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &rf, nil
}

// Validate reports the first invalid field.
func (rf *RevkitFile) Validate() error {
	switch {
	case rf.Limits.DailyLimit < 0:
		return fmt.Errorf("limits.daily_limit must be positive, got %d", rf.Limits.DailyLimit)
	case rf.Limits.MaxLines < 0:
		return fmt.Errorf("limits.max_lines must be positive, got %d", rf.Limits.MaxLines)
	case rf.Limits.AnimationTick < 0:
		return fmt.Errorf("limits.animation_tick must be positive, got %s", rf.Limits.AnimationTick.Std())
	case rf.Scanner.MildLength < 0:
		return fmt.Errorf("scanner.mild_length must be positive, got %d", rf.Scanner.MildLength)
	case rf.Scanner.SevereLength <= rf.Scanner.MildLength:
		return fmt.Errorf("scanner.severe_length (%d) must exceed scanner.mild_length (%d)",
			rf.Scanner.SevereLength, rf.Scanner.MildLength)
	case rf.Timeout < 0:
		return fmt.Errorf("timeout must be positive, got %s", rf.Timeout.Std())
	case rf.Cache.RedisTTL < 0:
		return fmt.Errorf("cache.redis_ttl must not be negative, got %s", rf.Cache.RedisTTL.Std())
	case rf.Cache.File != "" && rf.Cache.RedisURL != "":
		return errors.New("cache.file and cache.redis_url are mutually exclusive")
	}
	if !isLangCode(rf.SourceLang) {
		return fmt.Errorf("source_lang %q is not a language code", rf.SourceLang)
	}
	if !isLangCode(rf.TargetLang) {
		return fmt.Errorf("target_lang %q is not a language code", rf.TargetLang)
	}
	return nil
}

// CachePath returns the absolute cache file path, or "" when no file
// cache is configured.
func (rf *RevkitFile) CachePath(rootDir string) string {
	if rf.Cache.File == "" {
		return ""
	}
	if filepath.IsAbs(rf.Cache.File) {
		return rf.Cache.File
	}
	return filepath.Join(rootDir, rf.Cache.File)
}

// Save writes the configuration to .revkit.yaml in rootDir.
func (rf *RevkitFile) Save(rootDir string) error {
	data, err := yaml.Marshal(rf)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(rootDir, RevkitFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
