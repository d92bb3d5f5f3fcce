package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, RevkitFileName), []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadRevkitFileDefaultsAndValidation(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		rf, err := LoadRevkitFile(t.TempDir())
		if err != nil {
			t.Fatalf("LoadRevkitFile error: %v", err)
		}
		if rf.Provider != DefaultProvider || rf.TargetLang != "si" || rf.SourceLang != "en" {
			t.Fatalf("unexpected defaults: %+v", rf)
		}
		if rf.Limits.DailyLimit != 100 || rf.Limits.MaxLines != 10 {
			t.Fatalf("limits = %+v", rf.Limits)
		}
		if rf.Limits.AnimationTick.Std() != 100*time.Millisecond {
			t.Fatalf("AnimationTick = %s", rf.Limits.AnimationTick.Std())
		}
		if rf.Scanner.MildLength != 80 || rf.Scanner.SevereLength != 100 {
			t.Fatalf("scanner = %+v", rf.Scanner)
		}
	})

	t.Run("empty file returns defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "")
		rf, err := LoadRevkitFile(dir)
		if err != nil {
			t.Fatalf("LoadRevkitFile error: %v", err)
		}
		if rf.Limits.MaxLines != DefaultMaxLines {
			t.Fatalf("MaxLines = %d", rf.Limits.MaxLines)
		}
	})

	t.Run("applies overrides", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "provider: anthropic\n"+
			"model: claude-sonnet-4-5\n"+
			"timeout: 30s\n"+
			"target_lang: ta\n"+
			"limits:\n  daily_limit: 5\n  max_lines: 20\n  animation_tick: 50ms\n"+
			"scanner:\n  mild_length: 72\n  severe_length: 90\n"+
			"cache:\n  redis_url: redis://localhost:6379/0\n  redis_ttl: 24h\n")

		rf, err := LoadRevkitFile(dir)
		if err != nil {
			t.Fatalf("LoadRevkitFile error: %v", err)
		}
		if rf.Provider != "anthropic" || rf.Model != "claude-sonnet-4-5" {
			t.Fatalf("provider/model = %q/%q", rf.Provider, rf.Model)
		}
		if rf.Timeout.Std() != 30*time.Second {
			t.Fatalf("Timeout = %s", rf.Timeout.Std())
		}
		if rf.TargetLang != "ta" || rf.SourceLang != "en" {
			t.Fatalf("langs = %q/%q", rf.SourceLang, rf.TargetLang)
		}
		if rf.Limits.DailyLimit != 5 || rf.Limits.MaxLines != 20 || rf.Limits.AnimationTick.Std() != 50*time.Millisecond {
			t.Fatalf("limits = %+v", rf.Limits)
		}
		if rf.Scanner.MildLength != 72 || rf.Scanner.SevereLength != 90 {
			t.Fatalf("scanner = %+v", rf.Scanner)
		}
		if rf.Cache.RedisTTL.Std() != 24*time.Hour || rf.Cache.RedisPrefix != DefaultRedisPrefix {
			t.Fatalf("cache = %+v", rf.Cache)
		}
	})

	errorCases := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "providr: google\n", "providr"},
		{"bad duration", "timeout: soon\n", "invalid duration"},
		{"negative limit", "limits:\n  daily_limit: -1\n", "limits.daily_limit"},
		{"severe below mild", "scanner:\n  mild_length: 120\n", "scanner.severe_length"},
		{"both caches", "cache:\n  file: .revkit-cache.yaml\n  redis_url: redis://x\n", "mutually exclusive"},
		{"bad language", "target_lang: sinhala\n", "target_lang"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tc.body)
			_, err := LoadRevkitFile(dir)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rf := Default()
	rf.Provider = "ollama"
	rf.Limits.AnimationTick = Duration(250 * time.Millisecond)
	if err := rf.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, RevkitFileName))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "animation_tick: 250ms") {
		t.Fatalf("duration not written as string:\n%s", data)
	}

	got, err := LoadRevkitFile(dir)
	if err != nil {
		t.Fatalf("LoadRevkitFile: %v", err)
	}
	if got.Provider != "ollama" || got.Limits.AnimationTick.Std() != 250*time.Millisecond {
		t.Fatalf("reloaded = %+v", got)
	}
}

func TestCachePath(t *testing.T) {
	rf := Default()
	if got := rf.CachePath("/proj"); got != "" {
		t.Fatalf("CachePath without file = %q", got)
	}
	rf.Cache.File = "cache.yaml"
	if got := rf.CachePath("/proj"); got != filepath.Join("/proj", "cache.yaml") {
		t.Fatalf("CachePath relative = %q", got)
	}
	rf.Cache.File = "/var/cache/revkit.yaml"
	if got := rf.CachePath("/proj"); got != "/var/cache/revkit.yaml" {
		t.Fatalf("CachePath absolute = %q", got)
	}
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	writeConfig(t, root, "")
	file := filepath.Join(nested, "main.js")
	if err := os.WriteFile(file, []byte("let x = 1\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if got := FindRoot(file); got != root {
		t.Fatalf("FindRoot(file) = %q, want %q", got, root)
	}
	if got := FindRoot(nested); got != root {
		t.Fatalf("FindRoot(dir) = %q, want %q", got, root)
	}
}

func TestIsLangCode(t *testing.T) {
	tests := map[string]bool{
		"si":      true,
		"fil":     true,
		"pt_BR":   true,
		"pt-BR":   true,
		"SI":      false,
		"sinhala": false,
		"":        false,
	}
	for in, want := range tests {
		if got := isLangCode(in); got != want {
			t.Errorf("isLangCode(%q) = %v, want %v", in, got, want)
		}
	}
}
