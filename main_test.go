package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/minios-linux/revkit/config"
	"github.com/minios-linux/revkit/settings"
)

func resetGlobals(t *testing.T) {
	t.Helper()
	oldRoot, oldLang, oldVerbose := rootDir, uiLang, verbose
	t.Cleanup(func() { rootDir, uiLang, verbose = oldRoot, oldLang, oldVerbose })
	rootDir, uiLang, verbose = "", "en", false
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	var got []string
	for _, c := range root.Commands() {
		got = append(got, c.Name())
	}
	for _, want := range []string{"auth", "init", "quota", "review", "scan", "translate", "translate-comments", "version"} {
		found := false
		for _, name := range got {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("command %q missing from %v", want, got)
		}
	}
}

func TestReported(t *testing.T) {
	base := errors.New("boom")
	err := reported(base)
	if !errors.Is(err, errReported) || !errors.Is(err, base) {
		t.Fatalf("reported(base) = %v, want both errReported and base", err)
	}
}

func TestPickProvider(t *testing.T) {
	tests := map[string]string{
		"1":         "google",
		"anthropic": "anthropic",
		"5":         "custom-openai",
		"0":         "",
		"ollama":    "",
		"":          "",
	}
	for in, want := range tests {
		if got := pickProvider(in); got != want {
			t.Fatalf("pickProvider(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCredentialStatus(t *testing.T) {
	if got := credentialStatus(nil); !strings.Contains(got, "not configured") {
		t.Fatalf("credentialStatus(nil) = %q", got)
	}
	if got := credentialStatus(&settings.Info{Key: "abcdefghijkl"}); !strings.Contains(got, "abcd...ijkl") {
		t.Fatalf("credentialStatus(key) = %q", got)
	}
	if got := credentialStatus(&settings.Info{BaseURL: "http://x"}); !strings.Contains(got, "no key") {
		t.Fatalf("credentialStatus(url) = %q", got)
	}
}

func TestProviderIDsSorted(t *testing.T) {
	want := []string{"anthropic", "custom-openai", "google", "groq", "ollama", "openai"}
	if got := providerIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("providerIDs() = %v, want %v", got, want)
	}
}

func TestOpenProjectFindsRootFromFile(t *testing.T) {
	resetGlobals(t)
	root := t.TempDir()
	cfg := config.Default()
	cfg.Provider = "groq"
	cfg.Cache.File = ".revkit-cache.yaml"
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save: %v", err)
	}
	sub := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	p, err := openProject(filepath.Join(sub, "main.js"))
	if err != nil {
		t.Fatalf("openProject: %v", err)
	}
	if p.root != root {
		t.Fatalf("root = %q, want %q", p.root, root)
	}
	if p.cfg.Provider != "groq" {
		t.Fatalf("provider = %q, want groq", p.cfg.Provider)
	}

	cache, release, err := p.translationCache()
	if err != nil {
		t.Fatalf("translationCache: %v", err)
	}
	release()
	if got := cache.Pair().String(); got != "en|si" {
		t.Fatalf("pair = %q, want en|si", got)
	}
}

func TestOpenProjectRejectsInvalidConfig(t *testing.T) {
	resetGlobals(t)
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, config.RevkitFileName), []byte("provider: [oops\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	rootDir = root
	if _, err := openProject(""); err == nil {
		t.Fatal("openProject should fail on invalid yaml")
	}
}

func TestReviewProviderMergesFlagsAndConfig(t *testing.T) {
	resetGlobals(t)
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv(settings.EnvAPIKey, "")
	t.Setenv("GROQ_API_KEY", "env-groq")

	p := &project{root: t.TempDir(), cfg: config.Default()}
	p.cfg.Provider = "groq"
	p.cfg.Model = "from-config"
	p.cfg.Timeout = config.Duration(30 * time.Second)

	prov, err := p.reviewProvider("", "", "", "", "", 0)
	if err != nil {
		t.Fatalf("reviewProvider: %v", err)
	}
	if prov.ID != "groq" || prov.Model != "from-config" || prov.APIKey != "env-groq" || prov.Timeout != 30*time.Second {
		t.Fatalf("provider = %+v", prov)
	}

	prov, err = p.reviewProvider("OLLAMA", "", "llama3.2", "", "", 5*time.Second)
	if err != nil {
		t.Fatalf("reviewProvider(ollama): %v", err)
	}
	if prov.ID != "ollama" || prov.Model != "llama3.2" || prov.Timeout != 5*time.Second {
		t.Fatalf("provider = %+v", prov)
	}

	if _, err := p.reviewProvider("nope", "", "", "", "", 0); err == nil || !strings.Contains(err.Error(), "available") {
		t.Fatalf("unknown provider error = %v", err)
	}
}

func TestReviewProviderUsesStoredBaseURL(t *testing.T) {
	resetGlobals(t)
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv(settings.EnvAPIKey, "")
	t.Setenv("OPENAI_API_KEY", "")
	if err := settings.SetAPIKey("custom-openai", "sk-stored", "http://localhost:8080/v1"); err != nil {
		t.Fatalf("SetAPIKey: %v", err)
	}

	p := &project{root: t.TempDir(), cfg: config.Default()}
	prov, err := p.reviewProvider("custom-openai", "", "m", "", "", 0)
	if err != nil {
		t.Fatalf("reviewProvider: %v", err)
	}
	if prov.BaseURL != "http://localhost:8080/v1" || prov.APIKey != "sk-stored" {
		t.Fatalf("provider = %+v", prov)
	}
}

func TestInitCommandWritesConfig(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()

	root := newRootCmd()
	root.SetArgs([]string{"init", "--root", dir})
	if err := root.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := config.LoadRevkitFile(dir)
	if err != nil {
		t.Fatalf("LoadRevkitFile: %v", err)
	}
	if cfg.Provider != config.DefaultProvider {
		t.Fatalf("provider = %q", cfg.Provider)
	}
}

func TestQuotaMessage(t *testing.T) {
	resetGlobals(t)
	if got := quotaMessage(3, 100); !strings.HasPrefix(got, "Reviews used today: 3/100") {
		t.Fatalf("quotaMessage = %q", got)
	}
}
