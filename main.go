// revkit (Review Kit): AI code review with severity overlays, lexical
// scanning and bilingual (en/si) annotations.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minios-linux/revkit/config"
	"github.com/minios-linux/revkit/i18n"
	"github.com/minios-linux/revkit/review"
	"github.com/minios-linux/revkit/settings"
	"github.com/minios-linux/revkit/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	infoTag    = color.New(color.FgBlue).SprintFunc()
	successTag = color.New(color.FgGreen).SprintFunc()
	warnTag    = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorTag   = color.New(color.FgRed).SprintFunc()
	headerTag  = color.New(color.FgBlue, color.Bold).SprintFunc()
	dimTag     = color.New(color.FgHiBlack).SprintFunc()
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", infoTag("[INFO]"), fmt.Sprintf(format, args...))
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", successTag("[OK]"), fmt.Sprintf(format, args...))
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warnTag("[WARN]"), fmt.Sprintf(format, args...))
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorTag("[ERROR]"), fmt.Sprintf(format, args...))
}

func printHeader(title string) {
	fmt.Fprintf(os.Stderr, "\n%s\n", headerTag(title))
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
}

// errReported marks errors that were already shown to the user.
var errReported = errors.New("already reported")

func reported(err error) error {
	return fmt.Errorf("%w: %w", errReported, err)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir string
	uiLang  string
	verbose bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "revkit",
		Short: "AI code review with severity overlays and bilingual annotations",
		Long: `revkit (Review Kit): AI code review with severity overlays.

Sends a file (or up to ten selected lines of it) to an AI reviewer, anchors
the reported issues to real lines and paints them as Critical, Warning and
Suggestion overlays. Every issue carries an English and a Sinhala
description. A local lexical scanner flags long lines, indented function
declarations, capitalized variables and trailing whitespace without any
network call.

Commands:
  scan                 Run the lexical scanner on a file
  review               Review a file with an AI provider
  translate-comments   Rewrite // comments into the target language
  translate            Translate a piece of text through the cache
  quota                Show today's review usage
  init                 Write a default .revkit.yaml
  auth                 Manage provider API keys

AI Providers:
  google         Google AI (Gemini), API key
  groq           Groq, API key
  openai         OpenAI, API key
  anthropic      Anthropic, API key
  ollama         Ollama local server
  custom-openai  Custom OpenAI-compatible endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rootDir, "root", "", "Project root directory (default: detected from the file)")
	root.PersistentFlags().StringVar(&uiLang, "ui-lang", "", "UI language (default: from LANGUAGE/LC_ALL/LANG)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable diagnostic logging")

	root.AddCommand(
		newScanCmd(),
		newReviewCmd(),
		newTranslateCommentsCmd(),
		newTranslateCmd(),
		newQuotaCmd(),
		newInitCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			logError("%v", err)
		}
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("revkit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// init
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .revkit.yaml",
		Long: `Write a .revkit.yaml with the default settings to the project root.

An existing file is kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := rootDir
			if dir == "" {
				dir = "."
			}
			path := filepath.Join(dir, config.RevkitFileName)
			if fileExists(path) && !force {
				logWarning("%s already exists (use --force to overwrite)", path)
				return nil
			}
			if err := config.Default().Save(dir); err != nil {
				return err
			}
			logSuccess("Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// ---------------------------------------------------------------------------
// Project wiring
// ---------------------------------------------------------------------------

// project is the loaded configuration of the tree a command works in.
type project struct {
	root string
	cfg  *config.RevkitFile
	log  *zap.Logger
}

// openProject finds the project root for file (or --root), loads its
// configuration and initializes the UI languages.
func openProject(file string) (*project, error) {
	start := rootDir
	if start == "" {
		start = "."
		if file != "" {
			start = filepath.Dir(file)
		}
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", start, err)
	}

	root := abs
	if rootDir == "" {
		root = config.FindRoot(abs)
	}
	cfg, err := config.LoadRevkitFile(root)
	if err != nil {
		return nil, err
	}

	i18n.Init(uiLang)
	i18n.InitSecondary(cfg.TargetLang)

	p := &project{root: root, cfg: cfg, log: newLogger(verbose)}
	p.log.Debug("project loaded",
		zap.String("root", root),
		zap.String("provider", cfg.Provider),
		zap.String("target_lang", cfg.TargetLang))
	return p, nil
}

// newLogger returns a development logger on stderr when enabled and a
// no-op logger otherwise.
func newLogger(enabled bool) *zap.Logger {
	if !enabled {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		logWarning("Diagnostic logging unavailable: %v", err)
		return zap.NewNop()
	}
	return l
}

// translationCache builds the translation cache for the configured pair,
// backed by the configured second-level store. The returned function
// flushes and releases the store.
func (p *project) translationCache() (*translate.Cache, func(), error) {
	opts := []translate.CacheOption{translate.WithLogger(p.log)}
	release := func() {}

	switch {
	case p.cfg.Cache.RedisURL != "":
		rs, err := translate.ConnectRedis(p.cfg.Cache.RedisURL, p.cfg.Cache.RedisPrefix, p.cfg.Cache.RedisTTL.Std())
		if err != nil {
			// The cache still works in memory.
			logWarning("Translation cache unavailable: %v", err)
			break
		}
		opts = append(opts, translate.WithStore(rs))
		release = func() { _ = rs.Close() }

	case p.cfg.CachePath(p.root) != "":
		fs, err := translate.LoadFileStore(p.cfg.CachePath(p.root))
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, translate.WithStore(fs))
		release = func() {
			if err := fs.Save(); err != nil {
				logWarning("Saving translation cache: %v", err)
			}
		}
	}

	backend := &translate.MyMemory{Proxy: p.cfg.Proxy, Logger: p.log}
	pair := translate.Pair{Source: p.cfg.SourceLang, Target: p.cfg.TargetLang}
	return translate.NewCache(backend, pair, opts...), release, nil
}

// reviewProvider merges flags, .revkit.yaml and stored credentials into a
// provider definition. Flags win over the file.
func (p *project) reviewProvider(id, apiKey, model, baseURL, proxy string, timeout time.Duration) (review.Provider, error) {
	if id == "" {
		id = p.cfg.Provider
	}
	id = strings.ToLower(id)
	if model == "" {
		model = p.cfg.Model
	}
	if baseURL == "" {
		baseURL = p.cfg.BaseURL
	}
	if baseURL == "" {
		baseURL = settings.GetBaseURL(id)
	}
	if proxy == "" {
		proxy = p.cfg.Proxy
	}
	if timeout <= 0 {
		timeout = p.cfg.Timeout.Std()
	}

	prov, ok := review.LookupProvider(id, settings.ResolveAPIKey(id, apiKey), model, baseURL, proxy, timeout)
	if !ok {
		return review.Provider{}, fmt.Errorf("unknown provider '%s' (available: %s)", id, strings.Join(providerIDs(), ", "))
	}
	return prov, nil
}

// providerIDs returns the known provider IDs in sorted order.
func providerIDs() []string {
	ids := make([]string, 0, len(review.DefaultProviders()))
	for id := range review.DefaultProviders() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
