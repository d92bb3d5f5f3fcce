package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minios-linux/revkit/document"
	"github.com/minios-linux/revkit/editor"
	"github.com/minios-linux/revkit/i18n"
	"github.com/minios-linux/revkit/pipeline"
	"github.com/minios-linux/revkit/quota"
	"github.com/minios-linux/revkit/review"
	"github.com/minios-linux/revkit/settings"
)

// ---------------------------------------------------------------------------
// review (AI review pass)
// ---------------------------------------------------------------------------

type reviewArgs struct {
	file, lines                             string
	provider, apiKey, model, baseURL, proxy string
	timeout                                 time.Duration
	maxRetries                              int
	jsonOut, all                            bool
}

func newReviewCmd() *cobra.Command {
	var a reviewArgs

	cmd := &cobra.Command{
		Use:   "review <file>",
		Short: "Review a file with an AI provider",
		Long: `Send a file to an AI reviewer and print the issues it found on the
lines they belong to.

Without --lines the whole file is reviewed; with --lines only that range is
reviewed and the rest of the file is sent as context. A pass may cover at
most limits.max_lines lines (default 10) and counts against the daily
quota (limits.daily_limit, default 100).

Examples:
  revkit review main.js --lines 12-20
  revkit review main.js --provider anthropic
  revkit review main.js --lines 3-8 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.file = args[0]
			return runReview(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVar(&a.lines, "lines", "", "1-based line range to review, e.g. 12-20")
	cmd.Flags().StringVar(&a.provider, "provider", "", "AI provider (default: from .revkit.yaml)")
	cmd.Flags().StringVar(&a.model, "model", "", "Model name (default: provider default)")
	cmd.Flags().StringVar(&a.apiKey, "api-key", "", "API key (or "+settings.EnvAPIKey+" env var)")
	cmd.Flags().StringVar(&a.baseURL, "base-url", "", "Custom API base URL")
	cmd.Flags().StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "Request timeout (0 = config or provider default)")
	cmd.Flags().IntVar(&a.maxRetries, "max-retries", 3, "Maximum retries on rate limits and server errors")
	cmd.Flags().BoolVar(&a.jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&a.all, "all-lines", false, "Print every line, not only annotated ones")

	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return providerIDs(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runReview(ctx context.Context, a reviewArgs) error {
	p, err := openProject(a.file)
	if err != nil {
		return err
	}
	doc, err := document.Load(a.file)
	if err != nil {
		return err
	}
	sel, err := document.ParseLines(a.lines)
	if err != nil {
		return err
	}

	prov, err := p.reviewProvider(a.provider, a.apiKey, a.model, a.baseURL, a.proxy, a.timeout)
	if err != nil {
		return err
	}
	client, err := review.NewClient(prov, review.Options{MaxRetries: a.maxRetries, Logger: p.log})
	if err != nil {
		if errors.Is(err, review.ErrNoAPIKey) {
			return fmt.Errorf("provider '%s' requires an API key\n\n"+
				"Option 1: Store your API key:\n"+
				"  revkit auth login --provider %s\n\n"+
				"Option 2: Pass key directly:\n"+
				"  --api-key YOUR_KEY or export %s=YOUR_KEY",
				prov.ID, prov.ID, settings.EnvAPIKey)
		}
		return err
	}

	state, err := settings.OpenState()
	if err != nil {
		return err
	}
	cache, release, err := p.translationCache()
	if err != nil {
		return err
	}
	defer release()

	surface := editor.NewSurface()
	analyzer := &pipeline.Analyzer{
		Client:        client,
		Quota:         &quota.Tracker{KV: state, Limit: p.cfg.Limits.DailyLimit},
		Decorator:     surface,
		Notifier:      editor.NewConsole(os.Stderr, os.Stdin, false),
		Translator:    cache,
		TargetLang:    p.cfg.TargetLang,
		MaxLines:      p.cfg.Limits.MaxLines,
		AnimationTick: p.cfg.Limits.AnimationTick.Std(),
		Logger:        p.log,
	}

	p.log.Debug("starting review",
		zap.String("file", a.file),
		zap.String("provider", prov.ID),
		zap.String("model", prov.Model))

	res, err := analyzer.Run(ctx, doc, sel)
	if err != nil {
		return reported(err)
	}

	if a.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if len(res.Annotations) == 0 {
		return nil
	}
	term := editor.NewTerminal(os.Stdout, editor.TerminalOptions{OnlyAnnotated: !a.all})
	return term.Print(doc.Lines(), surface)
}

// ---------------------------------------------------------------------------
// quota
// ---------------------------------------------------------------------------

func newQuotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show today's review usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject("")
			if err != nil {
				return err
			}
			state, err := settings.OpenState()
			if err != nil {
				return err
			}
			tracker := &quota.Tracker{KV: state, Limit: p.cfg.Limits.DailyLimit}
			used, limit, err := tracker.Status()
			if err != nil {
				return err
			}
			console := editor.NewConsole(os.Stderr, nil, false)
			console.Info(quotaMessage(used, limit))
			return nil
		},
	}
}

func quotaMessage(used, limit int) string {
	return i18n.Dual("Reviews used today: %d/%d", used, limit)
}
