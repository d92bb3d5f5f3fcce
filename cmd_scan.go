package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minios-linux/revkit/document"
	"github.com/minios-linux/revkit/editor"
	"github.com/minios-linux/revkit/scanner"
)

// ---------------------------------------------------------------------------
// scan (lexical scanner)
// ---------------------------------------------------------------------------

// watchDebounce groups the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

type scanArgs struct {
	file                string
	jsonOut, watch, all bool
	comments            bool
	commentLimit        int
}

func newScanCmd() *cobra.Command {
	var a scanArgs

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Run the lexical scanner on a file",
		Long: `Flag long lines, indented function declarations, capitalized variable
names and trailing whitespace. No network access is needed unless
--comments is given, which also shows the translation of every comment.

With --watch the file is scanned again after every save.

Examples:
  revkit scan main.js
  revkit scan main.js --comments
  revkit scan main.js --watch
  revkit scan main.js --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.file = args[0]
			return runScan(cmd.Context(), a)
		},
	}

	cmd.Flags().BoolVar(&a.jsonOut, "json", false, "Print the overlays as JSON")
	cmd.Flags().BoolVar(&a.watch, "watch", false, "Scan again whenever the file changes")
	cmd.Flags().BoolVar(&a.all, "all-lines", false, "Print every line, not only flagged ones")
	cmd.Flags().BoolVar(&a.comments, "comments", false, "Translate comments and show them as hovers")
	cmd.Flags().IntVar(&a.commentLimit, "comment-concurrency", 4, "Comment translations in flight")

	return cmd
}

func runScan(ctx context.Context, a scanArgs) error {
	p, err := openProject(a.file)
	if err != nil {
		return err
	}
	sc := scanner.New(scanner.Options{
		MildLength:   p.cfg.Scanner.MildLength,
		SevereLength: p.cfg.Scanner.SevereLength,
	})

	var looker scanner.Looker
	if a.comments {
		cache, release, err := p.translationCache()
		if err != nil {
			return err
		}
		defer release()
		looker = cache
	}

	scanOnce := func() error {
		doc, err := document.Load(a.file)
		if err != nil {
			return err
		}
		res, err := sc.Scan(ctx, doc.Lines())
		if err != nil {
			return err
		}

		surface := editor.NewSurface()
		sc.Paint(surface, res)
		if looker != nil {
			scanner.TranslateComments(ctx, res, looker, surface, a.commentLimit).Wait()
		}

		if a.jsonOut {
			return surface.WriteJSON(os.Stdout)
		}
		term := editor.NewTerminal(os.Stdout, editor.TerminalOptions{OnlyAnnotated: !a.all})
		if err := term.Print(doc.Lines(), surface); err != nil {
			return err
		}
		printScanSummary(a.file, res)
		return nil
	}

	if err := scanOnce(); err != nil {
		return err
	}
	if !a.watch {
		return nil
	}
	return watchFile(ctx, a.file, p.log, scanOnce)
}

// printScanSummary writes per-category counts to stderr.
func printScanSummary(file string, res *scanner.Result) {
	counts := res.Count()
	if len(res.Findings) == 0 {
		logSuccess("%s: no findings", file)
		return
	}
	var parts []string
	for c := scanner.LengthSevere; c <= scanner.TrailingWhitespace; c++ {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c))
		}
	}
	logInfo("%s: %s", file, strings.Join(parts, ", "))
}

// watchFile runs fn after every change of file until ctx is done. The
// parent directory is watched so that editors replacing the file on save
// are followed.
func watchFile(ctx context.Context, file string, log *zap.Logger, fn func() error) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logInfo("Watching %s (Ctrl+C to stop)", file)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			log.Debug("file changed", zap.String("op", ev.Op.String()))
			pending = time.After(watchDebounce)

		case <-pending:
			pending = nil
			fmt.Fprintln(os.Stdout, dimTag(strings.Repeat("─", 60)))
			if err := fn(); err != nil {
				logWarning("Scan failed: %v", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}
