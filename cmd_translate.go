package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minios-linux/revkit/document"
	"github.com/minios-linux/revkit/editor"
	"github.com/minios-linux/revkit/i18n"
	"github.com/minios-linux/revkit/langmeta"
	"github.com/minios-linux/revkit/translate"
)

// ---------------------------------------------------------------------------
// translate-comments (rewrite // comments in place)
// ---------------------------------------------------------------------------

type translateCommentsArgs struct {
	file, lines string
	yes, dryRun bool
}

func newTranslateCommentsCmd() *cobra.Command {
	var a translateCommentsArgs

	cmd := &cobra.Command{
		Use:   "translate-comments <file>",
		Short: "Rewrite // comments into the target language",
		Long: `Translate the // comments of a file (or of --lines) into the target
language and write them back after confirmation. Code before a comment is
never changed.

Examples:
  revkit translate-comments main.js
  revkit translate-comments main.js --lines 10-40 --yes
  revkit translate-comments main.js --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.file = args[0]
			return runTranslateComments(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVar(&a.lines, "lines", "", "1-based line range, e.g. 10-40")
	cmd.Flags().BoolVarP(&a.yes, "yes", "y", false, "Write without asking")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Show the changes without writing")

	return cmd
}

func runTranslateComments(ctx context.Context, a translateCommentsArgs) error {
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
	region, _ := document.TargetRegion(doc, sel)

	cache, release, err := p.translationCache()
	if err != nil {
		return err
	}
	defer release()

	console := editor.NewConsole(os.Stderr, os.Stdin, a.yes)
	ct := &translate.CommentTranslator{Backend: cache, Pair: cache.Pair()}

	done := console.Progress(fmt.Sprintf("Translating comments on lines %s to %s", region, langmeta.EnglishName(cache.Pair().Target)))
	edits, err := ct.Plan(ctx, doc, region)
	done()
	if err != nil {
		p.log.Warn("comment translation failed", zap.Error(err))
		console.Error(i18n.Dual("Comment translation failed."))
		return reported(err)
	}
	if len(edits) == 0 {
		console.Info(i18n.Dual("No comments found in the selected lines."))
		return nil
	}

	printCommentEdits(edits)
	if a.dryRun {
		return nil
	}
	if !console.Confirm(i18n.Dual("Write translated comments to %s?", doc.Path())) {
		logInfo("No changes written")
		return nil
	}

	n, err := translate.Apply(doc, edits)
	if err != nil {
		return err
	}
	if err := doc.Save(""); err != nil {
		return err
	}
	console.Info(fmt.Sprintf(i18n.N("Translated %d comment.", "Translated %d comments.", n), n))
	return nil
}

// printCommentEdits shows each edit as a removed and an added line.
func printCommentEdits(edits []translate.CommentEdit) {
	del := color.New(color.FgRed).SprintFunc()
	add := color.New(color.FgGreen).SprintFunc()

	width := len(fmt.Sprint(edits[len(edits)-1].Line + 1))
	for _, e := range edits {
		num := dimTag(fmt.Sprintf("%*d", width, e.Line+1))
		fmt.Fprintf(os.Stdout, "%s %s %s\n", num, del("-"), del(e.Original))
		fmt.Fprintf(os.Stdout, "%s %s %s\n", strings.Repeat(" ", width), add("+"), add(e.Updated))
	}
}

// ---------------------------------------------------------------------------
// translate (one-off text translation through the cache)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "translate <text>...",
		Short: "Translate a piece of text through the cache",
		Long: `Translate text with the configured translation backend and print the
result. Configured cache stores are consulted and filled. On failure the
original text is printed unchanged.

Examples:
  revkit translate "Variable is never used"
  revkit translate --to ta "Missing null check"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject("")
			if err != nil {
				return err
			}
			if from != "" {
				p.cfg.SourceLang = from
			}
			if to != "" {
				p.cfg.TargetLang = to
			}
			cache, release, err := p.translationCache()
			if err != nil {
				return err
			}
			defer release()

			text := strings.Join(args, " ")
			out := cache.Lookup(cmd.Context(), text)
			if out == text {
				p.log.Debug("translation unchanged", zap.String("pair", cache.Pair().String()))
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source language (default: source_lang from .revkit.yaml)")
	cmd.Flags().StringVar(&to, "to", "", "Target language (default: target_lang from .revkit.yaml)")
	return cmd
}
