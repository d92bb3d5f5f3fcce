package review

import (
	"fmt"
	"strings"

	"github.com/minios-linux/revkit/document"
	"github.com/minios-linux/revkit/langmeta"
)

// Request is one review call.
type Request struct {
	// Text is the full document.
	Text string
	// Region narrows the reviewer's attention; nil means the whole document.
	Region *document.Region
	// TargetLang is the language of the translated explanation (default "si").
	TargetLang string
}

// SystemPrompt instructs the reviewer about the answer format.
const SystemPrompt = `You are a senior code reviewer. Review the code you are given and report concrete problems: bugs, security issues, performance problems and readability issues.

RULES:
1. Answer with a JSON array only, no prose.
2. Each element is an object with exactly these keys:
   "line": the 1-based line number of the problem,
   "codeSnippet": the exact text of that line, copied verbatim without the "N | " line number prefix,
   "issue": a one-sentence explanation in English,
   "sinhalaIssue": the same explanation in {{targetLang}},
   "severity": one of "Critical", "Warning", "Suggestion".
3. Report at most one element per problem. If there are no problems, answer [].`

// systemPrompt returns SystemPrompt with the target language filled in.
func (r Request) systemPrompt() string {
	lang := r.TargetLang
	if lang == "" {
		lang = "si"
	}
	return strings.ReplaceAll(SystemPrompt, "{{targetLang}}", langmeta.EnglishName(lang))
}

// userPrompt carries the document and, when narrowed, the 1-based
// inclusive line bounds.
func (r Request) userPrompt() string {
	var b strings.Builder
	if r.Region != nil {
		start, end := r.Region.OneBased()
		fmt.Fprintf(&b, "Review only lines %d to %d (inclusive). The rest of the file is context.\n\n", start, end)
	} else {
		b.WriteString("Review the whole file.\n\n")
	}
	b.WriteString("```\n")
	b.WriteString(numberLines(r.Text))
	b.WriteString("\n```")
	return b.String()
}

// numberLines prefixes every line with its 1-based number so the
// reviewer reports accurate line numbers.
func numberLines(text string) string {
	lines := strings.Split(text, "\n")
	width := len(fmt.Sprint(len(lines)))
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d | %s", width, i+1, l)
	}
	return b.String()
}
