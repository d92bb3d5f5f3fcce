package editor

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TerminalOptions controls how a document is printed with its overlays.
type TerminalOptions struct {
	// OnlyAnnotated skips lines that carry no overlay.
	OnlyAnnotated bool
	// HideHover suppresses the hover text printed beneath annotated lines.
	HideHover bool
}

var (
	lineNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	inlineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8")).Italic(true)
	hoverStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#BAC2DE"))
)

// lineDecoration pairs a decoration with the style it was set on.
type lineDecoration struct {
	style Style
	deco  Decoration
}

// Terminal prints documents with the overlays of a Surface.
type Terminal struct {
	w    io.Writer
	opts TerminalOptions
}

// NewTerminal returns a terminal painter writing to w.
func NewTerminal(w io.Writer, opts TerminalOptions) *Terminal {
	return &Terminal{w: w, opts: opts}
}

// Print writes lines with the overlays currently held by surface.
func (t *Terminal) Print(lines []string, surface *Surface) error {
	byLine := groupByLine(surface.Snapshot())
	width := len(fmt.Sprint(len(lines)))

	for i, line := range lines {
		decos := byLine[i]
		if t.opts.OnlyAnnotated && len(decos) == 0 {
			continue
		}

		gutter := " "
		if len(decos) > 0 {
			top := decos[len(decos)-1].style
			gutter = top.Render(top.Gutter)
		}
		num := lineNumberStyle.Render(fmt.Sprintf("%*d", width, i+1))

		var b strings.Builder
		b.WriteString(gutter)
		b.WriteByte(' ')
		b.WriteString(num)
		b.WriteString(" │ ")
		b.WriteString(paintLine(line, decos))
		for j := len(decos) - 1; j >= 0; j-- {
			if inline := decos[j].deco.Inline; inline != "" {
				b.WriteString("  ")
				b.WriteString(inlineStyle.Render(inline))
			}
		}
		if _, err := fmt.Fprintln(t.w, b.String()); err != nil {
			return err
		}

		if t.opts.HideHover {
			continue
		}
		pad := strings.Repeat(" ", width+2)
		for j := len(decos) - 1; j >= 0; j-- {
			hover := decos[j].deco.Hover
			if hover == "" {
				continue
			}
			label := decos[j].style.Render(decos[j].style.Label)
			for k, hl := range strings.Split(hover, "\n") {
				prefix := pad + " ╰ " + label + ": "
				if k > 0 {
					prefix = pad + "   " + strings.Repeat(" ", lipgloss.Width(label)+2)
				}
				if _, err := fmt.Fprintln(t.w, prefix+hoverStyle.Render(hl)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// groupByLine indexes decorations by line, each slice sorted by
// ascending Z so the last element is the topmost channel.
func groupByLine(snap map[StyleID][]Decoration) map[int][]lineDecoration {
	byLine := make(map[int][]lineDecoration)
	for id, set := range snap {
		st := LookupStyle(id)
		for _, d := range set {
			byLine[d.Line] = append(byLine[d.Line], lineDecoration{style: st, deco: d})
		}
	}
	for _, decos := range byLine {
		sort.SliceStable(decos, func(i, j int) bool {
			if decos[i].style.Z != decos[j].style.Z {
				return decos[i].style.Z < decos[j].style.Z
			}
			return decos[i].deco.Range.Start < decos[j].deco.Range.Start
		})
	}
	return byLine
}

// paintLine renders line with each column painted by the highest-Z
// decoration covering it.
func paintLine(line string, decos []lineDecoration) string {
	if len(decos) == 0 {
		return line
	}
	runes := []rune(line)
	owner := make([]int, len(runes))
	for c := range owner {
		owner[c] = topOwner(decos, c)
	}

	var b strings.Builder
	for c := 0; c < len(runes); {
		o := owner[c]
		e := c
		for e < len(runes) && owner[e] == o {
			e++
		}
		seg := string(runes[c:e])
		if o >= 0 {
			seg = decos[o].style.Render(seg)
		}
		b.WriteString(seg)
		c = e
	}
	return b.String()
}

// topOwner returns the index into decos that owns column c, or -1.
// decos is ascending by Z, so the last covering entry wins.
func topOwner(decos []lineDecoration, c int) int {
	owner := -1
	for idx, d := range decos {
		if c >= d.deco.Range.Start && c < d.deco.Range.End {
			owner = idx
		}
	}
	return owner
}
