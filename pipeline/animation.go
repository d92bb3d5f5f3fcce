package pipeline

import (
	"sync"
	"time"

	"github.com/minios-linux/revkit/document"
	"github.com/minios-linux/revkit/editor"
	"github.com/minios-linux/revkit/issue"
)

// DefaultAnimationTick is the interval of the scanning highlight.
const DefaultAnimationTick = 100 * time.Millisecond

// animation walks a one-line highlight over a region on the scanning
// channel until stopped.
type animation struct {
	stopOnce sync.Once
	done     chan struct{}
	exited   chan struct{}
	d        editor.Decorator
}

// startAnimation paints the first line immediately and moves one line per
// tick, wrapping around at the end of the region.
func startAnimation(d editor.Decorator, doc *document.Document, region document.Region, tick time.Duration) *animation {
	if tick <= 0 {
		tick = DefaultAnimationTick
	}
	a := &animation{done: make(chan struct{}), exited: make(chan struct{}), d: d}

	paint := func(line int) {
		text, _ := doc.Line(line)
		d.SetDecorations(editor.StyleScanning, []editor.Decoration{{
			Line:  line,
			Range: issue.Range{Start: 0, End: document.RuneLen(text)},
		}})
	}

	line := region.Start
	paint(line)
	go func() {
		defer close(a.exited)
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-a.done:
				return
			case <-t.C:
				line++
				if line > region.End {
					line = region.Start
				}
				paint(line)
			}
		}
	}()
	return a
}

// Stop disarms the ticker and clears the highlight. Safe to call more
// than once; no paint happens after Stop returns.
func (a *animation) Stop() {
	a.stopOnce.Do(func() {
		close(a.done)
		<-a.exited
		a.d.SetDecorations(editor.StyleScanning, nil)
	})
}
