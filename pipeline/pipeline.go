// Package pipeline runs one review pass: precondition checks, the
// outbound review call, tolerant parsing, resolution and rendering.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minios-linux/revkit/document"
	"github.com/minios-linux/revkit/editor"
	"github.com/minios-linux/revkit/i18n"
	"github.com/minios-linux/revkit/issue"
	"github.com/minios-linux/revkit/quota"
	"github.com/minios-linux/revkit/render"
	"github.com/minios-linux/revkit/resolve"
	"github.com/minios-linux/revkit/review"
)

// DefaultMaxLines is the largest region a single pass may analyze.
const DefaultMaxLines = 10

var (
	ErrNoDocument     = errors.New("no active document")
	ErrQuotaExhausted = errors.New("daily review quota exhausted")
	ErrRegionTooLarge = errors.New("region too large")
	ErrBusy           = errors.New("analysis already running")
	// ErrAnalysisFailed wraps transport and parse failures.
	ErrAnalysisFailed = errors.New("analysis failed")
)

// RegionTooLargeError reports the rejected line count.
type RegionTooLargeError struct {
	Lines int
	Max   int
}

func (e *RegionTooLargeError) Error() string {
	return fmt.Sprintf("region has %d lines, at most %d allowed", e.Lines, e.Max)
}

func (e *RegionTooLargeError) Is(target error) bool { return target == ErrRegionTooLarge }

// Gate is the daily quota. *quota.Tracker satisfies it.
type Gate interface {
	Check() error
	Consume() error
	Status() (used, limit int, err error)
}

// Analyzer runs review passes against one editor. Only one pass runs at
// a time.
type Analyzer struct {
	Client    review.Client
	Quota     Gate
	Decorator editor.Decorator
	Notifier  editor.Notifier
	// Translator fills missing secondary descriptions. Optional.
	Translator    render.Looker
	TargetLang    string
	MaxLines      int
	AnimationTick time.Duration
	Logger        *zap.Logger

	running atomic.Bool
}

// Result describes a completed pass.
type Result struct {
	PassID      string             `json:"passId"`
	Region      document.Region    `json:"region"`
	Narrowed    bool               `json:"narrowed"`
	Issues      []issue.Issue      `json:"issues"`
	Annotations []issue.Annotation `json:"annotations"`
	Summary     string             `json:"summary,omitempty"`
}

func (a *Analyzer) effectiveMaxLines() int {
	if a.MaxLines > 0 {
		return a.MaxLines
	}
	return DefaultMaxLines
}

func (a *Analyzer) logger() *zap.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return zap.NewNop()
}

// Running reports whether a pass is in flight.
func (a *Analyzer) Running() bool { return a.running.Load() }

// Run analyzes the selected region of doc, or the whole document when the
// selection is nil or blank. Every rejection and failure is reported
// through the Notifier once and returned as an error.
func (a *Analyzer) Run(ctx context.Context, doc *document.Document, sel *document.Selection) (Result, error) {
	if doc == nil {
		a.Notifier.Error(i18n.Dual("No active document."))
		return Result{}, ErrNoDocument
	}
	if !a.running.CompareAndSwap(false, true) {
		a.Notifier.Warn(i18n.Dual("Another analysis is already running."))
		return Result{}, ErrBusy
	}
	defer a.running.Store(false)

	if err := a.Quota.Check(); err != nil {
		return Result{}, a.quotaError(err)
	}

	region, narrowed := document.TargetRegion(doc, sel)
	if span, limit := region.Span(), a.effectiveMaxLines(); span > limit {
		a.Notifier.Error(i18n.Dual("Selection has %d lines; select at most %d lines.", span, limit))
		return Result{}, &RegionTooLargeError{Lines: span, Max: limit}
	}

	if err := a.Quota.Consume(); err != nil {
		return Result{}, a.quotaError(err)
	}

	res := Result{PassID: uuid.NewString(), Region: region, Narrowed: narrowed}
	log := a.logger().With(zap.String("pass", res.PassID), zap.Stringer("region", region))

	render.Clear(a.Decorator)
	anim := startAnimation(a.Decorator, doc, region, a.AnimationTick)
	defer anim.Stop()
	done := a.Notifier.Progress(i18n.Dual("Analyzing code..."))
	defer done()

	req := review.Request{Text: doc.Text(), TargetLang: a.TargetLang}
	if narrowed {
		r := region
		req.Region = &r
	}

	started := time.Now()
	raw, err := a.Client.Review(ctx, req)
	if err != nil {
		log.Warn("review call failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return res, a.failed(err)
	}
	issues, err := review.ParseIssues(raw)
	if err != nil {
		log.Warn("unusable review response", zap.Error(err), zap.Int("bytes", len(raw)))
		return res, a.failed(err)
	}
	res.Issues = issues
	log.Debug("review response parsed", zap.Int("issues", len(issues)), zap.Duration("elapsed", time.Since(started)))

	anns := resolve.Resolve(issues, doc, log)
	// The animation must be gone before the result is painted.
	anim.Stop()
	r := &render.Renderer{Decorator: a.Decorator, Translator: a.Translator, Logger: log}
	res.Annotations = r.Render(ctx, anns)
	res.Summary = render.Summary(res.Annotations)

	if res.Summary == "" {
		a.Notifier.Info(i18n.Dual("No issues found."))
	} else {
		a.Notifier.Info(res.Summary)
	}
	log.Info("analysis finished",
		zap.Int("parsed", len(issues)),
		zap.Int("resolved", len(res.Annotations)))
	return res, nil
}

func (a *Analyzer) quotaError(err error) error {
	if !errors.Is(err, quota.ErrExhausted) {
		a.logger().Error("quota state unavailable", zap.Error(err))
		a.Notifier.Error(i18n.Dual("Code analysis failed. Please try again."))
		return err
	}
	used, limit, _ := a.Quota.Status()
	a.Notifier.Error(i18n.Dual("Daily review limit reached (%d/%d). Try again tomorrow.", used, limit))
	return fmt.Errorf("%w (%d/%d): %w", ErrQuotaExhausted, used, limit, err)
}

func (a *Analyzer) failed(err error) error {
	a.Notifier.Error(i18n.Dual("Code analysis failed. Please try again."))
	return fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
}
