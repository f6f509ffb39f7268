// Package report runs the weekly pipeline: fetch, analyze, summarize, deliver.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"budgetreport/internal/analysis"
	"budgetreport/internal/core"
	"budgetreport/internal/log"
	"budgetreport/internal/notify"
	"budgetreport/internal/render"
	"budgetreport/internal/sources"
	"budgetreport/internal/summary"
)

// Options wires a Reporter. Summarizer may be nil.
type Options struct {
	Source          sources.TransactionSource
	Summarizer      summary.Summarizer
	Notifier        notify.Notifier
	MonthlyBudget   map[string]int64
	ComparePrevious bool
	Logger          *log.Logger
}

// Reporter produces and delivers one weekly report per Run.
type Reporter struct {
	source     sources.TransactionSource
	summarizer summary.Summarizer
	notifier   notify.Notifier
	budget     map[string]int64
	compare    bool
	logger     *log.Logger
}

// Report is the outcome of one pipeline run.
type Report struct {
	ID           uuid.UUID
	Window       Window
	Previous     *Window
	Result       analysis.Result
	Summary      string
	UsedFallback bool
	Content      string
}

func New(opts Options) (*Reporter, error) {
	if opts.Source == nil {
		return nil, errors.New("report: source is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("report: notifier is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Reporter{
		source:     opts.Source,
		summarizer: opts.Summarizer,
		notifier:   opts.Notifier,
		budget:     opts.MonthlyBudget,
		compare:    opts.ComparePrevious,
		logger:     logger.WithComponent(log.ComponentReporter),
	}, nil
}

// Run generates the report for the week containing ref and delivers it.
// On any failure a best-effort error notice is sent and the error returned.
func (r *Reporter) Run(ctx context.Context, ref core.Date) (*Report, error) {
	rep, err := r.Generate(ctx, ref)
	if err == nil {
		err = r.Deliver(ctx, rep)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Weekly report failed", log.FieldError, err)
		if notifyErr := r.notifier.Send(ctx, render.Failure(err)); notifyErr != nil {
			r.logger.WarnContext(ctx, "Failed to send error notice", log.FieldError, notifyErr)
		}
		return rep, err
	}
	return rep, nil
}

// Generate fetches, analyzes and summarizes without delivering.
func (r *Reporter) Generate(ctx context.Context, ref core.Date) (*Report, error) {
	started := time.Now()
	rep := &Report{ID: uuid.New(), Window: WeekWindow(ref)}
	logger := r.logger.With(log.NewFields().
		WithReportID(rep.ID.String()).
		WithWeek(rep.Window.Start.String(), rep.Window.End.String()).
		ToSlice()...)
	logger.InfoContext(ctx, "Generating weekly report")

	current, previous, err := r.fetch(ctx, rep)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Fetched transactions",
		log.FieldOperation, log.OpFetch,
		log.FieldCount, len(current),
		"previous_count", len(previous))

	rep.Result = analysis.Analyze(current, previous, r.budget)
	logger.InfoContext(ctx, "Analyzed week",
		log.FieldOperation, log.OpAnalyze,
		log.FieldAnomalies, len(rep.Result.Anomalies),
		log.FieldHealth, rep.Result.Health.Status)

	in := summary.Input{
		WeekStart: rep.Window.Start.String(),
		WeekEnd:   rep.Window.End.String(),
		Result:    rep.Result,
	}
	rep.Summary = r.summarize(ctx, logger, in)
	if rep.Summary != "" {
		rep.Content = rep.Summary
	} else {
		rep.UsedFallback = true
		insight := summary.Fallback(rep.Result.Stats, rep.Result.Anomalies)
		start, end := in.WeekStart, in.WeekEnd
		if s := rep.Result.Stats; s.HasData() {
			start, end = s.WeekStart, s.WeekEnd
		}
		content, err := render.Report(render.NewView(start, end, rep.Result, insight))
		if err != nil {
			return nil, err
		}
		rep.Content = content
	}

	logger.InfoContext(ctx, "Weekly report ready",
		"fallback", rep.UsedFallback,
		log.FieldContentChars, len([]rune(rep.Content)),
		log.FieldDuration, time.Since(started).Milliseconds())
	return rep, nil
}

// fetch loads the current and, when enabled, previous windows concurrently.
// previous is nil when comparison is disabled.
func (r *Reporter) fetch(ctx context.Context, rep *Report) (current, previous []core.Transaction, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txns, err := r.source.Transactions(gctx, rep.Window.Start, rep.Window.End)
		if err != nil {
			return fmt.Errorf("fetch week %s: %w", rep.Window, err)
		}
		current = txns
		return nil
	})
	if r.compare {
		prev := rep.Window.Previous()
		rep.Previous = &prev
		g.Go(func() error {
			txns, err := r.source.Transactions(gctx, prev.Start, prev.End)
			if err != nil {
				return fmt.Errorf("fetch previous week %s: %w", prev, err)
			}
			if txns == nil {
				txns = []core.Transaction{}
			}
			previous = txns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return current, previous, nil
}

// summarize returns model text, or "" when the fallback should be used.
func (r *Reporter) summarize(ctx context.Context, logger *log.Logger, in summary.Input) string {
	if r.summarizer == nil {
		logger.InfoContext(ctx, "No summarizer configured, using fallback")
		return ""
	}
	text, err := r.summarizer.Summarize(ctx, in)
	if err != nil {
		logger.WarnContext(ctx, "Summarizer failed, using fallback",
			log.FieldOperation, log.OpSummarize,
			log.FieldError, err)
		return ""
	}
	return text
}

// Deliver sends the report content through the notifier.
func (r *Reporter) Deliver(ctx context.Context, rep *Report) error {
	n := r.notifier
	if scoped, ok := n.(notify.WeekScoped); ok {
		n = scoped.ForWeek(rep.Window.Start.String(), rep.Window.End.String())
	}
	if err := n.Send(ctx, rep.Content); err != nil {
		return fmt.Errorf("deliver report: %w", err)
	}
	r.logger.InfoContext(ctx, "Weekly report delivered",
		log.FieldOperation, log.OpDeliver,
		log.FieldReportID, rep.ID.String())
	return nil
}
