package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"budgetreport/internal/amqp"
	"budgetreport/internal/cache"
	"budgetreport/internal/notify"
)

const (
	seenCapacity = 256
	seenTTL      = 24 * time.Hour
)

// DeliveryWorker forwards queued reports to a notifier, typically Discord.
type DeliveryWorker struct {
	notifier notify.Notifier
	seen     *cache.LRU[uuid.UUID, time.Time]
	logger   *slog.Logger
}

func NewDeliveryWorker(n notify.Notifier, logger *slog.Logger) *DeliveryWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeliveryWorker{
		notifier: n,
		seen:     cache.NewLRU[uuid.UUID, time.Time](seenCapacity, seenTTL),
		logger:   logger,
	}
}

// HandleReportMessage delivers one queued report. A report already delivered
// by this worker is acknowledged without sending it again.
func (w *DeliveryWorker) HandleReportMessage(ctx context.Context, msg *amqp.ReportMessage) error {
	if at, ok := w.seen.Get(msg.ID); ok {
		w.logger.InfoContext(ctx, "Skipping already delivered report",
			"report_id", msg.ID,
			"delivered_at", at)
		return nil
	}

	w.logger.InfoContext(ctx, "Delivering queued report",
		"report_id", msg.ID,
		"week_start", msg.WeekStart,
		"week_end", msg.WeekEnd,
		"queued_at", msg.Timestamp)

	if err := w.notifier.Send(ctx, msg.Content); err != nil {
		return fmt.Errorf("deliver report %s: %w", msg.ID, err)
	}
	w.seen.Set(msg.ID, time.Now())
	return nil
}

// PruneSeen drops expired delivery records and returns how many were removed.
func (w *DeliveryWorker) PruneSeen() int {
	return w.seen.CleanExpired()
}
