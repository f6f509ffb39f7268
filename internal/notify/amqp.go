package notify

import (
	"context"

	"budgetreport/internal/amqp"
)

// ReportPublisher is the part of the AMQP client the notifier uses.
type ReportPublisher interface {
	PublishReport(ctx context.Context, msg *amqp.ReportMessage) error
}

// Queue hands reports to the delivery worker through the broker.
type Queue struct {
	publisher ReportPublisher
	weekStart string
	weekEnd   string
}

func NewQueue(p ReportPublisher) *Queue {
	return &Queue{publisher: p}
}

// ForWeek returns a copy that tags messages with the report window.
func (q *Queue) ForWeek(start, end string) Notifier {
	return &Queue{publisher: q.publisher, weekStart: start, weekEnd: end}
}

// Send implements Notifier.
func (q *Queue) Send(ctx context.Context, content string) error {
	return q.publisher.PublishReport(ctx, amqp.NewReportMessage(q.weekStart, q.weekEnd, content))
}
