// Package notify delivers rendered reports.
package notify

import (
	"context"
	"fmt"
	"io"
)

// Notifier delivers one message.
type Notifier interface {
	Send(ctx context.Context, content string) error
}

// WeekScoped is implemented by notifiers that tag messages with the
// report window.
type WeekScoped interface {
	ForWeek(start, end string) Notifier
}

// Writer prints messages instead of delivering them; used for dry runs.
type Writer struct {
	W io.Writer
}

func (w Writer) Send(_ context.Context, content string) error {
	_, err := fmt.Fprintln(w.W, content)
	return err
}
