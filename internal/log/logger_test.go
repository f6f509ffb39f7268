package log

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentReporter, Output: &buf})

	logger.Info("report generated", FieldCount, 3)
	assert.Contains(t, buf.String(), "component=reporter")
	assert.Contains(t, buf.String(), "count=3")

	buf.Reset()
	logger.WithComponent(ComponentNotify).Warn("delivery retry")
	assert.Contains(t, buf.String(), "component=notify")
	assert.NotContains(t, buf.String(), "component=reporter")

	buf.Reset()
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestLoggerSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentActual, Output: &buf})

	logger.Slog().Debug("fetching")
	assert.Contains(t, buf.String(), "component=actual")
	assert.Equal(t, ComponentActual, logger.Component())
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentWorker).
		WithOperation(OpDeliver).
		WithWeek("2025-01-06", "2025-01-12").
		WithReportID("r-1").
		WithError(errors.New("boom")).
		WithError(nil)

	assert.Equal(t, "worker", f[FieldComponent])
	assert.Equal(t, "deliver", f[FieldOperation])
	assert.Equal(t, "2025-01-06", f[FieldWeekStart])
	assert.Equal(t, "r-1", f[FieldReportID])
	assert.Equal(t, "boom", f[FieldError])
	assert.Len(t, f.ToSlice(), len(f)*2)
}
