package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReportMessage carries a rendered weekly report to the delivery worker.
type ReportMessage struct {
	ID        uuid.UUID `json:"id"`
	WeekStart string    `json:"week_start"`
	WeekEnd   string    `json:"week_end"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrEmptyReport is returned for messages without content.
var ErrEmptyReport = errors.New("report message has no content")

// NewReportMessage creates a message with a fresh ID.
func NewReportMessage(weekStart, weekEnd, content string) *ReportMessage {
	return &ReportMessage{
		ID:        uuid.New(),
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportMessageFromJSON decodes and checks a message body.
func ReportMessageFromJSON(data []byte) (*ReportMessage, error) {
	var msg ReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Content == "" {
		return nil, ErrEmptyReport
	}
	return &msg, nil
}
