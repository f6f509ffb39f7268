package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"budgetreport/internal/retry"
)

const (
	// MaxDiscordContent is Discord's per-message character limit.
	MaxDiscordContent = 2000

	discordUsername  = "Budget Reporter"
	discordAvatarURL = "https://cdn-icons-png.flaticon.com/512/3135/3135679.png"
	truncationMarker = "..."
)

// ErrMissingWebhook is returned when no webhook URL is configured.
var ErrMissingWebhook = errors.New("notify: DISCORD_WEBHOOK_URL not set")

type webhookPayload struct {
	Content   string `json:"content"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Discord posts messages to a Discord webhook.
type Discord struct {
	url    string
	http   *http.Client
	retry  retry.Config
	logger *slog.Logger
}

// NewDiscord creates a webhook notifier retrying up to retries times.
func NewDiscord(webhookURL string, timeout time.Duration, retries int, logger *slog.Logger) *Discord {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg := retry.DefaultWebhookConfig
	cfg.MaxRetries = max(retries, 0)
	return &Discord{
		url:    strings.TrimSpace(webhookURL),
		http:   &http.Client{Timeout: timeout},
		retry:  cfg,
		logger: logger,
	}
}

// Truncate caps content at MaxDiscordContent characters, replacing the tail
// with "..." when it has to cut.
func Truncate(content string) string {
	runes := []rune(content)
	if len(runes) <= MaxDiscordContent {
		return content
	}
	return string(runes[:MaxDiscordContent-len(truncationMarker)]) + truncationMarker
}

// Send implements Notifier. Rate limits and server errors are retried.
func (d *Discord) Send(ctx context.Context, content string) error {
	if d.url == "" {
		return ErrMissingWebhook
	}
	content = Truncate(content)
	body, err := json.Marshal(webhookPayload{Content: content, Username: discordUsername, AvatarURL: discordAvatarURL})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	_, err = retry.Do(ctx, d.retry, func(ctx context.Context, attempt int) (struct{}, error) {
		return struct{}{}, d.post(ctx, body, attempt)
	})
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	d.logger.InfoContext(ctx, "Delivered Discord message", "content_chars", len([]rune(content)))
	return nil
}

func (d *Discord) post(ctx context.Context, body []byte, attempt int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		d.logger.WarnContext(ctx, "Discord webhook request failed", "attempt", attempt, "error", err)
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	statusErr := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	d.logger.WarnContext(ctx, "Discord webhook rejected message", "attempt", attempt, "status_code", resp.StatusCode)
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return statusErr
	}
	return retry.Permanent(statusErr)
}
