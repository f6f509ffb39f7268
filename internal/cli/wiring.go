package cli

import (
	"context"
	"fmt"
	"strings"

	"budgetreport/internal/amqp"
	"budgetreport/internal/backend"
	"budgetreport/internal/config"
	"budgetreport/internal/log"
	"budgetreport/internal/notify"
	"budgetreport/internal/render"
	"budgetreport/internal/summary"
)

// OpenSource creates the transaction source selected by DATA_SOURCE.
func OpenSource(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.SourceResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger.WithComponent(log.ComponentSource).Slog()).CreateSource(ctx, bc)
}

// NewSummarizer returns the Gemini summarizer, or nil when no key is set or
// the client cannot be created; the report then uses the fallback text.
func NewSummarizer(ctx context.Context, logger *log.Logger, cfg *config.Config) summary.Summarizer {
	if !cfg.SummarizerEnabled() {
		logger.Info("Gemini API key not set, using fallback summary")
		return nil
	}
	l := logger.WithComponent(log.ComponentSummary)
	g, err := summary.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, l.Slog())
	if err != nil {
		l.Warn("Gemini unavailable, using fallback summary", log.FieldError, err)
		return nil
	}
	l.Info("Gemini summarizer initialized", "model", g.Model())
	return g
}

// NewDiscord builds the webhook notifier from cfg.
func NewDiscord(logger *log.Logger, cfg *config.Config) *notify.Discord {
	return notify.NewDiscord(cfg.DiscordWebhookURL, cfg.HTTPTimeout, cfg.DeliveryRetries,
		logger.WithComponent(log.ComponentNotify).Slog())
}

// NotifyStartupFailure posts the failure notice for cause to the Discord
// webhook when one is configured. It reports whether a notice was delivered.
func NotifyStartupFailure(ctx context.Context, logger *log.Logger, cfg *config.Config, cause error) bool {
	if cfg == nil || strings.TrimSpace(cfg.DiscordWebhookURL) == "" {
		return false
	}
	if err := NewDiscord(logger, cfg).Send(ctx, render.Failure(cause)); err != nil {
		logger.Warn("Failed to send error notice", log.FieldError, err)
		return false
	}
	return true
}

// NewNotifier builds the notifier selected by DELIVERY. The returned close
// function releases broker connections and is never nil.
func NewNotifier(logger *log.Logger, cfg *config.Config) (notify.Notifier, func() error, error) {
	switch cfg.Delivery {
	case "discord":
		return NewDiscord(logger, cfg), func() error { return nil }, nil
	case "amqp":
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to AMQP: %w", err)
		}
		logger.WithComponent(log.ComponentAMQP).Info("Initialized AMQP delivery",
			"exchange", cfg.AMQPExchange,
			"queue", cfg.AMQPQueue)
		return notify.NewQueue(client), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported delivery: %s", cfg.Delivery)
	}
}
