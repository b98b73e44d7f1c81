package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/pickup-football/internal/domain/transition"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a human-readable progress message for the alert layer.
type Notification struct {
	GameID     string            `json:"game_id"`
	Kind       transition.Kind   `json:"kind"`
	Level      NotificationLevel `json:"level"`
	Message    string            `json:"message"`
	Attempt    int               `json:"attempt,omitempty"`
	Terminal   bool              `json:"terminal,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger.Named("notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, item Notification) error {
	args := []any{
		"game_id", item.GameID,
		"kind", item.Kind,
		"attempt", item.Attempt,
		"terminal", item.Terminal,
	}
	switch item.Level {
	case NotificationError:
		n.logger.ErrorContext(ctx, item.Message, args...)
	case NotificationWarning:
		n.logger.WarnContext(ctx, item.Message, args...)
	default:
		n.logger.InfoContext(ctx, item.Message, args...)
	}
	return nil
}

// MultiNotifier delivers to every notifier concurrently and joins failures.
type MultiNotifier struct {
	notifiers []Notifier
}

func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	out := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return &MultiNotifier{notifiers: out}
}

func (m *MultiNotifier) Notify(ctx context.Context, item Notification) error {
	p := pool.New().WithErrors()
	for _, n := range m.notifiers {
		p.Go(func() error {
			return n.Notify(ctx, item)
		})
	}
	return p.Wait()
}
