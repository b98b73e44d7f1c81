package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
)

// GameChangesChannel is the NOTIFY channel fed by the games table trigger.
const GameChangesChannel = "game_changes"

// Waker receives game ids that changed in the store.
type Waker interface {
	Wake(gameID string)
}

// PGListener forwards PostgreSQL notifications on GameChangesChannel to a
// Waker, so a scheduled or edited game is evaluated without waiting for
// the next tick.
type PGListener struct {
	dsn          string
	waker        Waker
	pingInterval time.Duration
	logger       *logging.Logger
}

func NewPGListener(dsn string, waker Waker, logger *logging.Logger) *PGListener {
	if logger == nil {
		logger = logging.Default()
	}
	return &PGListener{
		dsn:          dsn,
		waker:        waker,
		pingInterval: 90 * time.Second,
		logger:       logger.Named("pg_listener"),
	}
}

// Run listens until ctx is cancelled.
func (l *PGListener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, time.Second, time.Minute, func(event pq.ListenerEventType, err error) {
		if err != nil {
			l.logger.Warn("listener connection event", "event", listenerEventName(event), "error", err)
		}
	})
	defer func() {
		if err := listener.Close(); err != nil {
			l.logger.Warn("close listener", "error", err)
		}
	}()

	if err := listener.Listen(GameChangesChannel); err != nil {
		return fmt.Errorf("listen %s: %w", GameChangesChannel, err)
	}
	l.logger.Info("listening for game changes", "channel", GameChangesChannel)

	ticker := time.NewTicker(l.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case notification := <-listener.Notify:
			l.handle(notification)
		case <-ticker.C:
			if err := listener.Ping(); err != nil {
				l.logger.Warn("listener ping failed", "error", err)
			}
		}
	}
}

// handle wakes the game named in the payload. A nil notification means
// the connection was re-established and events may have been lost; the
// regular tick covers that gap.
func (l *PGListener) handle(notification *pq.Notification) {
	if notification == nil {
		l.logger.Info("listener reconnected")
		return
	}
	gameID := strings.TrimSpace(notification.Extra)
	if gameID == "" {
		return
	}
	l.waker.Wake(gameID)
}

func listenerEventName(event pq.ListenerEventType) string {
	switch event {
	case pq.ListenerEventConnected:
		return "connected"
	case pq.ListenerEventDisconnected:
		return "disconnected"
	case pq.ListenerEventReconnected:
		return "reconnected"
	case pq.ListenerEventConnectionAttemptFailed:
		return "connection_attempt_failed"
	default:
		return "unknown"
	}
}
