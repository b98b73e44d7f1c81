package notify

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pickup-football/internal/domain/transition"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
	"github.com/riskibarqy/pickup-football/internal/platform/resilience"
	"github.com/riskibarqy/pickup-football/internal/usecase"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type webhookServer struct {
	mu       sync.Mutex
	status   int
	bodies   [][]byte
	authSeen []string
}

func (s *webhookServer) handle(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, append([]byte(nil), ctx.PostBody()...))
	s.authSeen = append(s.authSeen, string(ctx.Request.Header.Peek("Authorization")))
	ctx.SetStatusCode(s.status)
}

func (s *webhookServer) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

func newTestNotifier(t *testing.T, status int, breaker resilience.CircuitBreakerConfig) (*WebhookNotifier, *webhookServer) {
	t.Helper()

	srv := &webhookServer{status: status}
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: srv.handle}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	notifier, err := NewWebhookNotifier(WebhookConfig{
		URL:            "http://alerts.test/hooks/pickup",
		Token:          "secret",
		Timeout:        time.Second,
		CircuitBreaker: breaker,
	}, logging.NewNop())
	require.NoError(t, err)
	notifier.client.Dial = func(string) (net.Conn, error) { return ln.Dial() }
	return notifier, srv
}

func sampleNotification() usecase.Notification {
	return usecase.Notification{
		GameID:     "game-1",
		Kind:       transition.KindAnnounceTeams,
		Level:      usecase.NotificationError,
		Message:    "team announcement failed 3 times",
		Attempt:    3,
		Terminal:   true,
		OccurredAt: time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifier_Notify(t *testing.T) {
	t.Parallel()

	notifier, srv := newTestNotifier(t, fasthttp.StatusNoContent, resilience.DefaultCircuitBreakerConfig())

	require.NoError(t, notifier.Notify(context.Background(), sampleNotification()))
	require.Equal(t, 1, srv.calls())
	require.Equal(t, "Bearer secret", srv.authSeen[0])

	var got map[string]any
	require.NoError(t, sonic.Unmarshal(srv.bodies[0], &got))
	require.Equal(t, "pickup-football", got["source"])
	require.Equal(t, "game-1", got["game_id"])
	require.Equal(t, "announce_teams", got["kind"])
	require.Equal(t, "error", got["level"])
	require.Equal(t, true, got["terminal"])
	require.EqualValues(t, 3, got["attempt"])
}

func TestWebhookNotifier_ServerErrorTripsBreaker(t *testing.T) {
	t.Parallel()

	notifier, srv := newTestNotifier(t, fasthttp.StatusBadGateway, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 2; i++ {
		err := notifier.Notify(context.Background(), sampleNotification())
		require.Error(t, err)
		require.True(t, isCircuitFailure(err))
	}

	err := notifier.Notify(context.Background(), sampleNotification())
	require.True(t, errors.Is(err, resilience.ErrCircuitOpen))
	require.Equal(t, 2, srv.calls())
}

func TestWebhookNotifier_ClientErrorDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	notifier, srv := newTestNotifier(t, fasthttp.StatusBadRequest, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 3; i++ {
		err := notifier.Notify(context.Background(), sampleNotification())
		require.Error(t, err)
		require.False(t, isCircuitFailure(err))
	}
	require.Equal(t, 3, srv.calls())
	require.Equal(t, resilience.CircuitStateClosed, notifier.breaker.State())
}

func TestNewWebhookNotifier_InvalidURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "ftp://alerts.test", "http://", "://bad"} {
		if _, err := NewWebhookNotifier(WebhookConfig{URL: raw}, nil); err == nil {
			t.Fatalf("expected error for url %q", raw)
		}
	}
}
