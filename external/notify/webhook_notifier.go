package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
	"github.com/riskibarqy/pickup-football/internal/platform/resilience"
	"github.com/riskibarqy/pickup-football/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookNotifier posts notifications as JSON to an alerting endpoint
// (Slack/Discord relay, on-call bot, ...).
type WebhookNotifier struct {
	client  *fasthttp.Client
	url     string
	token   string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

type webhookPayload struct {
	usecase.Notification
	Source  string `json:"source"`
	TraceID string `json:"trace_id,omitempty"`
}

func NewWebhookNotifier(cfg WebhookConfig, logger *logging.Logger) (*WebhookNotifier, error) {
	target, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid NOTIFY_WEBHOOK_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WebhookNotifier{
		client: &fasthttp.Client{
			Name:                "pickup-football-notifier",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 30 * time.Second,
		},
		url:     target,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		logger:  logger.Named("webhook"),
		breaker: resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}, nil
}

func (n *WebhookNotifier) Notify(ctx context.Context, item usecase.Notification) error {
	payload := webhookPayload{Source: "pickup-football", Notification: item}
	if spanContext := trace.SpanContextFromContext(ctx); spanContext.IsValid() {
		payload.TraceID = spanContext.TraceID().String()
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal notification")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notify.webhook_url", n.url),
			attribute.String("notify.level", string(item.Level)),
			attribute.String("notify.game_id", item.GameID),
		)
	}

	err = n.breaker.Do(func() error {
		return n.post(ctx, body)
	}, isCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		n.logger.WarnContext(ctx, "webhook circuit breaker rejected notification", "state", n.breaker.State(), "game_id", item.GameID)
		return fmt.Errorf("webhook is temporarily unavailable: %w", err)
	}
	return err
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(n.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(body)
	req.SetBodyRaw(buf.B)

	timeout := n.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return fmt.Errorf("%w: %v", errWebhookTransient, context.DeadlineExceeded)
	}

	if err := n.client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("%w: post webhook url=%s: %v", errWebhookTransient, n.url, err)
	}

	status := resp.StatusCode()
	if status/100 == 2 {
		return nil
	}
	raw := truncateForLog(strings.TrimSpace(string(resp.Body())), 512)
	if isRetryableStatus(status) {
		return fmt.Errorf("%w: post webhook status=%d body=%s", errWebhookTransient, status, raw)
	}
	return fmt.Errorf("post webhook status=%d body=%s", status, raw)
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return candidate, nil
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errWebhookTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
