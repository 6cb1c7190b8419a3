package gateway

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/learnhub/learnhub-client/internal/api/metrics"
	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/ports"
	"github.com/learnhub/learnhub-client/pkg/logger"
)

// HeaderRequestID carries the per-request correlation id to the backend.
const HeaderRequestID = "X-Request-ID"

const tracerName = "github.com/learnhub/learnhub-client/internal/infrastructure/gateway"

// Transport is the single choke point for backend traffic. It injects the
// session's bearer token into every request and runs the reauth-failure
// protocol when the backend rejects that token.
type Transport struct {
	base   http.RoundTripper
	tokens ports.TokenAuthority
	events *Events
	exempt ExemptSet
	log    zerolog.Logger
	tracer trace.Tracer
	now    func() time.Time

	reauth singleflight.Group
}

// Option customises a Transport.
type Option func(*Transport)

// WithBase replaces http.DefaultTransport as the underlying round tripper.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) { t.base = rt }
}

// WithExempt replaces DefaultExempt.
func WithExempt(paths ...string) Option {
	return func(t *Transport) { t.exempt = ExemptSet(paths) }
}

func NewTransport(tokens ports.TokenAuthority, events *Events, log zerolog.Logger, opts ...Option) *Transport {
	t := &Transport{
		base:   http.DefaultTransport,
		tokens: tokens,
		events: events,
		exempt: DefaultExempt,
		log:    log,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Exempt returns the exempt set in use so the JSON client classifies errors
// the same way.
func (t *Transport) Exempt() ExemptSet { return t.exempt }

// RoundTrip implements http.RoundTripper. The caller's request is never
// modified, and the response is returned untouched whatever the protocol did.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), "backend "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	token := t.tokens.Token()

	out := req.Clone(ctx)
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	out.Header.Set("Content-Type", "application/json")
	requestID := out.Header.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
		out.Header.Set(HeaderRequestID, requestID)
	}

	start := t.now()
	resp, err := t.base.RoundTrip(out)
	metrics.GatewayRequestDuration.WithLabelValues(req.Method).Observe(t.now().Sub(start).Seconds())
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "no response")
		return nil, err
	}
	metrics.GatewayRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized && !t.exempt.Match(req.URL.Path) {
		t.onSessionRejected(ctx, token, domain.SessionInvalidated{
			Method:    req.Method,
			Path:      req.URL.Path,
			Status:    resp.StatusCode,
			RequestID: requestID,
		})
	}

	return resp, nil
}

// onSessionRejected runs the reauth-failure protocol for the token the
// request carried. Concurrent rejections of the same token share one run.
func (t *Transport) onSessionRejected(ctx context.Context, token string, evt domain.SessionInvalidated) {
	ctx = context.WithoutCancel(ctx)

	_, _, _ = t.reauth.Do("reauth:"+token, func() (any, error) {
		loggedOut, err := t.tokens.InvalidateToken(ctx, token)
		switch {
		case err != nil:
			metrics.ReauthTotal.WithLabelValues("error").Inc()
			t.log.Error().Err(err).Str("path", evt.Path).Msg("session rejected, credential store not fully cleared")
		case loggedOut:
			metrics.ReauthTotal.WithLabelValues("logged_out").Inc()
		default:
			metrics.ReauthTotal.WithLabelValues("stale").Inc()
			t.log.Debug().
				Str("path", evt.Path).
				Str("token", logger.Mask(token)).
				Msg("401 for a replaced token, session kept")
			return nil, nil
		}

		t.log.Warn().
			Str("method", evt.Method).
			Str("path", evt.Path).
			Str("request_id", evt.RequestID).
			Str("token", logger.Mask(token)).
			Msg("session rejected by backend, logged out")

		evt.At = t.now()
		t.events.Publish(evt)
		return nil, nil
	})
}
