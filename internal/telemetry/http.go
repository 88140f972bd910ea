package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
)

// Middleware gives each request its own Sentry hub tagged with the request
// id. A panic is reported and then re-raised so the outer recovery
// middleware still writes the JSON 500.
func Middleware(requestID func(ctx context.Context) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetRequest(r)
				if requestID != nil {
					scope.SetTag("request_id", requestID(r.Context()))
				}
			})
			ctx := sentry.SetHubOnContext(r.Context(), hub)

			defer func() {
				if v := recover(); v != nil {
					if v != http.ErrAbortHandler {
						hub.RecoverWithContext(ctx, v)
						hub.Flush(flushTimeout)
					}
					panic(v)
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetUser attaches the signed-in admin to the request's hub. It is a no-op
// outside Middleware.
func SetUser(ctx context.Context, id, email string) {
	if !IsEnabled() {
		return
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetUser(sentry.User{ID: id, Email: email})
		})
	}
}

// HTTPTransport records outgoing calls, such as those to Stripe, as spans
// of the calling request.
type HTTPTransport struct {
	Transport http.RoundTripper
}

func (t *HTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !IsEnabled() {
		return t.Transport.RoundTrip(req)
	}

	span := sentry.StartSpan(req.Context(), "http.client")
	span.Description = fmt.Sprintf("%s %s", req.Method, req.URL.Host)
	defer span.Finish()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
	} else {
		span.SetData("http.status_code", resp.StatusCode)
	}

	return resp, err
}
