package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/jokads/JokaTech/internal/auth"
	"github.com/jokads/JokaTech/internal/cookie"
)

const (
	// CSRFCookieName is readable by scripts so the client can echo it.
	CSRFCookieName = "jokatech_csrf"

	// CSRFHeaderName carries the echoed token on unsafe requests.
	CSRFHeaderName = "X-CSRF-Token"

	csrfMaxAge = 24 * 60 * 60
)

// CSRFConfig configures double-submit CSRF protection.
type CSRFConfig struct {
	CookieConfig *cookie.Config

	// SkipPaths bypass validation; the Stripe webhook authenticates by
	// signature instead.
	SkipPaths []string
}

func DefaultCSRFConfig(cookieConfig *cookie.Config) CSRFConfig {
	return CSRFConfig{
		CookieConfig: cookieConfig,
		SkipPaths:    []string{"/webhooks/"},
	}
}

// CSRF issues a token cookie on first contact and requires unsafe methods
// to send the same value in X-CSRF-Token.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.CookieConfig == nil {
		panic("csrf: CookieConfig is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skipPath := range cfg.SkipPaths {
				if matchesPathPrefix(r.URL.Path, skipPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token := cookie.Get(r, CSRFCookieName)
			if !auth.ValidToken(token) {
				var err error
				token, err = auth.NewToken()
				if err != nil {
					respondInternalError(w, r, err)
					return
				}
				setCSRFCookie(w, token, cfg.CookieConfig)
				// A token minted on this request cannot have been echoed.
				if !isSafeMethod(r.Method) {
					respondForbidden(w, r)
					return
				}
			}

			if !isSafeMethod(r.Method) && !validateCSRFToken(token, r.Header.Get(CSRFHeaderName)) {
				respondForbidden(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setCSRFCookie(w http.ResponseWriter, token string, c *cookie.Config) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   csrfMaxAge,
		Secure:   c.Secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

func validateCSRFToken(cookieToken, submittedToken string) bool {
	if cookieToken == "" || submittedToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submittedToken)) == 1
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions ||
		method == http.MethodTrace
}

// matchesPathPrefix requires a path boundary after skipPath, so
// "/webhooks" does not match "/webhooks-evil".
func matchesPathPrefix(requestPath, skipPath string) bool {
	if !strings.HasPrefix(requestPath, skipPath) {
		return false
	}
	if strings.HasSuffix(skipPath, "/") || len(requestPath) == len(skipPath) {
		return true
	}
	return requestPath[len(skipPath)] == '/'
}
