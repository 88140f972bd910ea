// Package admin serves the back-office JSON API. Every route except login
// sits behind middleware.RequireAdmin.
package admin

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jokads/JokaTech/internal/cookie"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/middleware"
	"github.com/jokads/JokaTech/internal/service"
)

// AuthHandler handles admin login and logout.
type AuthHandler struct {
	auth    service.AdminAuthService
	cookies *cookie.Config
	logger  *slog.Logger
}

// NewAuthHandler creates a new admin auth handler
func NewAuthHandler(auth service.AdminAuthService, cookies *cookie.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		cookies: cookies,
		logger:  logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "admin.login", "Email and password are required"))
		return
	}

	sess, err := h.auth.Login(r.Context(), middleware.GetSessionID(r.Context()), email, req.Password)
	if err != nil {
		middleware.GetLogger(r.Context(), h.logger).Warn("admin login failed",
			"email", email,
			"ip", middleware.GetClientIP(r),
		)
		handler.ErrorResponse(w, r, err)
		return
	}

	h.cookies.SetSessionWithExpiry(w, cookie.AdminCookieName, sess.Token, sess.ExpiresAt)
	handler.JSON(w, http.StatusOK, sess)
}

// Logout handles POST /admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := cookie.Get(r, cookie.AdminCookieName)
	if token != "" {
		if err := h.auth.Logout(r.Context(), middleware.GetSessionID(r.Context()), token); err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
	}

	h.cookies.ClearSession(w, cookie.AdminCookieName)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /admin/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	if admin == nil {
		handler.UnauthorizedResponse(w, r)
		return
	}
	handler.JSON(w, http.StatusOK, admin)
}
