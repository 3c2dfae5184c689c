package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/config"
)

// AuthCookie carries the session token for browser clients.
const AuthCookie = "auth_token"

type ctxKey int

const (
	callerKey ctxKey = iota
	logCallerKey
)

// WithCaller stores the caller identity in ctx and reports it to an enclosing RequestLogger.
func WithCaller(ctx context.Context, caller string) context.Context {
	if slot, ok := ctx.Value(logCallerKey).(*string); ok {
		*slot = caller
	}
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom returns the authenticated caller identity, or "" for anonymous requests.
func CallerFrom(ctx context.Context) string {
	caller, _ := ctx.Value(callerKey).(string)
	return caller
}

type Middleware struct {
	jwtSecret []byte
	logger    *slog.Logger
}

func NewMiddleware(cfg *config.Config, logger *slog.Logger) *Middleware {
	return &Middleware{
		jwtSecret: []byte(cfg.JWTSecret),
		logger:    logger,
	}
}

// Authenticate resolves the caller from a bearer token or the auth cookie. Requests without a
// token continue anonymously; a token that fails verification is rejected.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := tokenFrom(r)
		if tokenString == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return m.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid || claims.Subject == "" {
			m.logger.DebugContext(r.Context(), "rejected token", "error", err)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), claims.Subject)))
	})
}

// RequireAuth rejects anonymous requests.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerFrom(r.Context()) == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request, at error for 5xx and warn for 4xx.
func (m *Middleware) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		// Authenticate runs inside this handler, so the caller comes back through a slot.
		caller := new(string)
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), logCallerKey, caller)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if *caller != "" {
			attrs = append(attrs, "caller", *caller)
		}
		m.logger.Log(r.Context(), level, "request", attrs...)
	})
}

func tokenFrom(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(AuthCookie); err == nil {
		return cookie.Value
	}
	return ""
}
