package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/config"
)

const testSecret = "testservlet"

func generateTestToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newTestMiddleware() *Middleware {
	return NewMiddleware(&config.Config{JWTSecret: testSecret}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAuthenticate(t *testing.T) {
	mw := newTestMiddleware()

	tests := []struct {
		name           string
		header         string
		cookieValue    string
		expectedStatus int
		expectedCaller string
	}{
		{
			name:           "No Token",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Valid Bearer",
			header:         "Bearer " + generateTestToken(t, testSecret, "auth0|alice", time.Minute),
			expectedStatus: http.StatusOK,
			expectedCaller: "auth0|alice",
		},
		{
			name:           "Valid Cookie",
			cookieValue:    generateTestToken(t, testSecret, "auth0|bob", time.Minute),
			expectedStatus: http.StatusOK,
			expectedCaller: "auth0|bob",
		},
		{
			name:           "Header Wins Over Cookie",
			header:         "Bearer " + generateTestToken(t, testSecret, "auth0|alice", time.Minute),
			cookieValue:    generateTestToken(t, testSecret, "auth0|bob", time.Minute),
			expectedStatus: http.StatusOK,
			expectedCaller: "auth0|alice",
		},
		{
			name:           "Invalid Cookie",
			cookieValue:    "invalid",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Secret",
			header:         "Bearer " + generateTestToken(t, "other", "auth0|alice", time.Minute),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired",
			header:         "Bearer " + generateTestToken(t, testSecret, "auth0|alice", -time.Minute),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Subject",
			header:         "Bearer " + generateTestToken(t, testSecret, "", time.Minute),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cards", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: AuthCookie, Value: tt.cookieValue})
			}

			var caller string
			rr := httptest.NewRecorder()
			handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				caller = CallerFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			}))
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedCaller, caller)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	mw := newTestMiddleware()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tags", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/tags", nil)
	req = req.WithContext(WithCaller(req.Context(), "auth0|alice"))
	rr = httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	mw := NewMiddleware(&config.Config{JWTSecret: testSecret}, slog.New(slog.NewTextHandler(&buf, nil)))

	handler := mw.RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "card not found"})
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cards/9?x=1", nil))

	line := buf.String()
	assert.Contains(t, line, "level=WARN")
	assert.Contains(t, line, "path=/cards/9")
	assert.Contains(t, line, `query="x=1"`)
	assert.Contains(t, line, "status=404")
}

func TestRequestLogger_Caller(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCaller string
	}{
		{
			name:       "authenticated",
			token:      generateTestToken(t, testSecret, "auth0|alice", time.Hour),
			wantStatus: http.StatusOK,
			wantCaller: "caller=auth0|alice",
		},
		{
			name:       "anonymous",
			wantStatus: http.StatusOK,
		},
		{
			name:       "rejected token",
			token:      "garbage",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mw := NewMiddleware(&config.Config{JWTSecret: testSecret}, slog.New(slog.NewTextHandler(&buf, nil)))
			handler := mw.RequestLogger(mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			req := httptest.NewRequest(http.MethodGet, "/me/binders", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			line := buf.String()
			assert.Contains(t, line, "status="+strconv.Itoa(tt.wantStatus))
			if tt.wantCaller != "" {
				assert.Contains(t, line, tt.wantCaller)
			} else {
				assert.NotContains(t, line, "caller=")
			}
		})
	}
}
