package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/validation"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// responder turns service results into JSON responses.
type responder struct {
	logger     *slog.Logger
	validator  *validation.Validator
	production bool
}

// fail writes err as {error}. Internal failures are logged in full and, in production, hidden.
func (h *responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) && derr.Code != domain.CodeInternal {
		writeJSON(w, derr.Code.HTTPStatus(), errorResponse{Error: derr.Message})
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	msg := "internal server error"
	if !h.production {
		msg = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msg})
}

// decode reads a JSON body into dst and validates it.
func (h *responder) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Validation("invalid request body")
	}
	return h.validator.Validate(dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation("invalid %s", name)
	}
	return id, nil
}
