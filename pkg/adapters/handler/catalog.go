package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/ports"
)

type CatalogHandler struct {
	responder
	service ports.CatalogService
}

func NewCatalogHandler(r responder, service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{responder: r, service: service}
}

// RegisterUserRequest payload
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
}

type registerUserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

func (h *CatalogHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Health(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}

func (h *CatalogHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *CatalogHandler) Thumbnails(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.ListThumbnails(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, images)
}

func (h *CatalogHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), CallerFrom(r.Context()), req.Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerUserResponse{Message: "User registered successfully", User: user})
}
