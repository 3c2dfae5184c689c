package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/ports"
)

type BinderHandler struct {
	responder
	service ports.BinderService
}

func NewBinderHandler(r responder, service ports.BinderService) *BinderHandler {
	return &BinderHandler{responder: r, service: service}
}

// BinderRequest payload for create and update
type BinderRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Thumbnail   *int64   `json:"thumbnail" validate:"omitempty,gt=0"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required,max=64"`
}

func (req BinderRequest) input() domain.BinderInput {
	return domain.BinderInput{
		Name:        req.Name,
		Description: req.Description,
		ThumbnailID: req.Thumbnail,
		Tags:        req.Tags,
	}
}

func (h *BinderHandler) List(w http.ResponseWriter, r *http.Request) {
	binders, err := h.service.ListBinders(r.Context(), r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, binders)
}

func (h *BinderHandler) Top(w http.ResponseWriter, r *http.Request) {
	binders, err := h.service.TopBinders(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, binders)
}

func (h *BinderHandler) Random(w http.ResponseWriter, r *http.Request) {
	binder, err := h.service.RandomBinder(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, binder)
}

func (h *BinderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	binder, err := h.service.GetBinder(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, binder)
}

func (h *BinderHandler) Cards(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cards, err := h.service.ListBinderCards(r.Context(), id, r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// Create a binder; anonymous callers create unowned binders
func (h *BinderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BinderRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	binder, err := h.service.CreateBinder(r.Context(), CallerFrom(r.Context()), req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, binder)
}

func (h *BinderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req BinderRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	binder, err := h.service.UpdateBinder(r.Context(), CallerFrom(r.Context()), id, req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, binder)
}

func (h *BinderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.DeleteBinder(r.Context(), CallerFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Binder and all related references deleted"})
}

func (h *BinderHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	binderID, tagID, err := binderTagIDs(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.AttachTag(r.Context(), CallerFrom(r.Context()), binderID, tagID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Tag added to binder"})
}

func (h *BinderHandler) DetachTag(w http.ResponseWriter, r *http.Request) {
	binderID, tagID, err := binderTagIDs(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.DetachTag(r.Context(), CallerFrom(r.Context()), binderID, tagID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Tag removed from binder"})
}

func binderTagIDs(r *http.Request) (int64, int64, error) {
	binderID, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	tagID, err := pathID(r, "tagId")
	if err != nil {
		return 0, 0, err
	}
	return binderID, tagID, nil
}
