package handler

import (
	"net/http"
	"strconv"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/services"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/ports"
)

type CardHandler struct {
	responder
	service ports.CardService
}

func NewCardHandler(r responder, service ports.CardService) *CardHandler {
	return &CardHandler{responder: r, service: service}
}

// MoveCardsRequest payload
type MoveCardsRequest struct {
	Cards []MoveCard `json:"cards" validate:"required,min=1,max=500,dive"`
}

type MoveCard struct {
	CardID   int64  `json:"cardId" validate:"gt=0"`
	BinderID int64  `json:"binderId" validate:"gt=0"`
	Position int    `json:"position" validate:"gte=0"`
	Rarity   string `json:"rarity" validate:"max=64"`
	Edition  string `json:"edition" validate:"max=64"`
}

// List cards, paginated
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListCards(r.Context(), r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *CardHandler) Top(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.TopCards(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) Random(w http.ResponseWriter, r *http.Request) {
	n := services.DefaultRandomCards
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, domain.Validation("limit must be an integer"))
			return
		}
		n = parsed
	}

	cards, err := h.service.RandomCards(r.Context(), n)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	card, err := h.service.GetCard(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Move places cards in binders, updating the position of pairs that already exist
func (h *CardHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveCardsRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	moves := make([]domain.CardInBinder, 0, len(req.Cards))
	for _, c := range req.Cards {
		moves = append(moves, domain.CardInBinder{
			CardID:   c.CardID,
			BinderID: c.BinderID,
			Position: c.Position,
			Rarity:   c.Rarity,
			Edition:  c.Edition,
		})
	}

	if err := h.service.MoveCards(r.Context(), CallerFrom(r.Context()), moves); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Card(s) moved successfully"})
}
