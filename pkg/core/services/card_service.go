package services

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/cache"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/filter"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/ports"
)

const (
	TopLimit           = 20
	DefaultRandomCards = 1
	MaxRandomCards     = 50
)

type CardService struct {
	repo   ports.Repository
	cache  cache.Service
	views  *ViewCounter
	enrich *Enricher
	urls   URLs
}

func NewCardService(repo ports.Repository, c cache.Service, views *ViewCounter, enrich *Enricher, urls URLs) *CardService {
	return &CardService{repo: repo, cache: c, views: views, enrich: enrich, urls: urls}
}

// ListCards returns one filtered page of cards.
func (s *CardService) ListCards(ctx context.Context, query url.Values) (*domain.Page[domain.Card], error) {
	req, err := filter.Parse(query, filter.CardSchema)
	if err != nil {
		return nil, err
	}

	cards, total, err := s.repo.ListCards(ctx, req)
	if err != nil {
		return nil, err
	}
	s.enrich.Cards(cards)

	return &domain.Page[domain.Card]{
		Results:    cards,
		Pagination: filter.Paginate(total, req.Limit, req.Offset),
	}, nil
}

func (s *CardService) TopCards(ctx context.Context) ([]domain.Card, error) {
	cards, err := s.repo.TopCards(ctx, TopLimit)
	if err != nil {
		return nil, err
	}
	s.enrich.Cards(cards)
	return cards, nil
}

// RandomCards samples n cards and counts a view on each.
func (s *CardService) RandomCards(ctx context.Context, n int) ([]domain.Card, error) {
	if n < 1 || n > MaxRandomCards {
		return nil, domain.Validation("limit must be between 1 and %d", MaxRandomCards)
	}

	cards, err := s.repo.RandomCards(ctx, n)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	results := s.views.RecordAll(ctx, "card", ids, s.repo.IncrementCardViews)

	for i := range cards {
		if results[i].Err == nil {
			cards[i].Views++
		}
		cards[i].URL = s.urls.cardURL(cards[i].ID)
	}
	s.enrich.Cards(cards)
	return cards, nil
}

// GetCard serves a fresh cached snapshot when there is one. Otherwise it loads the card,
// counts the view and caches the enriched result.
func (s *CardService) GetCard(ctx context.Context, id int64) (*domain.Card, error) {
	if card, ok := cache.Get[domain.Card](ctx, s.cache, cache.KindCard, id); ok {
		return &card, nil
	}

	card, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.views.Record(ctx, "card", id, s.repo.IncrementCardViews) {
		card.Views++
	}
	s.enrich.Card(card)

	cache.Put(ctx, s.cache, cache.KindCard, id, *card)
	return card, nil
}

// MoveCards upserts each placement concurrently. The caller must own every target binder;
// the first failed upsert fails the whole request.
func (s *CardService) MoveCards(ctx context.Context, caller string, moves []domain.CardInBinder) error {
	if caller == "" {
		return domain.Unauthorized("login required")
	}
	if len(moves) == 0 {
		return domain.Validation("no cards to move")
	}

	checked := make(map[int64]struct{})
	for _, m := range moves {
		if _, ok := checked[m.BinderID]; ok {
			continue
		}
		binder, err := s.repo.GetBinder(ctx, m.BinderID)
		if err != nil {
			return err
		}
		if !binder.OwnedBy(caller) {
			return domain.Forbidden("you do not own binder %d", m.BinderID)
		}
		checked[m.BinderID] = struct{}{}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, m := range moves {
		g.Go(func() error {
			return s.repo.UpsertCardInBinder(gctx, &m)
		})
	}
	return g.Wait()
}
