package services

import (
	"context"
	"net/url"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/cache"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/filter"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/ports"
)

type BinderService struct {
	repo   ports.Repository
	cache  cache.Service
	views  *ViewCounter
	enrich *Enricher
}

func NewBinderService(repo ports.Repository, c cache.Service, views *ViewCounter, enrich *Enricher) *BinderService {
	return &BinderService{repo: repo, cache: c, views: views, enrich: enrich}
}

func (s *BinderService) ListBinders(ctx context.Context, query url.Values) ([]domain.Binder, error) {
	req, err := filter.Parse(query, filter.BinderSchema)
	if err != nil {
		return nil, err
	}

	binders, err := s.repo.ListBinders(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.enrich.Binders(ctx, binders); err != nil {
		return nil, err
	}
	return binders, nil
}

func (s *BinderService) TopBinders(ctx context.Context) ([]domain.Binder, error) {
	binders, err := s.repo.TopBinders(ctx, TopLimit)
	if err != nil {
		return nil, err
	}
	if err := s.enrich.Binders(ctx, binders); err != nil {
		return nil, err
	}
	return binders, nil
}

// RandomBinder samples one binder and counts a view on it.
func (s *BinderService) RandomBinder(ctx context.Context) (*domain.Binder, error) {
	binder, err := s.repo.RandomBinder(ctx)
	if err != nil {
		return nil, err
	}
	if s.views.Record(ctx, "binder", binder.ID, s.repo.IncrementBinderViews) {
		binder.Views++
	}
	return s.enrichOne(ctx, binder)
}

// GetBinder serves a fresh cached snapshot when there is one, otherwise loads, counts and caches.
func (s *BinderService) GetBinder(ctx context.Context, id int64) (*domain.Binder, error) {
	if binder, ok := cache.Get[domain.Binder](ctx, s.cache, cache.KindBinder, id); ok {
		return &binder, nil
	}

	binder, err := s.repo.GetBinder(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.views.Record(ctx, "binder", id, s.repo.IncrementBinderViews) {
		binder.Views++
	}
	binder, err = s.enrichOne(ctx, binder)
	if err != nil {
		return nil, err
	}

	cache.Put(ctx, s.cache, cache.KindBinder, id, *binder)
	return binder, nil
}

// ListBinderCards returns the filtered cards of an existing binder.
func (s *BinderService) ListBinderCards(ctx context.Context, id int64, query url.Values) ([]domain.BinderCard, error) {
	req, err := filter.Parse(query, filter.BinderCardSchema)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetBinder(ctx, id); err != nil {
		return nil, err
	}

	cards, err := s.repo.ListBinderCards(ctx, id, req)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		s.enrich.Card(&cards[i].Card)
	}
	return cards, nil
}

// CreateBinder stores a new binder owned by caller, or by no one when caller is empty.
// Unknown tag titles are skipped and only the first MaxBinderTags known ones are kept.
func (s *BinderService) CreateBinder(ctx context.Context, caller string, in domain.BinderInput) (*domain.Binder, error) {
	binder := &domain.Binder{
		Name:        in.Name,
		Description: in.Description,
		ThumbnailID: in.ThumbnailID,
	}
	if caller != "" {
		binder.OwnerID = &caller
	}

	if err := s.repo.CreateBinder(ctx, binder, in.Tags); err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, binder)
}

// UpdateBinder replaces the fields and tag set of a binder the caller owns.
func (s *BinderService) UpdateBinder(ctx context.Context, caller string, id int64, in domain.BinderInput) (*domain.Binder, error) {
	binder, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	binder.Name = in.Name
	binder.Description = in.Description
	binder.ThumbnailID = in.ThumbnailID

	if err := s.repo.UpdateBinder(ctx, binder, in.Tags); err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, binder)
}

// DeleteBinder removes a binder the caller owns together with its tag links and card placements.
func (s *BinderService) DeleteBinder(ctx context.Context, caller string, id int64) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.DeleteBinder(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, cache.Key(cache.KindBinder, id))
	return nil
}

func (s *BinderService) AttachTag(ctx context.Context, caller string, binderID, tagID int64) error {
	if _, err := s.owned(ctx, caller, binderID); err != nil {
		return err
	}
	return s.repo.AttachTag(ctx, binderID, tagID)
}

func (s *BinderService) DetachTag(ctx context.Context, caller string, binderID, tagID int64) error {
	if _, err := s.owned(ctx, caller, binderID); err != nil {
		return err
	}
	return s.repo.DetachTag(ctx, binderID, tagID)
}

// owned loads a binder and checks caller owns it before any write is attempted.
func (s *BinderService) owned(ctx context.Context, caller string, id int64) (*domain.Binder, error) {
	if caller == "" {
		return nil, domain.Unauthorized("login required")
	}
	binder, err := s.repo.GetBinder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !binder.OwnedBy(caller) {
		return nil, domain.Forbidden("you do not own binder %d", id)
	}
	return binder, nil
}

func (s *BinderService) enrichOne(ctx context.Context, binder *domain.Binder) (*domain.Binder, error) {
	one := []domain.Binder{*binder}
	if err := s.enrich.Binders(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}
