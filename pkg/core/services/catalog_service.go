package services

import (
	"context"
	"strings"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/ports"
)

type CatalogService struct {
	repo   ports.Repository
	enrich *Enricher
}

func NewCatalogService(repo ports.Repository, enrich *Enricher) *CatalogService {
	return &CatalogService{repo: repo, enrich: enrich}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.repo.ListTags(ctx)
}

// ListThumbnails returns the stock binder covers with their public URLs.
func (s *CatalogService) ListThumbnails(ctx context.Context) ([]domain.BinderImage, error) {
	images, err := s.repo.ListBinderImages(ctx)
	if err != nil {
		return nil, err
	}
	s.enrich.Thumbnails(images)
	return images, nil
}

// RegisterUser upserts the account of the calling identity.
func (s *CatalogService) RegisterUser(ctx context.Context, caller, username string) (*domain.User, error) {
	if caller == "" {
		return nil, domain.Unauthorized("login required")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.Validation("username is required")
	}
	return s.repo.RegisterUser(ctx, caller, username)
}

func (s *CatalogService) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
