package ports

import (
	"context"
	"net/url"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/filter"
)

// CardRepository defines storage operations for cards and their placement in binders
type CardRepository interface {
	ListCards(ctx context.Context, req filter.Request) ([]domain.Card, int64, error)
	TopCards(ctx context.Context, n int) ([]domain.Card, error)
	RandomCards(ctx context.Context, n int) ([]domain.Card, error)
	GetCard(ctx context.Context, id int64) (*domain.Card, error)
	IncrementCardViews(ctx context.Context, id int64) error
	UpsertCardInBinder(ctx context.Context, cib *domain.CardInBinder) error

	// Reference data, loaded out of band
	ImportCards(ctx context.Context, cards []domain.Card) (int, error)
	DumpCards(ctx context.Context) ([]domain.Card, error)
}

// BinderRepository defines storage operations for binders
type BinderRepository interface {
	ListBinders(ctx context.Context, req filter.Request) ([]domain.Binder, error)
	TopBinders(ctx context.Context, n int) ([]domain.Binder, error)
	RandomBinder(ctx context.Context) (*domain.Binder, error)
	GetBinder(ctx context.Context, id int64) (*domain.Binder, error)
	IncrementBinderViews(ctx context.Context, id int64) error
	ListBinderCards(ctx context.Context, binderID int64, req filter.Request) ([]domain.BinderCard, error)

	// Mutations; multi-table writes are transactional
	CreateBinder(ctx context.Context, b *domain.Binder, tags []string) error
	UpdateBinder(ctx context.Context, b *domain.Binder, tags []string) error
	DeleteBinder(ctx context.Context, id int64) error
	AttachTag(ctx context.Context, binderID, tagID int64) error
	DetachTag(ctx context.Context, binderID, tagID int64) error
}

// CatalogRepository defines storage operations for tags, binder images and users
type CatalogRepository interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	TagsForBinders(ctx context.Context, binderIDs []int64) (map[int64][]string, error)
	ListBinderImages(ctx context.Context) ([]domain.BinderImage, error)
	BinderImagesByID(ctx context.Context, ids []int64) (map[int64]domain.BinderImage, error)
	RegisterUser(ctx context.Context, authID, username string) (*domain.User, error)
}

// Repository is the full store
type Repository interface {
	CardRepository
	BinderRepository
	CatalogRepository
	Ping(ctx context.Context) error
}

// CardService defines the card read path and card moves
type CardService interface {
	ListCards(ctx context.Context, query url.Values) (*domain.Page[domain.Card], error)
	TopCards(ctx context.Context) ([]domain.Card, error)
	RandomCards(ctx context.Context, n int) ([]domain.Card, error)
	GetCard(ctx context.Context, id int64) (*domain.Card, error)
	MoveCards(ctx context.Context, caller string, moves []domain.CardInBinder) error
}

// BinderService defines the binder read path and owner-gated mutations
type BinderService interface {
	ListBinders(ctx context.Context, query url.Values) ([]domain.Binder, error)
	TopBinders(ctx context.Context) ([]domain.Binder, error)
	RandomBinder(ctx context.Context) (*domain.Binder, error)
	GetBinder(ctx context.Context, id int64) (*domain.Binder, error)
	ListBinderCards(ctx context.Context, id int64, query url.Values) ([]domain.BinderCard, error)

	CreateBinder(ctx context.Context, caller string, in domain.BinderInput) (*domain.Binder, error)
	UpdateBinder(ctx context.Context, caller string, id int64, in domain.BinderInput) (*domain.Binder, error)
	DeleteBinder(ctx context.Context, caller string, id int64) error
	AttachTag(ctx context.Context, caller string, binderID, tagID int64) error
	DetachTag(ctx context.Context, caller string, binderID, tagID int64) error
}

// CatalogService defines the remaining reference endpoints
type CatalogService interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	ListThumbnails(ctx context.Context) ([]domain.BinderImage, error)
	RegisterUser(ctx context.Context, caller, username string) (*domain.User, error)
	Health(ctx context.Context) error
}
