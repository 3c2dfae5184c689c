package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/ports"
)

// URLs are the public bases used to build links in responses.
type URLs struct {
	Site         string
	CardImages   string
	BinderImages string
}

func (u URLs) cardURL(id int64) string {
	return fmt.Sprintf("%s/cards/%d", strings.TrimRight(u.Site, "/"), id)
}

func (u URLs) binderImage(key string) string {
	return strings.TrimRight(u.BinderImages, "/") + "/" + key
}

// Enricher expands stored references into the shapes the API returns.
type Enricher struct {
	repo ports.CatalogRepository
	urls URLs
}

func NewEnricher(repo ports.CatalogRepository, urls URLs) *Enricher {
	return &Enricher{repo: repo, urls: urls}
}

// CardImages maps each stored image id, in order, to its normal and small URLs.
func (e *Enricher) CardImages(ids []int64) []domain.CardImage {
	base := strings.TrimRight(e.urls.CardImages, "/")
	images := make([]domain.CardImage, 0, len(ids))
	for _, id := range ids {
		images = append(images, domain.CardImage{
			ID:     id,
			Normal: fmt.Sprintf("%s/normal/%d.jpg", base, id),
			Small:  fmt.Sprintf("%s/small/%d.jpg", base, id),
		})
	}
	return images
}

func (e *Enricher) Card(c *domain.Card) {
	c.Images = e.CardImages(c.ImageIDs)
}

func (e *Enricher) Cards(cards []domain.Card) {
	for i := range cards {
		e.Card(&cards[i])
	}
}

// Binders attaches tag titles and resolves thumbnails for every binder in place, using one
// lookup per relation. A thumbnail id with no image row is kept as a bare id.
func (e *Enricher) Binders(ctx context.Context, binders []domain.Binder) error {
	if len(binders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(binders))
	var thumbIDs []int64
	for _, b := range binders {
		ids = append(ids, b.ID)
		if b.ThumbnailID != nil {
			thumbIDs = append(thumbIDs, *b.ThumbnailID)
		}
	}

	tags, err := e.repo.TagsForBinders(ctx, ids)
	if err != nil {
		return err
	}
	images, err := e.repo.BinderImagesByID(ctx, thumbIDs)
	if err != nil {
		return err
	}

	for i := range binders {
		b := &binders[i]
		b.Tags = tags[b.ID]
		if b.Tags == nil {
			b.Tags = []string{}
		}
		e.thumbnail(b, images)
	}
	return nil
}

func (e *Enricher) thumbnail(b *domain.Binder, images map[int64]domain.BinderImage) {
	if b.ThumbnailID == nil {
		b.Thumbnail = nil
		return
	}
	t := &domain.Thumbnail{ID: *b.ThumbnailID}
	if img, ok := images[*b.ThumbnailID]; ok {
		t.URL = e.urls.binderImage(img.S3Key)
	}
	b.Thumbnail = t
}

// Thumbnails sets the public URL of each binder image.
func (e *Enricher) Thumbnails(images []domain.BinderImage) {
	for i := range images {
		images[i].URL = e.urls.binderImage(images[i].S3Key)
	}
}
