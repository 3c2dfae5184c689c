package domain

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// MaxBinderTags caps how many tags a binder keeps. Extra tags are dropped, not rejected.
const MaxBinderTags = 10

// Binder is a user-curated collection of cards.
type Binder struct {
	bun.BaseModel `bun:"table:binders,alias:b" json:"-"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description"`
	ThumbnailID *int64    `bun:"thumbnail" json:"-"`
	OwnerID     *string   `bun:"owner_id" json:"owner_id"`
	Views       int64     `bun:"views,notnull" json:"views"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Tags      []string   `bun:"-" json:"tags"`
	Thumbnail *Thumbnail `bun:"-" json:"thumbnail"`
}

// OwnedBy reports whether caller owns the binder. Anonymous binders have no owner.
func (b *Binder) OwnedBy(caller string) bool {
	return caller != "" && b.OwnerID != nil && *b.OwnerID == caller
}

// Thumbnail is a binder's cover image. An unresolved thumbnail is written as its bare id.
type Thumbnail struct {
	ID  int64
	URL string
}

func (t Thumbnail) MarshalJSON() ([]byte, error) {
	if t.URL == "" {
		return json.Marshal(t.ID)
	}
	return json.Marshal(struct {
		ID  int64  `json:"id"`
		URL string `json:"url"`
	}{t.ID, t.URL})
}

// BinderTag links a binder to a tag.
type BinderTag struct {
	bun.BaseModel `bun:"table:binder_tags,alias:bt" json:"-"`

	BinderID int64 `bun:"binder_id,pk" json:"binder_id"`
	TagID    int64 `bun:"tag_id,pk" json:"tag_id"`
}

// BinderInput carries the writable fields of a binder.
type BinderInput struct {
	Name        string
	Description string
	ThumbnailID *int64
	Tags        []string
}
