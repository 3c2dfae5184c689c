package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Tag labels binders.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t" json:"-"`

	ID    int64  `bun:"id,pk,autoincrement" json:"id"`
	Title string `bun:"title,notnull,unique" json:"title"`
}

// BinderImage is a stock cover image stored in the asset bucket.
type BinderImage struct {
	bun.BaseModel `bun:"table:binder_images,alias:bi" json:"-"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	S3Key  string `bun:"s3_key,notnull" json:"s3_key"`
	Artist string `bun:"artist" json:"artist"`

	URL string `bun:"-" json:"url"`
}

// User is a registered account keyed by its identity-provider subject.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	AuthID    string    `bun:"auth_id,notnull,unique" json:"auth_id"`
	Username  string    `bun:"username,notnull" json:"username"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Pagination describes one page of a filtered listing.
type Pagination struct {
	TotalRecords int64 `json:"totalRecords"`
	TotalPages   int64 `json:"totalPages"`
	CurrentPage  int64 `json:"currentPage"`
	Limit        int   `json:"limit"`
	Offset       int   `json:"offset"`
}

// Page wraps a result page with its pagination metadata.
type Page[T any] struct {
	Results    []T        `json:"results"`
	Pagination Pagination `json:"pagination"`
}

// ViewResult records the outcome of one view-counter increment.
type ViewResult struct {
	ID  int64
	Err error
}
