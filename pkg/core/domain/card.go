package domain

import "github.com/uptrace/bun"

// Card is a reference trading card. Rows are loaded out of band; reads only bump Views.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c" json:"-"`

	ID        int64   `bun:"id,pk" json:"id"`
	Name      string  `bun:"name,notnull" json:"name"`
	Type      string  `bun:"type" json:"type"`
	FrameType string  `bun:"frame_type" json:"frame_type"`
	Desc      string  `bun:"description" json:"desc"`
	Atk       *int64  `bun:"atk" json:"atk"`
	Def       *int64  `bun:"def" json:"def"`
	Level     *int64  `bun:"level" json:"level"`
	Scale     *int64  `bun:"scale" json:"scale,omitempty"`
	LinkVal   *int64  `bun:"linkval" json:"linkval,omitempty"`
	Race      string  `bun:"race" json:"race"`
	Attribute string  `bun:"attribute" json:"attribute"`
	Archetype string  `bun:"archetype" json:"archetype"`
	ImageIDs  []int64 `bun:"card_images" json:"-"`
	Views     int64   `bun:"views,notnull" json:"views"`

	// Populated by enrichment, never stored.
	Images []CardImage `bun:"-" json:"card_images"`
	URL    string      `bun:"-" json:"card_url,omitempty"`
}

// CardImage is one stored image id expanded to its public URLs.
type CardImage struct {
	ID     int64  `json:"id"`
	Normal string `json:"normal"`
	Small  string `json:"small"`
}

// TokenType marks cards excluded from top and random listings.
const TokenType = "Token"

// CardInBinder places a card in a binder. (CardID, BinderID) is unique.
type CardInBinder struct {
	bun.BaseModel `bun:"table:cards_in_binders,alias:cib" json:"-"`

	CardID   int64  `bun:"card_id,pk" json:"card_id"`
	BinderID int64  `bun:"binder_id,pk" json:"binder_id"`
	Rarity   string `bun:"rarity" json:"rarity"`
	Edition  string `bun:"edition" json:"edition"`
	Position int    `bun:"position,notnull" json:"position"`
}

// BinderCard is a card as it appears inside one binder.
type BinderCard struct {
	Card `bun:",extend"`

	Rarity   string `bun:"rarity" json:"rarity"`
	Edition  string `bun:"edition" json:"edition"`
	Position int    `bun:"position" json:"position"`
}
