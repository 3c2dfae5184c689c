package sqlstore

import (
	"context"
	"fmt"

	"github.com/uptrace/bun/dialect"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS cards (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT,
	frame_type TEXT,
	description TEXT,
	atk BIGINT,
	def BIGINT,
	level BIGINT,
	scale BIGINT,
	linkval BIGINT,
	race TEXT,
	attribute TEXT,
	archetype TEXT,
	card_images JSONB,
	views BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_cards_views ON cards(views);

CREATE TABLE IF NOT EXISTS binder_images (
	id BIGSERIAL PRIMARY KEY,
	s3_key TEXT NOT NULL,
	artist TEXT
);

CREATE TABLE IF NOT EXISTS binders (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	thumbnail BIGINT,
	owner_id TEXT,
	views BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_binders_owner ON binders(owner_id);
CREATE INDEX IF NOT EXISTS idx_binders_views ON binders(views);

CREATE TABLE IF NOT EXISTS tags (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS binder_tags (
	binder_id BIGINT NOT NULL REFERENCES binders(id),
	tag_id BIGINT NOT NULL REFERENCES tags(id),
	PRIMARY KEY (binder_id, tag_id)
);

CREATE TABLE IF NOT EXISTS cards_in_binders (
	card_id BIGINT NOT NULL REFERENCES cards(id),
	binder_id BIGINT NOT NULL REFERENCES binders(id),
	rarity TEXT,
	edition TEXT,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (card_id, binder_id)
);
CREATE INDEX IF NOT EXISTS idx_cards_in_binders_binder ON cards_in_binders(binder_id);

CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	auth_id TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cards (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT,
	frame_type TEXT,
	description TEXT,
	atk INTEGER,
	def INTEGER,
	level INTEGER,
	scale INTEGER,
	linkval INTEGER,
	race TEXT,
	attribute TEXT,
	archetype TEXT,
	card_images JSON,
	views INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_cards_views ON cards(views);

CREATE TABLE IF NOT EXISTS binder_images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	s3_key TEXT NOT NULL,
	artist TEXT
);

CREATE TABLE IF NOT EXISTS binders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	thumbnail INTEGER,
	owner_id TEXT,
	views INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_binders_owner ON binders(owner_id);
CREATE INDEX IF NOT EXISTS idx_binders_views ON binders(views);

CREATE TABLE IF NOT EXISTS tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS binder_tags (
	binder_id INTEGER NOT NULL,
	tag_id INTEGER NOT NULL,
	PRIMARY KEY (binder_id, tag_id),
	FOREIGN KEY(binder_id) REFERENCES binders(id),
	FOREIGN KEY(tag_id) REFERENCES tags(id)
);

CREATE TABLE IF NOT EXISTS cards_in_binders (
	card_id INTEGER NOT NULL,
	binder_id INTEGER NOT NULL,
	rarity TEXT,
	edition TEXT,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (card_id, binder_id),
	FOREIGN KEY(card_id) REFERENCES cards(id),
	FOREIGN KEY(binder_id) REFERENCES binders(id)
);
CREATE INDEX IF NOT EXISTS idx_cards_in_binders_binder ON cards_in_binders(binder_id);

CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	auth_id TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Migrate creates any missing tables for the connected dialect.
func (s *Store) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.db.Dialect().Name() == dialect.PG {
		schema = postgresSchema
	}

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
