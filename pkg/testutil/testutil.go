// Package testutil holds fixtures shared by store, service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
)

const (
	Alice = "auth0|alice"
	Bob   = "auth0|bob"
)

// Fixture ids.
const (
	DarkMagician     int64 = 1
	BlueEyes         int64 = 2
	SheepToken       int64 = 3
	PotOfGreed       int64 = 4
	DarkMagicianGirl int64 = 5

	AliceBinder int64 = 1
	AnonBinder  int64 = 2
	BobBinder   int64 = 3

	DragonCover  int64 = 1
	MissingCover int64 = 99
)

const (
	TagCount         = 12
	DragonCoverS3Key = "dragon.png"
)

// NewStore opens a migrated in-memory SQLite store closed on cleanup.
func NewStore(t testing.TB) *sqlstore.Store {
	t.Helper()

	store, err := sqlstore.Open(":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// Seeded opens a store and loads the fixture catalog.
func Seeded(t testing.TB) *sqlstore.Store {
	t.Helper()
	store := NewStore(t)
	Seed(t, store)
	return store
}

func i64(v int64) *int64 { return &v }

func str(v string) *string { return &v }

// TagTitle is the title of fixture tag n, counting from 1.
func TagTitle(n int) string {
	return fmt.Sprintf("t%d", n)
}

// Seed loads the fixture catalog:
//
//   - five cards, one of them a Token
//   - tags t1..t12
//   - one binder cover image
//   - binders owned by Alice, by no one, and by Bob
func Seed(t testing.TB, store *sqlstore.Store) {
	t.Helper()
	ctx := context.Background()
	db := store.DB()

	cards := []domain.Card{
		{ID: DarkMagician, Name: "Dark Magician", Type: "Normal Monster", FrameType: "normal", Race: "Spellcaster",
			Attribute: "DARK", Atk: i64(2500), Def: i64(2100), Level: i64(7), ImageIDs: []int64{46986414, 46986415}, Views: 10},
		{ID: BlueEyes, Name: "Blue-Eyes White Dragon", Type: "Normal Monster", FrameType: "normal", Race: "Dragon",
			Attribute: "LIGHT", Atk: i64(3000), Def: i64(2500), Level: i64(8), ImageIDs: []int64{89631139}, Views: 50},
		{ID: SheepToken, Name: "Sheep Token", Type: domain.TokenType, FrameType: "token", Race: "Beast",
			Attribute: "EARTH", Atk: i64(0), Def: i64(0), Level: i64(1), ImageIDs: []int64{73915052}, Views: 1000},
		{ID: PotOfGreed, Name: "Pot of Greed", Type: "Spell Card", FrameType: "spell", Race: "Normal",
			ImageIDs: []int64{55144522}, Views: 5},
		{ID: DarkMagicianGirl, Name: "Dark Magician Girl", Type: "Effect Monster", FrameType: "effect", Race: "Spellcaster",
			Attribute: "DARK", Atk: i64(2000), Def: i64(1700), Level: i64(6), ImageIDs: []int64{38033121}, Views: 20},
	}
	_, err := db.NewInsert().Model(&cards).Exec(ctx)
	require.NoError(t, err)

	tags := make([]domain.Tag, 0, TagCount)
	for n := 1; n <= TagCount; n++ {
		tags = append(tags, domain.Tag{ID: int64(n), Title: TagTitle(n)})
	}
	_, err = db.NewInsert().Model(&tags).Exec(ctx)
	require.NoError(t, err)

	images := []domain.BinderImage{{ID: DragonCover, S3Key: DragonCoverS3Key, Artist: "Kazuki"}}
	_, err = db.NewInsert().Model(&images).Exec(ctx)
	require.NoError(t, err)

	now := time.Now().UTC()
	binders := []domain.Binder{
		{ID: AliceBinder, Name: "Dragons", Description: "all the dragons", ThumbnailID: i64(DragonCover),
			OwnerID: str(Alice), Views: 5, CreatedAt: now, UpdatedAt: now},
		{ID: AnonBinder, Name: "Spells", ThumbnailID: i64(MissingCover), Views: 2, CreatedAt: now, UpdatedAt: now},
		{ID: BobBinder, Name: "Bob's deck", OwnerID: str(Bob), CreatedAt: now, UpdatedAt: now},
	}
	_, err = db.NewInsert().Model(&binders).Exec(ctx)
	require.NoError(t, err)

	links := []domain.BinderTag{
		{BinderID: AliceBinder, TagID: 1},
		{BinderID: AliceBinder, TagID: 2},
		{BinderID: AnonBinder, TagID: 2},
	}
	_, err = db.NewInsert().Model(&links).Exec(ctx)
	require.NoError(t, err)

	placements := []domain.CardInBinder{
		{CardID: DarkMagician, BinderID: AliceBinder, Rarity: "Ultra Rare", Edition: "1st", Position: 2},
		{CardID: BlueEyes, BinderID: AliceBinder, Rarity: "Secret Rare", Edition: "Unlimited", Position: 1},
		{CardID: PotOfGreed, BinderID: AnonBinder, Rarity: "Common", Position: 1},
	}
	_, err = db.NewInsert().Model(&placements).Exec(ctx)
	require.NoError(t, err)
}

// SignToken issues an HS256 token for subject, valid for five minutes.
func SignToken(t testing.TB, secret, subject string) string {
	t.Helper()

	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
