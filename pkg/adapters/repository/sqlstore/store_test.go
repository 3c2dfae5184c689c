package sqlstore_test

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/filter"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/testutil"
)

func parse(t *testing.T, q url.Values, s filter.Schema) filter.Request {
	t.Helper()
	req, err := filter.Parse(q, s)
	require.NoError(t, err)
	return req
}

func cardIDs(cards []domain.Card) []int64 {
	ids := make([]int64, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func binderIDs(binders []domain.Binder) []int64 {
	ids := make([]int64, 0, len(binders))
	for _, b := range binders {
		ids = append(ids, b.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestListCards(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	t.Run("count ignores paging", func(t *testing.T) {
		req := parse(t, url.Values{"limit": {"2"}, "offset": {"1"}, "order": {"id"}}, filter.CardSchema)
		cards, total, err := store.ListCards(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Equal(t, []int64{testutil.BlueEyes, testutil.SheepToken}, cardIDs(cards))
	})

	t.Run("count applies filters", func(t *testing.T) {
		req := parse(t, url.Values{"attribute": {"DARK"}, "order": {"atk"}, "sort": {"desc"}}, filter.CardSchema)
		cards, total, err := store.ListCards(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, []int64{testutil.DarkMagician, testutil.DarkMagicianGirl}, cardIDs(cards))
	})

	t.Run("integer equality", func(t *testing.T) {
		req := parse(t, url.Values{"level": {"8"}}, filter.CardSchema)
		cards, total, err := store.ListCards(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, cards, 1)
		assert.Equal(t, "Blue-Eyes White Dragon", cards[0].Name)
		assert.Equal(t, []int64{89631139}, cards[0].ImageIDs)
	})
}

func TestTopAndRandomCards_ExcludeTokens(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	top, err := store.TopCards(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, []int64{testutil.BlueEyes, testutil.DarkMagicianGirl, testutil.DarkMagician, testutil.PotOfGreed}, cardIDs(top))

	random, err := store.RandomCards(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, random, 4)
	assert.NotContains(t, cardIDs(random), testutil.SheepToken)
}

func TestGetCardAndIncrement(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	require.NoError(t, store.IncrementCardViews(ctx, testutil.DarkMagician))
	card, err := store.GetCard(ctx, testutil.DarkMagician)
	require.NoError(t, err)
	assert.Equal(t, int64(11), card.Views)

	_, err = store.GetCard(ctx, 404)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = store.IncrementCardViews(ctx, 404)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpsertCardInBinder_MoveTwice(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	first := &domain.CardInBinder{CardID: testutil.PotOfGreed, BinderID: testutil.AliceBinder, Position: 3}
	require.NoError(t, store.UpsertCardInBinder(ctx, first))

	second := &domain.CardInBinder{CardID: testutil.PotOfGreed, BinderID: testutil.AliceBinder, Position: 7}
	require.NoError(t, store.UpsertCardInBinder(ctx, second))

	cards, err := store.ListBinderCards(ctx, testutil.AliceBinder, filter.Request{})
	require.NoError(t, err)

	var rows int
	for _, c := range cards {
		if c.ID == testutil.PotOfGreed {
			rows++
			assert.Equal(t, 7, c.Position)
		}
	}
	assert.Equal(t, 1, rows)
}

func TestListBinderCards(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	cards, err := store.ListBinderCards(ctx, testutil.AliceBinder, filter.Request{})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, testutil.BlueEyes, cards[0].ID, "default order is position")
	assert.Equal(t, "Secret Rare", cards[0].Rarity)
	assert.Equal(t, "Dark Magician", cards[1].Name)
	assert.Equal(t, "1st", cards[1].Edition)

	req := parse(t, url.Values{"rarity": {"Ultra Rare"}}, filter.BinderCardSchema)
	cards, err = store.ListBinderCards(ctx, testutil.AliceBinder, req)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, testutil.DarkMagician, cards[0].ID)
}

func TestListBinders_TagsAnySemantics(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	tests := []struct {
		tags string
		want []int64
	}{
		{tags: "", want: []int64{testutil.AliceBinder, testutil.AnonBinder, testutil.BobBinder}},
		{tags: "t1", want: []int64{testutil.AliceBinder}},
		{tags: "t2", want: []int64{testutil.AliceBinder, testutil.AnonBinder}},
		{tags: "t1,t2", want: []int64{testutil.AliceBinder, testutil.AnonBinder}},
		{tags: "t9", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.tags, func(t *testing.T) {
			q := url.Values{}
			if tt.tags != "" {
				q.Set("tags", tt.tags)
			}
			binders, err := store.ListBinders(ctx, parse(t, q, filter.BinderSchema))
			require.NoError(t, err)
			assert.Equal(t, tt.want, binderIDs(binders))
		})
	}
}

func TestCreateBinder_SkipsUnknownTags(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	owner := testutil.Alice
	b := &domain.Binder{Name: "New", OwnerID: &owner}
	require.NoError(t, store.CreateBinder(ctx, b, []string{"t3", "nope", "t4"}))
	assert.NotZero(t, b.ID)
	assert.ElementsMatch(t, []string{"t3", "t4"}, b.Tags)

	tags, err := store.TagsForBinders(ctx, []int64{b.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"t3", "t4"}, tags[b.ID])

	got, err := store.GetBinder(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, testutil.Alice, *got.OwnerID)
}

func TestCreateBinder_TagCap(t *testing.T) {
	ctx := context.Background()
	first := func(n int) []string {
		titles := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			titles = append(titles, testutil.TagTitle(i))
		}
		return titles
	}

	tests := []struct {
		name   string
		titles []string
		want   []string
	}{
		{
			name:   "unknown titles do not use a slot",
			titles: append([]string{"nope", "missing"}, first(testutil.TagCount)...),
			want:   first(domain.MaxBinderTags),
		},
		{
			name:   "repeated titles do not use a slot",
			titles: append([]string{"t1", "t1", "t2"}, first(testutil.TagCount)...),
			want:   first(domain.MaxBinderTags),
		},
		{
			name:   "only unknown titles",
			titles: []string{"nope"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.Seeded(t)
			b := &domain.Binder{Name: "Capped"}
			require.NoError(t, store.CreateBinder(ctx, b, tt.titles))
			assert.Equal(t, tt.want, b.Tags)

			tags, err := store.TagsForBinders(ctx, []int64{b.ID})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, tags[b.ID])
		})
	}
}

func TestUpdateBinder_ReplacesTags(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	b, err := store.GetBinder(ctx, testutil.AliceBinder)
	require.NoError(t, err)
	b.Name = "Renamed"
	b.ThumbnailID = nil
	require.NoError(t, store.UpdateBinder(ctx, b, []string{"t5"}))

	got, err := store.GetBinder(ctx, testutil.AliceBinder)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Nil(t, got.ThumbnailID)

	tags, err := store.TagsForBinders(ctx, []int64{testutil.AliceBinder})
	require.NoError(t, err)
	assert.Equal(t, []string{"t5"}, tags[testutil.AliceBinder])
}

func TestDeleteBinder_Cascades(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	require.NoError(t, store.DeleteBinder(ctx, testutil.AliceBinder))

	_, err := store.GetBinder(ctx, testutil.AliceBinder)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	tags, err := store.TagsForBinders(ctx, []int64{testutil.AliceBinder})
	require.NoError(t, err)
	assert.Empty(t, tags[testutil.AliceBinder])

	cards, err := store.ListBinderCards(ctx, testutil.AliceBinder, filter.Request{})
	require.NoError(t, err)
	assert.Empty(t, cards)

	err = store.DeleteBinder(ctx, testutil.AliceBinder)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	other, err := store.TagsForBinders(ctx, []int64{testutil.AnonBinder})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, other[testutil.AnonBinder], "other binders keep their links")
}

func TestAttachDetachTag(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	require.NoError(t, store.AttachTag(ctx, testutil.BobBinder, 3))
	require.NoError(t, store.AttachTag(ctx, testutil.BobBinder, 3), "attaching twice is a no-op")

	tags, err := store.TagsForBinders(ctx, []int64{testutil.BobBinder})
	require.NoError(t, err)
	assert.Equal(t, []string{"t3"}, tags[testutil.BobBinder])

	err = store.AttachTag(ctx, testutil.BobBinder, 404)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, store.DetachTag(ctx, testutil.BobBinder, 3))
	require.NoError(t, store.DetachTag(ctx, testutil.BobBinder, 3))

	tags, err = store.TagsForBinders(ctx, []int64{testutil.BobBinder})
	require.NoError(t, err)
	assert.Empty(t, tags[testutil.BobBinder])
}

func TestAttachTag_Cap(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	for id := int64(1); id <= domain.MaxBinderTags; id++ {
		require.NoError(t, store.AttachTag(ctx, testutil.BobBinder, id))
	}
	err := store.AttachTag(ctx, testutil.BobBinder, domain.MaxBinderTags+1)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestBinderImagesByID(t *testing.T) {
	store := testutil.Seeded(t)

	images, err := store.BinderImagesByID(context.Background(), []int64{testutil.DragonCover, testutil.MissingCover})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, testutil.DragonCoverS3Key, images[testutil.DragonCover].S3Key)
}

func TestRegisterUser_Upserts(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	first, err := store.RegisterUser(ctx, testutil.Alice, "alice")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	second, err := store.RegisterUser(ctx, testutil.Alice, "alice2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "alice2", second.Username)
}

func TestImportAndDumpCards(t *testing.T) {
	store := testutil.Seeded(t)
	ctx := context.Background()

	n, err := store.ImportCards(ctx, []domain.Card{
		{ID: testutil.DarkMagician, Name: "Dark Magician (reprint)", ImageIDs: []int64{1}, Views: 0},
		{ID: 100, Name: "Kuriboh", Type: "Effect Monster", ImageIDs: []int64{40640057}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cards, err := store.DumpCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 6)
	assert.Equal(t, "Dark Magician (reprint)", cards[0].Name)
	assert.Equal(t, int64(10), cards[0].Views, "import keeps view counters")
	assert.Equal(t, int64(100), cards[5].ID)
}
