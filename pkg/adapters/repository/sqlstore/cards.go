package sqlstore

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/filter"
)

const importChunkSize = 500

// ListCards returns one page of cards and the filter-applied total, counted before paging.
func (s *Store) ListCards(ctx context.Context, req filter.Request) ([]domain.Card, int64, error) {
	cards := make([]domain.Card, 0)

	base := func() *bun.SelectQuery {
		return applyFilters(s.db.NewSelect().Model(&cards), req, nil)
	}

	total, err := base().Count(ctx)
	if err != nil {
		return nil, 0, translate(err, "cards", "")
	}

	if err := applyPage(base(), req, "").Scan(ctx); err != nil {
		return nil, 0, translate(err, "cards", "")
	}
	return cards, int64(total), nil
}

// TopCards returns the n most viewed cards, tokens excluded.
func (s *Store) TopCards(ctx context.Context, n int) ([]domain.Card, error) {
	cards := make([]domain.Card, 0, n)
	err := s.db.NewSelect().
		Model(&cards).
		Where("(c.type IS NULL OR c.type <> ?)", domain.TokenType).
		OrderExpr("c.views DESC").
		Limit(n).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "cards", "")
	}
	return cards, nil
}

// RandomCards samples n cards, tokens excluded.
func (s *Store) RandomCards(ctx context.Context, n int) ([]domain.Card, error) {
	cards := make([]domain.Card, 0, n)
	err := s.db.NewSelect().
		Model(&cards).
		Where("(c.type IS NULL OR c.type <> ?)", domain.TokenType).
		OrderExpr("RANDOM()").
		Limit(n).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "cards", "")
	}
	return cards, nil
}

func (s *Store) GetCard(ctx context.Context, id int64) (*domain.Card, error) {
	card := new(domain.Card)
	if err := s.db.NewSelect().Model(card).Where("c.id = ?", id).Scan(ctx); err != nil {
		return nil, translate(err, "card", id)
	}
	return card, nil
}

// IncrementCardViews adds one to the card's view counter.
func (s *Store) IncrementCardViews(ctx context.Context, id int64) error {
	res, err := s.db.NewUpdate().
		Table("cards").
		Set("views = views + 1").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return translate(err, "card", id)
	}
	return expectRows(res, "card", id)
}

// UpsertCardInBinder places a card in a binder, or moves it when the pair already exists.
func (s *Store) UpsertCardInBinder(ctx context.Context, cib *domain.CardInBinder) error {
	_, err := s.db.NewInsert().
		Model(cib).
		On("CONFLICT (card_id, binder_id) DO UPDATE").
		Set("position = EXCLUDED.position").
		Exec(ctx)
	return translate(err, "card in binder", cib.CardID)
}

// CardPlacement returns the join row for one (card, binder) pair.
func (s *Store) CardPlacement(ctx context.Context, cardID, binderID int64) (*domain.CardInBinder, error) {
	cib := new(domain.CardInBinder)
	err := s.db.NewSelect().
		Model(cib).
		Where("cib.card_id = ? AND cib.binder_id = ?", cardID, binderID).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "card in binder", cardID)
	}
	return cib, nil
}

// ImportCards upserts reference card data by id. View counters are left alone.
func (s *Store) ImportCards(ctx context.Context, cards []domain.Card) (int, error) {
	imported := 0
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for start := 0; start < len(cards); start += importChunkSize {
			end := min(start+importChunkSize, len(cards))
			chunk := cards[start:end]

			_, err := tx.NewInsert().
				Model(&chunk).
				On("CONFLICT (id) DO UPDATE").
				Set("name = EXCLUDED.name").
				Set("type = EXCLUDED.type").
				Set("frame_type = EXCLUDED.frame_type").
				Set("description = EXCLUDED.description").
				Set("atk = EXCLUDED.atk").
				Set("def = EXCLUDED.def").
				Set("level = EXCLUDED.level").
				Set("scale = EXCLUDED.scale").
				Set("linkval = EXCLUDED.linkval").
				Set("race = EXCLUDED.race").
				Set("attribute = EXCLUDED.attribute").
				Set("archetype = EXCLUDED.archetype").
				Set("card_images = EXCLUDED.card_images").
				Exec(ctx)
			if err != nil {
				return err
			}
			imported += len(chunk)
		}
		return nil
	})
	if err != nil {
		return 0, translate(err, "cards", "")
	}
	return imported, nil
}

// DumpCards returns every card ordered by id.
func (s *Store) DumpCards(ctx context.Context) ([]domain.Card, error) {
	cards := make([]domain.Card, 0)
	if err := s.db.NewSelect().Model(&cards).OrderExpr("c.id ASC").Scan(ctx); err != nil {
		return nil, translate(err, "cards", "")
	}
	return cards, nil
}
