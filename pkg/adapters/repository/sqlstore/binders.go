package sqlstore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/filter"
)

// ListBinders returns every binder matching req. Tags match when any requested title is attached.
func (s *Store) ListBinders(ctx context.Context, req filter.Request) ([]domain.Binder, error) {
	binders := make([]domain.Binder, 0)
	q := applyFilters(s.db.NewSelect().Model(&binders), req, s.binderIDsTagged)
	if err := applyPage(q, req, "").Scan(ctx); err != nil {
		return nil, translate(err, "binders", "")
	}
	return binders, nil
}

// TopBinders returns the n most viewed binders.
func (s *Store) TopBinders(ctx context.Context, n int) ([]domain.Binder, error) {
	binders := make([]domain.Binder, 0, n)
	err := s.db.NewSelect().
		Model(&binders).
		OrderExpr("b.views DESC").
		Limit(n).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "binders", "")
	}
	return binders, nil
}

// RandomBinder samples one binder.
func (s *Store) RandomBinder(ctx context.Context) (*domain.Binder, error) {
	binder := new(domain.Binder)
	err := s.db.NewSelect().
		Model(binder).
		OrderExpr("RANDOM()").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "binder", "random")
	}
	return binder, nil
}

func (s *Store) GetBinder(ctx context.Context, id int64) (*domain.Binder, error) {
	binder := new(domain.Binder)
	if err := s.db.NewSelect().Model(binder).Where("b.id = ?", id).Scan(ctx); err != nil {
		return nil, translate(err, "binder", id)
	}
	return binder, nil
}

// IncrementBinderViews adds one to the binder's view counter.
func (s *Store) IncrementBinderViews(ctx context.Context, id int64) error {
	res, err := s.db.NewUpdate().
		Table("binders").
		Set("views = views + 1").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return translate(err, "binder", id)
	}
	return expectRows(res, "binder", id)
}

// ListBinderCards returns the cards placed in a binder, ordered by position unless req says otherwise.
func (s *Store) ListBinderCards(ctx context.Context, binderID int64, req filter.Request) ([]domain.BinderCard, error) {
	cards := make([]domain.BinderCard, 0)
	q := s.db.NewSelect().
		Model(&cards).
		ColumnExpr("c.*").
		ColumnExpr("cib.rarity, cib.edition, cib.position").
		Join("JOIN cards_in_binders AS cib ON cib.card_id = c.id").
		Where("cib.binder_id = ?", binderID)

	q = applyFilters(q, req, nil)
	if err := applyPage(q, req, "cib.position ASC").Scan(ctx); err != nil {
		return nil, translate(err, "binder cards", binderID)
	}
	return cards, nil
}

// CreateBinder inserts the binder and its tag links in one transaction. Titles that match no tag
// are skipped. b.Tags is set to the titles actually linked.
func (s *Store) CreateBinder(ctx context.Context, b *domain.Binder, titles []string) error {
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(b).Exec(ctx); err != nil {
			return err
		}
		linked, err := linkTags(ctx, tx, b.ID, titles)
		if err != nil {
			return err
		}
		b.Tags = linked
		return nil
	})
	return translate(err, "binder", b.ID)
}

// UpdateBinder replaces the scalar fields and the whole tag set of a binder atomically.
func (s *Store) UpdateBinder(ctx context.Context, b *domain.Binder, titles []string) error {
	b.UpdatedAt = time.Now().UTC()

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*domain.BinderTag)(nil)).
			Where("binder_id = ?", b.ID).
			Exec(ctx); err != nil {
			return err
		}

		linked, err := linkTags(ctx, tx, b.ID, titles)
		if err != nil {
			return err
		}
		b.Tags = linked

		res, err := tx.NewUpdate().
			Model(b).
			Column("name", "description", "thumbnail", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		return expectRows(res, "binder", b.ID)
	})
	return translate(err, "binder", b.ID)
}

// DeleteBinder removes the binder's tag links, its card placements and the binder itself in one transaction.
func (s *Store) DeleteBinder(ctx context.Context, id int64) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*domain.BinderTag)(nil)).
			Where("binder_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*domain.CardInBinder)(nil)).
			Where("binder_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*domain.Binder)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		return expectRows(res, "binder", id)
	})
	return translate(err, "binder", id)
}

// AttachTag links one tag to a binder. Linking an existing pair is a no-op; linking past
// MaxBinderTags is rejected.
func (s *Store) AttachTag(ctx context.Context, binderID, tagID int64) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*domain.Tag)(nil)).Where("t.id = ?", tagID).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NotFound("tag %d not found", tagID)
		}

		linked, err := tx.NewSelect().
			Model((*domain.BinderTag)(nil)).
			Where("bt.binder_id = ? AND bt.tag_id = ?", binderID, tagID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if linked {
			return nil
		}

		count, err := tx.NewSelect().Model((*domain.BinderTag)(nil)).Where("bt.binder_id = ?", binderID).Count(ctx)
		if err != nil {
			return err
		}
		if count >= domain.MaxBinderTags {
			return domain.Validation("a binder can have at most %d tags", domain.MaxBinderTags)
		}

		_, err = tx.NewInsert().Model(&domain.BinderTag{BinderID: binderID, TagID: tagID}).Exec(ctx)
		return err
	})
	return translate(err, "binder tag", tagID)
}

// DetachTag unlinks one tag from a binder. Unlinking a missing pair is a no-op.
func (s *Store) DetachTag(ctx context.Context, binderID, tagID int64) error {
	_, err := s.db.NewDelete().
		Model((*domain.BinderTag)(nil)).
		Where("binder_id = ? AND tag_id = ?", binderID, tagID).
		Exec(ctx)
	return translate(err, "binder tag", tagID)
}

// linkTags resolves titles to tag ids and inserts the join rows, returning the titles linked.
// Unknown and repeated titles are skipped; at most MaxBinderTags tags are linked, in input order.
func linkTags(ctx context.Context, tx bun.Tx, binderID int64, titles []string) ([]string, error) {
	linked := make([]string, 0, min(len(titles), domain.MaxBinderTags))
	if len(titles) == 0 {
		return linked, nil
	}

	var tags []domain.Tag
	if err := tx.NewSelect().Model(&tags).Where("t.title IN (?)", bun.In(titles)).Scan(ctx); err != nil {
		return nil, err
	}
	byTitle := make(map[string]int64, len(tags))
	for _, tag := range tags {
		byTitle[tag.Title] = tag.ID
	}

	rows := make([]domain.BinderTag, 0, cap(linked))
	for _, title := range titles {
		if len(rows) == domain.MaxBinderTags {
			break
		}
		id, ok := byTitle[title]
		if !ok {
			continue
		}
		delete(byTitle, title)
		rows = append(rows, domain.BinderTag{BinderID: binderID, TagID: id})
		linked = append(linked, title)
	}
	if len(rows) == 0 {
		return linked, nil
	}
	if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return nil, err
	}
	return linked, nil
}
