package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
)

type binderTagTitle struct {
	BinderID int64  `bun:"binder_id"`
	Title    string `bun:"title"`
}

func (s *Store) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0)
	if err := s.db.NewSelect().Model(&tags).OrderExpr("t.id ASC").Scan(ctx); err != nil {
		return nil, translate(err, "tags", "")
	}
	return tags, nil
}

// TagsForBinders returns the attached tag titles keyed by binder id.
func (s *Store) TagsForBinders(ctx context.Context, binderIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(binderIDs))
	if len(binderIDs) == 0 {
		return out, nil
	}

	var rows []binderTagTitle
	err := s.db.NewSelect().
		TableExpr("binder_tags AS bt").
		Join("JOIN tags AS t ON t.id = bt.tag_id").
		ColumnExpr("bt.binder_id, t.title").
		Where("bt.binder_id IN (?)", bun.In(binderIDs)).
		OrderExpr("t.title ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, translate(err, "binder tags", "")
	}

	for _, row := range rows {
		out[row.BinderID] = append(out[row.BinderID], row.Title)
	}
	return out, nil
}

func (s *Store) ListBinderImages(ctx context.Context) ([]domain.BinderImage, error) {
	images := make([]domain.BinderImage, 0)
	if err := s.db.NewSelect().Model(&images).OrderExpr("bi.id ASC").Scan(ctx); err != nil {
		return nil, translate(err, "binder images", "")
	}
	return images, nil
}

// BinderImagesByID returns the images with the given ids keyed by id. Missing ids are absent.
func (s *Store) BinderImagesByID(ctx context.Context, ids []int64) (map[int64]domain.BinderImage, error) {
	out := make(map[int64]domain.BinderImage, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var images []domain.BinderImage
	if err := s.db.NewSelect().Model(&images).Where("bi.id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return nil, translate(err, "binder images", "")
	}
	for _, img := range images {
		out[img.ID] = img
	}
	return out, nil
}

// RegisterUser creates the user for authID, or renames it when it already exists.
func (s *Store) RegisterUser(ctx context.Context, authID, username string) (*domain.User, error) {
	user := new(domain.User)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(user).Where("u.auth_id = ?", authID).Scan(ctx)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			user.AuthID = authID
			user.Username = username
			user.CreatedAt = time.Now().UTC()
			_, err = tx.NewInsert().Model(user).Exec(ctx)
			return err
		case err != nil:
			return err
		}

		user.Username = username
		_, err = tx.NewUpdate().Model(user).Column("username").WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, translate(err, "user", authID)
	}
	return user, nil
}
