package sqlstore

import (
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/filter"
)

// applyFilters adds the equality and tag predicates of req. Column identifiers come from the
// filter schema allow-list and are always quoted.
func applyFilters(q *bun.SelectQuery, req filter.Request, tagSubquery func([]string) *bun.SelectQuery) *bun.SelectQuery {
	for _, eq := range req.Equals {
		q = q.Where("? = ?", bun.Ident(eq.Column.Expr), eq.Value)
	}
	if len(req.Tags) > 0 && tagSubquery != nil {
		q = q.Where("b.id IN (?)", tagSubquery(req.Tags))
	}
	return q
}

// applyPage adds ordering, limit and offset. fallback is used when the request has no order.
func applyPage(q *bun.SelectQuery, req filter.Request, fallback string) *bun.SelectQuery {
	switch {
	case req.Order != nil:
		dir := strings.ToUpper(string(req.Order.Direction))
		q = q.OrderExpr("? "+dir, bun.Ident(req.Order.Column.Expr))
	case fallback != "":
		q = q.OrderExpr(fallback)
	}
	if req.Limit > 0 {
		q = q.Limit(req.Limit)
	}
	if req.Offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT.
		if req.Limit == 0 && q.DB().Dialect().Name() == dialect.SQLite {
			q = q.Limit(-1)
		}
		q = q.Offset(req.Offset)
	}
	return q
}

// binderIDsTagged selects the ids of binders carrying any of titles.
func (s *Store) binderIDsTagged(titles []string) *bun.SelectQuery {
	return s.db.NewSelect().
		TableExpr("binder_tags AS bt").
		Join("JOIN tags AS t ON t.id = bt.tag_id").
		Column("bt.binder_id").
		Where("t.title IN (?)", bun.In(titles))
}
