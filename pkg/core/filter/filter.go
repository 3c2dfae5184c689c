// Package filter compiles untyped listing query parameters into a typed, validated Request.
//
// Reserved keys (limit, offset, order, sort, attribute, tags) are read first. Every other key is an
// equality filter and must be declared in the resource Schema; anything else is rejected before
// it can reach the store.
package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
)

const (
	KeyLimit     = "limit"
	KeyOffset    = "offset"
	KeyOrder     = "order"
	KeySort      = "sort"
	KeyAttribute = "attribute"
	KeyTags      = "tags"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Equality requires Column = Value.
type Equality struct {
	Key    string
	Column Column
	Value  any
}

// Order sorts by one column.
type Order struct {
	Column    Column
	Direction Direction
}

// Request is a compiled listing request. Limit 0 means no limit.
type Request struct {
	Limit  int
	Offset int
	Order  *Order
	Tags   []string
	Equals []Equality
}

// Paginated reports whether the request bounds the result set.
func (r Request) Paginated() bool {
	return r.Limit > 0
}

// Parse validates values against s and builds a Request.
func Parse(values url.Values, s Schema) (Request, error) {
	req := Request{Limit: s.DefaultLimit}

	if raw, ok := first(values, KeyLimit); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Request{}, domain.Validation("limit must be a positive integer")
		}
		req.Limit = n
	}
	if raw, ok := first(values, KeyOffset); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Request{}, domain.Validation("offset must be a non-negative integer")
		}
		req.Offset = n
	}

	dir := Asc
	if raw, ok := first(values, KeySort); ok {
		switch Direction(strings.ToLower(raw)) {
		case Asc:
		case Desc:
			dir = Desc
		default:
			return Request{}, domain.Validation("sort must be asc or desc")
		}
	}
	if raw, ok := first(values, KeyOrder); ok && raw != "" {
		col, found := s.Columns[raw]
		if !found || !col.Sort {
			return Request{}, domain.Validation("cannot order %s by %q", s.Resource, raw)
		}
		req.Order = &Order{Column: col, Direction: dir}
	}

	if raw, ok := first(values, KeyTags); ok {
		if !s.Tags {
			return Request{}, domain.Validation("%s cannot be filtered by tags", s.Resource)
		}
		req.Tags = SplitTags(raw)
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if isReserved(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		eq, err := equality(s, key, values.Get(key))
		if err != nil {
			return Request{}, err
		}
		req.Equals = append(req.Equals, eq)
	}

	if raw, ok := first(values, KeyAttribute); ok {
		if s.Attribute == "" {
			return Request{}, domain.Validation("%s has no attribute filter", s.Resource)
		}
		eq, err := equality(s, s.Attribute, raw)
		if err != nil {
			return Request{}, err
		}
		eq.Key = KeyAttribute
		req.Equals = append(req.Equals, eq)
	}

	return req, nil
}

func equality(s Schema, key, raw string) (Equality, error) {
	col, ok := s.Columns[key]
	if !ok || !col.Filter {
		return Equality{}, domain.Validation("unknown filter %q for %s", key, s.Resource)
	}
	value, err := col.Kind.convert(raw)
	if err != nil {
		return Equality{}, domain.Validation("filter %q expects %s", key, col.Kind)
	}
	return Equality{Key: key, Column: col, Value: value}, nil
}

// SplitTags splits a comma separated tag list, dropping blanks and duplicates.
func SplitTags(raw string) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// Paginate computes the page envelope metadata. totalPages is ceil(total/limit) and
// currentPage is floor(offset/limit)+1; both are zero when limit is not positive.
func Paginate(total int64, limit, offset int) domain.Pagination {
	p := domain.Pagination{TotalRecords: total, Limit: limit, Offset: offset}
	if limit > 0 {
		l := int64(limit)
		p.TotalPages = (total + l - 1) / l
		p.CurrentPage = int64(offset/limit) + 1
	}
	return p
}

func first(values url.Values, key string) (string, bool) {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func isReserved(key string) bool {
	switch key {
	case KeyLimit, KeyOffset, KeyOrder, KeySort, KeyAttribute, KeyTags:
		return true
	}
	return false
}
