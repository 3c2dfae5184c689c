package filter

import (
	"strconv"
)

// Kind is the storage type of a filterable column.
type Kind int

const (
	Text Kind = iota
	Integer
)

func (k Kind) String() string {
	if k == Integer {
		return "an integer"
	}
	return "text"
}

func (k Kind) convert(raw string) (any, error) {
	if k == Integer {
		return strconv.ParseInt(raw, 10, 64)
	}
	return raw, nil
}

// Column is an allow-listed column. Expr is the alias-qualified identifier used in queries.
type Column struct {
	Expr   string
	Kind   Kind
	Filter bool
	Sort   bool
}

// Schema is the allow-list for one listable resource.
type Schema struct {
	Resource string
	Columns  map[string]Column
	// Attribute names the column behind the attribute shorthand, empty if unsupported.
	Attribute    string
	Tags         bool
	DefaultLimit int
}

// DefaultCardLimit is the page size of the card listing when no limit is given.
const DefaultCardLimit = 10

func text(expr string) Column    { return Column{Expr: expr, Kind: Text, Filter: true, Sort: true} }
func integer(expr string) Column { return Column{Expr: expr, Kind: Integer, Filter: true, Sort: true} }

func cardColumns(alias string) map[string]Column {
	q := func(name string) string { return alias + "." + name }
	return map[string]Column{
		"id":         integer(q("id")),
		"name":       text(q("name")),
		"type":       text(q("type")),
		"frame_type": text(q("frame_type")),
		"race":       text(q("race")),
		"attribute":  text(q("attribute")),
		"archetype":  text(q("archetype")),
		"atk":        integer(q("atk")),
		"def":        integer(q("def")),
		"level":      integer(q("level")),
		"scale":      integer(q("scale")),
		"linkval":    integer(q("linkval")),
		"views":      integer(q("views")),
	}
}

// CardSchema governs GET /cards.
var CardSchema = Schema{
	Resource:     "cards",
	Columns:      cardColumns("c"),
	Attribute:    "attribute",
	DefaultLimit: DefaultCardLimit,
}

// BinderSchema governs GET /binders.
var BinderSchema = Schema{
	Resource: "binders",
	Columns: map[string]Column{
		"id":         integer("b.id"),
		"name":       text("b.name"),
		"owner_id":   text("b.owner_id"),
		"thumbnail":  integer("b.thumbnail"),
		"views":      integer("b.views"),
		"created_at": {Expr: "b.created_at", Sort: true},
		"updated_at": {Expr: "b.updated_at", Sort: true},
	},
	Tags: true,
}

// BinderCardSchema governs GET /binders/{id}/cards.
var BinderCardSchema = func() Schema {
	cols := cardColumns("c")
	cols["rarity"] = text("cib.rarity")
	cols["edition"] = text("cib.edition")
	cols["position"] = integer("cib.position")
	return Schema{
		Resource:  "binder cards",
		Columns:   cols,
		Attribute: "attribute",
	}
}()
