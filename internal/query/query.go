// Package query defines a declarative specification for filtering,
// searching, sorting, and paginating records, decoupled from any query
// language, plus the compiler that lowers it onto GORM's clause model.
package query

// Op identifies a comparison operator.
type Op string

const (
	OpEquals     Op = "eq"
	OpLt         Op = "lt"
	OpLte        Op = "lte"
	OpGt         Op = "gt"
	OpGte        Op = "gte"
	OpIn         Op = "in"
	OpNotIn      Op = "notIn"
	OpContains   Op = "contains"
	OpStartsWith Op = "startsWith"
	OpEndsWith   Op = "endsWith"
	OpNot        Op = "not"
	OpIsSet      Op = "isSet"
)

// Compare is one tagged comparator variant: an operator and its operand.
type Compare struct {
	Op    Op
	Value any
}

func Eq(v any) Compare         { return Compare{Op: OpEquals, Value: v} }
func Lt(v any) Compare         { return Compare{Op: OpLt, Value: v} }
func Lte(v any) Compare        { return Compare{Op: OpLte, Value: v} }
func Gt(v any) Compare         { return Compare{Op: OpGt, Value: v} }
func Gte(v any) Compare        { return Compare{Op: OpGte, Value: v} }
func In(vs ...any) Compare     { return Compare{Op: OpIn, Value: vs} }
func NotIn(vs ...any) Compare  { return Compare{Op: OpNotIn, Value: vs} }
func Contains(s string) Compare   { return Compare{Op: OpContains, Value: s} }
func StartsWith(s string) Compare { return Compare{Op: OpStartsWith, Value: s} }
func EndsWith(s string) Compare   { return Compare{Op: OpEndsWith, Value: s} }
func Not(v any) Compare        { return Compare{Op: OpNot, Value: v} }
func IsSet(set bool) Compare   { return Compare{Op: OpIsSet, Value: set} }

// Criterion applies one or more comparators to a single field. Field names
// pass through to the store unvalidated: a typo matches nothing rather
// than failing.
type Criterion struct {
	Field    string
	Compares []Compare
}

// Where builds a criterion on the given field.
func Where(field string, compares ...Compare) Criterion {
	return Criterion{Field: field, Compares: compares}
}

// Search is a free-text search: a case-insensitive substring match of Term
// against any of the named fields.
type Search struct {
	Term   string
	Fields []string
}

// Order is one sort directive.
type Order struct {
	Field string
	Desc  bool
}

// Pagination supports two styles, skip/take and page/limit. The styles are
// not designed to coexist: skip/take wins, and page/limit is honored only
// when neither skip nor take is set.
type Pagination struct {
	Skip  *int
	Take  *int
	Page  *int
	Limit *int
}

// Resolve returns the effective offset and limit. A zero limit means
// unbounded.
func (p *Pagination) Resolve() (offset, limit int) {
	if p == nil {
		return 0, 0
	}
	if p.Skip != nil || p.Take != nil {
		if p.Skip != nil {
			offset = *p.Skip
		}
		if p.Take != nil {
			limit = *p.Take
		}
		return offset, limit
	}
	if p.Page != nil && p.Limit != nil {
		return (*p.Page - 1) * *p.Limit, *p.Limit
	}
	return 0, 0
}

// Specification is the full query descriptor. A zero Specification (or a
// nil pointer) describes "match everything, store order, no pagination".
type Specification struct {
	Criteria   []Criterion
	Search     *Search
	OrderBy    []Order
	Pagination *Pagination
}

// NewSpecification returns an empty specification.
func NewSpecification() *Specification {
	return &Specification{}
}

// And appends a criterion; criteria combine conjunctively.
func (s *Specification) And(c Criterion) *Specification {
	s.Criteria = append(s.Criteria, c)
	return s
}

// WithSearch sets the free-text search.
func (s *Specification) WithSearch(term string, fields ...string) *Specification {
	s.Search = &Search{Term: term, Fields: fields}
	return s
}

// SortBy appends a sort directive.
func (s *Specification) SortBy(field string, desc bool) *Specification {
	s.OrderBy = append(s.OrderBy, Order{Field: field, Desc: desc})
	return s
}

// Paged sets page/limit pagination.
func (s *Specification) Paged(page, limit int) *Specification {
	s.Pagination = &Pagination{Page: &page, Limit: &limit}
	return s
}

// Sliced sets skip/take pagination.
func (s *Specification) Sliced(skip, take int) *Specification {
	s.Pagination = &Pagination{Skip: &skip, Take: &take}
	return s
}

// WithoutPagination returns a shallow copy with pagination removed, for
// count queries.
func (s *Specification) WithoutPagination() *Specification {
	if s == nil {
		return nil
	}
	copied := *s
	copied.Pagination = nil
	return &copied
}
