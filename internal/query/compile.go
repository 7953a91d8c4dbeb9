package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm/clause"
)

// CompileFilter lowers the specification's criteria and search into a
// single clause expression. Criteria are conjunctive; the search fields
// form a disjunctive group ANDed with the criteria. A nil or empty
// specification compiles to nil, the match-everything query.
func CompileFilter(spec *Specification) clause.Expression {
	if spec == nil {
		return nil
	}

	var exprs []clause.Expression
	for _, criterion := range spec.Criteria {
		exprs = append(exprs, compileCriterion(criterion)...)
	}

	if spec.Search != nil && spec.Search.Term != "" && len(spec.Search.Fields) > 0 {
		group := make([]clause.Expression, 0, len(spec.Search.Fields))
		for _, field := range spec.Search.Fields {
			group = append(group, containsExpr(field, spec.Search.Term))
		}
		exprs = append(exprs, clause.Or(group...))
	}

	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	default:
		return clause.And(exprs...)
	}
}

// CompileSort lowers the ordering into native sort directives. An absent
// ordering yields none, leaving the store's default (unstable) order.
func CompileSort(spec *Specification) []clause.OrderByColumn {
	if spec == nil || len(spec.OrderBy) == 0 {
		return nil
	}
	cols := make([]clause.OrderByColumn, 0, len(spec.OrderBy))
	for _, order := range spec.OrderBy {
		cols = append(cols, clause.OrderByColumn{
			Column: clause.Column{Name: order.Field},
			Desc:   order.Desc,
		})
	}
	return cols
}

// compileCriterion folds the comparator variants of one criterion into
// clause expressions. Appending every variant keeps repeated range
// comparators on the same field conjunctive instead of overwriting each
// other. An isSet variant takes priority as a presence test and
// short-circuits the rest of the criterion.
func compileCriterion(criterion Criterion) []clause.Expression {
	col := clause.Column{Name: criterion.Field}

	for _, cmp := range criterion.Compares {
		if cmp.Op != OpIsSet {
			continue
		}
		if set, _ := cmp.Value.(bool); set {
			return []clause.Expression{clause.Expr{SQL: "? IS NOT NULL", Vars: []any{col}}}
		}
		return []clause.Expression{clause.Expr{SQL: "? IS NULL", Vars: []any{col}}}
	}

	exprs := make([]clause.Expression, 0, len(criterion.Compares))
	for _, cmp := range criterion.Compares {
		switch cmp.Op {
		case OpEquals:
			exprs = append(exprs, clause.Eq{Column: col, Value: cmp.Value})
		case OpLt:
			exprs = append(exprs, clause.Lt{Column: col, Value: cmp.Value})
		case OpLte:
			exprs = append(exprs, clause.Lte{Column: col, Value: cmp.Value})
		case OpGt:
			exprs = append(exprs, clause.Gt{Column: col, Value: cmp.Value})
		case OpGte:
			exprs = append(exprs, clause.Gte{Column: col, Value: cmp.Value})
		case OpIn:
			exprs = append(exprs, clause.IN{Column: col, Values: toValues(cmp.Value)})
		case OpNotIn:
			exprs = append(exprs, clause.Not(clause.IN{Column: col, Values: toValues(cmp.Value)}))
		case OpContains:
			exprs = append(exprs, likeExpr(criterion.Field, "%", cmp.Value, "%"))
		case OpStartsWith:
			exprs = append(exprs, likeExpr(criterion.Field, "", cmp.Value, "%"))
		case OpEndsWith:
			exprs = append(exprs, likeExpr(criterion.Field, "%", cmp.Value, ""))
		case OpNot:
			exprs = append(exprs, clause.Neq{Column: col, Value: cmp.Value})
		}
	}
	return exprs
}

func containsExpr(field, term string) clause.Expression {
	return likeExpr(field, "%", term, "%")
}

// likeExpr builds a case-insensitive LIKE with the operand escaped so it
// always matches literally.
func likeExpr(field, prefix string, operand any, suffix string) clause.Expression {
	s, ok := operand.(string)
	if !ok {
		s = toString(operand)
	}
	pattern := prefix + escapeLike(strings.ToLower(s)) + suffix
	return clause.Expr{
		SQL:  `LOWER(?) LIKE ? ESCAPE '\'`,
		Vars: []any{clause.Column{Name: field}, pattern},
	}
}

// escapeLike escapes LIKE metacharacters in an operand.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func toString(v any) string {
	return fmt.Sprint(v)
}

// toValues normalizes an in/notIn operand to a value slice.
func toValues(v any) []any {
	switch vs := v.(type) {
	case []any:
		return vs
	case []string:
		out := make([]any, len(vs))
		for i, s := range vs {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}
