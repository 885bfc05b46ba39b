package pagination

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindMatching implements Store semantics for the gorm model M.
// The count and the page read run in one transaction so that total and data agree.
func FindMatching[M any](ctx context.Context, db *gorm.DB, q Query) ([]M, int64, error) {
	var (
		rows  []M
		total int64
	)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(new(M))
		if exprs := Conditions(tx.Dialector.Name(), q.Filters); len(exprs) > 0 {
			base = base.Clauses(clause.Where{Exprs: exprs})
		}
		base = base.Session(&gorm.Session{})

		if err := base.Count(&total).Error; err != nil {
			return fmt.Errorf("count: %w", err)
		}
		if total == 0 || int64(q.Offset) >= total {
			return nil
		}

		page := base.
			Order(clause.OrderByColumn{Column: clause.Column{Name: q.Sort.Field}, Desc: q.Sort.Desc})
		if q.Sort.Field != "id" {
			page = page.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Sort.Desc})
		}
		if err := page.Offset(q.Offset).Limit(q.Limit).Find(&rows).Error; err != nil {
			return fmt.Errorf("find: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// Conditions translates filters into gorm clause expressions for the given dialect.
// Substring matching is case-sensitive on sqlite and postgres.
func Conditions(dialect string, filters []Filter) []clause.Expression {
	exprs := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		col := clause.Column{Name: f.Field}
		switch f.Op {
		case OpContains:
			exprs = append(exprs, contains(dialect, col, fmt.Sprint(f.Value)))
		default:
			exprs = append(exprs, clause.Eq{Column: col, Value: f.Value})
		}
	}
	return exprs
}

func contains(dialect string, col clause.Column, value string) clause.Expression {
	switch dialect {
	case "sqlite":
		return clause.Expr{SQL: "instr(?, ?) > 0", Vars: []any{col, value}}
	case "postgres":
		return clause.Expr{SQL: "strpos(?, ?) > 0", Vars: []any{col, value}}
	default:
		return clause.Like{Column: col, Value: "%" + escapeLike(value) + "%"}
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
