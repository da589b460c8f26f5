package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// QueryOption mutates a GORM statement before execution.
type QueryOption interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type sortBy struct {
	clause string
}

func (s sortBy) Apply(stmt *gorm.DB) *gorm.DB {
	if s.clause == "" {
		return stmt
	}
	return stmt.Order(s.clause)
}

// WithSortBy orders by a pre-validated clause.
func WithSortBy(clause string) QueryOption {
	return sortBy{clause: clause}
}

// WithQuerySortBy builds an ORDER BY clause from user-supplied sort
// parameters, restricted to an allow-list of columns. Unknown columns
// and directions fall back to created_at DESC.
func WithQuerySortBy(column, direction string, allowed map[string]bool) string {
	column = strings.TrimSpace(strings.ToLower(column))
	if column == "" || !allowed[column] {
		column = "created_at"
	}

	direction = strings.TrimSpace(strings.ToUpper(direction))
	if direction != "ASC" && direction != "DESC" {
		direction = "DESC"
	}

	return fmt.Sprintf("%s %s", column, direction)
}

type limit struct {
	n int
}

func (l limit) Apply(stmt *gorm.DB) *gorm.DB {
	if l.n <= 0 {
		return stmt
	}
	return stmt.Limit(l.n)
}

// WithLimit caps the result set size.
func WithLimit(n int) QueryOption {
	return limit{n: n}
}
