package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WithRowLock applies SELECT ... FOR UPDATE on dialects that support it.
// SQLite serializes writers at the connection level, so the clause is
// omitted there rather than producing a syntax error.
func WithRowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector != nil && tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
