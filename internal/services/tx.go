package services

import (
	"context"

	"gorm.io/gorm"
)

// runInTx executes fn inside a database transaction. With no database wired
// the steps run directly and each repo call falls back to its own handle.
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
