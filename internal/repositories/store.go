package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// insertIfAbsent creates row unless a row with the same unique key already
// exists. created is false on the no-op path.
func insertIfAbsent(tx *gorm.DB, row any) (created bool, err error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// deleteIfPresent removes the rows matching query. deleted is false when
// nothing matched.
func deleteIfPresent(tx *gorm.DB, model any, query string, args ...any) (deleted bool, err error) {
	res := tx.Where(query, args...).Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// inTx runs fn inside a transaction bound to ctx.
func inTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
