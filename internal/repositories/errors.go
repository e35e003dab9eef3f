package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/anonto42/devhub/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// mapError converts gorm, mongo and driver errors to the models taxonomy.
// context.Canceled is NOT mapped; it passes through.
func mapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s %s: %w", entity, id, models.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s %s: %w: %w", entity, id, models.ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s %s: %w: %w", entity, id, models.ErrConflict, err)
	case isTransient(err):
		return fmt.Errorf("%s %s: %w: %w", entity, id, models.ErrTransient, err)
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
