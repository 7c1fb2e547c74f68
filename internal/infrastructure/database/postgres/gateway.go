package postgres

import (
	"context"
	"fmt"
	"strings"

	"crm-service/internal/logger"
	appErrors "crm-service/pkg/errors"

	"go.uber.org/zap"
)

// Insert persists a new record. GORM wraps the statement in its own
// transaction, so a failed insert leaves nothing behind; the gateway's job
// is centralizing the logging and the duplicate-key translation so every
// repository reports conflicts the same way.
func (d *DB) Insert(ctx context.Context, record interface{}) error {
	if err := d.DB.WithContext(ctx).Create(record).Error; err != nil {
		logger.Error("Insert rolled back",
			zap.String("record", fmt.Sprintf("%T", record)),
			zap.Error(err),
		)
		if isDuplicateKey(err) {
			return appErrors.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// UpdateColumns applies a column map to the row matching id and reports how
// many rows were touched. Zero rows means the target does not exist.
func (d *DB) UpdateColumns(ctx context.Context, model interface{}, id interface{}, updates map[string]interface{}) (int64, error) {
	result := d.DB.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		logger.Error("Update rolled back",
			zap.String("record", fmt.Sprintf("%T", model)),
			zap.Error(result.Error),
		)
		if isDuplicateKey(result.Error) {
			return 0, appErrors.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to update record: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func isDuplicateKey(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key")
}
