package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kingrain94/tagorder-api/internal/repository"
)

// translateError maps gorm errors onto the repository sentinels. Duplicate
// keys are only reported when the connection has TranslateError enabled.
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrConflict
	}
	return err
}

// requireRows turns an update that touched nothing into ErrNotFound.
func requireRows(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
