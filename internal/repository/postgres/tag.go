package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kingrain94/tagorder-api/internal/domain"
)

const tagBatchSize = 100

type TagRepository struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewTagRepository(writerDB, readerDB *gorm.DB) *TagRepository {
	return &TagRepository{
		writerDB: writerDB,
		readerDB: readerDB,
	}
}

// Count reads from the writer; provisioning computes its range from it.
func (r *TagRepository) Count(ctx context.Context, storeID string) (int64, error) {
	var count int64
	err := r.writerDB.WithContext(ctx).
		Model(&domain.Tag{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

// InsertIfAbsent creates the tags, skipping codes that already exist for the
// store, and returns how many rows were actually inserted.
func (r *TagRepository) InsertIfAbsent(ctx context.Context, tags []domain.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	result := r.writerDB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "code"}},
			DoNothing: true,
		}).
		CreateInBatches(tags, tagBatchSize)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *TagRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.readerDB.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("code ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
