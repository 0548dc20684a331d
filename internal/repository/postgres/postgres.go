package postgres

import (
	"gorm.io/gorm"

	"github.com/kingrain94/tagorder-api/internal/config"
	"github.com/kingrain94/tagorder-api/internal/domain"
	"github.com/kingrain94/tagorder-api/internal/repository"
)

type postgresRepository struct {
	storeRepo        repository.StoreRepository
	tagRepo          repository.TagRepository
	billingEventRepo repository.BillingEventRepository
}

func NewPostgresRepository(dbConnections *config.DatabaseConnections) repository.Repository {
	return newRepository(dbConnections.Writer, dbConnections.Reader)
}

func newRepository(writerDB, readerDB *gorm.DB) repository.Repository {
	return &postgresRepository{
		storeRepo:        NewStoreRepository(writerDB, readerDB),
		tagRepo:          NewTagRepository(writerDB, readerDB),
		billingEventRepo: NewBillingEventRepository(writerDB, readerDB),
	}
}

func (r *postgresRepository) Store() repository.StoreRepository {
	return r.storeRepo
}

func (r *postgresRepository) Tag() repository.TagRepository {
	return r.tagRepo
}

func (r *postgresRepository) BillingEvent() repository.BillingEventRepository {
	return r.billingEventRepo
}

// Migrate creates or updates the tables this repository reads and writes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Store{}, &domain.Tag{}, &domain.BillingEvent{})
}
