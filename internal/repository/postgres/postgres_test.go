package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kingrain94/tagorder-api/internal/domain"
	"github.com/kingrain94/tagorder-api/internal/repository"
)

const (
	testStoreID    = "3fa85f64-5717-4562-b3fc-2c963f66afa6"
	testCustomerID = "cus_123"
)

type PostgresRepositoryTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	repo repository.Repository
}

func (s *PostgresRepositoryTestSuite) SetupTest() {
	sqlDB, mock, err := sqlmock.New()
	s.Require().NoError(err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	s.mock = mock
	s.repo = newRepository(db, db)
}

func (s *PostgresRepositoryTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestPostgresRepository(t *testing.T) {
	suite.Run(t, new(PostgresRepositoryTestSuite))
}

func storeColumns() []string {
	return []string{"id", "auth_user_id", "name", "stripe_customer_id", "plan", "max_sku", "subscription_status", "referral_code", "referral_count", "is_early_bird"}
}

func (s *PostgresRepositoryTestSuite) TestGetByCustomerID_Success() {
	rows := sqlmock.NewRows(storeColumns()).
		AddRow(testStoreID, "user-1", "Salon", testCustomerID, "lite", 30, "active", "ABCD1234", 2, true)
	s.mock.ExpectQuery(`SELECT \* FROM "stores" WHERE stripe_customer_id = \$1`).WillReturnRows(rows)

	store, err := s.repo.Store().GetByCustomerID(context.Background(), testCustomerID)

	s.Require().NoError(err)
	s.Equal(testStoreID, store.ID)
	s.Equal("lite", store.Plan)
	s.Equal(30, store.MaxSKU)
	s.Equal(domain.SubscriptionActive, store.SubscriptionStatus)
	s.True(store.IsEarlyBird)
}

func (s *PostgresRepositoryTestSuite) TestGetByCustomerID_NotFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "stores"`).WillReturnRows(sqlmock.NewRows(storeColumns()))

	store, err := s.repo.Store().GetByCustomerID(context.Background(), testCustomerID)

	s.Nil(store)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresRepositoryTestSuite) TestUpdateSubscriptionByCustomerID_ReturnsUpdatedRow() {
	rows := sqlmock.NewRows(storeColumns()).
		AddRow(testStoreID, "user-1", "Salon", testCustomerID, "standard", 100, "active", "ABCD1234", 0, false)
	s.mock.ExpectQuery(`UPDATE "stores" SET .* WHERE stripe_customer_id = .* RETURNING \*`).WillReturnRows(rows)

	subID, priceID := "sub_1", "price_standard"
	store, err := s.repo.Store().UpdateSubscriptionByCustomerID(context.Background(), testCustomerID, domain.SubscriptionChange{
		SubscriptionID: &subID,
		PriceID:        &priceID,
		Plan:           domain.PlanStandard,
		MaxSKU:         100,
		Status:         domain.SubscriptionActive,
	})

	s.Require().NoError(err)
	s.Equal(testStoreID, store.ID)
	s.Equal(100, store.MaxSKU)
}

func (s *PostgresRepositoryTestSuite) TestUpdateStatusByCustomerID_NoMatchingStore() {
	s.mock.ExpectQuery(`UPDATE "stores" SET`).WillReturnRows(sqlmock.NewRows(storeColumns()))

	store, err := s.repo.Store().UpdateStatusByCustomerID(context.Background(), "cus_missing", domain.SubscriptionPastDue)

	s.Nil(store)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresRepositoryTestSuite) TestSetCustomerID_NoMatchingStore() {
	s.mock.ExpectExec(`UPDATE "stores" SET "stripe_customer_id"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.Store().SetCustomerID(context.Background(), testStoreID, testCustomerID)

	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresRepositoryTestSuite) TestCountEarlyBirds() {
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "stores" WHERE is_early_bird = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := s.repo.Store().CountEarlyBirds(context.Background())

	s.NoError(err)
	s.Equal(int64(42), count)
}

func (s *PostgresRepositoryTestSuite) TestTagCount() {
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "tags" WHERE store_id = \$1`).
		WithArgs(testStoreID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	count, err := s.repo.Tag().Count(context.Background(), testStoreID)

	s.NoError(err)
	s.Equal(int64(10), count)
}

func (s *PostgresRepositoryTestSuite) TestTagInsertIfAbsent_EmptyIsNoop() {
	inserted, err := s.repo.Tag().InsertIfAbsent(context.Background(), nil)

	s.NoError(err)
	s.Zero(inserted)
}

func (s *PostgresRepositoryTestSuite) TestTagInsertIfAbsent_SkipsExistingCodes() {
	now := time.Now()
	tags := domain.TagsInRange(testStoreID, 1, 3)
	// Postgres only returns the rows it actually inserted.
	s.mock.ExpectQuery(`INSERT INTO "tags" .* ON CONFLICT \("store_id","code"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(now, now).
			AddRow(now, now))

	inserted, err := s.repo.Tag().InsertIfAbsent(context.Background(), tags)

	s.NoError(err)
	s.Equal(int64(2), inserted)
}

func (s *PostgresRepositoryTestSuite) TestCreate_IncrementsReferrerInSameTransaction() {
	referrerID := "9b2c1e7a-4d3f-4a8e-b6c5-1f0e2d3c4b5a"
	now := time.Now()
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`INSERT INTO "stores"`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	s.mock.ExpectExec(`UPDATE "stores" SET "referral_count"=referral_count \+ \$1 WHERE id = \$2`).
		WithArgs(1, referrerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.Store().Create(context.Background(), &domain.Store{
		ID:           testStoreID,
		AuthUserID:   "user-1",
		Name:         "Salon",
		Plan:         domain.PlanFree,
		MaxSKU:       domain.DefaultMaxSKU,
		ReferralCode: "ABCD1234",
		ReferredBy:   &referrerID,
	})

	s.NoError(err)
}

func (s *PostgresRepositoryTestSuite) TestCreate_MissingReferrerRollsBack() {
	referrerID := "9b2c1e7a-4d3f-4a8e-b6c5-1f0e2d3c4b5a"
	now := time.Now()
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`INSERT INTO "stores"`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	s.mock.ExpectExec(`UPDATE "stores" SET "referral_count"=referral_count \+ \$1 WHERE id = \$2`).
		WithArgs(1, referrerID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectRollback()

	err := s.repo.Store().Create(context.Background(), &domain.Store{
		ID:           testStoreID,
		AuthUserID:   "user-1",
		Name:         "Salon",
		ReferralCode: "ABCD1234",
		ReferredBy:   &referrerID,
	})

	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresRepositoryTestSuite) TestCreate_WithoutReferrerSkipsCount() {
	now := time.Now()
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`INSERT INTO "stores"`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	s.mock.ExpectCommit()

	err := s.repo.Store().Create(context.Background(), &domain.Store{
		ID:           testStoreID,
		AuthUserID:   "user-1",
		Name:         "Salon",
		ReferralCode: "ABCD1234",
	})

	s.NoError(err)
}

func (s *PostgresRepositoryTestSuite) TestListByStore_OrderedByCode() {
	rows := sqlmock.NewRows([]string{"store_id", "code", "status"}).
		AddRow(testStoreID, "3FA85F-001", "unassigned").
		AddRow(testStoreID, "3FA85F-002", "attached")
	s.mock.ExpectQuery(`SELECT \* FROM "tags" WHERE store_id = \$1 ORDER BY code ASC`).
		WithArgs(testStoreID).
		WillReturnRows(rows)

	tags, err := s.repo.Tag().ListByStore(context.Background(), testStoreID)

	s.Require().NoError(err)
	s.Len(tags, 2)
	s.Equal(domain.TagAttached, tags[1].Status)
}

func (s *PostgresRepositoryTestSuite) TestBillingEventList_RequiresStore() {
	events, err := s.repo.BillingEvent().List(context.Background(), domain.BillingEventFilter{})

	s.Error(err)
	s.Nil(events)
}

func (s *PostgresRepositoryTestSuite) TestBillingEventDeleteBefore() {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.mock.ExpectExec(`DELETE FROM "billing_events" WHERE received_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := s.repo.BillingEvent().DeleteBefore(context.Background(), cutoff)

	s.NoError(err)
	s.Equal(int64(3), deleted)
}
