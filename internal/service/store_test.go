package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/tagorder-api/internal/api/dto"
	"github.com/kingrain94/tagorder-api/internal/config"
	"github.com/kingrain94/tagorder-api/internal/domain"
	"github.com/kingrain94/tagorder-api/internal/mocks"
	"github.com/kingrain94/tagorder-api/internal/repository"
	"github.com/kingrain94/tagorder-api/internal/utils"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

type StoreServiceTestSuite struct {
	suite.Suite
	mockRepo   *mocks.Repository
	mockStore  *mocks.StoreRepository
	mockTag    *mocks.TagRepository
	mockEvents *mocks.BillingEventRepository
	identity   utils.Identity
	service    *StoreService
}

func (s *StoreServiceTestSuite) SetupTest() {
	s.mockRepo = new(mocks.Repository)
	s.mockStore = new(mocks.StoreRepository)
	s.mockTag = new(mocks.TagRepository)
	s.mockEvents = new(mocks.BillingEventRepository)

	s.mockRepo.On("Store").Return(s.mockStore)
	s.mockRepo.On("Tag").Return(s.mockTag)
	s.mockRepo.On("BillingEvent").Return(s.mockEvents)

	log := logger.NewNop()
	plans := domain.DefaultPlans()
	catalog := domain.NewPlanCatalog(map[string]domain.Plan{"price_lite": plans[domain.PlanLite]})
	capacity := NewCapacityService(s.mockRepo, config.CapacityConfig{EarlyBirdTotal: 100, CacheTTL: time.Minute}, clockwork.NewFakeClock())
	tags := NewTagProvisioner(s.mockRepo, log)

	s.identity = utils.Identity{UserID: testUserID, Email: "owner@salon.jp"}
	s.service = NewStoreService(s.mockRepo, catalog, capacity, tags, "https://app.tagorder.jp/", log)
}

func TestStoreService(t *testing.T) {
	suite.Run(t, new(StoreServiceTestSuite))
}

func (s *StoreServiceTestSuite) TestCreate_EarlyBirdWithReferral() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(nil, repository.ErrNotFound)
	s.mockStore.On("GetByReferralCode", ctx, "K7Q2M9XA").Return(&domain.Store{ID: testReferrerID}, nil)
	s.mockStore.On("CountEarlyBirds", ctx).Return(int64(12), nil)
	s.mockStore.On("Create", ctx, mock.MatchedBy(func(store *domain.Store) bool {
		return store.ID != "" &&
			store.AuthUserID == testUserID &&
			store.Email == "owner@salon.jp" &&
			store.Name == "Salon Hana" &&
			store.Plan == domain.PlanFree &&
			store.MaxSKU == 10 &&
			store.SubscriptionStatus == domain.SubscriptionNone &&
			len(store.ReferralCode) == 8 &&
			store.ReferredBy != nil && *store.ReferredBy == testReferrerID &&
			store.IsEarlyBird
	})).Return(nil)
	s.mockTag.On("Count", ctx, mock.Anything).Return(int64(0), nil)
	s.mockTag.On("InsertIfAbsent", ctx, mock.MatchedBy(func(tags []domain.Tag) bool {
		return len(tags) == 10
	})).Return(int64(10), nil)

	resp, err := s.service.Create(ctx, s.identity, dto.CreateStoreRequest{Name: "  Salon Hana ", ReferralCode: " k7q2m9xa"})

	s.NoError(err)
	s.Equal(domain.PlanFree, resp.Plan)
	s.Equal("Free", resp.PlanLabel)
	s.True(resp.IsEarlyBird)
	s.Equal(testReferrerID, *resp.ReferredBy)
	s.mockStore.AssertExpectations(s.T())
	s.mockTag.AssertExpectations(s.T())
}

func (s *StoreServiceTestSuite) TestCreate_CapacityFull() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(nil, repository.ErrNotFound)
	s.mockStore.On("CountEarlyBirds", ctx).Return(int64(100), nil)
	s.mockStore.On("Create", ctx, mock.MatchedBy(func(store *domain.Store) bool {
		return !store.IsEarlyBird && store.ReferredBy == nil
	})).Return(nil)
	s.mockTag.On("Count", ctx, mock.Anything).Return(int64(0), nil)
	s.mockTag.On("InsertIfAbsent", ctx, mock.Anything).Return(int64(10), nil)

	resp, err := s.service.Create(ctx, s.identity, dto.CreateStoreRequest{Name: "Salon Hana"})

	s.NoError(err)
	s.False(resp.IsEarlyBird)
	s.mockStore.AssertNotCalled(s.T(), "GetByReferralCode", mock.Anything, mock.Anything)
}

func (s *StoreServiceTestSuite) TestCreate_TagFailureStillCreatesStore() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(nil, repository.ErrNotFound)
	s.mockStore.On("CountEarlyBirds", ctx).Return(int64(100), nil)
	s.mockStore.On("Create", ctx, mock.Anything).Return(nil)
	s.mockTag.On("Count", ctx, mock.Anything).Return(int64(0), errors.New("timeout"))

	resp, err := s.service.Create(ctx, s.identity, dto.CreateStoreRequest{Name: "Salon Hana"})

	s.NoError(err)
	s.NotNil(resp)
}

func (s *StoreServiceTestSuite) TestCreate_AlreadyExists() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(&domain.Store{ID: testStoreID}, nil)

	_, err := s.service.Create(ctx, s.identity, dto.CreateStoreRequest{Name: "Salon Hana"})

	s.ErrorIs(err, ErrStoreExists)
	s.mockStore.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *StoreServiceTestSuite) TestCreate_ConcurrentSignupConflict() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(nil, repository.ErrNotFound)
	s.mockStore.On("CountEarlyBirds", ctx).Return(int64(0), nil)
	s.mockStore.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)

	_, err := s.service.Create(ctx, s.identity, dto.CreateStoreRequest{Name: "Salon Hana"})

	s.ErrorIs(err, ErrStoreExists)
	s.mockTag.AssertNotCalled(s.T(), "Count", mock.Anything, mock.Anything)
}

func (s *StoreServiceTestSuite) TestCreate_UnknownReferralCode() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(nil, repository.ErrNotFound)
	s.mockStore.On("GetByReferralCode", ctx, "NOPE0000").Return(nil, repository.ErrNotFound)

	_, err := s.service.Create(ctx, s.identity, dto.CreateStoreRequest{Name: "Salon Hana", ReferralCode: "nope0000"})

	s.ErrorIs(err, ErrUnknownReferralCode)
	s.mockStore.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *StoreServiceTestSuite) TestGetMe_PaidPlanLabel() {
	ctx := context.Background()
	store := &domain.Store{
		ID:                   testStoreID,
		Plan:                 domain.PlanLite,
		MaxSKU:               30,
		StripePriceID:        strPtr("price_lite"),
		StripeSubscriptionID: strPtr("sub_1"),
		SubscriptionStatus:   domain.SubscriptionActive,
	}
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(store, nil)

	resp, err := s.service.GetMe(ctx, s.identity)

	s.NoError(err)
	s.Equal("Lite (30 SKU)", resp.PlanLabel)
	s.True(resp.HasSubscription)
	s.Equal("active", resp.SubscriptionStatus)
}

func (s *StoreServiceTestSuite) TestGetMe_NotFound() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(nil, repository.ErrNotFound)

	_, err := s.service.GetMe(ctx, s.identity)

	s.ErrorIs(err, ErrStoreNotFound)
}

func (s *StoreServiceTestSuite) TestListTags() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(&domain.Store{ID: testStoreID}, nil)
	s.mockTag.On("ListByStore", ctx, testStoreID).Return(domain.TagsInRange(testStoreID, 1, 3), nil)

	tags, err := s.service.ListTags(ctx, s.identity)

	s.NoError(err)
	s.Len(tags, 3)
	s.Equal("3FA85F-001", tags[0].Code)
	s.Equal("unassigned", tags[0].Status)
}

func (s *StoreServiceTestSuite) TestExportTags_DefaultsToCSV() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(&domain.Store{ID: testStoreID}, nil)
	s.mockTag.On("ListByStore", ctx, testStoreID).Return(domain.TagsInRange(testStoreID, 1, 2), nil)

	sheet, err := s.service.ExportTags(ctx, s.identity, "")

	s.NoError(err)
	s.Equal("tags-3FA85F.csv", sheet.Filename)
	s.Contains(string(sheet.Data), "3FA85F-002,unassigned,,https://app.tagorder.jp/r/3FA85F-002")
}

func (s *StoreServiceTestSuite) TestExportTags_UnsupportedFormat() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(&domain.Store{ID: testStoreID}, nil)
	s.mockTag.On("ListByStore", ctx, testStoreID).Return([]domain.Tag{}, nil)

	_, err := s.service.ExportTags(ctx, s.identity, "pdf")

	s.ErrorIs(err, ErrInvalidArgument)
}

func (s *StoreServiceTestSuite) TestListBillingEvents_Since() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(&domain.Store{ID: testStoreID}, nil)
	s.mockEvents.On("List", ctx, domain.BillingEventFilter{
		StoreID: testStoreID,
		Since:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Limit:   20,
	}).Return([]domain.BillingEvent{{ID: "evt_1", Type: EventSubscriptionUpdated, Outcome: domain.BillingEventProcessed, Attempts: 2}}, nil)

	events, err := s.service.ListBillingEvents(ctx, s.identity, dto.BillingEventQuery{Since: "2026-03-01", Limit: 20})

	s.NoError(err)
	s.Len(events, 1)
	s.Equal("processed", events[0].Outcome)
	s.Equal(2, events[0].Attempts)
}

func (s *StoreServiceTestSuite) TestListBillingEvents_BadSince() {
	_, err := s.service.ListBillingEvents(context.Background(), s.identity, dto.BillingEventQuery{Since: "last tuesday"})

	s.ErrorIs(err, ErrInvalidArgument)
	s.mockStore.AssertNotCalled(s.T(), "GetByAuthUserID", mock.Anything, mock.Anything)
}

func (s *StoreServiceTestSuite) TestStoreIDFor() {
	ctx := context.Background()
	s.mockStore.On("GetByAuthUserID", ctx, testUserID).Return(&domain.Store{ID: testStoreID}, nil)

	id, err := s.service.StoreIDFor(ctx, s.identity)

	s.NoError(err)
	s.Equal(testStoreID, id)
}

func (s *StoreServiceTestSuite) TestPlans() {
	plans := s.service.Plans()

	s.Len(plans, 2)
	s.Equal(domain.PlanFree, plans[0].Plan)
	s.Equal("price_lite", plans[1].PriceID)
}
