package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pricing_history/internal/domain"
	"pricing_history/internal/service/mocks"
)

type UpserterTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	prices    *mocks.MockPriceStore
	txManager *mocks.MockTransactionManager

	logger *slog.Logger
}

func (s *UpserterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.prices = mocks.NewMockPriceStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func (s *UpserterTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestUpserterTestSuite(t *testing.T) {
	suite.Run(t, new(UpserterTestSuite))
}

func (s *UpserterTestSuite) newUpserter(batchSize int) *Upserter {
	return NewUpserter(s.prices, s.txManager, batchSize, nil, s.logger)
}

func (s *UpserterTestSuite) expectTransactions(n int) {
	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).Times(n)
}

func (s *UpserterTestSuite) TestUpsert_EmptyInput() {
	n, err := s.newUpserter(2).Upsert(context.Background(), "202403", "USD", nil)

	s.NoError(err)
	s.Equal(0, n)
}

func (s *UpserterTestSuite) TestUpsert_SplitsIntoChunks() {
	ctx := context.Background()
	items := []domain.PricingItem{
		priceItem("a", 1), priceItem("b", 1), priceItem("c", 1), priceItem("d", 1), priceItem("e", 1),
	}

	s.expectTransactions(3)
	gomock.InOrder(
		s.prices.EXPECT().UpsertBatch(gomock.Any(), "USD", items[0:2]).Return(nil),
		s.prices.EXPECT().UpsertBatch(gomock.Any(), "USD", items[2:4]).Return(nil),
		s.prices.EXPECT().UpsertBatch(gomock.Any(), "USD", items[4:5]).Return(nil),
	)

	n, err := s.newUpserter(2).Upsert(ctx, "202403", "USD", items)

	s.NoError(err)
	s.Equal(5, n)
}

func (s *UpserterTestSuite) TestUpsert_DedupesEachChunk() {
	ctx := context.Background()
	items := []domain.PricingItem{priceItem("a", 1), priceItem("a", 1), priceItem("b", 1)}

	s.expectTransactions(1)
	s.prices.EXPECT().UpsertBatch(gomock.Any(), "USD", []domain.PricingItem{items[0], items[2]}).Return(nil)

	n, err := s.newUpserter(3).Upsert(ctx, "202403", "USD", items)

	s.NoError(err)
	s.Equal(2, n)
}

func (s *UpserterTestSuite) TestUpsert_DuplicatesAcrossChunksAreLeftToStore() {
	ctx := context.Background()
	items := []domain.PricingItem{priceItem("a", 1), priceItem("b", 1), priceItem("a", 1)}

	s.expectTransactions(2)
	s.prices.EXPECT().UpsertBatch(gomock.Any(), "USD", gomock.Any()).Return(nil).Times(2)

	n, err := s.newUpserter(2).Upsert(ctx, "202403", "USD", items)

	s.NoError(err)
	s.Equal(3, n)
}

func (s *UpserterTestSuite) TestUpsert_RunsInsideTransaction() {
	type marker struct{}
	items := []domain.PricingItem{priceItem("a", 1)}

	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(context.WithValue(ctx, marker{}, "tx"))
		},
	)
	s.prices.EXPECT().UpsertBatch(gomock.Any(), "USD", items).DoAndReturn(
		func(ctx context.Context, _ string, _ []domain.PricingItem) error {
			s.Equal("tx", ctx.Value(marker{}))
			return nil
		},
	)

	_, err := s.newUpserter(10).Upsert(context.Background(), "202403", "USD", items)
	s.NoError(err)
}

func (s *UpserterTestSuite) TestUpsert_FailingChunkStopsAndKeepsEarlierProgress() {
	ctx := context.Background()
	items := []domain.PricingItem{
		priceItem("a", 1), priceItem("b", 1), priceItem("c", 1), priceItem("d", 1), priceItem("e", 1),
	}
	errStore := errors.New("connection reset")

	s.expectTransactions(2)
	gomock.InOrder(
		s.prices.EXPECT().UpsertBatch(gomock.Any(), "USD", items[0:2]).Return(nil),
		s.prices.EXPECT().UpsertBatch(gomock.Any(), "USD", items[2:4]).Return(errStore),
	)

	n, err := s.newUpserter(2).Upsert(ctx, "202403", "USD", items)

	s.ErrorIs(err, errStore)
	s.Contains(err.Error(), "upsert items 2-3")
	s.Equal(2, n)
}
