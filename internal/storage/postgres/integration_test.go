//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"pricing_history/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.Require().NoError(Migrate(connStr))
	// second run is a no-op
	s.Require().NoError(Migrate(connStr))

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM retail_prices")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM snapshot_runs")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM function_diagnostics")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func item(meterID string, price float64, service, region, sku, family string) domain.PricingItem {
	return domain.PricingItem{
		MeterID:            meterID,
		EffectiveStartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RetailPrice:        ptr(price),
		UnitPrice:          ptr(price),
		UnitOfMeasure:      ptr("1 Hour"),
		ArmRegionName:      ptr(region),
		ProductName:        ptr(service + " " + sku),
		SkuName:            ptr(sku),
		ServiceName:        ptr(service),
		ServiceFamily:      ptr(family),
		MeterName:          ptr(sku + " meter"),
		Type:               ptr("Consumption"),
	}
}

func (s *PostgresIntegrationSuite) countPrices() int {
	var count int
	s.Require().NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM retail_prices"))
	return count
}

func (s *PostgresIntegrationSuite) TestPriceStore_UpsertBatch_Insert() {
	store := NewPriceStore(s.db)

	items := []domain.PricingItem{
		item("m-1", 0.1, "Virtual Machines", "westeurope", "D2s v3", "Compute"),
		item("m-2", 0.2, "Virtual Machines", "eastus", "D4s v3", "Compute"),
	}
	s.NoError(store.UpsertBatch(s.ctx, "USD", items))
	s.Equal(2, s.countPrices())

	var currency string
	s.NoError(s.db.GetContext(s.ctx, &currency, "SELECT currency_code FROM retail_prices WHERE meter_id = 'm-1'"))
	s.Equal("USD", currency)
}

func (s *PostgresIntegrationSuite) TestPriceStore_UpsertBatch_RejectsDuplicateKeys() {
	store := NewPriceStore(s.db)
	dup := item("m-1", 0.1, "Storage", "westeurope", "LRS", "Storage")

	err := store.UpsertBatch(s.ctx, "USD", []domain.PricingItem{dup, dup})
	s.Require().Error(err)

	var pqErr *pq.Error
	s.Require().True(errors.As(err, &pqErr))
	// cardinality_violation: ON CONFLICT cannot touch the same row twice
	s.Equal(pq.ErrorCode("21000"), pqErr.Code)
	s.Equal(0, s.countPrices())
}

func (s *PostgresIntegrationSuite) TestPriceStore_UpsertBatch_IsIdempotent() {
	store := NewPriceStore(s.db)
	items := []domain.PricingItem{item("m-1", 0.1, "Storage", "westeurope", "LRS", "Storage")}

	s.NoError(store.UpsertBatch(s.ctx, "USD", items))

	var firstSeen time.Time
	s.NoError(s.db.GetContext(s.ctx, &firstSeen, "SELECT last_seen_utc FROM retail_prices WHERE meter_id = 'm-1'"))

	time.Sleep(10 * time.Millisecond)
	items[0].RetailPrice = ptr(0.15)
	s.NoError(store.UpsertBatch(s.ctx, "USD", items))

	s.Equal(1, s.countPrices())

	var row struct {
		Price    float64   `db:"retail_price"`
		LastSeen time.Time `db:"last_seen_utc"`
	}
	s.NoError(s.db.GetContext(s.ctx, &row, "SELECT retail_price, last_seen_utc FROM retail_prices WHERE meter_id = 'm-1'"))
	s.InDelta(0.15, row.Price, 1e-9)
	s.True(row.LastSeen.After(firstSeen))
}

func (s *PostgresIntegrationSuite) TestPriceStore_UpsertBatch_CurrenciesAreSeparateRows() {
	store := NewPriceStore(s.db)
	items := []domain.PricingItem{item("m-1", 0.1, "Storage", "westeurope", "LRS", "Storage")}

	s.NoError(store.UpsertBatch(s.ctx, "USD", items))
	s.NoError(store.UpsertBatch(s.ctx, "EUR", items))

	s.Equal(2, s.countPrices())
}

func (s *PostgresIntegrationSuite) TestPriceStore_UpsertBatch_Empty() {
	store := NewPriceStore(s.db)

	s.NoError(store.UpsertBatch(s.ctx, "USD", nil))
	s.Equal(0, s.countPrices())
}

func (s *PostgresIntegrationSuite) TestRunStore_Lifecycle() {
	store := NewRunStore(s.db)
	started := time.Now().UTC().Truncate(time.Microsecond)

	s.NoError(store.Start(s.ctx, "202403", "USD", started))

	run, err := store.Get(s.ctx, "202403", "USD")
	s.NoError(err)
	s.Require().NotNil(run)
	s.Equal(domain.RunStatusRunning, run.Status)
	s.Nil(run.FinishedUTC)
	s.Nil(run.ItemCount)

	s.NoError(store.Finish(s.ctx, "202403", "USD", domain.RunStatusSucceeded, 42))

	run, err = store.Get(s.ctx, "202403", "USD")
	s.NoError(err)
	s.Equal(domain.RunStatusSucceeded, run.Status)
	s.Require().NotNil(run.FinishedUTC)
	s.Require().NotNil(run.ItemCount)
	s.Equal(int64(42), *run.ItemCount)
}

func (s *PostgresIntegrationSuite) TestRunStore_StartResetsExistingRun() {
	store := NewRunStore(s.db)

	s.NoError(store.Start(s.ctx, "202403", "USD", time.Now().Add(-time.Hour)))
	s.NoError(store.Finish(s.ctx, "202403", "USD", domain.RunStatusFailed, 0))

	restarted := time.Now().UTC().Truncate(time.Microsecond)
	s.NoError(store.Start(s.ctx, "202403", "USD", restarted))

	run, err := store.Get(s.ctx, "202403", "USD")
	s.NoError(err)
	s.Equal(domain.RunStatusRunning, run.Status)
	s.Nil(run.FinishedUTC)
	s.Nil(run.ItemCount)
	s.WithinDuration(restarted, run.StartedUTC, time.Second)
}

func (s *PostgresIntegrationSuite) TestRunStore_GetMissing() {
	store := NewRunStore(s.db)

	run, err := store.Get(s.ctx, "202403", "JPY")
	s.NoError(err)
	s.Nil(run)
}

func (s *PostgresIntegrationSuite) TestRunStore_MarkFailed() {
	store := NewRunStore(s.db)
	now := time.Now()

	s.NoError(store.Start(s.ctx, "202403", "USD", now))
	s.NoError(store.Start(s.ctx, "202403", "EUR", now))
	s.NoError(store.Start(s.ctx, "202403", "GBP", now))
	s.NoError(store.Finish(s.ctx, "202403", "GBP", domain.RunStatusSucceeded, 5))

	n, err := store.MarkFailed(s.ctx, "202403", "USD")
	s.NoError(err)
	s.Equal(int64(1), n)

	n, err = store.MarkFailed(s.ctx, "202403", "")
	s.NoError(err)
	s.Equal(int64(1), n)

	gbp, err := store.Get(s.ctx, "202403", "GBP")
	s.NoError(err)
	s.Equal(domain.RunStatusSucceeded, gbp.Status)

	eur, err := store.Get(s.ctx, "202403", "EUR")
	s.NoError(err)
	s.Equal(domain.RunStatusFailed, eur.Status)
	s.NotNil(eur.FinishedUTC)
}

func (s *PostgresIntegrationSuite) TestRunStore_ReapHung() {
	store := NewRunStore(s.db)

	s.NoError(store.Start(s.ctx, "202402", "USD", time.Now().Add(-3*time.Hour)))
	s.NoError(store.Start(s.ctx, "202403", "USD", time.Now().Add(-10*time.Minute)))

	n, err := store.ReapHung(s.ctx, 2*time.Hour)
	s.NoError(err)
	s.Equal(int64(1), n)

	old, err := store.Get(s.ctx, "202402", "USD")
	s.NoError(err)
	s.Equal(domain.RunStatusFailed, old.Status)

	fresh, err := store.Get(s.ctx, "202403", "USD")
	s.NoError(err)
	s.Equal(domain.RunStatusRunning, fresh.Status)
}

func (s *PostgresIntegrationSuite) TestDiagnosticsStore_Record() {
	store := NewDiagnosticsStore(s.db)

	s.NoError(store.Record(s.ctx, "PriceSnapshot", "invocation started"))

	var count int
	s.NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM function_diagnostics WHERE function_name = 'PriceSnapshot'"))
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	store := NewPriceStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return store.UpsertBatch(ctx, "USD", []domain.PricingItem{
			item("m-tx", 1, "SQL Database", "eastus", "S0", "Databases"),
		})
	})
	s.NoError(err)
	s.Equal(1, s.countPrices())
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	store := NewPriceStore(s.db)

	s.NoError(store.UpsertBatch(s.ctx, "USD", []domain.PricingItem{
		item("m-existing", 1, "SQL Database", "eastus", "S0", "Databases"),
	}))

	errBoom := errors.New("boom")
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := store.UpsertBatch(ctx, "USD", []domain.PricingItem{
			item("m-rolled-back", 2, "SQL Database", "eastus", "S1", "Databases"),
		}); err != nil {
			return err
		}
		return errBoom
	})
	s.ErrorIs(err, errBoom)

	s.Equal(1, s.countPrices())
}

func (s *PostgresIntegrationSuite) TestTransaction_NestedCallJoinsOuter() {
	tm := NewTransactionManager(s.db)
	store := NewPriceStore(s.db)
	runs := NewRunStore(s.db)

	errBoom := errors.New("boom")
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := runs.Start(ctx, "202403", "USD", time.Now()); err != nil {
			return err
		}
		err := tm.WithTransaction(ctx, func(ctx context.Context) error {
			return store.UpsertBatch(ctx, "USD", []domain.PricingItem{
				item("m-inner", 1, "SQL Database", "eastus", "S0", "Databases"),
			})
		})
		s.Require().NoError(err)
		return errBoom
	})
	s.ErrorIs(err, errBoom)

	// the inner call did not commit on its own
	s.Equal(0, s.countPrices())
	run, err := runs.Get(s.ctx, "202403", "USD")
	s.NoError(err)
	s.Nil(run)
}

func (s *PostgresIntegrationSuite) seedDashboard() {
	store := NewPriceStore(s.db)
	runs := NewRunStore(s.db)

	older := item("vm-1", 0.30, "Virtual Machines", "westeurope", "D2s v3", "Compute")
	older.EffectiveStartDate = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Require().NoError(store.UpsertBatch(s.ctx, "USD", []domain.PricingItem{
		older,
		item("vm-1", 0.20, "Virtual Machines", "westeurope", "D2s v3", "Compute"),
		item("vm-2", 0.10, "Virtual Machines", "eastus", "D2s v3", "Compute"),
		item("vm-3", 0.40, "Virtual Machines", "eastus", "D4s v3", "Compute"),
		item("st-1", 0.02, "Storage", "westeurope", "LRS", "Storage"),
	}))
	s.Require().NoError(store.UpsertBatch(s.ctx, "EUR", []domain.PricingItem{
		item("vm-1", 0.18, "Virtual Machines", "westeurope", "D2s v3", "Compute"),
	}))

	s.Require().NoError(runs.Start(s.ctx, "202403", "USD", time.Now().Add(-time.Minute)))
	s.Require().NoError(runs.Finish(s.ctx, "202403", "USD", domain.RunStatusSucceeded, 5))
	s.Require().NoError(runs.Start(s.ctx, "202403", "EUR", time.Now()))
}

func (s *PostgresIntegrationSuite) TestDashboardStore_Summary() {
	s.seedDashboard()
	store := NewDashboardStore(s.db)

	summary, err := store.Summary(s.ctx)
	s.NoError(err)
	s.Equal(int64(4), summary.TotalMeters)
	s.Equal(int64(2), summary.TotalServices)
	s.Equal(int64(2), summary.TotalRegions)
	s.Equal(int64(2), summary.TotalCurrencies)
	s.Equal(int64(2), summary.TotalSnapshots)
	s.Equal(int64(1), summary.SuccessfulSnapshots)
	s.NotNil(summary.LastUpdate)
}

func (s *PostgresIntegrationSuite) TestDashboardStore_TopServicesUsesCurrentPrices() {
	s.seedDashboard()
	store := NewDashboardStore(s.db)

	services, err := store.TopServices(s.ctx, "USD", 10)
	s.NoError(err)
	s.Require().Len(services, 2)
	s.Equal("Virtual Machines", services[0].Name)
	s.Equal(int64(3), services[0].MeterCount)
	// the superseded 0.30 price does not count
	s.InDelta(0.40, services[0].MaxPrice, 1e-9)
	s.InDelta(0.10, services[0].MinPrice, 1e-9)
}

func (s *PostgresIntegrationSuite) TestDashboardStore_RegionPricing() {
	s.seedDashboard()
	store := NewDashboardStore(s.db)

	all, err := store.RegionPricing(s.ctx, "USD", "")
	s.NoError(err)
	s.Len(all, 2)

	storage, err := store.RegionPricing(s.ctx, "USD", "Storage")
	s.NoError(err)
	s.Require().Len(storage, 1)
	s.Equal("westeurope", storage[0].Region)
}

func (s *PostgresIntegrationSuite) TestDashboardStore_MeterTrendAndHistory() {
	s.seedDashboard()
	store := NewDashboardStore(s.db)

	trend, err := store.MeterTrend(s.ctx, "USD", "vm-1")
	s.NoError(err)
	s.Require().Len(trend, 2)
	s.InDelta(0.20, trend[0].Price, 1e-9)

	history, err := store.MeterHistory(s.ctx, "vm-1", "USD")
	s.NoError(err)
	s.Require().Len(history, 2)
	s.InDelta(0.30, history[0].Price, 1e-9)
}

func (s *PostgresIntegrationSuite) TestDashboardStore_SnapshotHistory() {
	s.seedDashboard()
	store := NewDashboardStore(s.db)

	runs, err := store.SnapshotHistory(s.ctx, 10)
	s.NoError(err)
	s.Require().Len(runs, 2)
	s.Equal("EUR", runs[0].Currency)
	s.Equal(domain.RunStatusRunning, runs[0].Status)
	s.Nil(runs[0].DurationSeconds)
	s.Equal(domain.RunStatusSucceeded, runs[1].Status)
	s.Greater(runs[1].ItemsPerSecond, 0.0)
}

func (s *PostgresIntegrationSuite) TestDashboardStore_Search() {
	s.seedDashboard()
	store := NewDashboardStore(s.db)

	results, err := store.Search(s.ctx, "d4s", "USD", 10)
	s.NoError(err)
	s.Require().Len(results, 1)
	s.Equal("vm-3", results[0].MeterID)
}

func (s *PostgresIntegrationSuite) TestDashboardStore_SkusAndCheapestRegion() {
	s.seedDashboard()
	store := NewDashboardStore(s.db)

	families, err := store.SkuFamilies(s.ctx, "USD")
	s.NoError(err)
	s.Len(families, 3)
	s.Equal("Compute", families[0].Category)

	meters, err := store.SkuMeters(s.ctx, "USD", "D2s v3")
	s.NoError(err)
	s.Len(meters, 2)

	cheapest, err := store.CheapestRegion(s.ctx, "D2s v3", "USD")
	s.NoError(err)
	s.Require().NotNil(cheapest)
	s.Equal("eastus", cheapest.Region)

	none, err := store.CheapestRegion(s.ctx, "does-not-exist", "USD")
	s.NoError(err)
	s.Nil(none)
}
