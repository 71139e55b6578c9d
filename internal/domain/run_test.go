package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotIDFor(t *testing.T) {
	assert.Equal(t, "202403", SnapshotIDFor(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)))
	// 00:30 on April 1st in UTC+2 is still March in UTC
	assert.Equal(t, "202403", SnapshotIDFor(time.Date(2024, 4, 1, 0, 30, 0, 0, time.FixedZone("EET", 2*3600))))
}

func TestRunStatus_Terminal(t *testing.T) {
	assert.False(t, RunStatusRunning.Terminal())
	assert.True(t, RunStatusSucceeded.Terminal())
	assert.True(t, RunStatusFailed.Terminal())
}

func TestSnapshotReport_Lines(t *testing.T) {
	report := &SnapshotReport{
		Results: []CurrencyResult{
			{Currency: "USD", Status: RunStatusSucceeded, Items: 6},
			{Currency: "EUR", Status: RunStatusFailed, Err: errors.New("fetch page 2: boom")},
		},
	}

	assert.Equal(t, []string{"USD: 6 items", "EUR: FAILED - fetch page 2: boom"}, report.Lines())
	assert.Equal(t, 6, report.TotalItems())
}

func TestPricingItem_Key(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	item := PricingItem{MeterID: "m-1", EffectiveStartDate: at.In(time.FixedZone("CET", 3600)), CurrencyCode: "USD"}

	key := item.Key("EUR")
	assert.Equal(t, PriceKey{MeterID: "m-1", EffectiveStartDate: at, CurrencyCode: "EUR"}, key)
}
