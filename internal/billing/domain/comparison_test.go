package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUsageComparison_Change(t *testing.T) {
	c := NewUsageComparison(120, 100, 30, 28)
	assert.InDelta(t, 20, c.AbsoluteChangeKWh, 1e-9)
	assert.InDelta(t, 20, c.PercentChange, 1e-9)
	assert.InDelta(t, 4, c.CurrentDailyAverageKWh(), 1e-9)
	assert.InDelta(t, 100.0/28.0, c.PreviousDailyAverageKWh(), 1e-9)
}

func TestUsageComparison_ZeroPrevious(t *testing.T) {
	c := NewUsageComparison(50, 0, 10, 0)
	assert.Zero(t, c.PercentChange)
	assert.InDelta(t, 0, c.PreviousDailyAverageKWh(), 1e-9)
}

func TestCostComparison_Change(t *testing.T) {
	c := NewCostComparison(90, 120, 30, 30)
	assert.InDelta(t, -30, c.AbsoluteChangeDollars, 1e-9)
	assert.InDelta(t, -25, c.PercentChange, 1e-9)
}

func TestBillSummary_CurrentPeriodStart(t *testing.T) {
	var b BillSummary
	_, ok := b.CurrentPeriodStart()
	assert.False(t, ok)

	end := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	b.PreviousPeriodEnd = &end
	start, ok := b.CurrentPeriodStart()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
}
