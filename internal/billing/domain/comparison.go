package billing

// UsageComparison compares energy usage between two billing periods.
type UsageComparison struct {
	CurrentKWh        float64 `json:"current_kwh"`
	PreviousKWh       float64 `json:"previous_kwh"`
	PercentChange     float64 `json:"percent_change"`
	AbsoluteChangeKWh float64 `json:"absolute_change_kwh"`
	DaysCurrent       int     `json:"days_current_period"`
	DaysPrevious      int     `json:"days_previous_period"`
}

// NewUsageComparison computes the derived change fields.
func NewUsageComparison(currentKWh, previousKWh float64, daysCurrent, daysPrevious int) UsageComparison {
	absolute := currentKWh - previousKWh
	return UsageComparison{
		CurrentKWh:        currentKWh,
		PreviousKWh:       previousKWh,
		PercentChange:     percentChange(absolute, previousKWh),
		AbsoluteChangeKWh: absolute,
		DaysCurrent:       daysCurrent,
		DaysPrevious:      daysPrevious,
	}
}

// CurrentDailyAverageKWh returns current usage per day of the period.
func (c UsageComparison) CurrentDailyAverageKWh() float64 {
	return c.CurrentKWh / float64(atLeastOne(c.DaysCurrent))
}

// PreviousDailyAverageKWh returns previous usage per day of the period.
func (c UsageComparison) PreviousDailyAverageKWh() float64 {
	return c.PreviousKWh / float64(atLeastOne(c.DaysPrevious))
}

// CostComparison compares charges between two billing periods.
type CostComparison struct {
	CurrentDollars        float64 `json:"current_dollars"`
	PreviousDollars       float64 `json:"previous_dollars"`
	PercentChange         float64 `json:"percent_change"`
	AbsoluteChangeDollars float64 `json:"absolute_change_dollars"`
	DaysCurrent           int     `json:"days_current_period"`
	DaysPrevious          int     `json:"days_previous_period"`
}

// NewCostComparison computes the derived change fields.
func NewCostComparison(currentDollars, previousDollars float64, daysCurrent, daysPrevious int) CostComparison {
	absolute := currentDollars - previousDollars
	return CostComparison{
		CurrentDollars:        currentDollars,
		PreviousDollars:       previousDollars,
		PercentChange:         percentChange(absolute, previousDollars),
		AbsoluteChangeDollars: absolute,
		DaysCurrent:           daysCurrent,
		DaysPrevious:          daysPrevious,
	}
}

// YearToDateMetrics summarizes usage for the running calendar year.
type YearToDateMetrics struct {
	CurrentYear     int     `json:"current_year"`
	TotalUsageKWh   float64 `json:"total_usage_kwh"`
	TotalCost       float64 `json:"total_cost"`
	DaysElapsed     int     `json:"days_elapsed"`
	DailyAverageKWh float64 `json:"daily_average_kwh"`
}

func percentChange(absolute, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (absolute / previous) * 100
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
