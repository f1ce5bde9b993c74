package report

import (
	"sort"
	"time"

	billing "dominion-bridge/internal/billing/domain"
	usage "dominion-bridge/internal/usage/domain"
)

// DailyUsage summarizes one calendar day of readings.
type DailyUsage struct {
	Date           time.Time `json:"date"`
	TotalEnergyKWh float64   `json:"total_energy_kwh"`
	AvgPowerKW     float64   `json:"avg_power_kw"`
	PeakPowerKW    float64   `json:"peak_power_kw"`
}

// PeakPower is the highest instantaneous reading and when it happened.
type PeakPower struct {
	ValueKW   float64   `json:"value_kw"`
	Timestamp time.Time `json:"timestamp"`
}

// DailyStats describes the latest day present in the readings.
type DailyStats struct {
	Usage      DailyUsage `json:"usage"`
	Peak       PeakPower  `json:"peak_power"`
	DataPoints int        `json:"data_points"`
}

// WeeklyAnalysis summarizes the last seven days of readings.
type WeeklyAnalysis struct {
	TotalEnergyKWh    float64      `json:"total_energy_kwh"`
	AvgDailyEnergyKWh float64      `json:"avg_daily_energy_kwh"`
	DailyTotals       []DailyUsage `json:"daily_totals"`
	HighestUsage      DailyUsage   `json:"highest_usage"`
	LowestUsage       DailyUsage   `json:"lowest_usage"`
}

// BillingPeriodStats summarizes the open billing period.
type BillingPeriodStats struct {
	StartDate       time.Time    `json:"start_date"`
	DaysInPeriod    int          `json:"days_in_period"`
	TotalEnergyKWh  float64      `json:"total_energy_kwh"`
	DailyAverageKWh float64      `json:"daily_average_kwh"`
	DailyUsages     []DailyUsage `json:"daily_usages"`
	PeakDay         DailyUsage   `json:"peak_day"`
	Peak            PeakPower    `json:"peak_power"`
}

// NewDailyStats builds stats for the latest day in the readings. The boolean
// reports whether any readings were present.
func NewDailyStats(readings []usage.LocalizedReading) (DailyStats, bool) {
	if len(readings) == 0 {
		return DailyStats{}, false
	}

	latest := localDate(readings[0].Timestamp)
	for _, r := range readings[1:] {
		if d := localDate(r.Timestamp); d.After(latest) {
			latest = d
		}
	}

	var stats DailyStats
	var powerSum float64
	for _, r := range readings {
		if !localDate(r.Timestamp).Equal(latest) {
			continue
		}
		stats.DataPoints++
		stats.Usage.TotalEnergyKWh += r.EnergyKWh
		powerSum += r.PowerKW
		if r.PowerKW > stats.Peak.ValueKW || stats.DataPoints == 1 {
			stats.Peak = PeakPower{ValueKW: r.PowerKW, Timestamp: r.Timestamp}
		}
	}
	stats.Usage.Date = latest
	stats.Usage.AvgPowerKW = powerSum / float64(stats.DataPoints)
	stats.Usage.PeakPowerKW = stats.Peak.ValueKW
	return stats, true
}

// NewWeeklyAnalysis builds a last-7-days summary.
func NewWeeklyAnalysis(readings []usage.LocalizedReading) (WeeklyAnalysis, bool) {
	days := dailyTotals(readings)
	if len(days) == 0 {
		return WeeklyAnalysis{}, false
	}
	if len(days) > 7 {
		days = days[len(days)-7:]
	}

	analysis := WeeklyAnalysis{
		DailyTotals:  days,
		HighestUsage: days[0],
		LowestUsage:  days[0],
	}
	for _, d := range days {
		analysis.TotalEnergyKWh += d.TotalEnergyKWh
		if d.TotalEnergyKWh > analysis.HighestUsage.TotalEnergyKWh {
			analysis.HighestUsage = d
		}
		if d.TotalEnergyKWh < analysis.LowestUsage.TotalEnergyKWh {
			analysis.LowestUsage = d
		}
	}
	analysis.AvgDailyEnergyKWh = analysis.TotalEnergyKWh / float64(len(days))
	return analysis, true
}

// NewBillingPeriodStats builds a summary for the open billing period defined
// by the bill: from the day after the previous period end through the next
// meter read date, inclusive on both dates.
func NewBillingPeriodStats(readings []usage.LocalizedReading, bill billing.BillSummary) (BillingPeriodStats, bool) {
	periodStart, ok := bill.CurrentPeriodStart()
	if !ok {
		return BillingPeriodStats{}, false
	}
	periodEnd := bill.NextMeterReadDate

	var inPeriod []usage.LocalizedReading
	var peak PeakPower
	for _, r := range readings {
		// Compare calendar days, not instants: the bill carries plain dates
		// while readings are timezone-aware.
		d := dayOrdinal(r.Timestamp)
		if d < dayOrdinal(periodStart) || d > dayOrdinal(periodEnd) {
			continue
		}
		inPeriod = append(inPeriod, r)
		if r.PowerKW > peak.ValueKW || len(inPeriod) == 1 {
			peak = PeakPower{ValueKW: r.PowerKW, Timestamp: r.Timestamp}
		}
	}

	days := dailyTotals(inPeriod)
	stats := BillingPeriodStats{
		StartDate:    localDate(periodStart),
		DaysInPeriod: len(days),
		DailyUsages:  days,
		Peak:         peak,
	}
	for _, d := range days {
		stats.TotalEnergyKWh += d.TotalEnergyKWh
		if d.TotalEnergyKWh > stats.PeakDay.TotalEnergyKWh {
			stats.PeakDay = d
		}
	}
	if len(days) > 0 {
		stats.DailyAverageKWh = stats.TotalEnergyKWh / float64(len(days))
	}
	return stats, true
}

// dailyTotals groups readings by local calendar day, sorted ascending.
func dailyTotals(readings []usage.LocalizedReading) []DailyUsage {
	type group struct {
		usage    DailyUsage
		powerSum float64
		count    int
	}

	groups := make(map[int64]*group)
	for _, r := range readings {
		d := localDate(r.Timestamp)
		key := d.Unix()
		g := groups[key]
		if g == nil {
			g = &group{usage: DailyUsage{Date: d}}
			groups[key] = g
		}
		g.usage.TotalEnergyKWh += r.EnergyKWh
		g.powerSum += r.PowerKW
		g.count++
		if r.PowerKW > g.usage.PeakPowerKW {
			g.usage.PeakPowerKW = r.PowerKW
		}
	}

	days := make([]DailyUsage, 0, len(groups))
	for _, g := range groups {
		g.usage.AvgPowerKW = g.powerSum / float64(g.count)
		days = append(days, g.usage)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

func localDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayOrdinal(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
