package billing

import "time"

// BillSummary is the account's billing snapshot, captured alongside the
// usage export. Period fields are calendar dates; they carry no time of day.
type BillSummary struct {
	AccountNumber       string     `json:"account_number"`
	PreviousPeriodStart *time.Time `json:"previous_period_start,omitempty"`
	PreviousPeriodEnd   *time.Time `json:"previous_period_end,omitempty"`
	NextMeterReadDate   time.Time  `json:"next_meter_read_date"`
	PreviousBalance     float64    `json:"previous_balance"`
	PaymentsReceived    float64    `json:"payments_received"`
	RemainingBalance    float64    `json:"remaining_balance"`
	CurrentCharges      float64    `json:"current_charges"`
	TotalAccountBalance float64    `json:"total_account_balance"`
	PendingPayments     float64    `json:"pending_payments"`
	// Most meter reads start out estimated until the utility confirms them.
	IsMeterReadEstimated bool `json:"is_meter_read_estimated"`
}

// CurrentPeriodStart returns the first day of the open billing period. The
// boolean reports whether the previous period end is known.
func (b BillSummary) CurrentPeriodStart() (time.Time, bool) {
	if b.PreviousPeriodEnd == nil {
		return time.Time{}, false
	}
	return b.PreviousPeriodEnd.AddDate(0, 0, 1), true
}
