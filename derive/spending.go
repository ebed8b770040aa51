package derive

import "time"

// Urgency tiers for recurring payments, keyed off days remaining until the
// next payment date.
const (
	UrgencyRenewNeeded = "갱신필요" // remain <= 3
	UrgencyCaution     = "유의"   // 3 < remain <= 7
	UrgencyComfortable = "여유"   // remain > 7
)

// AlertRemainDays is the aggregator cutoff: spendings with remain <= 7 show
// up in the dashboard summary.
const AlertRemainDays = 7

// ComfortMessageDays bounds the "comfortable" messaging tier (8..15 days).
const ComfortMessageDays = 15

// NextPayingDate is the last payment date plus the interval length in
// calendar days.
func NextPayingDate(payingDate time.Time, expirationDays int) time.Time {
	return DateOf(payingDate).AddDate(0, 0, expirationDays)
}

// RemainDays returns days until the next payment; negative when overdue.
func RemainDays(payingDate time.Time, expirationDays int, today time.Time) int {
	return DaysBetween(today, NextPayingDate(payingDate, expirationDays))
}

// UrgencyTier maps days remaining to its display tier.
func UrgencyTier(remain int) string {
	switch {
	case remain <= 3:
		return UrgencyRenewNeeded
	case remain <= 7:
		return UrgencyCaution
	default:
		return UrgencyComfortable
	}
}
