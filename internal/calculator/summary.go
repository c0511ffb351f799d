package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/date"
)

// PayoffSummary aggregates a schedule for display.
type PayoffSummary struct {
	Months        int
	TotalPaid     decimal.Decimal
	TotalInterest decimal.Decimal

	// DebtFreeDate is the date of the last row, zero for an empty schedule.
	DebtFreeDate date.Date

	// PayoffDates is the due date on which each debt reached a zero balance.
	PayoffDates map[string]date.Date
}

// Summarize totals payments and interest over rows and finds each debt's payoff date.
func Summarize(rows []ScheduleRow) PayoffSummary {
	s := PayoffSummary{
		Months:        len(rows),
		TotalPaid:     decimal.Zero,
		TotalInterest: decimal.Zero,
		PayoffDates:   make(map[string]date.Date),
	}
	for _, row := range rows {
		for id, p := range row.Payments {
			s.TotalPaid = s.TotalPaid.Add(p.PaymentAmount)
			s.TotalInterest = s.TotalInterest.Add(p.InterestPaid)
			if _, done := s.PayoffDates[id]; !done && p.RemainingBalance.IsZero() {
				s.PayoffDates[id] = p.DueDate
			}
		}
	}
	if len(rows) > 0 {
		s.DebtFreeDate = rows[len(rows)-1].Date
	}
	return s
}

// Comparison puts the two strategies side by side.
type Comparison struct {
	Snowball  PayoffSummary
	Avalanche PayoffSummary

	// InterestSaved is snowball interest minus avalanche interest; negative when
	// snowball is cheaper.
	InterestSaved decimal.Decimal

	// MonthsSaved is snowball months minus avalanche months.
	MonthsSaved int

	// Recommended is the strategy paying less interest, snowball on a tie.
	Recommended Strategy
}

// CompareStrategies schedules debts under both strategies. Any error from either run is
// returned as is.
func CompareStrategies(debts []DebtAccount, surplus decimal.Decimal, today date.Date, maxMonths int) (Comparison, error) {
	snowball, err := ComputeScheduleWithLimit(debts, surplus, Snowball, today, maxMonths)
	if err != nil {
		return Comparison{}, err
	}
	avalanche, err := ComputeScheduleWithLimit(debts, surplus, Avalanche, today, maxMonths)
	if err != nil {
		return Comparison{}, err
	}

	c := Comparison{
		Snowball:  Summarize(snowball),
		Avalanche: Summarize(avalanche),
	}
	c.InterestSaved = c.Snowball.TotalInterest.Sub(c.Avalanche.TotalInterest)
	c.MonthsSaved = c.Snowball.Months - c.Avalanche.Months
	c.Recommended = Snowball
	if c.InterestSaved.IsPositive() {
		c.Recommended = Avalanche
	}
	return c, nil
}
