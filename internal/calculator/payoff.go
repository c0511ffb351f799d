package calculator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/date"
)

// Strategy selects which debt receives the surplus each month.
type Strategy string

const (
	Snowball  Strategy = "snowball"  // smallest balance first
	Avalanche Strategy = "avalanche" // highest APR first
)

// DefaultMaxMonths caps a schedule at 100 years.
const DefaultMaxMonths = 1200

// APR is a yearly percentage, so balance * APR / 1200 is one month of interest.
var monthlyRateDivisor = decimal.NewFromInt(1200)

// ParseStrategy maps a user-supplied name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case Snowball, Avalanche:
		return st, nil
	}
	return "", &InvalidInputError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", s)}
}

// DebtAccount is one liability as seen by the scheduler.
type DebtAccount struct {
	// ID tags the account's entries in each ScheduleRow.
	ID string

	// Balance is the amount still owed. Never negative.
	Balance decimal.Decimal

	// APR is the annual percentage rate in percent (18 means 18%).
	APR decimal.Decimal

	// MinimumPayment is the contractual amount due every month while Balance > 0.
	MinimumPayment decimal.Decimal

	// DueDay is the statement due day of the month (1..28). Only used to date entries.
	DueDay int
}

// NewDebtAccount builds a validated DebtAccount. The due day is clamped to 1..28.
func NewDebtAccount(id string, balance, apr, minimumPayment decimal.Decimal, dueDay int) (DebtAccount, error) {
	d := DebtAccount{
		ID:             id,
		Balance:        balance,
		APR:            apr,
		MinimumPayment: minimumPayment,
		DueDay:         date.ClampDueDay(dueDay),
	}
	if err := d.validate(); err != nil {
		return DebtAccount{}, err
	}
	return d, nil
}

func (d DebtAccount) validate() error {
	switch {
	case d.ID == "":
		return &InvalidInputError{Field: "id", Reason: "must not be empty"}
	case d.Balance.IsNegative():
		return &InvalidInputError{DebtID: d.ID, Field: "balance", Reason: "must not be negative"}
	case d.APR.IsNegative():
		return &InvalidInputError{DebtID: d.ID, Field: "apr", Reason: "must not be negative"}
	case d.MinimumPayment.IsNegative():
		return &InvalidInputError{DebtID: d.ID, Field: "minimum payment", Reason: "must not be negative"}
	}
	return nil
}

// monthlyInterest returns one month of interest on balance, rounded half-up to cents.
func (d DebtAccount) monthlyInterest(balance decimal.Decimal) decimal.Decimal {
	return balance.Mul(d.APR).Div(monthlyRateDivisor).Round(2)
}

// DebtPayment is what happens to one debt in one month of a schedule.
type DebtPayment struct {
	PaymentAmount    decimal.Decimal
	InterestPaid     decimal.Decimal
	RemainingBalance decimal.Decimal

	// DueDate is this debt's own statement due date for the month.
	DueDate date.Date
}

// ScheduleRow is one month of a payoff schedule.
type ScheduleRow struct {
	// Month is 1 for the first row.
	Month int

	// Date is the earliest of the month's due dates among the scheduled debts.
	Date date.Date

	// Payments holds an entry for every scheduled debt, paid-off ones included.
	Payments map[string]DebtPayment
}

// ComputeSchedule projects month-by-month payments until every debt is paid off,
// giving up after DefaultMaxMonths.
func ComputeSchedule(debts []DebtAccount, surplus decimal.Decimal, strategy Strategy, today date.Date) ([]ScheduleRow, error) {
	return ComputeScheduleWithLimit(debts, surplus, strategy, today, DefaultMaxMonths)
}

// ComputeScheduleWithLimit is ComputeSchedule with an explicit month cap.
//
// Algorithm:
//   - debts with a zero balance are dropped, the rest are sorted once by strategy
//     (stable, so ties keep input order)
//   - each month the pool is the surplus plus the minimums of debts already paid off
//   - every active debt accrues balance * APR / 1200 (rounded to cents) and pays its
//     minimum; the first active debt also takes the pool
//   - a debt that is cleared hands its overpayment to the next active debt the same month
//
// It returns a *NonConvergentScheduleError once maxMonths rows were produced without
// clearing every debt, or as soon as a month neither clears a debt nor lowers any balance.
func ComputeScheduleWithLimit(debts []DebtAccount, surplus decimal.Decimal, strategy Strategy, today date.Date, maxMonths int) ([]ScheduleRow, error) {
	if err := validateInputs(debts, surplus, strategy); err != nil {
		return nil, err
	}
	if maxMonths <= 0 {
		return nil, &InvalidInputError{Field: "max months", Reason: "must be positive"}
	}

	active := make([]DebtAccount, 0, len(debts))
	for _, d := range debts {
		if d.Balance.IsPositive() {
			active = append(active, d)
		}
	}
	if len(active) == 0 {
		return []ScheduleRow{}, nil
	}
	sortDebts(active, strategy)

	balances := make([]decimal.Decimal, len(active))
	dueDates := make([]date.Date, len(active))
	for i, d := range active {
		balances[i] = d.Balance
		dueDates[i] = date.NextDueDate(today, d.DueDay)
	}

	var rows []ScheduleRow
	for month := 1; month <= maxMonths; month++ {
		pool := surplus
		for i, d := range active {
			if balances[i].IsZero() {
				pool = pool.Add(d.MinimumPayment)
			}
		}

		row := ScheduleRow{
			Month:    month,
			Date:     slices.MinFunc(dueDates, date.Date.Compare),
			Payments: make(map[string]DebtPayment, len(active)),
		}
		progressed := false
		for i, d := range active {
			before := balances[i]
			if before.IsZero() {
				row.Payments[d.ID] = DebtPayment{
					PaymentAmount:    decimal.Zero,
					InterestPaid:     decimal.Zero,
					RemainingBalance: decimal.Zero,
					DueDate:          dueDates[i],
				}
				continue
			}

			interest := d.monthlyInterest(before)
			owed := before.Add(interest)
			payment := d.MinimumPayment.Add(pool)
			pool = decimal.Zero

			if payment.GreaterThanOrEqual(owed) {
				pool = payment.Sub(owed)
				payment = owed
				balances[i] = decimal.Zero
				progressed = true
			} else {
				balances[i] = owed.Sub(payment)
				if balances[i].LessThan(before) {
					progressed = true
				}
			}

			row.Payments[d.ID] = DebtPayment{
				PaymentAmount:    payment,
				InterestPaid:     interest,
				RemainingBalance: balances[i],
				DueDate:          dueDates[i],
			}
		}
		rows = append(rows, row)

		if allPaid(balances) {
			return rows, nil
		}
		// Nothing cleared and nothing shrank: the pool and interest stay the same or
		// grow from here on, so no later month can do better.
		if !progressed {
			return nil, &NonConvergentScheduleError{Months: month}
		}

		for i, d := range active {
			dueDates[i] = date.AdvanceDueDate(dueDates[i], d.DueDay)
		}
	}
	return nil, &NonConvergentScheduleError{Months: maxMonths}
}

func validateInputs(debts []DebtAccount, surplus decimal.Decimal, strategy Strategy) error {
	if strategy != Snowball && strategy != Avalanche {
		return &InvalidInputError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", strategy)}
	}
	if surplus.IsNegative() {
		return &InvalidInputError{Field: "surplus", Reason: "must not be negative"}
	}
	seen := make(map[string]bool, len(debts))
	for _, d := range debts {
		if err := d.validate(); err != nil {
			return err
		}
		if seen[d.ID] {
			return &InvalidInputError{DebtID: d.ID, Field: "id", Reason: "duplicate debt id"}
		}
		seen[d.ID] = true
	}
	return nil
}

// sortDebts orders debts in place by payoff priority.
func sortDebts(debts []DebtAccount, strategy Strategy) {
	switch strategy {
	case Snowball:
		slices.SortStableFunc(debts, func(a, b DebtAccount) int { return a.Balance.Cmp(b.Balance) })
	case Avalanche:
		slices.SortStableFunc(debts, func(a, b DebtAccount) int { return b.APR.Cmp(a.APR) })
	}
}

func allPaid(balances []decimal.Decimal) bool {
	for _, b := range balances {
		if b.IsPositive() {
			return false
		}
	}
	return true
}
