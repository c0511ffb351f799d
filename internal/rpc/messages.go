package rpc

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/date"
)

// Liability is a stored debt account.
type Liability struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	APR            decimal.Decimal `json:"apr"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	DueDay         int             `json:"due_day"`
	CreatedAt      int64           `json:"created_at"`
}

type CreateLiabilityRequest struct {
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	APR            decimal.Decimal `json:"apr"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	DueDay         int             `json:"due_day"`
}

type CreateLiabilityResponse struct {
	Liability Liability `json:"liability"`
}

type ListLiabilitiesRequest struct{}

type ListLiabilitiesResponse struct {
	Liabilities []Liability `json:"liabilities"`
}

// UpdateLiabilityRequest replaces the name, amounts and due day of Liability.ID.
type UpdateLiabilityRequest struct {
	Liability Liability `json:"liability"`
}

type UpdateLiabilityResponse struct {
	Liability Liability `json:"liability"`
}

type DeleteLiabilityRequest struct {
	ID string `json:"id"`
}

type DeleteLiabilityResponse struct{}

// Debt is an inline debt for projections that do not use stored liabilities.
type Debt struct {
	ID             string          `json:"id"`
	Name           string          `json:"name,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	APR            decimal.Decimal `json:"apr"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	DueDay         int             `json:"due_day"`
}

// ProjectPayoffRequest asks for a payoff schedule.
//
// When Debts is empty every stored liability is projected. The surplus is Surplus when
// set, otherwise the preset of PaymentMode. A zero Today means the server's current date.
type ProjectPayoffRequest struct {
	Debts       []Debt           `json:"debts,omitempty"`
	Surplus     *decimal.Decimal `json:"surplus,omitempty"`
	PaymentMode string           `json:"payment_mode,omitempty"`
	Strategy    string           `json:"strategy"`
	Today       date.Date        `json:"today,omitzero"`
}

type DebtPayment struct {
	PaymentAmount    decimal.Decimal `json:"payment_amount"`
	InterestPaid     decimal.Decimal `json:"interest_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	DueDate          date.Date       `json:"due_date"`
}

type ScheduleRow struct {
	Month    int                    `json:"month"`
	Date     date.Date              `json:"date"`
	Payments map[string]DebtPayment `json:"payments"`
}

type PayoffSummary struct {
	Months        int                  `json:"months"`
	TotalPaid     decimal.Decimal      `json:"total_paid"`
	TotalInterest decimal.Decimal      `json:"total_interest"`
	DebtFreeDate  date.Date            `json:"debt_free_date"`
	PayoffDates   map[string]date.Date `json:"payoff_dates"`
}

type ProjectPayoffResponse struct {
	Strategy string          `json:"strategy"`
	Surplus  decimal.Decimal `json:"surplus"`
	Today    date.Date       `json:"today"`

	// Names maps debt IDs to display names where one is known.
	Names    map[string]string `json:"names,omitempty"`
	Schedule []ScheduleRow     `json:"schedule"`
	Summary  PayoffSummary     `json:"summary"`
}

type CompareStrategiesRequest struct {
	Debts       []Debt           `json:"debts,omitempty"`
	Surplus     *decimal.Decimal `json:"surplus,omitempty"`
	PaymentMode string           `json:"payment_mode,omitempty"`
	Today       date.Date        `json:"today,omitzero"`
}

type CompareStrategiesResponse struct {
	Snowball      PayoffSummary   `json:"snowball"`
	Avalanche     PayoffSummary   `json:"avalanche"`
	InterestSaved decimal.Decimal `json:"interest_saved"`
	MonthsSaved   int             `json:"months_saved"`
	Recommended   string          `json:"recommended"`
}

// Habit is a tracked daily habit.
type Habit struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type HabitEntry struct {
	HabitID string    `json:"habit_id"`
	Date    date.Date `json:"date"`
	Value   int       `json:"value"`
}

type CreateHabitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateHabitResponse struct {
	Habit Habit `json:"habit"`
}

type ListHabitsRequest struct{}

type ListHabitsResponse struct {
	Habits []Habit `json:"habits"`
}

type DeleteHabitRequest struct {
	ID string `json:"id"`
}

type DeleteHabitResponse struct{}

// LogHabitEntryRequest records Value for HabitID on Date (today when zero).
type LogHabitEntryRequest struct {
	HabitID string    `json:"habit_id"`
	Date    date.Date `json:"date,omitzero"`
	Value   int       `json:"value"`
}

type LogHabitEntryResponse struct {
	Entry HabitEntry `json:"entry"`
}

type GetHabitStreaksRequest struct {
	HabitID string    `json:"habit_id"`
	Today   date.Date `json:"today,omitzero"`
}

type GetHabitStreaksResponse struct {
	HabitID       string    `json:"habit_id"`
	Today         date.Date `json:"today"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`

	// CompletionRate is the share of completed days over the 30 days ending today.
	CompletionRate float64 `json:"completion_rate"`
}
