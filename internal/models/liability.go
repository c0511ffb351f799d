package models

import "github.com/shopspring/decimal"

// Liability is a debt account the user is paying down.
type Liability struct {
	// ID is the unique identifier for the liability (UUID format).
	ID string

	// Name is the display name (e.g., "Visa", "Car loan").
	Name string

	// Balance is the amount currently owed.
	Balance decimal.Decimal

	// APR is the annual percentage rate in percent (e.g., 18.0 for 18%).
	APR decimal.Decimal

	// MinimumPayment is the contractual monthly minimum.
	MinimumPayment decimal.Decimal

	// DueDay is the statement due day of the month, 1 to 28.
	DueDay int

	// CreatedAt is the Unix timestamp when the liability was recorded.
	CreatedAt int64
}
