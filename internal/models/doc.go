// Package models defines the persisted records of PocketSage.
//
// # Records
//
//   - Liability: a debt account (card, loan) tracked by the user
//   - Habit: something the user wants to do every day
//   - HabitEntry: one recorded day of a habit
//
// Records are plain structs filled by the storage layer. The payoff and streak
// calculators never see them directly: the service layer converts liabilities to
// calculator.DebtAccount and habit entries to calculator.HabitEntry.
//
// # Design Principles
//
// 1. **Exact money**: amounts are decimal.Decimal, stored as TEXT
// 2. **Day granularity**: habit entries carry a date.Date, never a timestamp
// 3. **Avoid circular references**: use ID strings instead of pointers for relationships
package models
