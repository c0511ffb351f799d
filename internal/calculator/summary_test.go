package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/date"
)

func TestSummarize(t *testing.T) {
	rows, err := ComputeSchedule(
		[]DebtAccount{
			debt("A", "50", "0", "10", 1),
			debt("B", "1000", "0", "20", 1),
		},
		dec("100"), Snowball, date.New(2025, 1, 10),
	)
	if err != nil {
		t.Fatalf("ComputeSchedule() error = %v", err)
	}

	s := Summarize(rows)
	if s.Months != 9 {
		t.Errorf("Months = %d, want 9", s.Months)
	}
	assertDecimal(t, "TotalPaid", s.TotalPaid, "1050")
	assertDecimal(t, "TotalInterest", s.TotalInterest, "0")
	if got := s.PayoffDates["A"]; got != date.New(2025, 2, 1) {
		t.Errorf("A paid off on %v, want 2025-02-01", got)
	}
	if got := s.PayoffDates["B"]; got != date.New(2025, 10, 1) {
		t.Errorf("B paid off on %v, want 2025-10-01", got)
	}
	if s.DebtFreeDate != date.New(2025, 10, 1) {
		t.Errorf("DebtFreeDate = %v, want 2025-10-01", s.DebtFreeDate)
	}

	empty := Summarize(nil)
	if empty.Months != 0 || !empty.DebtFreeDate.IsZero() || !empty.TotalPaid.IsZero() {
		t.Errorf("unexpected summary of an empty schedule: %+v", empty)
	}
}

func TestCompareStrategies(t *testing.T) {
	debts := []DebtAccount{
		debt("cheap", "1000", "5", "50", 1),
		debt("pricey", "4000", "25", "120", 1),
	}
	c, err := CompareStrategies(debts, dec("200"), date.New(2025, 1, 1), DefaultMaxMonths)
	if err != nil {
		t.Fatalf("CompareStrategies() error = %v", err)
	}
	if c.Recommended != Avalanche {
		t.Errorf("Recommended = %s, want avalanche", c.Recommended)
	}
	if !c.InterestSaved.IsPositive() {
		t.Errorf("InterestSaved = %s, want positive", c.InterestSaved)
	}
	if !c.InterestSaved.Equal(c.Snowball.TotalInterest.Sub(c.Avalanche.TotalInterest)) {
		t.Error("InterestSaved does not match the summaries")
	}
	if c.MonthsSaved != c.Snowball.Months-c.Avalanche.Months {
		t.Error("MonthsSaved does not match the summaries")
	}

	_, err = CompareStrategies(debts, decimal.NewFromInt(-5), date.New(2025, 1, 1), DefaultMaxMonths)
	if err == nil {
		t.Error("expected error for negative surplus")
	}
}
