package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/cache"
	"github.com/mmynk/pocketsage/internal/config"
	"github.com/mmynk/pocketsage/internal/date"
	"github.com/mmynk/pocketsage/internal/metrics"
	"github.com/mmynk/pocketsage/internal/middleware"
	"github.com/mmynk/pocketsage/internal/rpc"
	"github.com/mmynk/pocketsage/internal/storage/sqlite"
)

type testEnv struct {
	debts   *rpc.DebtServiceClient
	habits  *rpc.HabitServiceClient
	metrics *metrics.Metrics
}

// setupTestServer starts both services over httptest on a temp SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := metrics.New(prometheus.NewRegistry())
	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.MetricsInterceptor(m))

	debtSvc := NewDebtService(store, config.Default(), cache.NewMemoryCache(), m)
	debtPath, debtHandler := rpc.NewDebtServiceHandler(debtSvc, interceptors)

	habitSvc := NewHabitService(store)
	habitPath, habitHandler := rpc.NewHabitServiceHandler(habitSvc, interceptors)

	mux := http.NewServeMux()
	mux.Handle(debtPath, debtHandler)
	mux.Handle(habitPath, habitHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		debts:   rpc.NewDebtServiceClient(http.DefaultClient, server.URL),
		habits:  rpc.NewHabitServiceClient(http.DefaultClient, server.URL),
		metrics: m,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestLiabilityCRUD(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	created, err := env.debts.CreateLiability(ctx, connect.NewRequest(&rpc.CreateLiabilityRequest{
		Name:           "Visa",
		Balance:        dec("5000"),
		APR:            dec("18"),
		MinimumPayment: dec("100"),
		DueDay:         31,
	}))
	if err != nil {
		t.Fatalf("CreateLiability failed: %v", err)
	}
	l := created.Msg.Liability
	if l.ID == "" {
		t.Error("expected generated ID")
	}
	if l.DueDay != 28 {
		t.Errorf("DueDay = %d, want clamped to 28", l.DueDay)
	}

	l.Balance = dec("4800.25")
	l.DueDay = 0
	updated, err := env.debts.UpdateLiability(ctx, connect.NewRequest(&rpc.UpdateLiabilityRequest{Liability: l}))
	if err != nil {
		t.Fatalf("UpdateLiability failed: %v", err)
	}
	assertDecimal(t, "Balance", updated.Msg.Liability.Balance, "4800.25")
	if updated.Msg.Liability.DueDay != 1 {
		t.Errorf("DueDay = %d, want clamped to 1", updated.Msg.Liability.DueDay)
	}
	if updated.Msg.Liability.CreatedAt != l.CreatedAt {
		t.Error("CreatedAt should survive an update")
	}

	list, err := env.debts.ListLiabilities(ctx, connect.NewRequest(&rpc.ListLiabilitiesRequest{}))
	if err != nil {
		t.Fatalf("ListLiabilities failed: %v", err)
	}
	if len(list.Msg.Liabilities) != 1 {
		t.Fatalf("expected 1 liability, got %d", len(list.Msg.Liabilities))
	}
	assertDecimal(t, "listed balance", list.Msg.Liabilities[0].Balance, "4800.25")

	if _, err := env.debts.DeleteLiability(ctx, connect.NewRequest(&rpc.DeleteLiabilityRequest{ID: l.ID})); err != nil {
		t.Fatalf("DeleteLiability failed: %v", err)
	}
	_, err = env.debts.DeleteLiability(ctx, connect.NewRequest(&rpc.DeleteLiabilityRequest{ID: l.ID}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = env.debts.UpdateLiability(ctx, connect.NewRequest(&rpc.UpdateLiabilityRequest{Liability: l}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestCreateLiability_Invalid(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *rpc.CreateLiabilityRequest
	}{
		{"missing name", &rpc.CreateLiabilityRequest{Balance: dec("1"), APR: dec("1"), MinimumPayment: dec("1"), DueDay: 1}},
		{"negative balance", &rpc.CreateLiabilityRequest{Name: "x", Balance: dec("-1"), APR: dec("1"), MinimumPayment: dec("1"), DueDay: 1}},
		{"negative apr", &rpc.CreateLiabilityRequest{Name: "x", Balance: dec("1"), APR: dec("-0.5"), MinimumPayment: dec("1"), DueDay: 1}},
		{"negative minimum", &rpc.CreateLiabilityRequest{Name: "x", Balance: dec("1"), APR: dec("1"), MinimumPayment: dec("-1"), DueDay: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.debts.CreateLiability(ctx, connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestProjectPayoff_InlineDebt(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.debts.ProjectPayoff(context.Background(), connect.NewRequest(&rpc.ProjectPayoffRequest{
		Debts: []rpc.Debt{
			{ID: "card", Name: "Visa", Balance: dec("5000"), APR: dec("18"), MinimumPayment: dec("100"), DueDay: 1},
		},
		Surplus:  decPtr("50"),
		Strategy: "snowball",
		Today:    date.New(2025, 1, 10),
	}))
	if err != nil {
		t.Fatalf("ProjectPayoff failed: %v", err)
	}

	schedule := resp.Msg.Schedule
	if len(schedule) == 0 {
		t.Fatal("expected a non-empty schedule")
	}
	first := schedule[0]
	if first.Month != 1 || first.Date != date.New(2025, 2, 1) {
		t.Errorf("first row = month %d on %v, want month 1 on 2025-02-01", first.Month, first.Date)
	}
	p := first.Payments["card"]
	assertDecimal(t, "interest", p.InterestPaid, "75.00")
	assertDecimal(t, "payment", p.PaymentAmount, "150.00")
	assertDecimal(t, "remaining", p.RemainingBalance, "4925.00")

	last := schedule[len(schedule)-1].Payments["card"]
	if !last.RemainingBalance.IsZero() {
		t.Errorf("last remaining balance = %s, want 0", last.RemainingBalance)
	}
	if resp.Msg.Summary.Months != len(schedule) {
		t.Errorf("Summary.Months = %d, want %d", resp.Msg.Summary.Months, len(schedule))
	}
	if resp.Msg.Names["card"] != "Visa" {
		t.Errorf("Names[card] = %q, want Visa", resp.Msg.Names["card"])
	}
}

func TestProjectPayoff_StoredLiabilitiesAndPaymentMode(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	for _, req := range []*rpc.CreateLiabilityRequest{
		{Name: "Small", Balance: dec("50"), APR: dec("0"), MinimumPayment: dec("10"), DueDay: 1},
		{Name: "Big", Balance: dec("1000"), APR: dec("0"), MinimumPayment: dec("20"), DueDay: 1},
	} {
		if _, err := env.debts.CreateLiability(ctx, connect.NewRequest(req)); err != nil {
			t.Fatalf("CreateLiability failed: %v", err)
		}
	}

	// lazy mode is a 50 surplus
	resp, err := env.debts.ProjectPayoff(ctx, connect.NewRequest(&rpc.ProjectPayoffRequest{
		PaymentMode: "lazy",
		Strategy:    "snowball",
		Today:       date.New(2025, 1, 10),
	}))
	if err != nil {
		t.Fatalf("ProjectPayoff failed: %v", err)
	}
	assertDecimal(t, "surplus", resp.Msg.Surplus, "50")
	assertDecimal(t, "total paid", resp.Msg.Summary.TotalPaid, "1050")
	if len(resp.Msg.Names) != 2 {
		t.Errorf("expected names for both liabilities, got %v", resp.Msg.Names)
	}

	var smallID string
	for id, name := range resp.Msg.Names {
		if name == "Small" {
			smallID = id
		}
	}
	if got := resp.Msg.Summary.PayoffDates[smallID]; got != date.New(2025, 2, 1) {
		t.Errorf("Small paid off on %v, want 2025-02-01", got)
	}
}

func TestProjectPayoff_Cache(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	req := func() *connect.Request[rpc.ProjectPayoffRequest] {
		return connect.NewRequest(&rpc.ProjectPayoffRequest{
			Debts:    []rpc.Debt{{ID: "a", Balance: dec("300"), APR: dec("12"), MinimumPayment: dec("25"), DueDay: 5}},
			Surplus:  decPtr("75"),
			Strategy: "avalanche",
			Today:    date.New(2025, 6, 1),
		})
	}

	first, err := env.debts.ProjectPayoff(ctx, req())
	if err != nil {
		t.Fatalf("first ProjectPayoff failed: %v", err)
	}
	second, err := env.debts.ProjectPayoff(ctx, req())
	if err != nil {
		t.Fatalf("second ProjectPayoff failed: %v", err)
	}

	if got := testutil.ToFloat64(env.metrics.CacheLookups.WithLabelValues("miss")); got != 1 {
		t.Errorf("cache misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(env.metrics.CacheLookups.WithLabelValues("hit")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if len(first.Msg.Schedule) != len(second.Msg.Schedule) {
		t.Errorf("cached schedule has %d rows, want %d", len(second.Msg.Schedule), len(first.Msg.Schedule))
	}
	if !first.Msg.Summary.TotalInterest.Equal(second.Msg.Summary.TotalInterest) {
		t.Error("cached summary differs from computed summary")
	}
}

func TestProjectPayoff_NonConvergent(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.debts.ProjectPayoff(context.Background(), connect.NewRequest(&rpc.ProjectPayoffRequest{
		Debts:    []rpc.Debt{{ID: "loan", Balance: dec("10000"), APR: dec("24"), MinimumPayment: dec("10"), DueDay: 1}},
		Surplus:  decPtr("0"),
		Strategy: "snowball",
		Today:    date.New(2025, 1, 1),
	}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected *connect.Error, got %T", err)
	}
	if connectErr.Message() != nonConvergentMessage {
		t.Errorf("message = %q, want %q", connectErr.Message(), nonConvergentMessage)
	}
	if got := testutil.ToFloat64(env.metrics.NonConvergent); got != 1 {
		t.Errorf("non-convergent count = %v, want 1", got)
	}
}

func TestProjectPayoff_InvalidArguments(t *testing.T) {
	env := setupTestServer(t)
	debts := []rpc.Debt{{ID: "a", Balance: dec("100"), APR: dec("5"), MinimumPayment: dec("10"), DueDay: 1}}

	tests := []struct {
		name string
		req  *rpc.ProjectPayoffRequest
	}{
		{"unknown strategy", &rpc.ProjectPayoffRequest{Debts: debts, Surplus: decPtr("10"), Strategy: "yolo"}},
		{"no surplus or mode", &rpc.ProjectPayoffRequest{Debts: debts, Strategy: "snowball"}},
		{"unknown mode", &rpc.ProjectPayoffRequest{Debts: debts, PaymentMode: "reckless", Strategy: "snowball"}},
		{"negative surplus", &rpc.ProjectPayoffRequest{Debts: debts, Surplus: decPtr("-1"), Strategy: "snowball"}},
		{"negative balance", &rpc.ProjectPayoffRequest{
			Debts:    []rpc.Debt{{ID: "a", Balance: dec("-100"), APR: dec("5"), MinimumPayment: dec("10"), DueDay: 1}},
			Surplus:  decPtr("10"),
			Strategy: "snowball",
		}},
		{"duplicate ids", &rpc.ProjectPayoffRequest{
			Debts:    append(append([]rpc.Debt{}, debts...), debts...),
			Surplus:  decPtr("10"),
			Strategy: "snowball",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.debts.ProjectPayoff(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestProjectPayoff_NoDebts(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.debts.ProjectPayoff(context.Background(), connect.NewRequest(&rpc.ProjectPayoffRequest{
		Surplus:  decPtr("100"),
		Strategy: "avalanche",
	}))
	if err != nil {
		t.Fatalf("ProjectPayoff failed: %v", err)
	}
	if len(resp.Msg.Schedule) != 0 {
		t.Errorf("expected empty schedule, got %d rows", len(resp.Msg.Schedule))
	}
	if resp.Msg.Today.IsZero() {
		t.Error("expected today to default to the current date")
	}
}

func TestCompareStrategies(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.debts.CompareStrategies(context.Background(), connect.NewRequest(&rpc.CompareStrategiesRequest{
		Debts: []rpc.Debt{
			{ID: "cheap", Balance: dec("1000"), APR: dec("5"), MinimumPayment: dec("50"), DueDay: 1},
			{ID: "pricey", Balance: dec("4000"), APR: dec("25"), MinimumPayment: dec("120"), DueDay: 1},
		},
		PaymentMode: "balanced",
		Today:       date.New(2025, 1, 1),
	}))
	if err != nil {
		t.Fatalf("CompareStrategies failed: %v", err)
	}
	if resp.Msg.Recommended != "avalanche" {
		t.Errorf("Recommended = %q, want avalanche", resp.Msg.Recommended)
	}
	if !resp.Msg.InterestSaved.IsPositive() {
		t.Errorf("InterestSaved = %s, want positive", resp.Msg.InterestSaved)
	}
	if resp.Msg.Snowball.Months == 0 || resp.Msg.Avalanche.Months == 0 {
		t.Error("expected both summaries to be filled in")
	}
}
