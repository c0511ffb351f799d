package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/cache"
	"github.com/mmynk/pocketsage/internal/calculator"
	"github.com/mmynk/pocketsage/internal/config"
	"github.com/mmynk/pocketsage/internal/date"
	"github.com/mmynk/pocketsage/internal/metrics"
	"github.com/mmynk/pocketsage/internal/models"
	"github.com/mmynk/pocketsage/internal/rpc"
	"github.com/mmynk/pocketsage/internal/storage"
)

// DebtService implements the Connect DebtService
type DebtService struct {
	store   storage.LiabilityStore
	cfg     config.Config
	cache   cache.Cache
	metrics *metrics.Metrics
	today   func() date.Date
}

var _ rpc.DebtServiceHandler = (*DebtService)(nil)

// NewDebtService creates a new DebtService. A nil cache disables projection caching and
// nil metrics record nothing.
func NewDebtService(store storage.LiabilityStore, cfg config.Config, c cache.Cache, m *metrics.Metrics) *DebtService {
	return &DebtService{
		store:   store,
		cfg:     cfg,
		cache:   c,
		metrics: m,
		today:   date.Today,
	}
}

// CreateLiability validates and stores a new liability.
func (s *DebtService) CreateLiability(ctx context.Context, req *connect.Request[rpc.CreateLiabilityRequest]) (*connect.Response[rpc.CreateLiabilityResponse], error) {
	slog.Info("CreateLiability request received", "name", req.Msg.Name, "due_day", req.Msg.DueDay)

	l := &models.Liability{
		Name:           req.Msg.Name,
		Balance:        req.Msg.Balance,
		APR:            req.Msg.APR,
		MinimumPayment: req.Msg.MinimumPayment,
		DueDay:         req.Msg.DueDay,
	}
	if err := validateLiability(l); err != nil {
		slog.Error("CreateLiability validation failed", "error", err)
		return nil, toConnectError(err)
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateLiability(ctx, l); err != nil {
		slog.Error("CreateLiability failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Liability created", "liability_id", l.ID)

	return connect.NewResponse(&rpc.CreateLiabilityResponse{Liability: liabilityToRPC(l)}), nil
}

// ListLiabilities returns every stored liability.
func (s *DebtService) ListLiabilities(ctx context.Context, req *connect.Request[rpc.ListLiabilitiesRequest]) (*connect.Response[rpc.ListLiabilitiesResponse], error) {
	slog.Info("ListLiabilities request received")

	liabilities, err := s.store.ListLiabilities(ctx)
	if err != nil {
		slog.Error("ListLiabilities failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]rpc.Liability, len(liabilities))
	for i, l := range liabilities {
		out[i] = liabilityToRPC(l)
	}

	slog.Info("ListLiabilities successful", "count", len(out))

	return connect.NewResponse(&rpc.ListLiabilitiesResponse{Liabilities: out}), nil
}

// UpdateLiability replaces the mutable fields of an existing liability.
func (s *DebtService) UpdateLiability(ctx context.Context, req *connect.Request[rpc.UpdateLiabilityRequest]) (*connect.Response[rpc.UpdateLiabilityResponse], error) {
	msg := req.Msg.Liability
	slog.Info("UpdateLiability request received", "liability_id", msg.ID)

	if msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("liability id is required"))
	}

	existing, err := s.store.GetLiability(ctx, msg.ID)
	if err != nil {
		slog.Error("UpdateLiability lookup failed", "liability_id", msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	existing.Name = msg.Name
	existing.Balance = msg.Balance
	existing.APR = msg.APR
	existing.MinimumPayment = msg.MinimumPayment
	existing.DueDay = msg.DueDay
	if err := validateLiability(existing); err != nil {
		slog.Error("UpdateLiability validation failed", "liability_id", msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.UpdateLiability(ctx, existing); err != nil {
		slog.Error("UpdateLiability failed", "liability_id", msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Liability updated", "liability_id", existing.ID)

	return connect.NewResponse(&rpc.UpdateLiabilityResponse{Liability: liabilityToRPC(existing)}), nil
}

// DeleteLiability removes a liability by ID.
func (s *DebtService) DeleteLiability(ctx context.Context, req *connect.Request[rpc.DeleteLiabilityRequest]) (*connect.Response[rpc.DeleteLiabilityResponse], error) {
	slog.Info("DeleteLiability request received", "liability_id", req.Msg.ID)

	if err := s.store.DeleteLiability(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteLiability failed", "liability_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Liability deleted", "liability_id", req.Msg.ID)

	return connect.NewResponse(&rpc.DeleteLiabilityResponse{}), nil
}

// ProjectPayoff computes a month-by-month payoff schedule for inline debts or, when none
// are given, for every stored liability.
func (s *DebtService) ProjectPayoff(ctx context.Context, req *connect.Request[rpc.ProjectPayoffRequest]) (*connect.Response[rpc.ProjectPayoffResponse], error) {
	slog.Info("ProjectPayoff request received",
		"strategy", req.Msg.Strategy,
		"payment_mode", req.Msg.PaymentMode,
		"inline_debts", len(req.Msg.Debts),
	)

	strategy, err := calculator.ParseStrategy(req.Msg.Strategy)
	if err != nil {
		slog.Error("ProjectPayoff invalid strategy", "error", err)
		return nil, toConnectError(err)
	}
	surplus, err := s.resolveSurplus(req.Msg.Surplus, req.Msg.PaymentMode)
	if err != nil {
		slog.Error("ProjectPayoff invalid surplus", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	debts, names, err := s.loadDebts(ctx, req.Msg.Debts)
	if err != nil {
		slog.Error("ProjectPayoff failed to load debts", "error", err)
		return nil, toConnectError(err)
	}
	today := s.resolveToday(req.Msg.Today)

	key := s.cacheKey("payoff", projectionKey{
		Debts:     debts,
		Surplus:   surplus,
		Strategy:  string(strategy),
		Today:     today,
		MaxMonths: s.cfg.MaxScheduleMonths,
	})
	resp := &rpc.ProjectPayoffResponse{}
	if s.cacheGet(ctx, key, resp) {
		resp.Names = names
		slog.Info("ProjectPayoff served from cache", "months", resp.Summary.Months)
		return connect.NewResponse(resp), nil
	}

	rows, err := calculator.ComputeScheduleWithLimit(debts, surplus, strategy, today, s.cfg.MaxScheduleMonths)
	if err != nil {
		if errors.Is(err, calculator.ErrNonConvergentSchedule) {
			s.metrics.IncNonConvergent()
		}
		slog.Warn("ProjectPayoff failed", "strategy", strategy, "surplus", surplus, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ObserveProjection(string(strategy), len(rows))

	resp = &rpc.ProjectPayoffResponse{
		Strategy: string(strategy),
		Surplus:  surplus,
		Today:    today,
		Schedule: scheduleToRPC(rows),
		Summary:  summaryToRPC(calculator.Summarize(rows)),
	}
	s.cacheSet(ctx, key, resp)
	resp.Names = names

	slog.Info("ProjectPayoff successful",
		"strategy", strategy,
		"months", resp.Summary.Months,
		"total_interest", resp.Summary.TotalInterest,
	)

	return connect.NewResponse(resp), nil
}

// CompareStrategies projects both strategies and reports what avalanche saves over snowball.
func (s *DebtService) CompareStrategies(ctx context.Context, req *connect.Request[rpc.CompareStrategiesRequest]) (*connect.Response[rpc.CompareStrategiesResponse], error) {
	slog.Info("CompareStrategies request received",
		"payment_mode", req.Msg.PaymentMode,
		"inline_debts", len(req.Msg.Debts),
	)

	surplus, err := s.resolveSurplus(req.Msg.Surplus, req.Msg.PaymentMode)
	if err != nil {
		slog.Error("CompareStrategies invalid surplus", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	debts, _, err := s.loadDebts(ctx, req.Msg.Debts)
	if err != nil {
		slog.Error("CompareStrategies failed to load debts", "error", err)
		return nil, toConnectError(err)
	}
	today := s.resolveToday(req.Msg.Today)

	key := s.cacheKey("compare", projectionKey{
		Debts:     debts,
		Surplus:   surplus,
		Today:     today,
		MaxMonths: s.cfg.MaxScheduleMonths,
	})
	resp := &rpc.CompareStrategiesResponse{}
	if s.cacheGet(ctx, key, resp) {
		slog.Info("CompareStrategies served from cache", "recommended", resp.Recommended)
		return connect.NewResponse(resp), nil
	}

	c, err := calculator.CompareStrategies(debts, surplus, today, s.cfg.MaxScheduleMonths)
	if err != nil {
		if errors.Is(err, calculator.ErrNonConvergentSchedule) {
			s.metrics.IncNonConvergent()
		}
		slog.Warn("CompareStrategies failed", "surplus", surplus, "error", err)
		return nil, toConnectError(err)
	}

	resp = &rpc.CompareStrategiesResponse{
		Snowball:      summaryToRPC(c.Snowball),
		Avalanche:     summaryToRPC(c.Avalanche),
		InterestSaved: c.InterestSaved,
		MonthsSaved:   c.MonthsSaved,
		Recommended:   string(c.Recommended),
	}
	s.cacheSet(ctx, key, resp)

	slog.Info("CompareStrategies successful",
		"recommended", resp.Recommended,
		"interest_saved", resp.InterestSaved,
		"months_saved", resp.MonthsSaved,
	)

	return connect.NewResponse(resp), nil
}

// resolveSurplus picks the explicit surplus over the payment mode preset.
func (s *DebtService) resolveSurplus(explicit *decimal.Decimal, mode string) (decimal.Decimal, error) {
	if explicit != nil {
		if explicit.IsNegative() {
			return decimal.Zero, errors.New("surplus must not be negative")
		}
		return *explicit, nil
	}
	if mode == "" {
		return decimal.Zero, errors.New("either surplus or payment_mode is required")
	}
	return s.cfg.SurplusFor(mode)
}

func (s *DebtService) resolveToday(d date.Date) date.Date {
	if d.IsZero() {
		return s.today()
	}
	return d
}

// loadDebts converts inline debts, or every stored liability when there are none, into
// scheduler accounts. It also returns the display name of each debt that has one.
func (s *DebtService) loadDebts(ctx context.Context, inline []rpc.Debt) ([]calculator.DebtAccount, map[string]string, error) {
	names := make(map[string]string)
	if len(inline) > 0 {
		debts := make([]calculator.DebtAccount, len(inline))
		for i, d := range inline {
			acct, err := calculator.NewDebtAccount(d.ID, d.Balance, d.APR, d.MinimumPayment, d.DueDay)
			if err != nil {
				return nil, nil, err
			}
			debts[i] = acct
			if d.Name != "" {
				names[d.ID] = d.Name
			}
		}
		return debts, names, nil
	}

	liabilities, err := s.store.ListLiabilities(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	debts := make([]calculator.DebtAccount, len(liabilities))
	for i, l := range liabilities {
		acct, err := calculator.NewDebtAccount(l.ID, l.Balance, l.APR, l.MinimumPayment, l.DueDay)
		if err != nil {
			return nil, nil, err
		}
		debts[i] = acct
		names[l.ID] = l.Name
	}
	return debts, names, nil
}

// projectionKey is everything a projection depends on.
type projectionKey struct {
	Debts     []calculator.DebtAccount
	Surplus   decimal.Decimal
	Strategy  string
	Today     date.Date
	MaxMonths int
}

func (s *DebtService) cacheKey(prefix string, k projectionKey) string {
	if s.cache == nil {
		return ""
	}
	payload, err := json.Marshal(k)
	if err != nil {
		slog.Warn("Failed to build cache key", "error", err)
		return ""
	}
	return cache.Key(prefix, payload)
}

// cacheGet decodes a cached response into out and reports whether it was found.
func (s *DebtService) cacheGet(ctx context.Context, key string, out any) bool {
	if key == "" {
		return false
	}
	raw, ok := s.cache.Get(ctx, key)
	if ok {
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			slog.Warn("Discarding unreadable cache entry", "key", key, "error", err)
			ok = false
		}
	}
	s.metrics.ObserveCache(ok)
	return ok
}

func (s *DebtService) cacheSet(ctx context.Context, key string, v any) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("Failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cfg.CacheTTL); err != nil {
		slog.Warn("Failed to write cache entry", "key", key, "error", err)
	}
}

// validateLiability checks the amounts and clamps the due day into 1..28.
func validateLiability(l *models.Liability) error {
	if l.Name == "" {
		return &calculator.InvalidInputError{Field: "name", Reason: "must not be empty"}
	}
	acct, err := calculator.NewDebtAccount(l.Name, l.Balance, l.APR, l.MinimumPayment, l.DueDay)
	if err != nil {
		return err
	}
	l.DueDay = acct.DueDay
	return nil
}

func liabilityToRPC(l *models.Liability) rpc.Liability {
	return rpc.Liability{
		ID:             l.ID,
		Name:           l.Name,
		Balance:        l.Balance,
		APR:            l.APR,
		MinimumPayment: l.MinimumPayment,
		DueDay:         l.DueDay,
		CreatedAt:      l.CreatedAt,
	}
}

func scheduleToRPC(rows []calculator.ScheduleRow) []rpc.ScheduleRow {
	out := make([]rpc.ScheduleRow, len(rows))
	for i, row := range rows {
		payments := make(map[string]rpc.DebtPayment, len(row.Payments))
		for id, p := range row.Payments {
			payments[id] = rpc.DebtPayment{
				PaymentAmount:    p.PaymentAmount,
				InterestPaid:     p.InterestPaid,
				RemainingBalance: p.RemainingBalance,
				DueDate:          p.DueDate,
			}
		}
		out[i] = rpc.ScheduleRow{Month: row.Month, Date: row.Date, Payments: payments}
	}
	return out
}

func summaryToRPC(s calculator.PayoffSummary) rpc.PayoffSummary {
	return rpc.PayoffSummary{
		Months:        s.Months,
		TotalPaid:     s.TotalPaid,
		TotalInterest: s.TotalInterest,
		DebtFreeDate:  s.DebtFreeDate,
		PayoffDates:   s.PayoffDates,
	}
}
