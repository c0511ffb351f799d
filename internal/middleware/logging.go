package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/rpc"
)

// LoggingInterceptor logs every call once it returns: procedure, caller, latency and,
// for projection and habit calls, what was asked for. Rejected calls are logged at warn
// level, internal failures at error level.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			attrs := []any{"procedure", req.Spec().Procedure, "peer", req.Peer().Addr}
			attrs = append(attrs, requestAttrs(req.Any())...)

			resp, err := next(ctx, req)

			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())
			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("Call served", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown:
				slog.Warn("Call rejected", append(attrs, "code", connectErr.Code().String(), "error", connectErr.Message())...)
			default:
				slog.Error("Call failed", append(attrs, "error", err)...)
			}

			return resp, err
		}
	}
}

// requestAttrs picks the log fields of the request messages that carry them.
func requestAttrs(msg any) []any {
	switch m := msg.(type) {
	case *rpc.ProjectPayoffRequest:
		return append([]any{"strategy", m.Strategy}, surplusAttrs(m.Surplus, m.PaymentMode, len(m.Debts))...)
	case *rpc.CompareStrategiesRequest:
		return surplusAttrs(m.Surplus, m.PaymentMode, len(m.Debts))
	case *rpc.UpdateLiabilityRequest:
		return []any{"liability_id", m.Liability.ID}
	case *rpc.DeleteLiabilityRequest:
		return []any{"liability_id", m.ID}
	case *rpc.DeleteHabitRequest:
		return []any{"habit_id", m.ID}
	case *rpc.LogHabitEntryRequest:
		return []any{"habit_id", m.HabitID, "value", m.Value}
	case *rpc.GetHabitStreaksRequest:
		return []any{"habit_id", m.HabitID}
	}
	return nil
}

// surplusAttrs logs an explicit surplus when given, the payment mode otherwise.
func surplusAttrs(surplus *decimal.Decimal, mode string, inlineDebts int) []any {
	attrs := []any{"inline_debts", inlineDebts}
	if surplus != nil {
		return append(attrs, "surplus", surplus.String())
	}
	return append(attrs, "payment_mode", mode)
}
