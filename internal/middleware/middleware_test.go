package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/pocketsage/internal/metrics"
	"github.com/mmynk/pocketsage/internal/rpc"
)

const echoProcedure = "/test.v1.EchoService/Echo"

type echoMsg struct {
	Text string `json:"text"`
}

func setupEchoServer(t *testing.T, m *metrics.Metrics) *connect.Client[echoMsg, echoMsg] {
	t.Helper()

	handler := connect.NewUnaryHandler(echoProcedure,
		func(ctx context.Context, req *connect.Request[echoMsg]) (*connect.Response[echoMsg], error) {
			if req.Msg.Text == "" {
				return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("text is required"))
			}
			return connect.NewResponse(&echoMsg{Text: req.Msg.Text}), nil
		},
		rpc.WithJSON(),
		connect.WithInterceptors(LoggingInterceptor(), MetricsInterceptor(m)),
	)

	mux := http.NewServeMux()
	mux.Handle(echoProcedure, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return connect.NewClient[echoMsg, echoMsg](http.DefaultClient, server.URL+echoProcedure, rpc.WithJSON())
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	client := setupEchoServer(t, m)
	ctx := context.Background()

	resp, err := client.CallUnary(ctx, connect.NewRequest(&echoMsg{Text: "hi"}))
	if err != nil {
		t.Fatalf("Echo failed: %v", err)
	}
	if resp.Msg.Text != "hi" {
		t.Errorf("Text = %q, want hi", resp.Msg.Text)
	}

	_, err = client.CallUnary(ctx, connect.NewRequest(&echoMsg{}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected invalid_argument, got %v", err)
	}

	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues(echoProcedure, "ok")); got != 1 {
		t.Errorf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues(echoProcedure, "invalid_argument")); got != 1 {
		t.Errorf("invalid_argument count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.RPCDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestMetricsInterceptorWithoutMetrics(t *testing.T) {
	client := setupEchoServer(t, nil)

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&echoMsg{Text: "hi"}))
	if err != nil {
		t.Fatalf("Echo failed: %v", err)
	}
	if resp.Msg.Text != "hi" {
		t.Errorf("Text = %q, want hi", resp.Msg.Text)
	}
}

// captureLog routes slog's default logger into a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("unreadable log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestLoggingInterceptor(t *testing.T) {
	buf := captureLog(t)
	ctx := context.Background()
	served := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&rpc.ProjectPayoffResponse{}), nil
	}
	rejected := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("unknown payment mode"))
	}
	broken := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, errors.New("disk full")
	}

	t.Run("projection by payment mode", func(t *testing.T) {
		req := connect.NewRequest(&rpc.ProjectPayoffRequest{Strategy: "avalanche", PaymentMode: "lazy"})
		if _, err := LoggingInterceptor()(served)(ctx, req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entry := lastLogLine(t, buf)
		if entry["level"] != "INFO" || entry["msg"] != "Call served" {
			t.Errorf("level/msg = %v/%v, want INFO/Call served", entry["level"], entry["msg"])
		}
		if entry["strategy"] != "avalanche" || entry["payment_mode"] != "lazy" {
			t.Errorf("strategy/payment_mode = %v/%v", entry["strategy"], entry["payment_mode"])
		}
		if _, ok := entry["surplus"]; ok {
			t.Error("surplus logged although none was given")
		}
	})

	t.Run("comparison with explicit surplus", func(t *testing.T) {
		surplus := decimal.RequireFromString("150")
		req := connect.NewRequest(&rpc.CompareStrategiesRequest{
			Surplus: &surplus,
			Debts:   []rpc.Debt{{ID: "card"}, {ID: "car"}},
		})
		if _, err := LoggingInterceptor()(rejected)(ctx, req); connect.CodeOf(err) != connect.CodeInvalidArgument {
			t.Fatalf("expected invalid_argument, got %v", err)
		}
		entry := lastLogLine(t, buf)
		if entry["level"] != "WARN" || entry["code"] != "invalid_argument" {
			t.Errorf("level/code = %v/%v, want WARN/invalid_argument", entry["level"], entry["code"])
		}
		if entry["surplus"] != "150" || entry["inline_debts"] != float64(2) {
			t.Errorf("surplus/inline_debts = %v/%v, want 150/2", entry["surplus"], entry["inline_debts"])
		}
	})

	t.Run("habit call failing internally", func(t *testing.T) {
		req := connect.NewRequest(&rpc.GetHabitStreaksRequest{HabitID: "h-1"})
		if _, err := LoggingInterceptor()(broken)(ctx, req); err == nil {
			t.Fatal("expected error")
		}
		entry := lastLogLine(t, buf)
		if entry["level"] != "ERROR" || entry["habit_id"] != "h-1" {
			t.Errorf("level/habit_id = %v/%v, want ERROR/h-1", entry["level"], entry["habit_id"])
		}
	})
}
