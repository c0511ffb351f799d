package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/pocketsage/internal/calculator"
	"github.com/mmynk/pocketsage/internal/date"
	"github.com/mmynk/pocketsage/internal/models"
	"github.com/mmynk/pocketsage/internal/rpc"
	"github.com/mmynk/pocketsage/internal/storage"
)

// completionWindow is the number of days, ending today, behind the completion rate.
const completionWindow = 30

// HabitService implements the Connect HabitService
type HabitService struct {
	store storage.HabitStore
	today func() date.Date
}

var _ rpc.HabitServiceHandler = (*HabitService)(nil)

// NewHabitService creates a new HabitService with the given storage backend.
func NewHabitService(store storage.HabitStore) *HabitService {
	return &HabitService{store: store, today: date.Today}
}

// CreateHabit creates a new habit.
func (s *HabitService) CreateHabit(ctx context.Context, req *connect.Request[rpc.CreateHabitRequest]) (*connect.Response[rpc.CreateHabitResponse], error) {
	slog.Info("CreateHabit request received", "name", req.Msg.Name)

	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name required"))
	}

	habit := &models.Habit{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateHabit(ctx, habit); err != nil {
		slog.Error("CreateHabit failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Habit created", "habit_id", habit.ID)

	return connect.NewResponse(&rpc.CreateHabitResponse{Habit: habitToRPC(habit)}), nil
}

// ListHabits retrieves all habits.
func (s *HabitService) ListHabits(ctx context.Context, req *connect.Request[rpc.ListHabitsRequest]) (*connect.Response[rpc.ListHabitsResponse], error) {
	slog.Info("ListHabits request received")

	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		slog.Error("ListHabits failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]rpc.Habit, len(habits))
	for i, h := range habits {
		out[i] = habitToRPC(h)
	}

	slog.Info("ListHabits successful", "count", len(out))

	return connect.NewResponse(&rpc.ListHabitsResponse{Habits: out}), nil
}

// DeleteHabit removes a habit and its entries.
func (s *HabitService) DeleteHabit(ctx context.Context, req *connect.Request[rpc.DeleteHabitRequest]) (*connect.Response[rpc.DeleteHabitResponse], error) {
	slog.Info("DeleteHabit request received", "habit_id", req.Msg.ID)

	if err := s.store.DeleteHabit(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteHabit failed", "habit_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Habit deleted", "habit_id", req.Msg.ID)

	return connect.NewResponse(&rpc.DeleteHabitResponse{}), nil
}

// LogHabitEntry records a habit's value for a day, replacing any earlier value for that day.
func (s *HabitService) LogHabitEntry(ctx context.Context, req *connect.Request[rpc.LogHabitEntryRequest]) (*connect.Response[rpc.LogHabitEntryResponse], error) {
	slog.Info("LogHabitEntry request received",
		"habit_id", req.Msg.HabitID,
		"date", req.Msg.Date,
		"value", req.Msg.Value,
	)

	if req.Msg.HabitID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("habit_id required"))
	}
	if req.Msg.Value < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("value must not be negative"))
	}

	entry := &models.HabitEntry{
		HabitID:    req.Msg.HabitID,
		OccurredOn: req.Msg.Date,
		Value:      req.Msg.Value,
	}
	if entry.OccurredOn.IsZero() {
		entry.OccurredOn = s.today()
	}

	if err := s.store.LogHabitEntry(ctx, entry); err != nil {
		slog.Error("LogHabitEntry failed", "habit_id", entry.HabitID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Habit entry logged", "habit_id", entry.HabitID, "date", entry.OccurredOn)

	return connect.NewResponse(&rpc.LogHabitEntryResponse{
		Entry: rpc.HabitEntry{
			HabitID: entry.HabitID,
			Date:    entry.OccurredOn,
			Value:   entry.Value,
		},
	}), nil
}

// GetHabitStreaks computes the current and longest streaks of a habit as of today.
func (s *HabitService) GetHabitStreaks(ctx context.Context, req *connect.Request[rpc.GetHabitStreaksRequest]) (*connect.Response[rpc.GetHabitStreaksResponse], error) {
	habitID := req.Msg.HabitID
	slog.Info("GetHabitStreaks request received", "habit_id", habitID)

	if habitID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("habit_id required"))
	}

	// Verify habit exists
	if _, err := s.store.GetHabit(ctx, habitID); err != nil {
		slog.Error("GetHabitStreaks failed - habit not found", "habit_id", habitID, "error", err)
		return nil, toConnectError(err)
	}

	today := req.Msg.Today
	if today.IsZero() {
		today = s.today()
	}

	// Entries after today cannot be part of a streak as of today.
	stored, err := s.store.ListHabitEntries(ctx, habitID, date.Date{}, today)
	if err != nil {
		slog.Error("GetHabitStreaks failed - could not list entries", "habit_id", habitID, "error", err)
		return nil, toConnectError(err)
	}

	entries := make([]calculator.HabitEntry, len(stored))
	for i, e := range stored {
		entries[i] = calculator.HabitEntry{Date: e.OccurredOn, Value: e.Value}
	}
	current, longest := calculator.ComputeStreaks(entries, today)
	rate := calculator.CompletionRate(entries, today.Add(-(completionWindow - 1)), today)

	slog.Info("GetHabitStreaks successful",
		"habit_id", habitID,
		"entries_count", len(entries),
		"current", current,
		"longest", longest,
	)

	return connect.NewResponse(&rpc.GetHabitStreaksResponse{
		HabitID:        habitID,
		Today:          today,
		CurrentStreak:  current,
		LongestStreak:  longest,
		CompletionRate: rate,
	}), nil
}

func habitToRPC(h *models.Habit) rpc.Habit {
	return rpc.Habit{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		CreatedAt:   h.CreatedAt,
	}
}
