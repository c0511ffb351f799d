package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// HabitServiceName is the fully-qualified name of the habit service.
const HabitServiceName = "pocketsage.v1.HabitService"

// Procedures of HabitService.
const (
	HabitServiceCreateHabitProcedure     = "/" + HabitServiceName + "/CreateHabit"
	HabitServiceListHabitsProcedure      = "/" + HabitServiceName + "/ListHabits"
	HabitServiceDeleteHabitProcedure     = "/" + HabitServiceName + "/DeleteHabit"
	HabitServiceLogHabitEntryProcedure   = "/" + HabitServiceName + "/LogHabitEntry"
	HabitServiceGetHabitStreaksProcedure = "/" + HabitServiceName + "/GetHabitStreaks"
)

// HabitServiceHandler is implemented by the server side of HabitService.
type HabitServiceHandler interface {
	CreateHabit(context.Context, *connect.Request[CreateHabitRequest]) (*connect.Response[CreateHabitResponse], error)
	ListHabits(context.Context, *connect.Request[ListHabitsRequest]) (*connect.Response[ListHabitsResponse], error)
	DeleteHabit(context.Context, *connect.Request[DeleteHabitRequest]) (*connect.Response[DeleteHabitResponse], error)
	LogHabitEntry(context.Context, *connect.Request[LogHabitEntryRequest]) (*connect.Response[LogHabitEntryResponse], error)
	GetHabitStreaks(context.Context, *connect.Request[GetHabitStreaksRequest]) (*connect.Response[GetHabitStreaksResponse], error)
}

// NewHabitServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewHabitServiceHandler(svc HabitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	routes := map[string]http.Handler{
		HabitServiceCreateHabitProcedure:     connect.NewUnaryHandler(HabitServiceCreateHabitProcedure, svc.CreateHabit, opts...),
		HabitServiceListHabitsProcedure:      connect.NewUnaryHandler(HabitServiceListHabitsProcedure, svc.ListHabits, opts...),
		HabitServiceDeleteHabitProcedure:     connect.NewUnaryHandler(HabitServiceDeleteHabitProcedure, svc.DeleteHabit, opts...),
		HabitServiceLogHabitEntryProcedure:   connect.NewUnaryHandler(HabitServiceLogHabitEntryProcedure, svc.LogHabitEntry, opts...),
		HabitServiceGetHabitStreaksProcedure: connect.NewUnaryHandler(HabitServiceGetHabitStreaksProcedure, svc.GetHabitStreaks, opts...),
	}
	return "/" + HabitServiceName + "/", route(routes)
}

// HabitServiceClient calls HabitService over Connect.
type HabitServiceClient struct {
	createHabit     *connect.Client[CreateHabitRequest, CreateHabitResponse]
	listHabits      *connect.Client[ListHabitsRequest, ListHabitsResponse]
	deleteHabit     *connect.Client[DeleteHabitRequest, DeleteHabitResponse]
	logHabitEntry   *connect.Client[LogHabitEntryRequest, LogHabitEntryResponse]
	getHabitStreaks *connect.Client[GetHabitStreaksRequest, GetHabitStreaksResponse]
}

// NewHabitServiceClient returns a client for the HabitService served at baseURL.
func NewHabitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *HabitServiceClient {
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &HabitServiceClient{
		createHabit:     connect.NewClient[CreateHabitRequest, CreateHabitResponse](httpClient, baseURL+HabitServiceCreateHabitProcedure, opts...),
		listHabits:      connect.NewClient[ListHabitsRequest, ListHabitsResponse](httpClient, baseURL+HabitServiceListHabitsProcedure, opts...),
		deleteHabit:     connect.NewClient[DeleteHabitRequest, DeleteHabitResponse](httpClient, baseURL+HabitServiceDeleteHabitProcedure, opts...),
		logHabitEntry:   connect.NewClient[LogHabitEntryRequest, LogHabitEntryResponse](httpClient, baseURL+HabitServiceLogHabitEntryProcedure, opts...),
		getHabitStreaks: connect.NewClient[GetHabitStreaksRequest, GetHabitStreaksResponse](httpClient, baseURL+HabitServiceGetHabitStreaksProcedure, opts...),
	}
}

func (c *HabitServiceClient) CreateHabit(ctx context.Context, req *connect.Request[CreateHabitRequest]) (*connect.Response[CreateHabitResponse], error) {
	return c.createHabit.CallUnary(ctx, req)
}

func (c *HabitServiceClient) ListHabits(ctx context.Context, req *connect.Request[ListHabitsRequest]) (*connect.Response[ListHabitsResponse], error) {
	return c.listHabits.CallUnary(ctx, req)
}

func (c *HabitServiceClient) DeleteHabit(ctx context.Context, req *connect.Request[DeleteHabitRequest]) (*connect.Response[DeleteHabitResponse], error) {
	return c.deleteHabit.CallUnary(ctx, req)
}

func (c *HabitServiceClient) LogHabitEntry(ctx context.Context, req *connect.Request[LogHabitEntryRequest]) (*connect.Response[LogHabitEntryResponse], error) {
	return c.logHabitEntry.CallUnary(ctx, req)
}

func (c *HabitServiceClient) GetHabitStreaks(ctx context.Context, req *connect.Request[GetHabitStreaksRequest]) (*connect.Response[GetHabitStreaksResponse], error) {
	return c.getHabitStreaks.CallUnary(ctx, req)
}
