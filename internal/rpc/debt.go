package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// DebtServiceName is the fully-qualified name of the debt service.
const DebtServiceName = "pocketsage.v1.DebtService"

// Procedures of DebtService.
const (
	DebtServiceCreateLiabilityProcedure   = "/" + DebtServiceName + "/CreateLiability"
	DebtServiceListLiabilitiesProcedure   = "/" + DebtServiceName + "/ListLiabilities"
	DebtServiceUpdateLiabilityProcedure   = "/" + DebtServiceName + "/UpdateLiability"
	DebtServiceDeleteLiabilityProcedure   = "/" + DebtServiceName + "/DeleteLiability"
	DebtServiceProjectPayoffProcedure     = "/" + DebtServiceName + "/ProjectPayoff"
	DebtServiceCompareStrategiesProcedure = "/" + DebtServiceName + "/CompareStrategies"
)

// DebtServiceHandler is implemented by the server side of DebtService.
type DebtServiceHandler interface {
	CreateLiability(context.Context, *connect.Request[CreateLiabilityRequest]) (*connect.Response[CreateLiabilityResponse], error)
	ListLiabilities(context.Context, *connect.Request[ListLiabilitiesRequest]) (*connect.Response[ListLiabilitiesResponse], error)
	UpdateLiability(context.Context, *connect.Request[UpdateLiabilityRequest]) (*connect.Response[UpdateLiabilityResponse], error)
	DeleteLiability(context.Context, *connect.Request[DeleteLiabilityRequest]) (*connect.Response[DeleteLiabilityResponse], error)
	ProjectPayoff(context.Context, *connect.Request[ProjectPayoffRequest]) (*connect.Response[ProjectPayoffResponse], error)
	CompareStrategies(context.Context, *connect.Request[CompareStrategiesRequest]) (*connect.Response[CompareStrategiesResponse], error)
}

// NewDebtServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewDebtServiceHandler(svc DebtServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	routes := map[string]http.Handler{
		DebtServiceCreateLiabilityProcedure:   connect.NewUnaryHandler(DebtServiceCreateLiabilityProcedure, svc.CreateLiability, opts...),
		DebtServiceListLiabilitiesProcedure:   connect.NewUnaryHandler(DebtServiceListLiabilitiesProcedure, svc.ListLiabilities, opts...),
		DebtServiceUpdateLiabilityProcedure:   connect.NewUnaryHandler(DebtServiceUpdateLiabilityProcedure, svc.UpdateLiability, opts...),
		DebtServiceDeleteLiabilityProcedure:   connect.NewUnaryHandler(DebtServiceDeleteLiabilityProcedure, svc.DeleteLiability, opts...),
		DebtServiceProjectPayoffProcedure:     connect.NewUnaryHandler(DebtServiceProjectPayoffProcedure, svc.ProjectPayoff, opts...),
		DebtServiceCompareStrategiesProcedure: connect.NewUnaryHandler(DebtServiceCompareStrategiesProcedure, svc.CompareStrategies, opts...),
	}
	return "/" + DebtServiceName + "/", route(routes)
}

// DebtServiceClient calls DebtService over Connect.
type DebtServiceClient struct {
	createLiability   *connect.Client[CreateLiabilityRequest, CreateLiabilityResponse]
	listLiabilities   *connect.Client[ListLiabilitiesRequest, ListLiabilitiesResponse]
	updateLiability   *connect.Client[UpdateLiabilityRequest, UpdateLiabilityResponse]
	deleteLiability   *connect.Client[DeleteLiabilityRequest, DeleteLiabilityResponse]
	projectPayoff     *connect.Client[ProjectPayoffRequest, ProjectPayoffResponse]
	compareStrategies *connect.Client[CompareStrategiesRequest, CompareStrategiesResponse]
}

// NewDebtServiceClient returns a client for the DebtService served at baseURL.
func NewDebtServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DebtServiceClient {
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &DebtServiceClient{
		createLiability:   connect.NewClient[CreateLiabilityRequest, CreateLiabilityResponse](httpClient, baseURL+DebtServiceCreateLiabilityProcedure, opts...),
		listLiabilities:   connect.NewClient[ListLiabilitiesRequest, ListLiabilitiesResponse](httpClient, baseURL+DebtServiceListLiabilitiesProcedure, opts...),
		updateLiability:   connect.NewClient[UpdateLiabilityRequest, UpdateLiabilityResponse](httpClient, baseURL+DebtServiceUpdateLiabilityProcedure, opts...),
		deleteLiability:   connect.NewClient[DeleteLiabilityRequest, DeleteLiabilityResponse](httpClient, baseURL+DebtServiceDeleteLiabilityProcedure, opts...),
		projectPayoff:     connect.NewClient[ProjectPayoffRequest, ProjectPayoffResponse](httpClient, baseURL+DebtServiceProjectPayoffProcedure, opts...),
		compareStrategies: connect.NewClient[CompareStrategiesRequest, CompareStrategiesResponse](httpClient, baseURL+DebtServiceCompareStrategiesProcedure, opts...),
	}
}

func (c *DebtServiceClient) CreateLiability(ctx context.Context, req *connect.Request[CreateLiabilityRequest]) (*connect.Response[CreateLiabilityResponse], error) {
	return c.createLiability.CallUnary(ctx, req)
}

func (c *DebtServiceClient) ListLiabilities(ctx context.Context, req *connect.Request[ListLiabilitiesRequest]) (*connect.Response[ListLiabilitiesResponse], error) {
	return c.listLiabilities.CallUnary(ctx, req)
}

func (c *DebtServiceClient) UpdateLiability(ctx context.Context, req *connect.Request[UpdateLiabilityRequest]) (*connect.Response[UpdateLiabilityResponse], error) {
	return c.updateLiability.CallUnary(ctx, req)
}

func (c *DebtServiceClient) DeleteLiability(ctx context.Context, req *connect.Request[DeleteLiabilityRequest]) (*connect.Response[DeleteLiabilityResponse], error) {
	return c.deleteLiability.CallUnary(ctx, req)
}

func (c *DebtServiceClient) ProjectPayoff(ctx context.Context, req *connect.Request[ProjectPayoffRequest]) (*connect.Response[ProjectPayoffResponse], error) {
	return c.projectPayoff.CallUnary(ctx, req)
}

func (c *DebtServiceClient) CompareStrategies(ctx context.Context, req *connect.Request[CompareStrategiesRequest]) (*connect.Response[CompareStrategiesResponse], error) {
	return c.compareStrategies.CallUnary(ctx, req)
}

// route dispatches on the exact procedure path.
func route(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
