package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/pocketsage/internal/calculator"
	"github.com/mmynk/pocketsage/internal/storage"
)

// nonConvergentMessage is what callers see when the payments never outrun the interest.
const nonConvergentMessage = "this debt cannot be paid off at the current payment level"

// toConnectError maps calculator and storage errors to Connect codes.
func toConnectError(err error) *connect.Error {
	var invalid *calculator.InvalidInputError
	var stuck *calculator.NonConvergentScheduleError
	switch {
	case errors.As(err, &invalid):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &stuck):
		return connect.NewError(connect.CodeFailedPrecondition, errors.New(nonConvergentMessage))
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
