package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// writeError maps domain errors onto the HTTP error payload. The rejected
// transition keeps its remediation data so the caller can self-correct
// without a second request.
func writeError(ctx echo.Context, err error) error {
	var transitionErr *kernel.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return ctx.JSON(http.StatusConflict, errorResponse{
			Code: "INVALID_STATE_TRANSITION",
			Message: fmt.Sprintf("Cannot transition from %s to %s",
				transitionErr.Current, transitionErr.Requested),
			Details: &transitionDetails{
				CurrentState:       transitionErr.Current,
				RequestedState:     transitionErr.Requested,
				AllowedTransitions: transitionErr.Allowed,
			},
		})
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, errorResponse{
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return ctx.JSON(http.StatusConflict, errorResponse{
			Code:    "CONCURRENCY_CONFLICT",
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrAlreadyExists):
		return ctx.JSON(http.StatusConflict, errorResponse{
			Code:    "ALREADY_EXISTS",
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    "INTERNAL",
			Message: "Internal server error",
		})
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    "VALIDATION_ERROR",
		Message: message,
	})
}
