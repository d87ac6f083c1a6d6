package handlers

import (
	"channel-catalog/core/errors"
	"github.com/danielgtaylor/huma/v2"
)

// toHumaError maps core error types onto problem responses. Anything
// unrecognized is a 500 that keeps the cause for the server log.
func toHumaError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	case errors.IsValidation(err):
		return huma.Error400BadRequest(err.Error())
	case errors.IsConflict(err):
		return huma.Error409Conflict(err.Error())
	case errors.IsCancelled(err):
		return huma.Error503ServiceUnavailable("update was cancelled", err)
	case errors.IsExternalAPI(err):
		return huma.Error502BadGateway("upstream request failed", err)
	default:
		return huma.Error500InternalServerError("internal server error", err)
	}
}
