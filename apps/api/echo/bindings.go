package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core"
)

const (
	orderingParam = "ordering"
	periodParam   = "period"
)

// bindOrdering reads a comma-separated list of fields, "-" marking descending order.
// Fields outside allowed are ignored.
func bindOrdering(ctx echo.Context, allowed []string) []core.DBOrdering {
	return core.ParseOrdering(ctx.QueryParam(orderingParam), allowed)
}

func bindPeriod(ctx echo.Context) (core.Period, error) {
	period, err := core.ParsePeriod(ctx.Param(periodParam))
	if err != nil {
		return "", core.NewValidationError(err, core.FieldError{Field: periodParam, Error: "period must be one of: weekly, yearly"})
	}
	return period, nil
}

// WriteResponse reports the outcome of a dashboard write.
// Persisted is false when only the local cache was written; Warning then tells why.
type WriteResponse struct {
	Persisted bool        `json:"persisted"`
	Warning   string      `json:"warning,omitempty"`
	Data      interface{} `json:"data"`
}

// writeResult turns the result of a write-through into a response.
// Validation errors fail the request, any other error is only reported.
func writeResult(ctx echo.Context, persisted bool, err error, data interface{}) error {
	resp := WriteResponse{Persisted: persisted, Data: data}
	if err != nil {
		if core.IsValidationError(err) {
			return err
		}
		if errors.Cause(err) == core.ErrNoSession {
			resp.Warning = "saved locally only: " + core.ErrNoSession.Error()
		} else {
			resp.Warning = "saved locally only: the data could not be persisted"
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)
