// Package httperr translates the service error taxonomy into echo HTTP
// errors so handlers stay thin and no raw error ever crosses into the
// presentation layer uncaught.
package httperr

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/apperr"
)

// From maps a service error onto an echo.HTTPError. Insufficient stock is an
// expected operational outcome and is reported as a structured 409 body
// carrying the drug's display name.
func From(err error) error {
	if err == nil {
		return nil
	}
	if is, ok := apperr.AsInsufficientStock(err); ok {
		return echo.NewHTTPError(http.StatusConflict, map[string]interface{}{
			"error":     "insufficient_stock",
			"drug_name": is.DrugName,
			"required":  is.Required,
			"available": is.Available,
		})
	}
	switch {
	case apperr.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apperr.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case apperr.IsStateConflict(err):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
