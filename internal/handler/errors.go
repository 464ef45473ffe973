package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/gateway"
	"github.com/iliyamo/restaurant-table-reservation/internal/saga"
)

// respondError maps saga errors onto the boundary contract: 400 for
// validation failures (nothing happened), the downstream status for
// collaborator failures that terminated the saga, and 500 for
// transport-level failures or anything unclassified.
func respondError(c echo.Context, err error) error {
	var vErr *saga.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Error()})
	}
	var cErr *gateway.CollaboratorError
	if errors.As(err, &cErr) {
		status := cErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		return c.JSON(status, echo.Map{"error": cErr.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}

// successStatus picks between a clean success and 207 when best-effort
// steps failed after the primary effect succeeded.
func successStatus(clean int, degraded []string) int {
	if len(degraded) > 0 {
		return http.StatusMultiStatus
	}
	return clean
}
