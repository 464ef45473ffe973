package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/saga"
)

// CancellationHandler exposes booking cancellation.
type CancellationHandler struct {
	Cancels *saga.CancellationOrchestrator
}

// NewCancellationHandler constructs a CancellationHandler.
func NewCancellationHandler(cancels *saga.CancellationOrchestrator) *CancellationHandler {
	if cancels == nil {
		panic("nil orchestrator passed to NewCancellationHandler")
	}
	return &CancellationHandler{Cancels: cancels}
}

// CancelBooking handles POST /v1/bookings/:id/cancel. Once the
// reservation row is cleared the response is a success; failed refund,
// notification or cleanup steps show up as 207 with degraded notes so
// the caller can reconcile.
func (h *CancellationHandler) CancelBooking(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Cancels.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successStatus(http.StatusOK, res.Degraded), res)
}
