package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/saga"
)

// ReallocationHandler exposes the reallocation trigger. Cancellation
// invokes the orchestrator in-process; this endpoint exists so a freed
// slot can also be refilled by an external trigger or a retry.
type ReallocationHandler struct {
	Reallocations *saga.ReallocationOrchestrator
}

// NewReallocationHandler constructs a ReallocationHandler.
func NewReallocationHandler(reallocations *saga.ReallocationOrchestrator) *ReallocationHandler {
	if reallocations == nil {
		panic("nil orchestrator passed to NewReallocationHandler")
	}
	return &ReallocationHandler{Reallocations: reallocations}
}

// Reallocate handles POST /v1/reallocations. An empty waitlist is a
// terminal success: the slot is deleted and the response reports it.
func (h *ReallocationHandler) Reallocate(c echo.Context) error {
	var body struct {
		ReservationID int64 `json:"reservation_id"`
		RestaurantID  int64 `json:"restaurant_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required field: reservation_id"})
	}
	if body.RestaurantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required field: restaurant_id"})
	}
	res, err := h.Reallocations.Reallocate(c.Request().Context(), body.ReservationID, body.RestaurantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successStatus(http.StatusOK, res.Degraded), res)
}
