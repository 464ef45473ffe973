package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/saga"
)

// BookingHandler exposes booking creation and acceptance of a
// reallocated table. Authentication has already been performed by
// middleware; the handlers only translate between HTTP and the sagas.
type BookingHandler struct {
	Bookings *saga.BookingOrchestrator
	Accepts  *saga.AcceptOrchestrator
}

// NewBookingHandler constructs a BookingHandler. Both orchestrators
// must be non-nil.
func NewBookingHandler(bookings *saga.BookingOrchestrator, accepts *saga.AcceptOrchestrator) *BookingHandler {
	if bookings == nil || accepts == nil {
		panic("nil orchestrator passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Accepts: accepts}
}

// CreateBooking handles POST /v1/bookings. The response status is 201
// for a clean booking or delivery confirmation, 207 when a best-effort
// step (notification, order-type patch) failed, 400 for invalid input
// and the collaborator's status when a terminal step failed.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var in saga.CreateBookingInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Bookings.CreateBooking(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successStatus(http.StatusCreated, res.Degraded), res)
}

// AcceptBooking handles POST /v1/bookings/accept, confirming a
// PENDING reallocated slot under its new reservation id.
func (h *BookingHandler) AcceptBooking(c echo.Context) error {
	var in saga.AcceptBookingInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Accepts.AcceptBooking(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(successStatus(http.StatusOK, res.Degraded), res)
}
