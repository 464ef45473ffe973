package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/gateway"
	"github.com/iliyamo/restaurant-table-reservation/internal/saga"
)

func record(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if rErr := respondError(c, err); rErr != nil {
		t.Fatalf("respondError: %v", rErr)
	}
	return rec
}

func TestRespondErrorValidation(t *testing.T) {
	rec := record(t, &saga.ValidationError{Field: "restaurant_id"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "restaurant_id") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestRespondErrorPropagatesCollaboratorStatus(t *testing.T) {
	rec := record(t, &gateway.CollaboratorError{Service: "reservation-store", Status: 404, Message: "reservation not found"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}

	rec = record(t, &gateway.CollaboratorError{Service: "reservation-store", Status: 409, Message: "slot not pending"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestRespondErrorTransportFailureIs500(t *testing.T) {
	rec := record(t, &gateway.CollaboratorError{Service: "payment-gateway", Message: "connection refused"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestRespondErrorUnclassifiedIs500(t *testing.T) {
	rec := record(t, errors.New("boom"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestSuccessStatusDegradedIs207(t *testing.T) {
	if got := successStatus(http.StatusCreated, nil); got != http.StatusCreated {
		t.Fatalf("clean status = %d", got)
	}
	if got := successStatus(http.StatusCreated, []string{"user lookup failed"}); got != http.StatusMultiStatus {
		t.Fatalf("degraded status = %d", got)
	}
}

func TestCancelBookingRejectsBadID(t *testing.T) {
	e := echo.New()
	h := &CancellationHandler{}

	for _, id := range []string{"abc", "0"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/bookings/:id/cancel")
		c.SetParamNames("id")
		c.SetParamValues(id)
		if err := h.CancelBooking(c); err != nil {
			t.Fatalf("CancelBooking: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("id %q: code = %d", id, rec.Code)
		}
	}
}
