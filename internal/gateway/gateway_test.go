package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoUnwrapsEnvelopeMessageOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{"code": 409, "message": "slot not pending"})
	}))
	defer srv.Close()

	_, err := do(context.Background(), srv.Client(), "reservation-store", http.MethodPatch, srv.URL, nil)
	var ce *CollaboratorError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CollaboratorError, got %v", err)
	}
	if ce.Status != http.StatusConflict || ce.Message != "slot not pending" {
		t.Fatalf("unexpected error %+v", ce)
	}
}

func TestDoFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not json", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := do(context.Background(), srv.Client(), "order-store", http.MethodGet, srv.URL, nil)
	var ce *CollaboratorError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CollaboratorError, got %v", err)
	}
	if ce.Status != http.StatusInternalServerError || ce.Message != "Internal Server Error" {
		t.Fatalf("unexpected error %+v", ce)
	}
}

func TestDoTransportFailureHasZeroStatus(t *testing.T) {
	hc := NewHTTPClient(200 * time.Millisecond)
	_, err := do(context.Background(), hc, "payment-gateway", http.MethodPost, "http://127.0.0.1:1/refund", map[string]string{"id": "pi_x"})
	var ce *CollaboratorError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CollaboratorError, got %v", err)
	}
	if ce.Status != 0 {
		t.Fatalf("transport failures must carry status 0, got %d", ce.Status)
	}
	if ce.NotFound() {
		t.Fatal("transport failure is not a 404")
	}
}

func TestDecodeDataUnwrapsEnvelope(t *testing.T) {
	raw := []byte(`{"code":200,"data":{"reservation_id":301,"status":"BOOKED"}}`)
	var out struct {
		ReservationID int64  `json:"reservation_id"`
		Status        string `json:"status"`
	}
	if err := decodeData("reservation-store", raw, &out); err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	if out.ReservationID != 301 || out.Status != "BOOKED" {
		t.Fatalf("decoded %+v", out)
	}
}

func TestDecodeDataAcceptsBareBody(t *testing.T) {
	raw := []byte(`{"refund":{"id":"re_1","amount":89.5,"status":"succeeded"}}`)
	var out struct {
		Refund Refund `json:"refund"`
	}
	if err := decodeData("payment-gateway", raw, &out); err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	if out.Refund.ID != "re_1" || out.Refund.Amount != 89.5 {
		t.Fatalf("decoded %+v", out)
	}
}

func TestOrderListByUser404MeansEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"code": 404, "message": "no orders"})
	}))
	defer srv.Close()

	orders, err := NewOrderClient(srv.URL, srv.Client()).ListByUser(context.Background(), "u-1001")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if orders != nil {
		t.Fatalf("expected nil slice, got %v", orders)
	}
}

func TestWaitlistNextEmptySentinels(t *testing.T) {
	cases := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"404", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"none sentinel", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"code": 200, "data": map[string]string{"user_id": "none"}})
		}},
		{"empty", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"code": 200, "data": map[string]string{"user_id": ""}})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.h)
			defer srv.Close()
			got, err := NewWaitlistClient(srv.URL, srv.Client()).Next(context.Background(), 7)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if got != "" {
				t.Fatalf("expected empty candidate, got %q", got)
			}
		})
	}
}

func TestWaitlistNextReturnsCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("restaurant_id"); got != "7" {
			t.Fatalf("restaurant_id = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"code": 200, "data": map[string]string{"user_id": "u-2002"}})
	}))
	defer srv.Close()

	got, err := NewWaitlistClient(srv.URL, srv.Client()).Next(context.Background(), 7)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got != "u-2002" {
		t.Fatalf("candidate = %q", got)
	}
}

func TestReservationCancelReturnsPreImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/reservations/cancel/301" {
			t.Fatalf("%s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 200,
			"data": map[string]interface{}{
				"reservation_id": 301,
				"restaurant_id":  7,
				"user_id":        "u-1001",
				"table_no":       12,
				"refund_amount":  89.5,
				"payment_id":     "pi_abc123",
				"order_id":       501,
			},
		})
	}))
	defer srv.Close()

	pre, err := NewReservationClient(srv.URL, srv.Client()).Cancel(context.Background(), 301)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if pre.ReservationID != 301 || pre.RestaurantID != 7 || pre.TableNo != 12 {
		t.Fatalf("pre-image %+v", pre)
	}
	if pre.PaymentID == nil || *pre.PaymentID != "pi_abc123" {
		t.Fatal("payment id missing from pre-image")
	}
	if pre.OrderID == nil || *pre.OrderID != 501 {
		t.Fatal("order id missing from pre-image")
	}
}
