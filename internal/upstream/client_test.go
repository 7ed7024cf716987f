package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestCreateSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req models.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "s-42"})
	})

	id, err := client.CreateSearch(context.Background(), models.SearchRequest{Origin: "MDE", Destination: "CTG"})
	if err != nil {
		t.Fatalf("create search: %v", err)
	}
	if id != "s-42" {
		t.Fatalf("search id = %q", id)
	}
}

func TestCreateSearchEmptyID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	if _, err := client.CreateSearch(context.Background(), models.SearchRequest{}); !domain.IsUpstream(err) {
		t.Fatalf("expected UpstreamError for empty id, got %v", err)
	}
}

func TestDoJSONNon2xx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})

	_, err := client.GetSearch(context.Background(), "s-1")
	var ue domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", ue.Status)
	}
}

func TestDoJSONMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	if _, err := client.GetSearch(context.Background(), "s-1"); !domain.IsUpstream(err) {
		t.Fatalf("expected UpstreamError for malformed body, got %v", err)
	}
}

func TestDoJSONTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)

	if _, err := client.GetSearch(context.Background(), "s-1"); !domain.IsUpstream(err) {
		t.Fatalf("expected UpstreamError for refused connection, got %v", err)
	}
}

func TestDetailsRequestRoundTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/trips/T1/details_requests":
			json.NewEncoder(w).Encode(map[string]string{"id": "dr-7"})
		case r.Method == http.MethodGet && r.URL.Path == "/trips/T1/details_requests/dr-7":
			json.NewEncoder(w).Encode(map[string]any{
				"state":   "finished",
				"payload": map[string]any{"seats": []string{"3"}},
			})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	id, err := client.CreateDetailsRequest(ctx, "T1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	status, err := client.GetDetailsRequest(ctx, "T1", id)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if status.State != "finished" || len(status.Payload) == 0 {
		t.Fatalf("status = %+v", status)
	}
}

func TestCreatePSEPaymentErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/pse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		// Business failures ride inside a 200 response.
		json.NewEncoder(w).Encode(PSEResponse{Error: "banco fuera de línea"})
	})

	resp, err := client.CreatePSEPayment(context.Background(), PSERequest{Amount: 100000, BankCode: "1007"})
	if err != nil {
		t.Fatalf("pse payment: %v", err)
	}
	if resp.Error != "banco fuera de línea" {
		t.Fatalf("error body = %q", resp.Error)
	}
	if resp.URL != "" {
		t.Fatalf("url = %q, want empty on business failure", resp.URL)
	}
}

func TestNotifyBookingSwallowsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	// Must not panic or block; the error only reaches the log.
	client.NotifyBooking(context.Background(), BookingNotification{ReservationID: "r-1"})
}
