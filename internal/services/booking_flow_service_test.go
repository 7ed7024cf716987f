package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/upstream"
)

type fakeSearchAPI struct {
	calls int
}

func (f *fakeSearchAPI) CreateSearch(context.Context, models.SearchRequest) (string, error) {
	f.calls++
	return "s-1", nil
}

func (f *fakeSearchAPI) GetSearch(context.Context, string) (models.SearchResult, error) {
	return models.SearchResult{State: "finished"}, nil
}

type fakeNotifyAPI struct {
	mu    sync.Mutex
	sent  []upstream.BookingNotification
	fired chan struct{}
}

func newFakeNotifyAPI() *fakeNotifyAPI {
	return &fakeNotifyAPI{fired: make(chan struct{}, 1)}
}

func (f *fakeNotifyAPI) NotifyBooking(_ context.Context, n upstream.BookingNotification) {
	f.mu.Lock()
	f.sent = append(f.sent, n)
	f.mu.Unlock()
	select {
	case f.fired <- struct{}{}:
	default:
	}
}

func newTestFlow(t *testing.T) (BookingFlowService, *fakePaymentAPI, *fakeNotifyAPI, *time.Time) {
	t.Helper()
	reservations, now := newTestReservationService()
	payments := &fakePaymentAPI{resp: upstream.PSEResponse{URL: "https://pse.example/r/1"}}
	notify := newFakeNotifyAPI()
	flow := BookingFlowService{
		Reservations: reservations,
		Payments:     PaymentService{API: payments},
		Notify:       notify,
	}
	return flow, payments, notify, now
}

func TestSubmitPassengersConfirmsAndNotifies(t *testing.T) {
	flow, _, notify, _ := newTestFlow(t)
	ctx := context.Background()

	res, err := flow.SelectSeats(ctx, "T1", []string{"3"}, 50000, testTripInfo())
	if err != nil {
		t.Fatalf("select seats: %v", err)
	}

	got, err := flow.SubmitPassengers(ctx, res.ID, testPassengers("3"))
	if err != nil {
		t.Fatalf("submit passengers: %v", err)
	}
	if got.Status != "confirmed" {
		t.Fatalf("status = %s, want confirmed", got.Status)
	}

	select {
	case <-notify.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation notification never fired")
	}
	notify.mu.Lock()
	defer notify.mu.Unlock()
	if len(notify.sent) != 1 || notify.sent[0].ReservationID != res.ID {
		t.Fatalf("notifications = %+v", notify.sent)
	}
	if notify.sent[0].Email != "ana@example.com" {
		t.Fatalf("notification email = %q", notify.sent[0].Email)
	}
}

func TestSubmitPassengersAfterExpiry(t *testing.T) {
	flow, _, notify, now := newTestFlow(t)
	ctx := context.Background()

	res, err := flow.SelectSeats(ctx, "T1", []string{"3"}, 50000, testTripInfo())
	if err != nil {
		t.Fatalf("select seats: %v", err)
	}

	*now = now.Add(11 * time.Minute)
	if _, err := flow.SubmitPassengers(ctx, res.ID, testPassengers("3")); !domain.IsExpired(err) {
		t.Fatalf("expected ExpiredError, got %v", err)
	}

	select {
	case <-notify.fired:
		t.Fatal("notification fired for a failed confirmation")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestInitiatePaymentRequiresConfirmation(t *testing.T) {
	flow, payments, _, now := newTestFlow(t)
	ctx := context.Background()

	res, err := flow.SelectSeats(ctx, "T1", []string{"3"}, 50000, testTripInfo())
	if err != nil {
		t.Fatalf("select seats: %v", err)
	}

	// Pending: passenger data missing.
	if _, err := flow.InitiatePayment(ctx, res.ID, "1007", "ana@example.com", "102030405"); !domain.IsValidation(err) {
		t.Fatalf("pending: expected ValidationError, got %v", err)
	}

	// Cancelled (lapsed hold): the session is over.
	*now = now.Add(11 * time.Minute)
	if _, err := flow.InitiatePayment(ctx, res.ID, "1007", "ana@example.com", "102030405"); !domain.IsExpired(err) {
		t.Fatalf("cancelled: expected ExpiredError, got %v", err)
	}
	if payments.calls != 0 {
		t.Fatalf("rail called %d times before confirmation", payments.calls)
	}
}

func TestInitiatePaymentUsesReservationTotal(t *testing.T) {
	flow, payments, _, _ := newTestFlow(t)
	ctx := context.Background()

	res, err := flow.SelectSeats(ctx, "T1", []string{"3", "7"}, 50000, testTripInfo())
	if err != nil {
		t.Fatalf("select seats: %v", err)
	}
	if _, err := flow.SubmitPassengers(ctx, res.ID, testPassengers("3", "7")); err != nil {
		t.Fatalf("submit passengers: %v", err)
	}

	resp, err := flow.InitiatePayment(ctx, res.ID, "1007", "ana@example.com", "102030405")
	if err != nil {
		t.Fatalf("initiate payment: %v", err)
	}
	if resp.URL == "" {
		t.Fatal("missing redirect url")
	}
	if payments.last.Amount != 100000 {
		t.Fatalf("charged amount = %d, want the stored total 100000", payments.last.Amount)
	}
}

func TestStartSearchValidatesDate(t *testing.T) {
	search := &fakeSearchAPI{}
	flow := BookingFlowService{Search: search}
	ctx := context.Background()

	for _, date := range []string{"", "15-03-2026", "2026-13-40", "mañana"} {
		req := models.SearchRequest{Origin: "MDE", Destination: "CTG", Date: date}
		if _, err := flow.StartSearch(ctx, req); !domain.IsValidation(err) {
			t.Fatalf("date %q: expected ValidationError, got %v", date, err)
		}
	}
	if search.calls != 0 {
		t.Fatalf("carrier called %d times for invalid dates", search.calls)
	}

	id, err := flow.StartSearch(ctx, models.SearchRequest{Origin: "MDE", Destination: "CTG", Date: "2026-03-15"})
	if err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	if id != "s-1" || search.calls != 1 {
		t.Fatalf("id = %q, calls = %d", id, search.calls)
	}
}

func TestInitiatePaymentUnknownReservation(t *testing.T) {
	flow, _, _, _ := newTestFlow(t)

	if _, err := flow.InitiatePayment(context.Background(), "missing", "1007", "ana@example.com", "1"); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
