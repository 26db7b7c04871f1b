package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"roomify/models"
)

var flexiblePolicy = &models.CancellationPolicy{
	Name:             "flexible",
	RefundBeforeDays: 1,
	BeforePercentage: 100,
	AfterPercentage:  50,
}

func TestComputeRefundHostAlwaysFull(t *testing.T) {
	// Host cancellation refunds 100% regardless of timing, even after the
	// start has passed.
	starts := []time.Time{
		fixedNow.AddDate(0, 0, 10),
		fixedNow.Add(2 * time.Hour),
		fixedNow.Add(-24 * time.Hour),
	}
	for _, start := range starts {
		if pct := ComputeRefund(flexiblePolicy, start, models.CancelledByHost, fixedNow); pct != 100 {
			t.Errorf("start=%v: host refund = %v, want 100", start, pct)
		}
	}
}

func TestComputeRefundGuestThresholds(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		want  float64
	}{
		{"well before threshold", fixedNow.AddDate(0, 0, 5), 100},
		{"exactly at threshold", fixedNow.Add(24 * time.Hour), 100},
		{"inside threshold", fixedNow.Add(6 * time.Hour), 50},
		{"already started", fixedNow.Add(-time.Hour), 0},
	}
	for _, tc := range cases {
		if pct := ComputeRefund(flexiblePolicy, tc.start, models.CancelledByGuest, fixedNow); pct != tc.want {
			t.Errorf("%s: refund = %v, want %v", tc.name, pct, tc.want)
		}
	}
}

func seedCancellable(e *Engine, repo *mockReservationRepo, amountPaid float64) *models.Reservation {
	res := &models.Reservation{
		ID: "res-1", ListingID: "listing-1", GuestID: "guest-1",
		Start:        fixedNow.AddDate(0, 0, 5),
		End:          fixedNow.AddDate(0, 0, 6),
		UnitType:     models.UnitNight,
		Currency:     "USD",
		TotalPrice:   500,
		AmountPaid:   amountPaid,
		Status:       models.ReservationConfirmed,
		PaymentState: models.PaymentPaid,
	}
	repo.Reservations[res.ID] = res

	l := testListing(models.UnitNight, models.PolicyOpenByDefault)
	l.CancellationPolicy = "flexible"
	e.ListingRepo = &mockListingRepo{
		GetByIDFn: func(ctx context.Context, id string) (*models.Listing, error) { return l, nil },
	}
	e.PolicyRepo = &mockListingRepo{
		GetPolicyByNameFn: func(ctx context.Context, name string) (*models.CancellationPolicy, error) {
			return flexiblePolicy, nil
		},
	}
	return res
}

func TestCancelSettledReservationRefunds(t *testing.T) {
	e, resvRepo, payRepo := newTestEngine()
	res := seedCancellable(e, resvRepo, 500)

	result, err := e.CancelReservation(context.Background(), res.ID, models.CancelledByGuest, "guest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RefundPct != 100 {
		t.Errorf("refund pct = %v, want 100", result.RefundPct)
	}
	if result.RefundAmount != 500 {
		t.Errorf("refund amount = %v, want 500", result.RefundAmount)
	}

	stored, _ := resvRepo.GetByID(context.Background(), res.ID)
	if stored.Status != models.ReservationCancelled {
		t.Errorf("status = %q, want cancelled", stored.Status)
	}
	if stored.PaymentState != models.PaymentRefunded {
		t.Errorf("payment state = %q, want refunded", stored.PaymentState)
	}

	// The refund lands as a compensating negative entry, never a mutation.
	if len(payRepo.Records) != 1 {
		t.Fatalf("got %d payment records, want 1", len(payRepo.Records))
	}
	if payRepo.Records[0].Amount != -500 {
		t.Errorf("refund record amount = %v, want -500", payRepo.Records[0].Amount)
	}
}

func TestCancelUnsettledReservationNoRefundRecord(t *testing.T) {
	e, resvRepo, payRepo := newTestEngine()
	res := seedCancellable(e, resvRepo, 0)

	result, err := e.CancelReservation(context.Background(), res.ID, models.CancelledByGuest, "guest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Policy grants 100%, but nothing was settled so nothing is refunded.
	if result.RefundPct != 100 {
		t.Errorf("refund pct = %v, want 100", result.RefundPct)
	}
	if result.RefundAmount != 0 {
		t.Errorf("refund amount = %v, want 0", result.RefundAmount)
	}
	if len(payRepo.Records) != 0 {
		t.Errorf("got %d payment records, want none", len(payRepo.Records))
	}
}

func TestCancelGuardsTerminalStates(t *testing.T) {
	for _, status := range []models.ReservationStatus{models.ReservationCompleted, models.ReservationCancelled} {
		e, resvRepo, _ := newTestEngine()
		res := seedCancellable(e, resvRepo, 500)
		res.Status = status

		_, err := e.CancelReservation(context.Background(), res.ID, models.CancelledByGuest, "guest-1")
		if !IsCode(err, CodeConflict) {
			t.Errorf("status=%s: code = %q, want %q", status, CodeOf(err), CodeConflict)
		}
	}
}

func TestCancelActorChecks(t *testing.T) {
	e, resvRepo, _ := newTestEngine()
	res := seedCancellable(e, resvRepo, 500)

	if _, err := e.CancelReservation(context.Background(), res.ID, models.CancelledByGuest, "someone-else"); !IsCode(err, CodeForbidden) {
		t.Errorf("stranger as guest: code = %q, want %q", CodeOf(err), CodeForbidden)
	}
	if _, err := e.CancelReservation(context.Background(), res.ID, models.CancelledByHost, "guest-1"); !IsCode(err, CodeForbidden) {
		t.Errorf("guest as host: code = %q, want %q", CodeOf(err), CodeForbidden)
	}

	// The listing owner may cancel as host.
	result, err := e.CancelReservation(context.Background(), res.ID, models.CancelledByHost, "host-1")
	if err != nil {
		t.Fatalf("owner cancel: unexpected error: %v", err)
	}
	if result.RefundPct != 100 {
		t.Errorf("host cancel refund pct = %v, want 100", result.RefundPct)
	}
}

func TestCancelPolicyLookupFailSafe(t *testing.T) {
	e, resvRepo, _ := newTestEngine()
	res := seedCancellable(e, resvRepo, 500)
	e.PolicyRepo = &mockListingRepo{
		GetPolicyByNameFn: func(ctx context.Context, name string) (*models.CancellationPolicy, error) {
			return nil, errors.New("policy store down")
		},
	}

	// Guest: fail-safe grants nothing and flags the case for review.
	result, err := e.CancelReservation(context.Background(), res.ID, models.CancelledByGuest, "guest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RefundPct != 0 || result.RefundAmount != 0 {
		t.Errorf("fail-safe guest refund = %v%%/%v, want 0/0", result.RefundPct, result.RefundAmount)
	}
	if !result.ReviewRequired {
		t.Error("fail-safe guest cancellation must be flagged for review")
	}

	// Host: still made whole even without a policy.
	e2, resvRepo2, _ := newTestEngine()
	res2 := seedCancellable(e2, resvRepo2, 500)
	e2.PolicyRepo = e.PolicyRepo
	result, err = e2.CancelReservation(context.Background(), res2.ID, models.CancelledByHost, "host-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RefundPct != 100 {
		t.Errorf("fail-safe host refund pct = %v, want 100", result.RefundPct)
	}
	if result.ReviewRequired {
		t.Error("host fail-safe cancellation needs no review")
	}
}

func TestCancelRefundNeverExceedsTotal(t *testing.T) {
	e, resvRepo, _ := newTestEngine()
	res := seedCancellable(e, resvRepo, 600) // overpaid ledger
	res.TotalPrice = 500

	result, err := e.CancelReservation(context.Background(), res.ID, models.CancelledByHost, "host-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RefundAmount > 500 {
		t.Errorf("refund amount = %v, exceeds total 500", result.RefundAmount)
	}
}

func TestCancelSkipsQueueEntry(t *testing.T) {
	e, resvRepo, _ := newTestEngine()
	res := seedCancellable(e, resvRepo, 0)
	ticket := 3
	waiting := models.QueueWaiting
	res.UnitType = models.UnitSession
	res.TicketNumber = &ticket
	res.QueueStatus = &waiting
	resvRepo.QueueEntries = []models.QueueEntry{{
		ID: "q-1", ReservationID: res.ID, ListingID: res.ListingID,
		TicketNumber: ticket, Status: models.QueueWaiting,
	}}

	if _, err := e.CancelReservation(context.Background(), res.ID, models.CancelledByGuest, "guest-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resvRepo.QueueEntries[0].Status != models.QueueSkipped {
		t.Errorf("queue entry status = %q, want skipped", resvRepo.QueueEntries[0].Status)
	}
}
