package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"hostelhub/models"
)

func req(userID, roomID, bedID string) Request {
	return Request{
		UserID:    userID,
		UserEmail: userID + "@hostel.test",
		UserName:  userID,
		RoomID:    roomID,
		BedID:     bedID,
	}
}

func TestAttemptBookingClaimsBed(t *testing.T) {
	store := newMemStore()
	store.addRoom("r1", "101", "a", "b")
	arb := NewArbitrator(store.runner())

	if err := arb.AttemptBooking(context.Background(), req("u1", "r1", "a")); err != nil {
		t.Fatalf("AttemptBooking: %v", err)
	}

	b := store.bookings["u1"]
	if b == nil {
		t.Fatal("no booking written")
	}
	if b.Status != models.StatusPending {
		t.Errorf("booking status = %q, want pending", b.Status)
	}
	if b.RoomNumber != "101" || b.BedID != "a" {
		t.Errorf("booking = %+v, want room 101 bed a", b)
	}

	bed := store.rooms["r1"].Beds["a"]
	if bed.Status != models.BedPending {
		t.Errorf("bed status = %q, want pending", bed.Status)
	}
	if bed.OccupantID != "u1" {
		t.Errorf("bed occupant = %q, want u1", bed.OccupantID)
	}
}

func TestAttemptBookingValidation(t *testing.T) {
	store := newMemStore()
	store.addRoom("r1", "101", "a")
	arb := NewArbitrator(store.runner())
	ctx := context.Background()

	if err := arb.AttemptBooking(ctx, req("", "r1", "a")); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("no user: err = %v, want ErrUnauthenticated", err)
	}
	if err := arb.AttemptBooking(ctx, req("u1", "", "a")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("no room: err = %v, want ErrInvalidArgument", err)
	}
	if err := arb.AttemptBooking(ctx, req("u1", "r1", "")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("no bed: err = %v, want ErrInvalidArgument", err)
	}
	if err := arb.AttemptBooking(ctx, req("u1", "nope", "a")); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("unknown room: err = %v, want ErrRoomNotFound", err)
	}
	if err := arb.AttemptBooking(ctx, req("u1", "r1", "z")); !errors.Is(err, ErrBedUnavailable) {
		t.Errorf("unknown bed: err = %v, want ErrBedUnavailable", err)
	}
	if len(store.bookings) != 0 {
		t.Errorf("rejected attempts left %d bookings behind", len(store.bookings))
	}
}

func TestConcurrentClaimsOneWinner(t *testing.T) {
	store := newMemStore()
	store.addRoom("r1", "101", "a")
	arb := NewArbitrator(store.runner())

	const racers = 20
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = arb.AttemptBooking(context.Background(), req(fmt.Sprintf("u%d", i), "r1", "a"))
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrBedUnavailable):
		default:
			t.Errorf("racer %d: unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
	if len(store.bookings) != 1 {
		t.Fatalf("bookings = %d, want 1", len(store.bookings))
	}

	bed := store.rooms["r1"].Beds["a"]
	for userID := range store.bookings {
		if bed.OccupantID != userID {
			t.Errorf("bed occupant %q does not match booking owner %q", bed.OccupantID, userID)
		}
	}
}

func TestSecondBookingBlocked(t *testing.T) {
	store := newMemStore()
	store.addRoom("r1", "101", "a", "b")
	arb := NewArbitrator(store.runner())
	ctx := context.Background()

	if err := arb.AttemptBooking(ctx, req("u1", "r1", "a")); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := arb.AttemptBooking(ctx, req("u1", "r1", "b")); !errors.Is(err, ErrActiveBooking) {
		t.Fatalf("second booking: err = %v, want ErrActiveBooking", err)
	}
	// Re-submitting the same bed reports the duplicate booking, not the
	// hold the caller themselves placed on it.
	if err := arb.AttemptBooking(ctx, req("u1", "r1", "a")); !errors.Is(err, ErrActiveBooking) {
		t.Fatalf("same-bed resubmit: err = %v, want ErrActiveBooking", err)
	}

	if bed := store.rooms["r1"].Beds["b"]; bed.Status != models.BedAvailable {
		t.Errorf("bed b = %q after failed attempt, want available", bed.Status)
	}
}

func TestFailedTransactionLeavesNothing(t *testing.T) {
	store := newMemStore()
	store.addRoom("r1", "101", "a")
	store.failOn = "PutBooking"
	arb := NewArbitrator(store.runner())

	err := arb.AttemptBooking(context.Background(), req("u1", "r1", "a"))
	if err == nil {
		t.Fatal("expected injected failure")
	}

	// The bed hold staged before the failure must not be visible.
	if bed := store.rooms["r1"].Beds["a"]; bed.Status != models.BedAvailable {
		t.Errorf("bed = %q after aborted transaction, want available", bed.Status)
	}
	if len(store.bookings) != 0 {
		t.Errorf("aborted transaction left %d bookings", len(store.bookings))
	}
}

func TestConflictRetryIsIdempotent(t *testing.T) {
	store := newMemStore()
	store.addRoom("r1", "101", "a")
	store.abortRetries = 2
	arb := NewArbitrator(store.runner())

	if err := arb.AttemptBooking(context.Background(), req("u1", "r1", "a")); err != nil {
		t.Fatalf("AttemptBooking with retries: %v", err)
	}

	if len(store.bookings) != 1 {
		t.Fatalf("bookings = %d after retried transaction, want 1", len(store.bookings))
	}
	if bed := store.rooms["r1"].Beds["a"]; bed.OccupantID != "u1" || bed.Status != models.BedPending {
		t.Errorf("bed = %+v, want pending hold by u1", bed)
	}
}

func TestRebookAfterDismiss(t *testing.T) {
	store := newMemStore()
	store.addRoom("r1", "101", "a", "b")
	arb := NewArbitrator(store.runner())
	tr := NewTransitions(store.runner())
	ctx := context.Background()

	if err := arb.AttemptBooking(ctx, req("u1", "r1", "a")); err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := tr.Reject(ctx, "u1"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := tr.Dismiss(ctx, "u1"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	// Rejection freed the bed and dismissal cleared the booking, so a
	// fresh claim on either bed must succeed.
	if err := arb.AttemptBooking(ctx, req("u1", "r1", "a")); err != nil {
		t.Fatalf("rebook: %v", err)
	}
}
