package booking

import (
	"context"
	"errors"
	"testing"

	"hostelhub/models"
)

func bookedStore(t *testing.T) (*memStore, *Transitions) {
	t.Helper()
	store := newMemStore()
	store.addRoom("r1", "101", "a", "b")
	arb := NewArbitrator(store.runner())
	if err := arb.AttemptBooking(context.Background(), req("u1", "r1", "a")); err != nil {
		t.Fatalf("setup booking: %v", err)
	}
	return store, NewTransitions(store.runner())
}

func TestApproveTakesBed(t *testing.T) {
	store, tr := bookedStore(t)

	if err := tr.Approve(context.Background(), "u1"); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	b := store.bookings["u1"]
	if b.Status != models.StatusApproved {
		t.Errorf("status = %q, want approved", b.Status)
	}
	if b.ApprovedAt == nil {
		t.Error("ApprovedAt not set")
	}
	if bed := store.rooms["r1"].Beds["a"]; bed.Status != models.BedTaken || bed.OccupantID != "u1" {
		t.Errorf("bed = %+v, want taken by u1", bed)
	}
}

func TestApproveRequiresPending(t *testing.T) {
	_, tr := bookedStore(t)
	ctx := context.Background()

	if err := tr.Approve(ctx, "u1"); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if err := tr.Approve(ctx, "u1"); !errors.Is(err, ErrBadTransition) {
		t.Errorf("double approve: err = %v, want ErrBadTransition", err)
	}
	if err := tr.Approve(ctx, "ghost"); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("unknown booking: err = %v, want ErrBookingNotFound", err)
	}
}

func TestConfirmRequiresApproved(t *testing.T) {
	store, tr := bookedStore(t)
	ctx := context.Background()

	if err := tr.Confirm(ctx, "u1"); !errors.Is(err, ErrBadTransition) {
		t.Errorf("confirm pending: err = %v, want ErrBadTransition", err)
	}
	if err := tr.Approve(ctx, "u1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := tr.Confirm(ctx, "u1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := store.bookings["u1"].Status; got != models.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", got)
	}
}

func TestRejectFreesBed(t *testing.T) {
	store, tr := bookedStore(t)

	if err := tr.Reject(context.Background(), "u1"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	if got := store.bookings["u1"].Status; got != models.StatusRejected {
		t.Errorf("status = %q, want rejected", got)
	}
	bed := store.rooms["r1"].Beds["a"]
	if bed.Status != models.BedAvailable || bed.OccupantID != "" {
		t.Errorf("bed = %+v, want available with no occupant", bed)
	}
}

func TestForceVacate(t *testing.T) {
	store, tr := bookedStore(t)
	ctx := context.Background()

	if err := tr.Approve(ctx, "u1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := tr.Confirm(ctx, "u1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := tr.RequestLeave(ctx, "u1"); err != nil {
		t.Fatalf("request leave: %v", err)
	}

	if err := tr.ForceVacate(ctx, "u1"); err != nil {
		t.Fatalf("ForceVacate: %v", err)
	}

	b := store.bookings["u1"]
	if b.Status != models.StatusVacated {
		t.Errorf("status = %q, want vacated", b.Status)
	}
	if b.LeaveRequest != nil {
		t.Error("leave request not cleared on vacate")
	}
	if bed := store.rooms["r1"].Beds["a"]; bed.Status != models.BedAvailable {
		t.Errorf("bed = %q, want available", bed.Status)
	}

	if err := tr.ForceVacate(ctx, "u1"); !errors.Is(err, ErrBadTransition) {
		t.Errorf("vacate vacated: err = %v, want ErrBadTransition", err)
	}
}

func TestRequestLeaveNeedsActiveBooking(t *testing.T) {
	store, tr := bookedStore(t)
	ctx := context.Background()

	if err := tr.RequestLeave(ctx, "u1"); err != nil {
		t.Fatalf("RequestLeave: %v", err)
	}
	lr := store.bookings["u1"].LeaveRequest
	if lr == nil || lr.Status != "pending" {
		t.Fatalf("leave request = %+v, want pending", lr)
	}

	if err := tr.Reject(ctx, "u1"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := tr.RequestLeave(ctx, "u1"); !errors.Is(err, ErrBadTransition) {
		t.Errorf("leave on rejected booking: err = %v, want ErrBadTransition", err)
	}
}

func TestDismissOnlyTerminal(t *testing.T) {
	store, tr := bookedStore(t)
	ctx := context.Background()

	if err := tr.Dismiss(ctx, "u1"); !errors.Is(err, ErrBadTransition) {
		t.Errorf("dismiss pending: err = %v, want ErrBadTransition", err)
	}
	if err := tr.Reject(ctx, "u1"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := tr.Dismiss(ctx, "u1"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if _, ok := store.bookings["u1"]; ok {
		t.Error("booking still present after dismiss")
	}
}
