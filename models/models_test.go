package models

import "testing"

func TestBookingStatusSets(t *testing.T) {
	active := []BookingStatus{StatusPending, StatusApproved, StatusConfirmed}
	terminal := []BookingStatus{StatusRejected, StatusVacated}

	for _, s := range active {
		if !s.Active() {
			t.Errorf("%q.Active() = false", s)
		}
		if s.Terminal() {
			t.Errorf("%q.Terminal() = true", s)
		}
	}
	for _, s := range terminal {
		if s.Active() {
			t.Errorf("%q.Active() = true", s)
		}
		if !s.Terminal() {
			t.Errorf("%q.Terminal() = false", s)
		}
	}

	if BookingStatus("bogus").Active() {
		t.Error("unknown status reported active")
	}
}
