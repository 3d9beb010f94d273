package booking

import (
	"context"
	"time"

	"hostelhub/models"
)

// Transitions is the only code path allowed to move bookings through
// their state machine and, with them, room bed state. Every operation
// is one atomic transaction so Room and Booking can never drift apart:
// a crash mid-operation leaves both untouched.
type Transitions struct {
	run Runner
}

func NewTransitions(run Runner) *Transitions {
	return &Transitions{run: run}
}

// Approve moves a pending booking to approved and flips the held bed to
// taken. Bookings are keyed by user id, so bookingID doubles as the
// owner's id.
func (t *Transitions) Approve(ctx context.Context, bookingID string) error {
	return t.run(ctx, func(ctx context.Context, tx Tx) error {
		b, err := mustBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != models.StatusPending {
			return ErrBadTransition
		}

		now := time.Now()
		err = tx.SetBed(ctx, b.RoomID, b.BedID, models.BedState{
			Status:     models.BedTaken,
			OccupantID: b.UserID,
			UpdatedAt:  now.Unix(),
		})
		if err != nil {
			return err
		}

		b.Status = models.StatusApproved
		b.ApprovedAt = &now
		return tx.PutBooking(ctx, b)
	})
}

// Confirm finalizes an approved booking once the student has moved in.
func (t *Transitions) Confirm(ctx context.Context, bookingID string) error {
	return t.run(ctx, func(ctx context.Context, tx Tx) error {
		b, err := mustBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != models.StatusApproved {
			return ErrBadTransition
		}
		b.Status = models.StatusConfirmed
		return tx.PutBooking(ctx, b)
	})
}

// Reject declines a pending booking and releases the held bed.
func (t *Transitions) Reject(ctx context.Context, bookingID string) error {
	return t.run(ctx, func(ctx context.Context, tx Tx) error {
		b, err := mustBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != models.StatusPending {
			return ErrBadTransition
		}

		if err := freeBed(ctx, tx, b); err != nil {
			return err
		}
		b.Status = models.StatusRejected
		return tx.PutBooking(ctx, b)
	})
}

// ForceVacate frees the bed and marks the booking vacated in one
// transaction. This is the single point that hands a bed back to the
// arbitrator; splitting the two writes would leak the bed on a crash
// between them, or double-grant it.
func (t *Transitions) ForceVacate(ctx context.Context, bookingID string) error {
	return t.run(ctx, func(ctx context.Context, tx Tx) error {
		b, err := mustBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		switch b.Status {
		case models.StatusPending, models.StatusApproved, models.StatusConfirmed:
		default:
			return ErrBadTransition
		}

		if err := freeBed(ctx, tx, b); err != nil {
			return err
		}
		b.Status = models.StatusVacated
		b.LeaveRequest = nil
		return tx.PutBooking(ctx, b)
	})
}

// RequestLeave flags an active booking with a pending leave request.
// The booking status itself does not change; the admin vacate path
// consumes the flag.
func (t *Transitions) RequestLeave(ctx context.Context, userID string) error {
	return t.run(ctx, func(ctx context.Context, tx Tx) error {
		b, err := mustBooking(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !b.Status.Active() {
			return ErrBadTransition
		}
		b.LeaveRequest = &models.LeaveRequest{Status: "pending", Timestamp: time.Now()}
		return tx.PutBooking(ctx, b)
	})
}

// Dismiss lets the owner clear a terminal booking so they can re-apply.
func (t *Transitions) Dismiss(ctx context.Context, userID string) error {
	return t.run(ctx, func(ctx context.Context, tx Tx) error {
		b, err := mustBooking(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !b.Status.Terminal() {
			return ErrBadTransition
		}
		return tx.DeleteBooking(ctx, userID)
	})
}

func mustBooking(ctx context.Context, tx Tx, id string) (*models.Booking, error) {
	b, err := tx.Booking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func freeBed(ctx context.Context, tx Tx, b *models.Booking) error {
	return tx.SetBed(ctx, b.RoomID, b.BedID, models.BedState{
		Status:    models.BedAvailable,
		UpdatedAt: time.Now().Unix(),
	})
}
