package booking

import (
	"context"
	"time"

	"hostelhub/models"
)

// Arbitrator resolves the race between concurrent booking attempts for
// the same bed. It never locks or retries anything itself; it only
// expresses "read these documents, validate, write those documents" as
// one atomic unit and lets the store's transaction machinery arbitrate.
type Arbitrator struct {
	run Runner
}

func NewArbitrator(run Runner) *Arbitrator {
	return &Arbitrator{run: run}
}

// Request is a student's claim on one bed slot. Identity fields come
// from the verified token, never from the request body.
type Request struct {
	UserID    string
	UserEmail string
	UserName  string
	RoomID    string
	BedID     string
}

// AttemptBooking atomically verifies bed availability and the caller's
// eligibility, claims the bed and records the booking request. Exactly
// one document-set is written, or none: two racing claims of the same
// bed contend on the Room document, so the store commits one and aborts
// the other, whose retry then observes the bed held and fails with
// ErrBedUnavailable.
func (a *Arbitrator) AttemptBooking(ctx context.Context, req Request) error {
	if req.UserID == "" {
		return ErrUnauthenticated
	}
	if req.RoomID == "" || req.BedID == "" {
		return ErrInvalidArgument
	}

	return a.run(ctx, func(ctx context.Context, tx Tx) error {
		return bookingTxn(ctx, tx, req, time.Now())
	})
}

// bookingTxn is the transaction body. It may execute more than once if
// the store aborts and retries on conflict; every write is keyed, so a
// replay lands on the same documents and produces the same outcome.
func bookingTxn(ctx context.Context, tx Tx, req Request, now time.Time) error {
	room, err := tx.Room(ctx, req.RoomID)
	if err != nil {
		return err
	}

	// Own-booking check comes first so a double submission reports the
	// duplicate, not the bed the caller themselves is already holding.
	existing, err := tx.Booking(ctx, req.UserID)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status.Active() {
		return ErrActiveBooking
	}

	bed, ok := room.Beds[req.BedID]
	if !ok || bed.Status != models.BedAvailable {
		return ErrBedUnavailable
	}

	// Hold the bed in the same transaction that records the request.
	// Writing the Room here is what makes two concurrent claims of one
	// bed actually conflict at the store level.
	err = tx.SetBed(ctx, req.RoomID, req.BedID, models.BedState{
		Status:     models.BedPending,
		OccupantID: req.UserID,
		UpdatedAt:  now.Unix(),
	})
	if err != nil {
		return err
	}

	return tx.PutBooking(ctx, &models.Booking{
		UserID:     req.UserID,
		UserEmail:  req.UserEmail,
		UserName:   req.UserName,
		RoomID:     req.RoomID,
		RoomNumber: room.RoomNumber,
		BedID:      req.BedID,
		Status:     models.StatusPending,
		Timestamp:  now,
	})
}
