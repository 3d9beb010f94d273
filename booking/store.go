package booking

import (
	"context"

	"hostelhub/models"
)

// Tx is the slice of the document store a booking transaction touches.
// All methods run inside one atomic transaction: reads observe a
// consistent snapshot and writes commit together or not at all.
type Tx interface {
	// Room returns the room document or ErrRoomNotFound.
	Room(ctx context.Context, roomID string) (*models.Room, error)
	// Booking returns the user's booking document, or (nil, nil) when
	// the user has none. Point read by user id, never a collection scan.
	Booking(ctx context.Context, userID string) (*models.Booking, error)
	// PutBooking writes or overwrites the booking keyed by its UserID.
	PutBooking(ctx context.Context, b *models.Booking) error
	// DeleteBooking removes the user's booking document.
	DeleteBooking(ctx context.Context, userID string) error
	// SetBed replaces one bed slot's state inside a room.
	SetBed(ctx context.Context, roomID, bedID string, state models.BedState) error
}

// Runner executes fn as one atomic transaction against the store. The
// store retries fn on optimistic conflicts, so fn must be idempotent.
type Runner func(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
