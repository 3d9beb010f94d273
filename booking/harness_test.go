package booking

import (
	"context"
	"sync"

	"hostelhub/models"
)

// memStore is an in-memory stand-in for the document store. Its runner
// serializes transactions the way the real store serializes conflicting
// ones: each transaction stages writes against a copy of the state and
// commits only if the body returns nil, so an abort leaves nothing
// behind and a retry re-reads fresh state.
type memStore struct {
	mu       sync.Mutex
	rooms    map[string]*models.Room
	bookings map[string]*models.Booking

	// failOn makes the named Tx method fail once, to exercise
	// mid-transaction aborts.
	failOn string
	// abortRetries makes the runner discard fn's writes and re-run it
	// this many times before letting it commit.
	abortRetries int
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    make(map[string]*models.Room),
		bookings: make(map[string]*models.Booking),
	}
}

func (s *memStore) addRoom(id, number string, beds ...string) {
	room := &models.Room{
		ID:         id,
		RoomNumber: number,
		Beds:       make(map[string]models.BedState, len(beds)),
	}
	for _, b := range beds {
		room.Beds[b] = models.BedState{Status: models.BedAvailable}
	}
	s.rooms[id] = room
}

func copyRoom(r *models.Room) *models.Room {
	c := *r
	c.Beds = make(map[string]models.BedState, len(r.Beds))
	for k, v := range r.Beds {
		c.Beds[k] = v
	}
	return &c
}

func (s *memStore) snapshot() (map[string]*models.Room, map[string]*models.Booking) {
	rooms := make(map[string]*models.Room, len(s.rooms))
	for k, v := range s.rooms {
		rooms[k] = copyRoom(v)
	}
	bookings := make(map[string]*models.Booking, len(s.bookings))
	for k, v := range s.bookings {
		c := *v
		bookings[k] = &c
	}
	return rooms, bookings
}

func (s *memStore) runner() Runner {
	return func(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		for {
			rooms, bookings := s.snapshot()
			tx := &memTx{store: s, rooms: rooms, bookings: bookings}
			if err := fn(ctx, tx); err != nil {
				return err
			}
			if s.abortRetries > 0 {
				s.abortRetries--
				continue
			}
			s.rooms = tx.rooms
			s.bookings = tx.bookings
			return nil
		}
	}
}

type memTx struct {
	store    *memStore
	rooms    map[string]*models.Room
	bookings map[string]*models.Booking
}

type injectedError struct{ op string }

func (e *injectedError) Error() string { return "injected failure in " + e.op }

func (t *memTx) fail(op string) error {
	if t.store.failOn == op {
		t.store.failOn = ""
		return &injectedError{op: op}
	}
	return nil
}

func (t *memTx) Room(ctx context.Context, roomID string) (*models.Room, error) {
	if err := t.fail("Room"); err != nil {
		return nil, err
	}
	room, ok := t.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return copyRoom(room), nil
}

func (t *memTx) Booking(ctx context.Context, userID string) (*models.Booking, error) {
	if err := t.fail("Booking"); err != nil {
		return nil, err
	}
	b, ok := t.bookings[userID]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (t *memTx) PutBooking(ctx context.Context, b *models.Booking) error {
	if err := t.fail("PutBooking"); err != nil {
		return err
	}
	c := *b
	t.bookings[b.UserID] = &c
	return nil
}

func (t *memTx) DeleteBooking(ctx context.Context, userID string) error {
	if err := t.fail("DeleteBooking"); err != nil {
		return err
	}
	delete(t.bookings, userID)
	return nil
}

func (t *memTx) SetBed(ctx context.Context, roomID, bedID string, state models.BedState) error {
	if err := t.fail("SetBed"); err != nil {
		return err
	}
	room, ok := t.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	room.Beds[bedID] = state
	return nil
}
