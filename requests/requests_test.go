package requests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hostelhub/models"
)

type memRequest struct {
	userID string
	status models.RequestStatus
}

// memGuardStore serializes guard transactions with a mutex, the way the
// real store serializes conflicting writers, so a duplicate submission
// always observes its predecessor.
type memGuardStore struct {
	mu   sync.Mutex
	docs []memRequest
}

func (s *memGuardStore) runner() func(ctx context.Context, fn func(ctx context.Context, st Store) error) error {
	return func(ctx context.Context, fn func(ctx context.Context, st Store) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		staged := append([]memRequest(nil), s.docs...)
		tx := &memGuardTx{docs: &staged}
		if err := fn(ctx, tx); err != nil {
			return err
		}
		s.docs = staged
		return nil
	}
}

type memGuardTx struct {
	docs *[]memRequest
}

func (t *memGuardTx) CountActive(ctx context.Context, userID string, open []models.RequestStatus) (int64, error) {
	var n int64
	for _, d := range *t.docs {
		if d.userID != userID {
			continue
		}
		for _, s := range open {
			if d.status == s {
				n++
			}
		}
	}
	return n, nil
}

func (t *memGuardTx) Insert(ctx context.Context, doc any) error {
	*t.docs = append(*t.docs, doc.(memRequest))
	return nil
}

var open = []models.RequestStatus{models.RequestPending, models.RequestApproved}

func TestGuardRejectsDuplicate(t *testing.T) {
	store := &memGuardStore{}
	g := NewGuard(store.runner())
	ctx := context.Background()

	if err := g.Create(ctx, "u1", open, memRequest{userID: "u1", status: models.RequestPending}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := g.Create(ctx, "u1", open, memRequest{userID: "u1", status: models.RequestPending})
	if !errors.Is(err, ErrActiveRequestExists) {
		t.Fatalf("duplicate create: err = %v, want ErrActiveRequestExists", err)
	}
	if len(store.docs) != 1 {
		t.Errorf("docs = %d, want 1", len(store.docs))
	}
}

func TestGuardIgnoresClosedRequests(t *testing.T) {
	store := &memGuardStore{docs: []memRequest{{userID: "u1", status: models.RequestRejected}}}
	g := NewGuard(store.runner())

	if err := g.Create(context.Background(), "u1", open, memRequest{userID: "u1", status: models.RequestPending}); err != nil {
		t.Fatalf("create after rejection: %v", err)
	}
	if len(store.docs) != 2 {
		t.Errorf("docs = %d, want 2", len(store.docs))
	}
}

func TestGuardIsPerUser(t *testing.T) {
	store := &memGuardStore{docs: []memRequest{{userID: "u1", status: models.RequestPending}}}
	g := NewGuard(store.runner())

	if err := g.Create(context.Background(), "u2", open, memRequest{userID: "u2", status: models.RequestPending}); err != nil {
		t.Fatalf("other user's create: %v", err)
	}
}

func TestGuardConcurrentDoubleSubmit(t *testing.T) {
	store := &memGuardStore{}
	g := NewGuard(store.runner())

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = g.Create(context.Background(), "u1", open, memRequest{userID: "u1", status: models.RequestPending})
		}(i)
	}
	wg.Wait()

	ok := 0
	for i, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrActiveRequestExists):
		default:
			t.Errorf("attempt %d: unexpected error %v", i, err)
		}
	}
	if ok != 1 {
		t.Errorf("successful creates = %d, want exactly 1", ok)
	}
	if len(store.docs) != 1 {
		t.Errorf("docs = %d, want 1", len(store.docs))
	}
}

func TestGuardRequiresUser(t *testing.T) {
	g := NewGuard((&memGuardStore{}).runner())
	if err := g.Create(context.Background(), "", open, memRequest{}); err == nil {
		t.Fatal("expected error for missing user id")
	}
}
