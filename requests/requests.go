// Package requests provides the shared create-with-guard path for
// student requests (outpasses, complaints). A new request is inserted
// only if the caller has no request of the same kind still in an open
// state, and the check plus the insert happen in one transaction so two
// rapid submissions cannot both pass the check.
package requests

import (
	"context"
	"errors"

	"hostelhub/db"
	"hostelhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrActiveRequestExists = errors.New("ACTIVE_REQUEST_EXISTS")

// Store is the slice of the document store the guard needs. The mongo
// implementation runs inside a session; tests use an in-memory fake.
type Store interface {
	CountActive(ctx context.Context, userID string, open []models.RequestStatus) (int64, error)
	Insert(ctx context.Context, doc any) error
}

// Guard inserts doc for userID unless an open request already exists.
type Guard struct {
	run func(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

func NewGuard(run func(ctx context.Context, fn func(ctx context.Context, s Store) error) error) *Guard {
	return &Guard{run: run}
}

func (g *Guard) Create(ctx context.Context, userID string, open []models.RequestStatus, doc any) error {
	if userID == "" {
		return errors.New("missing user id")
	}
	return g.run(ctx, func(ctx context.Context, s Store) error {
		n, err := s.CountActive(ctx, userID, open)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrActiveRequestExists
		}
		return s.Insert(ctx, doc)
	})
}

type mongoStore struct {
	sc   mongo.SessionContext
	coll *mongo.Collection
}

func (m *mongoStore) CountActive(ctx context.Context, userID string, open []models.RequestStatus) (int64, error) {
	return m.coll.CountDocuments(m.sc, bson.M{
		"userId": userID,
		"status": bson.M{"$in": open},
	})
}

func (m *mongoStore) Insert(ctx context.Context, doc any) error {
	_, err := m.coll.InsertOne(m.sc, doc)
	return err
}

// MongoGuard returns a Guard that runs against coll inside a MongoDB
// transaction.
func MongoGuard(coll *mongo.Collection) *Guard {
	return NewGuard(func(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
		_, err := db.WithTxn(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, fn(sc, &mongoStore{sc: sc, coll: coll})
		})
		return err
	})
}
