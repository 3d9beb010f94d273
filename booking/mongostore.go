package booking

import (
	"context"

	"hostelhub/db"
	"hostelhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoTx reads and writes the live collections. It only works inside a
// session context supplied by MongoRunner, which is what scopes the
// operations to one transaction.
type mongoTx struct{}

func (mongoTx) Room(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := db.RoomsCollection.FindOne(ctx, bson.M{"id": roomID}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (mongoTx) Booking(ctx context.Context, userID string) (*models.Booking, error) {
	var b models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (mongoTx) PutBooking(ctx context.Context, b *models.Booking) error {
	opts := options.Replace().SetUpsert(true)
	_, err := db.BookingsCollection.ReplaceOne(ctx, bson.M{"userId": b.UserID}, b, opts)
	return err
}

func (mongoTx) DeleteBooking(ctx context.Context, userID string) error {
	_, err := db.BookingsCollection.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}

func (mongoTx) SetBed(ctx context.Context, roomID, bedID string, state models.BedState) error {
	_, err := db.RoomsCollection.UpdateOne(ctx,
		bson.M{"id": roomID},
		bson.M{"$set": bson.M{"beds." + bedID: state}},
	)
	return err
}

// MongoRunner executes fn inside one MongoDB transaction with snapshot
// reads and majority writes. Transient conflict aborts are retried by
// the driver before fn's error ever surfaces.
func MongoRunner(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	_, err := db.WithTxn(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, mongoTx{})
	})
	return err
}
