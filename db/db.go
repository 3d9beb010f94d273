package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

var (
	UserCollection         *mongo.Collection
	DeletedUsersCollection *mongo.Collection
	RoomsCollection        *mongo.Collection
	BookingsCollection     *mongo.Collection
	OutpassesCollection    *mongo.Collection
	ComplaintsCollection   *mongo.Collection
	NoticesCollection      *mongo.Collection
	NotificationsCollection *mongo.Collection
	MessMenuCollection     *mongo.Collection
	MealRatingsCollection  *mongo.Collection
	AuditLogsCollection    *mongo.Collection
	Client                 *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("hosteldb")
	UserCollection = database.Collection("users")
	DeletedUsersCollection = database.Collection("deleted_users")
	RoomsCollection = database.Collection("rooms")
	BookingsCollection = database.Collection("bookings")
	OutpassesCollection = database.Collection("outpasses")
	ComplaintsCollection = database.Collection("complaints")
	NoticesCollection = database.Collection("notices")
	NotificationsCollection = database.Collection("notifications")
	MessMenuCollection = database.Collection("mess_menu")
	MealRatingsCollection = database.Collection("meal_ratings")
	AuditLogsCollection = database.Collection("audit_logs")
}

// WithTxn runs fn inside a single MongoDB transaction. The driver's
// WithTransaction retries the whole body on transient conflicts, so fn
// must be safe to execute more than once. Reads inside fn observe a
// consistent snapshot and writes commit atomically or not at all.
func WithTxn(ctx context.Context, fn func(sc mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	session, err := Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	return session.WithTransaction(ctx, fn, opts)
}
