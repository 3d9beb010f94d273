package notifications

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"hostelhub/db"
	"hostelhub/models"
	"hostelhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Push writes a notification document. recipientID == nil makes it a
// broadcast visible to every student.
func Push(ctx context.Context, recipientID *string, message string) {
	n := models.Notification{
		ID:          utils.GetUUID(),
		RecipientID: recipientID,
		Message:     message,
		Timestamp:   time.Now(),
	}
	if _, err := db.NotificationsCollection.InsertOne(ctx, n); err != nil {
		log.Printf("notification write failed: %v", err)
	}
}

// GET /api/notifications
// Returns broadcasts plus the caller's targeted notifications, newest
// first, minus the ones the caller swiped away.
func ListNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"$or":       []bson.M{{"recipientId": nil}, {"recipientId": userID}},
		"deletedBy": bson.M{"$ne": userID},
	}
	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(50)
	cur, err := db.NotificationsCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var items []models.Notification
	if err := cur.All(ctx, &items); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	unread := 0
	for _, n := range items {
		if !utils.Contains(n.ReadBy, userID) {
			unread++
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"notifications": items,
		"unread":        unread,
	})
}

// POST /api/notifications/read
// Marks every currently visible notification as read for the caller.
func MarkAllRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"$or":    []bson.M{{"recipientId": nil}, {"recipientId": userID}},
		"readBy": bson.M{"$ne": userID},
	}
	_, err := db.NotificationsCollection.UpdateMany(ctx, filter,
		bson.M{"$addToSet": bson.M{"readBy": userID}})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DELETE /api/notifications/:id
// Hides one notification for the caller without touching other readers.
func DismissNotification(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	id := ps.ByName("id")
	if userID == "" || id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err := db.NotificationsCollection.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$addToSet": bson.M{"deletedBy": userID}})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// POST /api/admin/broadcasts
func CreateBroadcast(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Message == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	Push(ctx, nil, body.Message)

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// GET /api/admin/broadcasts — broadcast history, newest first.
func ListBroadcasts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(10)
	cur, err := db.NotificationsCollection.Find(ctx, bson.M{"recipientId": nil}, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var items []models.Notification
	if err := cur.All(ctx, &items); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"broadcasts": items})
}

// DELETE /api/admin/broadcasts/:id
func DeleteBroadcast(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := db.NotificationsCollection.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/admin/broadcasts — clear broadcast history.
func ClearBroadcasts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := db.NotificationsCollection.DeleteMany(ctx, bson.M{"recipientId": nil}); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
