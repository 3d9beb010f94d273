package notices

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"hostelhub/audit"
	"hostelhub/db"
	"hostelhub/middleware"
	"hostelhub/models"
	"hostelhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/notices — newest first, visible to everyone signed in.
func GetNotices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(50)
	cur, err := db.NoticesCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var list []models.Notice
	if err := cur.All(ctx, &list); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"notices": list})
}

// POST /api/admin/notices
func PostNotice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	n := models.Notice{
		ID:        utils.GetUUID(),
		Message:   body.Message,
		PostedBy:  claims.Email,
		Timestamp: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.NoticesCollection.InsertOne(ctx, n); err != nil {
		http.Error(w, "db insert failed", http.StatusInternalServerError)
		return
	}

	audit.Log(ctx, "POST_NOTICE", claims.UserID, claims.Email, n.ID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"notice": n})
}

// DELETE /api/admin/notices/:id
func DeleteNotice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.NoticesCollection.DeleteOne(ctx, bson.M{"id": ps.ByName("id")})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "notice not found", http.StatusNotFound)
		return
	}

	claims, _ := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if claims != nil {
		audit.Log(ctx, "DELETE_NOTICE", claims.UserID, claims.Email, ps.ByName("id"))
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/admin/notices
func ClearNotices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.NoticesCollection.DeleteMany(ctx, bson.M{}); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	claims, _ := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if claims != nil {
		audit.Log(ctx, "CLEAR_NOTICES", claims.UserID, claims.Email, "all")
	}
	w.WriteHeader(http.StatusNoContent)
}
