package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"hostelhub/db"
	"hostelhub/middleware"
	"hostelhub/models"
	"hostelhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GET /api/profile
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	user.Password = ""
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"profile": user})
}

// PUT /api/profile — only the fields the student owns are editable.
// Email and role changes go through an admin.
func EditProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		DisplayName string `json:"displayName"`
		Phone       string `json:"phone"`
		Gender      string `json:"gender"`
		StudentID   string `json:"studentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	updates := bson.M{}
	if body.DisplayName != "" {
		updates["displayName"] = body.DisplayName
	}
	if body.Phone != "" {
		updates["phone"] = body.Phone
	}
	if body.Gender != "" {
		updates["gender"] = body.Gender
	}
	if body.StudentID != "" {
		updates["studentId"] = body.StudentID
	}
	if len(updates) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": claims.UserID}, bson.M{"$set": updates})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}
