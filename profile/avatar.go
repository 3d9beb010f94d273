package profile

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"hostelhub/db"
	"hostelhub/middleware"
	"hostelhub/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const avatarUploadDir = "./static/avatars"

// POST /api/profile/avatar — multipart form with an "avatar" file.
// The image is normalized to a 256px square JPEG before storage.
func EditAvatar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, "avatar file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "failed to decode image", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(avatarUploadDir, 0o755); err != nil {
		http.Error(w, "failed to prepare upload directory", http.StatusInternalServerError)
		return
	}

	fileName := claims.UserID + ".jpg"
	avatarPath := filepath.Join(avatarUploadDir, fileName)

	thumb := imaging.Fill(img, 256, 256, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, avatarPath); err != nil {
		http.Error(w, "failed to save avatar", http.StatusInternalServerError)
		return
	}

	photoURL := "/avatars/" + fileName

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": claims.UserID},
		bson.M{"$set": bson.M{"photoURL": photoURL}})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"photoURL": photoURL})
}

// DELETE /api/profile/avatar
func RemoveAvatar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": claims.UserID},
		bson.M{"$unset": bson.M{"photoURL": ""}})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	path := filepath.Join(avatarUploadDir, claims.UserID+".jpg")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove avatar file: %v", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
