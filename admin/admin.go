package admin

import (
	"context"
	"net/http"
	"time"

	"hostelhub/audit"
	"hostelhub/db"
	"hostelhub/middleware"
	"hostelhub/models"
	"hostelhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/admin/users?q=searchtext
func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if q := r.URL.Query().Get("q"); q != "" {
		filter["$or"] = []bson.M{
			{"email": bson.M{"$regex": q, "$options": "i"}},
			{"displayName": bson.M{"$regex": q, "$options": "i"}},
			{"studentId": bson.M{"$regex": q, "$options": "i"}},
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.M{"email": 1}).
		SetProjection(bson.M{"password": 0, "refresh_token": 0})
	cur, err := db.UserCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"users": users})
}

// POST /api/admin/users/:userid/role/:action  (grant|revoke)
func SetAdminRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID := ps.ByName("userid")
	action := ps.ByName("action")

	// Admins cannot demote themselves; keeps at least one admin alive.
	if action == "revoke" && targetID == claims.UserID {
		http.Error(w, "cannot revoke your own admin role", http.StatusBadRequest)
		return
	}

	var update bson.M
	switch action {
	case "grant":
		update = bson.M{"$addToSet": bson.M{"role": models.RoleAdmin}}
	case "revoke":
		update = bson.M{"$pull": bson.M{"role": models.RoleAdmin}}
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": targetID}, update)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	audit.Log(ctx, "ROLE_"+action, claims.UserID, claims.Email, targetID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DELETE /api/admin/users/:userid
// Users are archived into deleted_users, never hard-deleted, so an
// accidental removal can be restored with their history intact.
func ArchiveUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID := ps.ByName("userid")
	if targetID == claims.UserID {
		http.Error(w, "cannot delete your own account", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Block removal while the user still holds a bed.
	var booking models.Booking
	err = db.BookingsCollection.FindOne(ctx, bson.M{"userId": targetID}).Decode(&booking)
	if err == nil && booking.Status.Active() {
		http.Error(w, "user has an active booking; vacate it first", http.StatusConflict)
		return
	}

	_, err = db.WithTxn(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var user models.User
		if err := db.UserCollection.FindOne(sc, bson.M{"userid": targetID}).Decode(&user); err != nil {
			return nil, err
		}

		now := time.Now()
		user.DeletedAt = &now
		user.DeletedBy = claims.UserID

		if _, err := db.DeletedUsersCollection.InsertOne(sc, user); err != nil {
			return nil, err
		}
		if _, err := db.UserCollection.DeleteOne(sc, bson.M{"userid": targetID}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == mongo.ErrNoDocuments {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to archive user", http.StatusInternalServerError)
		return
	}

	audit.Log(ctx, "ARCHIVE_USER", claims.UserID, claims.Email, targetID)
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/admin/users/deleted
func ListDeletedUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.M{"deletedAt": -1}).
		SetProjection(bson.M{"password": 0, "refresh_token": 0})
	cur, err := db.DeletedUsersCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"users": users})
}

// POST /api/admin/users/:userid/restore
func RestoreUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID := ps.ByName("userid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	_, err = db.WithTxn(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var user models.User
		if err := db.DeletedUsersCollection.FindOne(sc, bson.M{"userid": targetID}).Decode(&user); err != nil {
			return nil, err
		}

		user.DeletedAt = nil
		user.DeletedBy = ""

		if _, err := db.UserCollection.InsertOne(sc, user); err != nil {
			return nil, err
		}
		if _, err := db.DeletedUsersCollection.DeleteOne(sc, bson.M{"userid": targetID}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == mongo.ErrNoDocuments {
		http.Error(w, "archived user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to restore user", http.StatusInternalServerError)
		return
	}

	audit.Log(ctx, "RESTORE_USER", claims.UserID, claims.Email, targetID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}
