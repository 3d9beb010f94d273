package outpass

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"hostelhub/audit"
	"hostelhub/db"
	"hostelhub/middleware"
	"hostelhub/models"
	"hostelhub/notifications"
	"hostelhub/requests"
	"hostelhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// States that block a new outpass application.
var openStates = []models.RequestStatus{models.RequestPending, models.RequestApproved}

var guard = requests.MongoGuard(db.OutpassesCollection)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// POST /api/outpasses
func CreateOutpass(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Destination   string `json:"destination"`
		FromDate      string `json:"fromDate"`
		ToDate        string `json:"toDate"`
		Reason        string `json:"reason"`
		ParentContact string `json:"parentContact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if body.Destination == "" || body.FromDate == "" || body.ToDate == "" || body.Reason == "" {
		http.Error(w, "all fields are required", http.StatusBadRequest)
		return
	}
	if body.ToDate < body.FromDate {
		http.Error(w, "return date cannot be before departure date", http.StatusBadRequest)
		return
	}
	if len(digitsOnly(body.ParentContact)) < 10 {
		http.Error(w, "a valid parent contact number is required", http.StatusBadRequest)
		return
	}

	op := models.Outpass{
		ID:            utils.GetUUID(),
		UserID:        claims.UserID,
		UserEmail:     claims.Email,
		UserName:      claims.Username,
		Destination:   body.Destination,
		FromDate:      body.FromDate,
		ToDate:        body.ToDate,
		Reason:        body.Reason,
		ParentContact: body.ParentContact,
		Status:        models.RequestPending,
		Timestamp:     time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := guard.Create(ctx, claims.UserID, openStates, op); err != nil {
		if errors.Is(err, requests.ErrActiveRequestExists) {
			utils.RespondWithError(w, http.StatusConflict, "you already have a pending or approved outpass")
			return
		}
		log.Printf("outpass create failed: %v", err)
		http.Error(w, "could not submit outpass", http.StatusInternalServerError)
		return
	}

	audit.Log(ctx, "OUTPASS_CREATE", claims.UserID, claims.Email, op.ID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"outpass": op})
}

// GET /api/outpasses — the caller's own applications, newest first.
func GetMyOutpasses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	cur, err := db.OutpassesCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var passes []models.Outpass
	if err := cur.All(ctx, &passes); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"outpasses": passes})
}

// DELETE /api/outpasses/:id
// Owners may withdraw an application only while it is still pending.
func DeleteOutpass(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.OutpassesCollection.DeleteOne(ctx, bson.M{
		"id":     ps.ByName("id"),
		"userId": userID,
		"status": models.RequestPending,
	})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "outpass not found or no longer pending", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/admin/outpasses?status=pending
func ListOutpasses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	cur, err := db.OutpassesCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var passes []models.Outpass
	if err := cur.All(ctx, &passes); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"outpasses": passes})
}

// POST /api/admin/outpasses/:id/:action  (approve|reject)
func OutpassAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	action := ps.ByName("action")

	var status models.RequestStatus
	var message string
	update := bson.M{}
	switch action {
	case "approve":
		status = models.RequestApproved
		message = "Your outpass has been approved. Download your gate pass from the outpass page."
		// Gate pass id printed on the PDF and checked at the gate.
		update["passId"] = "GP-" + utils.GenerateRandomDigitString(8)
	case "reject":
		status = models.RequestRejected
		message = "Your outpass request was rejected."
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	update["status"] = status

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var op models.Outpass
	err := db.OutpassesCollection.FindOneAndUpdate(ctx,
		bson.M{"id": id, "status": models.RequestPending},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&op)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "outpass not found or already decided", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	claims, _ := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if claims != nil {
		audit.Log(ctx, "OUTPASS_"+strings.ToUpper(action), claims.UserID, claims.Email, id)
	}
	notifications.Push(ctx, &op.UserID, message)

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"outpass": op})
}
