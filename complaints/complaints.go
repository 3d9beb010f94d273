package complaints

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

var openStates = []models.RequestStatus{models.RequestPending, models.RequestInProgress}

var guard = requests.MongoGuard(db.ComplaintsCollection)

var validUrgency = map[string]bool{"low": true, "medium": true, "high": true}

// POST /api/complaints
func CreateComplaint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Category    string `json:"category"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Urgency     string `json:"urgency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if body.Category == "" || body.Title == "" || body.Description == "" {
		http.Error(w, "category, title and description are required", http.StatusBadRequest)
		return
	}
	urgency := strings.ToLower(body.Urgency)
	if urgency == "" {
		urgency = "low"
	}
	if !validUrgency[urgency] {
		http.Error(w, "urgency must be low, medium or high", http.StatusBadRequest)
		return
	}

	c := models.Complaint{
		ID:          utils.GetUUID(),
		UserID:      claims.UserID,
		UserEmail:   claims.Email,
		Category:    body.Category,
		Title:       body.Title,
		Description: body.Description,
		Urgency:     urgency,
		Status:      models.RequestPending,
		Timestamp:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := guard.Create(ctx, claims.UserID, openStates, c); err != nil {
		if errors.Is(err, requests.ErrActiveRequestExists) {
			utils.RespondWithError(w, http.StatusConflict, "you already have an open complaint; wait for it to be resolved")
			return
		}
		log.Printf("complaint create failed: %v", err)
		http.Error(w, "could not submit complaint", http.StatusInternalServerError)
		return
	}

	audit.Log(ctx, "COMPLAINT_CREATE", claims.UserID, claims.Email, c.ID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"complaint": c})
}

// GET /api/complaints/me
func GetMyComplaints(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	cur, err := db.ComplaintsCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var list []models.Complaint
	if err := cur.All(ctx, &list); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"complaints": list})
}

// PUT /api/complaints/:id
// Owners may edit the text of a complaint while it is still pending.
func EditComplaint(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if body.Title == "" || body.Description == "" {
		http.Error(w, "title and description are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ComplaintsCollection.UpdateOne(ctx,
		bson.M{"id": ps.ByName("id"), "userId": userID, "status": models.RequestPending},
		bson.M{"$set": bson.M{"title": body.Title, "description": body.Description}},
	)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "complaint not found or no longer editable", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DELETE /api/complaints/:id
func DeleteComplaint(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ComplaintsCollection.DeleteOne(ctx, bson.M{
		"id":     ps.ByName("id"),
		"userId": userID,
		"status": models.RequestPending,
	})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "complaint not found or no longer pending", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/admin/complaints?status=pending
func ListComplaints(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	cur, err := db.ComplaintsCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var list []models.Complaint
	if err := cur.All(ctx, &list); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"complaints": list})
}

// POST /api/admin/complaints/:id/status {"status": "in-progress"|"resolved"}
func SetComplaintStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status models.RequestStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if body.Status != models.RequestInProgress && body.Status != models.RequestResolved {
		http.Error(w, "status must be in-progress or resolved", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var c models.Complaint
	err := db.ComplaintsCollection.FindOneAndUpdate(ctx,
		bson.M{"id": ps.ByName("id")},
		bson.M{"$set": bson.M{"status": body.Status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "complaint not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	claims, _ := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if claims != nil {
		audit.Log(ctx, "COMPLAINT_"+strings.ToUpper(string(body.Status)), claims.UserID, claims.Email, c.ID)
	}
	notifications.Push(ctx, &c.UserID, "Your complaint \""+c.Title+"\" is now "+string(body.Status))

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"complaint": c})
}

// DELETE /api/admin/complaints/:id
func AdminDeleteComplaint(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ComplaintsCollection.DeleteOne(ctx, bson.M{"id": ps.ByName("id")})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "complaint not found", http.StatusNotFound)
		return
	}

	claims, _ := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if claims != nil {
		audit.Log(ctx, "COMPLAINT_DELETE", claims.UserID, claims.Email, ps.ByName("id"))
	}
	w.WriteHeader(http.StatusNoContent)
}
