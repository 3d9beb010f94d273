package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"hostelhub/audit"
	"hostelhub/db"
	"hostelhub/middleware"
	"hostelhub/models"
	"hostelhub/mq"
	"hostelhub/notifications"
	"hostelhub/rdx"
	"hostelhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var arbitrator = NewArbitrator(MongoRunner)
var transitions = NewTransitions(MongoRunner)

// writeBookingError maps the taxonomy onto HTTP. Anything unrecognized
// is the store giving up after exhausting its conflict retries, reported
// as a generic transient failure.
func writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthenticated):
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrBookingNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrBedUnavailable), errors.Is(err, ErrActiveBooking), errors.Is(err, ErrBadTransition):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(w, http.StatusServiceUnavailable, "temporary failure, please try again")
	}
}

// ---------- Rooms ----------

// GET /api/rooms?gender=Boys
// Served through the Redis read-through cache; any Room mutation
// invalidates it via the hostel-events stream.
func GetRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rooms, ok := rdx.CachedRooms(ctx)
	if !ok {
		opts := options.Find().SetSort(bson.M{"roomNumber": 1})
		cur, err := db.RoomsCollection.Find(ctx, bson.M{}, opts)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer cur.Close(ctx)
		if err := cur.All(ctx, &rooms); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		rdx.StoreRooms(ctx, rooms)
	}

	if gender := r.URL.Query().Get("gender"); gender != "" {
		filtered := rooms[:0]
		for _, room := range rooms {
			if room.Gender == gender {
				filtered = append(filtered, room)
			}
		}
		rooms = filtered
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// GET /api/rooms/:roomid
func GetRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var room models.Room
	err := db.RoomsCollection.FindOne(ctx, bson.M{"id": ps.ByName("roomid")}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"room": room})
}

// POST /api/admin/rooms
func CreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		RoomNumber string   `json:"roomNumber"`
		Gender     string   `json:"gender"`
		Beds       []string `json:"beds"` // bed slot ids, e.g. ["a","b","c"]
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if body.RoomNumber == "" || body.Gender == "" || len(body.Beds) == 0 {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	room := models.Room{
		ID:         utils.GenerateRandomDigitString(14),
		RoomNumber: body.RoomNumber,
		Gender:     body.Gender,
		Beds:       make(map[string]models.BedState, len(body.Beds)),
		CreatedAt:  time.Now().Unix(),
	}
	for _, bed := range body.Beds {
		bed = utils.NormalizeID(bed)
		if bed == "" {
			http.Error(w, "invalid bed id", http.StatusBadRequest)
			return
		}
		room.Beds[bed] = models.BedState{Status: models.BedAvailable}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := db.RoomsCollection.InsertOne(ctx, room); err != nil {
		http.Error(w, "db insert failed", http.StatusInternalServerError)
		return
	}

	claims, _ := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if claims != nil {
		audit.Log(ctx, "CREATE_ROOM", claims.UserID, claims.Email, room.ID)
	}
	go mq.Emit(ctx, models.Event{Kind: "room-updated", EntityID: room.ID})

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"room": room})
}

// PUT /api/admin/rooms/:roomid
// Bed slots can be added but never removed or reset here; occupied bed
// state is owned by the booking transactions.
func UpdateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")

	var body struct {
		RoomNumber string   `json:"roomNumber"`
		Gender     string   `json:"gender"`
		AddBeds    []string `json:"addBeds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	updates := bson.M{}
	if body.RoomNumber != "" {
		updates["roomNumber"] = body.RoomNumber
	}
	if body.Gender != "" {
		updates["gender"] = body.Gender
	}
	for _, bed := range body.AddBeds {
		bed = utils.NormalizeID(bed)
		if bed == "" {
			http.Error(w, "invalid bed id", http.StatusBadRequest)
			return
		}
		updates["beds."+bed] = models.BedState{Status: models.BedAvailable}
	}
	if len(updates) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// $setOnInsert-like semantics for beds: only create slots that do
	// not exist yet, so an existing bed's state is never clobbered.
	var room models.Room
	if err := db.RoomsCollection.FindOne(ctx, bson.M{"id": roomID}).Decode(&room); err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	for _, bed := range body.AddBeds {
		if _, exists := room.Beds[utils.NormalizeID(bed)]; exists {
			delete(updates, "beds."+utils.NormalizeID(bed))
		}
	}

	if len(updates) > 0 {
		if _, err := db.RoomsCollection.UpdateOne(ctx, bson.M{"id": roomID}, bson.M{"$set": updates}); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
	}

	claims, _ := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if claims != nil {
		audit.Log(ctx, "UPDATE_ROOM", claims.UserID, claims.Email, roomID)
	}
	go mq.Emit(ctx, models.Event{Kind: "room-updated", EntityID: roomID})
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DELETE /api/admin/rooms/:roomid
func DeleteRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")
	if roomID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Refuse while any active booking still references the room.
	count, err := db.BookingsCollection.CountDocuments(ctx, bson.M{
		"roomId": roomID,
		"status": bson.M{"$in": []models.BookingStatus{models.StatusPending, models.StatusApproved, models.StatusConfirmed}},
	})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "room has active bookings", http.StatusConflict)
		return
	}

	if _, err := db.RoomsCollection.DeleteOne(ctx, bson.M{"id": roomID}); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	claims, _ := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if claims != nil {
		audit.Log(ctx, "DELETE_ROOM", claims.UserID, claims.Email, roomID)
	}
	go mq.Emit(ctx, models.Event{Kind: "room-updated", EntityID: roomID})
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Student booking ----------

// POST /api/bookings {roomId, bedId}
func BookBed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		RoomID string `json:"roomId"`
		BedID  string `json:"bedId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = arbitrator.AttemptBooking(ctx, Request{
		UserID:    claims.UserID,
		UserEmail: claims.Email,
		UserName:  claims.Username,
		RoomID:    body.RoomID,
		BedID:     utils.NormalizeID(body.BedID),
	})
	if err != nil {
		writeBookingError(w, err)
		return
	}

	go mq.Emit(ctx, models.Event{Kind: "room-updated", EntityID: body.RoomID})
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "Application submitted",
	})
}

// GET /api/bookings/me
func GetMyBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var b models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"booking": nil})
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"booking": b})
}

// POST /api/bookings/me/leave
func RequestLeave(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := transitions.RequestLeave(ctx, userID); err != nil {
		writeBookingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Warden notified"})
}

// DELETE /api/bookings/me
// Clears a rejected/vacated booking so the student can re-apply.
func DismissBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := transitions.Dismiss(ctx, userID); err != nil {
		writeBookingError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Admin transitions ----------

// GET /api/admin/bookings?status=pending&q=searchtext
func ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filter["$or"] = []bson.M{
			{"userEmail": bson.M{"$regex": q, "$options": "i"}},
			{"roomNumber": bson.M{"$regex": q, "$options": "i"}},
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	cur, err := db.BookingsCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// POST /api/admin/bookings/:id/:action  (approve|confirm|reject|vacate)
func BookingAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")
	action := ps.ByName("action")
	if bookingID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var err error
	var message string
	switch action {
	case "approve":
		err = transitions.Approve(ctx, bookingID)
		message = "Your room booking has been approved"
	case "confirm":
		err = transitions.Confirm(ctx, bookingID)
		message = "Your room booking is confirmed"
	case "reject":
		err = transitions.Reject(ctx, bookingID)
		message = "Your room booking was rejected"
	case "vacate":
		err = transitions.ForceVacate(ctx, bookingID)
		message = "Your room has been vacated"
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeBookingError(w, err)
		return
	}

	claims, _ := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if claims != nil {
		audit.Log(ctx, "BOOKING_"+strings.ToUpper(action), claims.UserID, claims.Email, bookingID)
	}
	notifications.Push(ctx, &bookingID, message) // booking id == owner's user id

	var b models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"userId": bookingID}).Decode(&b); err == nil {
		go mq.Emit(ctx, models.Event{Kind: "room-updated", EntityID: b.RoomID, UserID: b.UserID})
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}
