package profile

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hostelhub/db"
	"hostelhub/globals"
	"hostelhub/middleware"
	"hostelhub/models"
	"hostelhub/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// IDPayload builds the signed string encoded into a student's digital
// ID QR: userID|studentID|timestamp|signature.
func IDPayload(userID, studentID string) string {
	data := fmt.Sprintf("%s|%s|%d", userID, studentID, time.Now().Unix())

	h := hmac.New(sha256.New, globals.QrSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyIDPayload checks a scanned payload's signature and returns the
// embedded user id.
func VerifyIDPayload(payload string) (string, bool) {
	idx := strings.LastIndex(payload, "|")
	if idx <= 0 {
		return "", false
	}
	data, sig := payload[:idx], payload[idx+1:]

	h := hmac.New(sha256.New, globals.QrSecret)
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}

	parts := strings.SplitN(data, "|", 2)
	return parts[0], true
}

// GET /api/profile/idcard — PDF digital ID with a signed QR.
func PrintIDCard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": claims.UserID}).Decode(&user); err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	var booking models.Booking
	roomLine := "Room: not allotted"
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"userId": claims.UserID}).Decode(&booking); err == nil && booking.Status.Active() {
		roomLine = fmt.Sprintf("Room: %s  Bed: %s", booking.RoomNumber, strings.ToUpper(booking.BedID))
	}

	qrPNG, err := qrcode.Encode(IDPayload(user.UserID, user.StudentID), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Hostel Resident ID")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", user.DisplayName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Student ID: %s", user.StudentID))
	pdf.Ln(8)
	pdf.Cell(0, 10, roomLine)
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{
		ImageType: "PNG",
	}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=id-"+user.UserID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// POST /api/admin/verify {"payload": "..."} or {"studentIdLast4": "1234"}
// Gate staff scan a QR or type the last four digits of a student id and
// get back the resident's identity and current room allotment.
func VerifyResident(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Payload        string `json:"payload"`
		StudentIDLast4 string `json:"studentIdLast4"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	switch {
	case body.Payload != "":
		userID, ok := VerifyIDPayload(body.Payload)
		if !ok {
			utils.RespondWithJSON(w, http.StatusOK, map[string]any{"valid": false, "reason": "signature mismatch"})
			return
		}
		if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
			utils.RespondWithJSON(w, http.StatusOK, map[string]any{"valid": false, "reason": "unknown resident"})
			return
		}
	case len(body.StudentIDLast4) == 4:
		err := db.UserCollection.FindOne(ctx, bson.M{
			"studentId": bson.M{"$regex": body.StudentIDLast4 + "$"},
		}).Decode(&user)
		if err != nil {
			utils.RespondWithJSON(w, http.StatusOK, map[string]any{"valid": false, "reason": "unknown resident"})
			return
		}
	default:
		http.Error(w, "payload or studentIdLast4 is required", http.StatusBadRequest)
		return
	}

	result := map[string]any{
		"valid":       true,
		"userid":      user.UserID,
		"displayName": user.DisplayName,
		"studentId":   user.StudentID,
		"photoURL":    user.PhotoURL,
	}

	var booking models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"userId": user.UserID}).Decode(&booking); err == nil && booking.Status.Active() {
		result["roomNumber"] = booking.RoomNumber
		result["bedId"] = booking.BedID
		result["bookingStatus"] = booking.Status
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}
