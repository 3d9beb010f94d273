package outpass

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"hostelhub/db"
	"hostelhub/globals"
	"hostelhub/middleware"
	"hostelhub/models"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// GatePassPayload returns the signed QR payload printed on a gate pass:
// passID|userID|toDate|timestamp|signature. The guard station verifies
// the signature offline before letting the student out.
func GatePassPayload(op models.Outpass) string {
	data := fmt.Sprintf("%s|%s|%s|%d", op.PassID, op.UserID, op.ToDate, time.Now().Unix())

	h := hmac.New(sha256.New, globals.QrSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyGatePassPayload checks the HMAC on a scanned payload and returns
// the embedded pass id.
func VerifyGatePassPayload(payload string) (string, bool) {
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

// GET /api/outpasses/:id/pass — PDF gate pass for an approved outpass.
func PrintGatePass(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		log.Printf("JWT validation error: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var op models.Outpass
	err = db.OutpassesCollection.FindOne(ctx, bson.M{
		"id":     ps.ByName("id"),
		"userId": claims.UserID,
		"status": models.RequestApproved,
	}).Decode(&op)
	if err != nil {
		http.Error(w, "no approved outpass found", http.StatusNotFound)
		return
	}

	qrPNG, err := qrcode.Encode(GatePassPayload(op), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Hostel Gate Pass")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Pass ID: %s", op.PassID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", op.UserName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Destination: %s", op.Destination))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("From: %s    To: %s", op.FromDate, op.ToDate))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Parent Contact: %s", op.ParentContact))
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
	w.Header().Set("Content-Disposition", "attachment; filename=gatepass-"+op.PassID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
