package outpass

import (
	"testing"

	"hostelhub/models"
)

func TestGatePassPayloadRoundTrip(t *testing.T) {
	op := models.Outpass{
		PassID: "GP-12345678",
		UserID: "u1",
		ToDate: "2026-09-05",
	}

	payload := GatePassPayload(op)
	passID, ok := VerifyGatePassPayload(payload)
	if !ok {
		t.Fatal("valid payload rejected")
	}
	if passID != op.PassID {
		t.Errorf("pass id = %q, want %q", passID, op.PassID)
	}
}

func TestVerifyGatePassPayloadTamper(t *testing.T) {
	payload := GatePassPayload(models.Outpass{PassID: "GP-1", UserID: "u1", ToDate: "2026-09-05"})

	tampered := "GP-2" + payload[4:]
	if _, ok := VerifyGatePassPayload(tampered); ok {
		t.Error("tampered payload accepted")
	}
	if _, ok := VerifyGatePassPayload("garbage"); ok {
		t.Error("garbage accepted")
	}
	if _, ok := VerifyGatePassPayload(""); ok {
		t.Error("empty payload accepted")
	}
}
