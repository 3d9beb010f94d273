package profile

import "testing"

func TestIDPayloadRoundTrip(t *testing.T) {
	payload := IDPayload("u42", "STU-2023-0042")

	userID, ok := VerifyIDPayload(payload)
	if !ok {
		t.Fatal("valid payload rejected")
	}
	if userID != "u42" {
		t.Errorf("user id = %q, want u42", userID)
	}
}

func TestVerifyIDPayloadTamper(t *testing.T) {
	payload := IDPayload("u42", "STU-2023-0042")

	tampered := "u43" + payload[3:]
	if _, ok := VerifyIDPayload(tampered); ok {
		t.Error("tampered payload accepted")
	}
	if _, ok := VerifyIDPayload("not|signed"); ok {
		t.Error("unsigned payload accepted")
	}
	if _, ok := VerifyIDPayload(""); ok {
		t.Error("empty payload accepted")
	}
}
