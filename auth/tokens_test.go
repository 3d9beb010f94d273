package auth

import "testing"

func TestGenerateRefreshToken(t *testing.T) {
	a, err := generateRefreshToken()
	if err != nil {
		t.Fatalf("generateRefreshToken: %v", err)
	}
	b, err := generateRefreshToken()
	if err != nil {
		t.Fatalf("generateRefreshToken: %v", err)
	}

	if len(a) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(a))
	}
	if a == b {
		t.Error("two tokens are identical")
	}
}

func TestHashTokenStable(t *testing.T) {
	h1 := hashToken("secret-token")
	h2 := hashToken("secret-token")
	if h1 != h2 {
		t.Error("same token hashed differently")
	}
	if h1 == hashToken("other-token") {
		t.Error("different tokens collide")
	}
	if h1 == "secret-token" {
		t.Error("token stored unhashed")
	}
}
