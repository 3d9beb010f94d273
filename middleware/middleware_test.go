package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hostelhub/globals"
	"hostelhub/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func studentClaims(userID string, roles ...string) *Claims {
	return &Claims{
		Username: "Test User",
		UserID:   userID,
		Email:    userID + "@hostel.test",
		Role:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestValidateJWTRoundTrip(t *testing.T) {
	token := signToken(t, studentClaims("u1", models.RoleStudent))

	claims, err := ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", claims.UserID)
	}
	if len(claims.Role) != 1 || claims.Role[0] != models.RoleStudent {
		t.Errorf("Role = %v, want [student]", claims.Role)
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	for _, header := range []string{"", "Bearer ", "Bearer not-a-token", "Basic abcdef"} {
		if _, err := ValidateJWT(header); err == nil {
			t.Errorf("ValidateJWT(%q) accepted", header)
		}
	}
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	claims := studentClaims("u1", models.RoleStudent)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := signToken(t, claims)

	if _, err := ValidateJWT("Bearer " + token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestAuthenticateSetsContext(t *testing.T) {
	var gotUserID string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID, _ = r.Context().Value(globals.UserIDKey).(string)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, studentClaims("u7", models.RoleStudent)))
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotUserID != "u7" {
		t.Errorf("context user id = %q, want u7", gotUserID)
	}
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler reached without token")
	})

	r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAdminOnly(t *testing.T) {
	reached := false
	handler := AdminOnly(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		reached = true
	})

	r := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, studentClaims("u1", models.RoleStudent)))
	w := httptest.NewRecorder()
	handler(w, r, nil)
	if w.Code != http.StatusForbidden || reached {
		t.Fatalf("student passed admin gate: status=%d reached=%v", w.Code, reached)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, studentClaims("u2", models.RoleStudent, models.RoleAdmin)))
	w = httptest.NewRecorder()
	handler(w, r, nil)
	if w.Code != http.StatusOK || !reached {
		t.Fatalf("admin blocked: status=%d reached=%v", w.Code, reached)
	}
}
