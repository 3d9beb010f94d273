package mess

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hostelhub/audit"
	"hostelhub/db"
	"hostelhub/middleware"
	"hostelhub/models"
	"hostelhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var validMeal = map[string]bool{"breakfast": true, "lunch": true, "snacks": true, "dinner": true}

func isWeekday(day string) bool {
	for _, d := range weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// GET /api/mess/menu — the full week, one document per day.
func GetMenu(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.MessMenuCollection.Find(ctx, bson.M{})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	byDay := make(map[string]models.MenuDay, len(weekdays))
	for cur.Next(ctx) {
		var d models.MenuDay
		if err := cur.Decode(&d); err != nil {
			continue
		}
		byDay[d.Day] = d
	}

	// Always return all seven days in calendar order, empty or not.
	week := make([]models.MenuDay, 0, len(weekdays))
	for _, day := range weekdays {
		d, ok := byDay[day]
		if !ok {
			d = models.MenuDay{Day: day}
		}
		week = append(week, d)
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"menu": week})
}

// PUT /api/admin/mess/menu — bulk save, upserting each day document.
func SaveMenu(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Menu []models.MenuDay `json:"menu"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	upserted := 0
	for _, d := range body.Menu {
		d.Day = strings.ToLower(d.Day)
		if !isWeekday(d.Day) {
			http.Error(w, fmt.Sprintf("unknown day %q", d.Day), http.StatusBadRequest)
			return
		}
		_, err := db.MessMenuCollection.ReplaceOne(ctx,
			bson.M{"day": d.Day}, d, options.Replace().SetUpsert(true))
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		upserted++
	}

	claims, _ := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if claims != nil {
		audit.Log(ctx, "SAVE_MESS_MENU", claims.UserID, claims.Email, fmt.Sprintf("%d days", upserted))
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "saved": upserted})
}

// RatingID is the meal_ratings document key: one vote per user per slot,
// so re-rating overwrites rather than stacking.
func RatingID(userID, day, meal string) string {
	return userID + "-" + day + "-" + meal
}

// POST /api/mess/ratings {"day":"monday","meal":"lunch","rating":"like"}
func RateMeal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Day    string `json:"day"`
		Meal   string `json:"meal"`
		Rating string `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	body.Day = strings.ToLower(body.Day)
	body.Meal = strings.ToLower(body.Meal)
	if !isWeekday(body.Day) || !validMeal[body.Meal] {
		http.Error(w, "unknown day or meal", http.StatusBadRequest)
		return
	}
	if body.Rating != "like" && body.Rating != "dislike" {
		http.Error(w, "rating must be like or dislike", http.StatusBadRequest)
		return
	}

	rating := models.MealRating{
		ID:        RatingID(claims.UserID, body.Day, body.Meal),
		UserID:    claims.UserID,
		Day:       body.Day,
		Meal:      body.Meal,
		Rating:    body.Rating,
		Timestamp: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err = db.MealRatingsCollection.ReplaceOne(ctx,
		bson.M{"id": rating.ID}, rating, options.Replace().SetUpsert(true))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"rating": rating})
}

// GET /api/mess/ratings?day=monday — like/dislike tallies per meal,
// plus the caller's own votes so the UI can highlight them.
func GetRatings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day := strings.ToLower(r.URL.Query().Get("day"))
	if !isWeekday(day) {
		http.Error(w, "unknown day", http.StatusBadRequest)
		return
	}
	userID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.MealRatingsCollection.Find(ctx, bson.M{"day": day})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	type tally struct {
		Likes    int    `json:"likes"`
		Dislikes int    `json:"dislikes"`
		Mine     string `json:"mine,omitempty"`
	}
	counts := map[string]*tally{}
	for meal := range validMeal {
		counts[meal] = &tally{}
	}

	for cur.Next(ctx) {
		var rt models.MealRating
		if err := cur.Decode(&rt); err != nil {
			continue
		}
		t, ok := counts[rt.Meal]
		if !ok {
			continue
		}
		if rt.Rating == "like" {
			t.Likes++
		} else {
			t.Dislikes++
		}
		if rt.UserID == userID {
			t.Mine = rt.Rating
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"day": day, "ratings": counts})
}
