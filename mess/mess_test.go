package mess

import "testing"

func TestRatingIDDeterministic(t *testing.T) {
	a := RatingID("u1", "monday", "lunch")
	b := RatingID("u1", "monday", "lunch")
	if a != b {
		t.Fatalf("same vote produced different ids: %q vs %q", a, b)
	}
	if a != "u1-monday-lunch" {
		t.Errorf("id = %q, want u1-monday-lunch", a)
	}

	if RatingID("u1", "monday", "dinner") == a {
		t.Error("different meal collides")
	}
	if RatingID("u2", "monday", "lunch") == a {
		t.Error("different user collides")
	}
}

func TestWeekdayAndMealValidation(t *testing.T) {
	for _, d := range weekdays {
		if !isWeekday(d) {
			t.Errorf("isWeekday(%q) = false", d)
		}
	}
	for _, d := range []string{"", "funday", "Monday "} {
		if isWeekday(d) {
			t.Errorf("isWeekday(%q) = true", d)
		}
	}
	if !validMeal["snacks"] || validMeal["brunch"] {
		t.Error("meal validation table wrong")
	}
}
