package api

import (
	"fmt"
	"net/http"
	"testing"

	"cvforge/internal/database"
)

func TestListClampsLimitAt100(t *testing.T) {
	db := testDB(t)
	h := NewInternshipHandler(db)
	r := newTestEngine()
	r.GET("/api/internships", h.List)

	user := database.User{Email: "jane@example.com", Name: "Jane"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	rows := make([]database.Internship, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, database.Internship{
			UserID:    user.ID,
			Company:   fmt.Sprintf("Company %03d", i),
			Position:  "Intern",
			StartDate: fmt.Sprintf("2020-%02d", i%12+1),
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed internships: %v", err)
	}

	w := performJSON(t, r, http.MethodGet, fmt.Sprintf("/api/internships?userId=%d&limit=500", user.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)

	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("data missing: %v", body)
	}
	if len(data) != 100 {
		t.Fatalf("returned %d rows, want clamp at 100", len(data))
	}

	pagination, ok := body["pagination"].(map[string]any)
	if !ok {
		t.Fatalf("pagination missing: %v", body)
	}
	if pagination["limit"].(float64) != 100 {
		t.Fatalf("pagination.limit = %v, want 100", pagination["limit"])
	}
	if pagination["total"].(float64) != 120 {
		t.Fatalf("pagination.total = %v, want 120", pagination["total"])
	}
}

func TestListDefaultsLimitToTen(t *testing.T) {
	db := testDB(t)
	h := NewInternshipHandler(db)
	r := newTestEngine()
	r.GET("/api/internships", h.List)

	user := database.User{Email: "jane@example.com", Name: "Jane"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	for i := 0; i < 15; i++ {
		if err := db.Create(&database.Internship{
			UserID:    user.ID,
			Company:   fmt.Sprintf("Co %d", i),
			Position:  "Intern",
			StartDate: "2024-01",
		}).Error; err != nil {
			t.Fatalf("seed internship: %v", err)
		}
	}

	w := performJSON(t, r, http.MethodGet, fmt.Sprintf("/api/internships?userId=%d", user.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if data := body["data"].([]any); len(data) != 10 {
		t.Fatalf("returned %d rows, want default 10", len(data))
	}
}

func TestListRequiresOwnerScope(t *testing.T) {
	db := testDB(t)
	h := NewInternshipHandler(db)
	r := newTestEngine()
	r.GET("/api/internships", h.List)

	w := performJSON(t, r, http.MethodGet, "/api/internships", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without userId", w.Code)
	}
}
