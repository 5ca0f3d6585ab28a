package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"cvforge/internal/database"
)

func TestPersonalInfoUpsert(t *testing.T) {
	db := testDB(t)
	h := NewPersonalInfoHandler(db)
	r := gin.New()
	r.GET("/api/personal-info", h.Get)
	r.POST("/api/personal-info", h.Upsert)

	user := seedUser(t, db)
	resume := database.Resume{UserID: user.ID, Name: "Draft"}
	if err := db.Create(&resume).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	w := performJSON(t, r, http.MethodPost, "/api/personal-info", gin.H{
		"resumeId": resume.ID,
		"fullName": "Jane Doe",
		"title":    "ML Engineer",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("first upsert status = %d, body %s", w.Code, w.Body.String())
	}

	// Second write patches only the supplied fields.
	w = performJSON(t, r, http.MethodPost, "/api/personal-info", gin.H{
		"resumeId": resume.ID,
		"title":    "Staff ML Engineer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("second upsert status = %d", w.Code)
	}

	var count int64
	db.Model(&database.PersonalInfo{}).Where("resume_id = ?", resume.ID).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d, want single upserted row", count)
	}

	w = performJSON(t, r, http.MethodGet, fmt.Sprintf("/api/personal-info?resumeId=%d", resume.ID), nil)
	body := decodeBody(t, w)
	if body["fullName"] != "Jane Doe" || body["title"] != "Staff ML Engineer" {
		t.Fatalf("body = %v", body)
	}
}
