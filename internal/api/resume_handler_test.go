package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

func resumeTestRouter(db *gorm.DB) *gin.Engine {
	h := NewResumeHandler(db)
	r := gin.New()
	r.GET("/api/resumes", h.List)
	r.POST("/api/resumes", h.Create)
	r.GET("/api/resumes/:id", h.Get)
	r.PUT("/api/resumes/:id", h.Update)
	r.DELETE("/api/resumes/:id", h.Delete)
	return r
}

func seedUser(t *testing.T, db *gorm.DB) database.User {
	t.Helper()
	user := database.User{Email: "jane@example.com", Name: "Jane"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestResumeListOrderedByLastUpdated(t *testing.T) {
	db := testDB(t)
	r := resumeTestRouter(db)
	user := seedUser(t, db)

	old := database.Resume{UserID: user.ID, Name: "Old", LastUpdated: time.Now().Add(-time.Hour)}
	fresh := database.Resume{UserID: user.ID, Name: "Fresh", LastUpdated: time.Now()}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := performJSON(t, r, http.MethodGet, fmt.Sprintf("/api/resumes?userId=%d", user.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	data := body["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("rows = %d", len(data))
	}
	first := data[0].(map[string]any)
	if first["name"] != "Fresh" {
		t.Fatalf("first row = %v, want most recently updated", first["name"])
	}
}

func TestResumeDetailAssemblesChildren(t *testing.T) {
	db := testDB(t)
	r := resumeTestRouter(db)
	user := seedUser(t, db)

	resume := database.Resume{UserID: user.ID, Name: "ML Resume"}
	if err := db.Create(&resume).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	fullName := "Jane Doe"
	if err := db.Create(&database.PersonalInfo{ResumeID: resume.ID, FullName: &fullName}).Error; err != nil {
		t.Fatalf("seed personal info: %v", err)
	}
	company := "Meta"
	if err := db.Create(&database.Experience{ResumeID: resume.ID, Company: &company}).Error; err != nil {
		t.Fatalf("seed experience: %v", err)
	}
	skill := database.Skill{UserID: user.ID, Name: "Python", NameKey: "python"}
	if err := db.Create(&skill).Error; err != nil {
		t.Fatalf("seed skill: %v", err)
	}
	if err := db.Create(&database.ResumeSkill{ResumeID: resume.ID, SkillID: skill.ID}).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}
	if err := db.Create(&database.Project{UserID: user.ID, Name: "cvforge-cli"}).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}

	w := performJSON(t, r, http.MethodGet, fmt.Sprintf("/api/resumes/%d", resume.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)

	info := body["personalInfo"].(map[string]any)
	if info["fullName"] != "Jane Doe" {
		t.Fatalf("personalInfo = %v", info)
	}
	if exps := body["experience"].([]any); len(exps) != 1 {
		t.Fatalf("experience = %v", exps)
	}
	skills := body["skills"].([]any)
	if len(skills) != 1 || skills[0] != "Python" {
		t.Fatalf("skills = %v, want name list", skills)
	}
	if projects := body["projects"].([]any); len(projects) != 1 {
		t.Fatalf("projects = %v", projects)
	}
	if certs := body["certifications"].([]any); len(certs) != 0 {
		t.Fatalf("certifications = %v, want empty list", certs)
	}
}

func TestResumeDetailNotFound(t *testing.T) {
	r := resumeTestRouter(testDB(t))
	w := performJSON(t, r, http.MethodGet, "/api/resumes/999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestResumeUpdateBumpsLastUpdated(t *testing.T) {
	db := testDB(t)
	r := resumeTestRouter(db)
	user := seedUser(t, db)

	resume := database.Resume{UserID: user.ID, Name: "Draft", LastUpdated: time.Now().Add(-time.Hour)}
	if err := db.Create(&resume).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	before := resume.LastUpdated

	w := performJSON(t, r, http.MethodPut, fmt.Sprintf("/api/resumes/%d", resume.ID), gin.H{
		"name": "Final",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var stored database.Resume
	if err := db.First(&stored, resume.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Name != "Final" {
		t.Fatalf("name = %q", stored.Name)
	}
	if !stored.LastUpdated.After(before) {
		t.Fatalf("lastUpdated not bumped: %v -> %v", before, stored.LastUpdated)
	}
}

func TestResumeDeleteReturnsRecord(t *testing.T) {
	db := testDB(t)
	r := resumeTestRouter(db)
	user := seedUser(t, db)

	resume := database.Resume{UserID: user.ID, Name: "Doomed"}
	if err := db.Create(&resume).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	w := performJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/resumes/%d", resume.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decodeBody(t, w); body["name"] != "Doomed" {
		t.Fatalf("deleted record = %v", body)
	}

	var count int64
	db.Model(&database.Resume{}).Where("id = ?", resume.ID).Count(&count)
	if count != 0 {
		t.Fatal("resume row survived delete")
	}
}
