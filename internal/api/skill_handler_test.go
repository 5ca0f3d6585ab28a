package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
	"cvforge/internal/errcode"
)

func skillTestRouter(db *gorm.DB) *gin.Engine {
	h := NewSkillHandler(db)
	r := gin.New()
	r.GET("/api/skills", h.List)
	r.POST("/api/skills", h.Create)
	r.PUT("/api/skills/:id", h.Update)
	return r
}

func TestCreateSkillDuplicateNameConflicts(t *testing.T) {
	db := testDB(t)
	r := skillTestRouter(db)

	user := database.User{Email: "jane@example.com", Name: "Jane"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	w := performJSON(t, r, http.MethodPost, "/api/skills", gin.H{
		"userId": user.ID,
		"name":   "Python",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, body %s", w.Code, w.Body.String())
	}

	// Same name in a different case is still a duplicate.
	w = performJSON(t, r, http.MethodPost, "/api/skills", gin.H{
		"userId": user.ID,
		"name":   "python",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, body %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["code"] != errcode.Conflict {
		t.Fatalf("code = %v", body["code"])
	}

	var count int64
	db.Model(&database.Skill{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("skill rows = %d, want 1", count)
	}
}

func TestCreateSkillSameNameDifferentUsers(t *testing.T) {
	db := testDB(t)
	r := skillTestRouter(db)

	users := []database.User{
		{Email: "a@example.com", Name: "A"},
		{Email: "b@example.com", Name: "B"},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}

	for _, u := range users {
		w := performJSON(t, r, http.MethodPost, "/api/skills", gin.H{
			"userId": u.ID,
			"name":   "Go",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create for user %d status = %d", u.ID, w.Code)
		}
	}
}

func TestCreateSkillRejectsUnknownEnums(t *testing.T) {
	db := testDB(t)
	r := skillTestRouter(db)

	user := database.User{Email: "jane@example.com", Name: "Jane"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	w := performJSON(t, r, http.MethodPost, "/api/skills", gin.H{
		"userId":   user.ID,
		"name":     "Go",
		"category": "wizardry",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	w = performJSON(t, r, http.MethodPost, "/api/skills", gin.H{
		"userId":      user.ID,
		"name":        "Go",
		"proficiency": "grandmaster",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
