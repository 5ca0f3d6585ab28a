package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

// PersonalInfoHandler manages the single contact block per resume.
// Writes are upserts keyed by resumeId rather than row id.
type PersonalInfoHandler struct {
	db *gorm.DB
}

func NewPersonalInfoHandler(db *gorm.DB) *PersonalInfoHandler {
	return &PersonalInfoHandler{db: db}
}

func (h *PersonalInfoHandler) Get(c *gin.Context) {
	resumeID, err := uintQuery(c, "resumeId")
	if err != nil {
		BadRequest(c, "resumeId is required")
		return
	}

	var info database.PersonalInfo
	if err := h.db.WithContext(c.Request.Context()).
		Where("resume_id = ?", resumeID).First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "personal info not found")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

type personalInfoRequest struct {
	ResumeID uint    `json:"resumeId"`
	FullName *string `json:"fullName"`
	Title    *string `json:"title"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	Linkedin *string `json:"linkedin"`
	Website  *string `json:"website"`
	Summary  *string `json:"summary"`
}

// Upsert creates the block on first write and patches the supplied
// fields on later ones.
func (h *PersonalInfoHandler) Upsert(c *gin.Context) {
	var req personalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if req.ResumeID == 0 {
		BadRequest(c, "resumeId is required")
		return
	}
	ctx := c.Request.Context()

	var existing database.PersonalInfo
	err := h.db.WithContext(ctx).Where("resume_id = ?", req.ResumeID).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		Internal(c, err)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		info := database.PersonalInfo{
			ResumeID: req.ResumeID,
			FullName: trimPtr(req.FullName),
			Title:    trimPtr(req.Title),
			Email:    trimPtr(req.Email),
			Phone:    trimPtr(req.Phone),
			Location: trimPtr(req.Location),
			Linkedin: trimPtr(req.Linkedin),
			Website:  trimPtr(req.Website),
			Summary:  trimPtr(req.Summary),
		}
		if err := h.db.WithContext(ctx).Create(&info).Error; err != nil {
			Internal(c, err)
			return
		}
		c.JSON(http.StatusCreated, info)
		return
	}

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = trimPtr(req.FullName)
	}
	if req.Title != nil {
		updates["title"] = trimPtr(req.Title)
	}
	if req.Email != nil {
		updates["email"] = trimPtr(req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = trimPtr(req.Phone)
	}
	if req.Location != nil {
		updates["location"] = trimPtr(req.Location)
	}
	if req.Linkedin != nil {
		updates["linkedin"] = trimPtr(req.Linkedin)
	}
	if req.Website != nil {
		updates["website"] = trimPtr(req.Website)
	}
	if req.Summary != nil {
		updates["summary"] = trimPtr(req.Summary)
	}
	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			Internal(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, existing)
}

func (h *PersonalInfoHandler) Delete(c *gin.Context) {
	resumeID, err := uintQuery(c, "resumeId")
	if err != nil {
		BadRequest(c, "resumeId is required")
		return
	}
	ctx := c.Request.Context()

	var info database.PersonalInfo
	if err := h.db.WithContext(ctx).Where("resume_id = ?", resumeID).First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "personal info not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&info).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
