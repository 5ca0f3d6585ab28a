package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

// ResumeSkillHandler manages the resume-to-skill join rows. A pair can
// exist at most once; the unique index answers races the handler cannot.
type ResumeSkillHandler struct {
	db *gorm.DB
}

func NewResumeSkillHandler(db *gorm.DB) *ResumeSkillHandler {
	return &ResumeSkillHandler{db: db}
}

// resumeSkillView is a link joined with its skill fields for display.
type resumeSkillView struct {
	ID         uint    `json:"id"`
	ResumeID   uint    `json:"resumeId"`
	SkillID    uint    `json:"skillId"`
	OrderIndex int     `json:"orderIndex"`
	Name       string  `json:"name"`
	Category   *string `json:"category"`
}

func (h *ResumeSkillHandler) List(c *gin.Context) {
	resumeID, err := uintQuery(c, "resumeId")
	if err != nil {
		BadRequest(c, "resumeId is required")
		return
	}

	var views []resumeSkillView
	if err := h.db.WithContext(c.Request.Context()).
		Model(&database.ResumeSkill{}).
		Select("resume_skills.id, resume_skills.resume_id, resume_skills.skill_id, resume_skills.order_index, skills.name, skills.category").
		Joins("JOIN skills ON skills.id = resume_skills.skill_id").
		Where("resume_skills.resume_id = ?", resumeID).
		Order("resume_skills.order_index ASC").
		Scan(&views).Error; err != nil {
		Internal(c, err)
		return
	}
	if views == nil {
		views = []resumeSkillView{}
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

type resumeSkillRequest struct {
	ResumeID   uint `json:"resumeId"`
	SkillID    uint `json:"skillId"`
	OrderIndex *int `json:"orderIndex"`
}

func (h *ResumeSkillHandler) Create(c *gin.Context) {
	var req resumeSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if req.ResumeID == 0 || req.SkillID == 0 {
		BadRequest(c, "resumeId and skillId are required")
		return
	}
	ctx := c.Request.Context()

	var skill database.Skill
	if err := h.db.WithContext(ctx).First(&skill, req.SkillID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "skill not found")
			return
		}
		Internal(c, err)
		return
	}

	link := database.ResumeSkill{ResumeID: req.ResumeID, SkillID: req.SkillID}
	if req.OrderIndex != nil {
		link.OrderIndex = *req.OrderIndex
	}
	if err := h.db.WithContext(ctx).Create(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "skill already linked to resume")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

type resumeSkillUpdateRequest struct {
	OrderIndex *int `json:"orderIndex"`
}

func (h *ResumeSkillHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid resume skill id")
		return
	}
	var req resumeSkillUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var link database.ResumeSkill
	if err := h.db.WithContext(ctx).First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume skill not found")
			return
		}
		Internal(c, err)
		return
	}

	if req.OrderIndex != nil {
		if err := h.db.WithContext(ctx).Model(&link).
			Update("order_index", *req.OrderIndex).Error; err != nil {
			Internal(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, link)
}

func (h *ResumeSkillHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid resume skill id")
		return
	}
	ctx := c.Request.Context()

	var link database.ResumeSkill
	if err := h.db.WithContext(ctx).First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume skill not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&database.ResumeSkill{}, id).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
