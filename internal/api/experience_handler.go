package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

type ExperienceHandler struct {
	db *gorm.DB
}

func NewExperienceHandler(db *gorm.DB) *ExperienceHandler {
	return &ExperienceHandler{db: db}
}

// List returns a resume's experiences ordered by explicit position,
// then newest start date with undated rows last.
func (h *ExperienceHandler) List(c *gin.Context) {
	resumeID, err := uintQuery(c, "resumeId")
	if err != nil {
		BadRequest(c, "resumeId is required")
		return
	}
	params := parseListParams(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&database.Experience{}).
		Where("resume_id = ?", resumeID)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(company) LIKE ? OR LOWER(position) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, err)
		return
	}

	var experiences []database.Experience
	if err := query.
		Order("order_index ASC").Order(nullsLastDesc("start_date")).
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&experiences).Error; err != nil {
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": experiences,
		"pagination": gin.H{
			"total":  total,
			"limit":  params.Limit,
			"offset": params.Offset,
		},
	})
}

func (h *ExperienceHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid experience id")
		return
	}

	var exp database.Experience
	if err := h.db.WithContext(c.Request.Context()).First(&exp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "experience not found")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

type experienceRequest struct {
	ResumeID    uint    `json:"resumeId"`
	Company     *string `json:"company"`
	Position    *string `json:"position"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Current     *bool   `json:"current"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"orderIndex"`
}

func (h *ExperienceHandler) Create(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if req.ResumeID == 0 {
		BadRequest(c, "resumeId is required")
		return
	}

	exp := database.Experience{
		ResumeID:    req.ResumeID,
		Company:     trimPtr(req.Company),
		Position:    trimPtr(req.Position),
		StartDate:   trimPtr(req.StartDate),
		EndDate:     trimPtr(req.EndDate),
		Description: trimPtr(req.Description),
	}
	if req.Current != nil {
		exp.Current = *req.Current
	}
	if req.OrderIndex != nil {
		exp.OrderIndex = *req.OrderIndex
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&exp).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, exp)
}

func (h *ExperienceHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid experience id")
		return
	}
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var exp database.Experience
	if err := h.db.WithContext(ctx).First(&exp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "experience not found")
			return
		}
		Internal(c, err)
		return
	}

	updates := map[string]any{}
	if req.Company != nil {
		updates["company"] = trimPtr(req.Company)
	}
	if req.Position != nil {
		updates["position"] = trimPtr(req.Position)
	}
	if req.StartDate != nil {
		updates["start_date"] = trimPtr(req.StartDate)
	}
	if req.EndDate != nil {
		updates["end_date"] = trimPtr(req.EndDate)
	}
	if req.Current != nil {
		updates["current"] = *req.Current
	}
	if req.Description != nil {
		updates["description"] = trimPtr(req.Description)
	}
	if req.OrderIndex != nil {
		updates["order_index"] = *req.OrderIndex
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&exp).Updates(updates).Error; err != nil {
			Internal(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, exp)
}

func (h *ExperienceHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid experience id")
		return
	}
	ctx := c.Request.Context()

	var exp database.Experience
	if err := h.db.WithContext(ctx).First(&exp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "experience not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&database.Experience{}, id).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}
