package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

type EducationHandler struct {
	db *gorm.DB
}

func NewEducationHandler(db *gorm.DB) *EducationHandler {
	return &EducationHandler{db: db}
}

func (h *EducationHandler) List(c *gin.Context) {
	resumeID, err := uintQuery(c, "resumeId")
	if err != nil {
		BadRequest(c, "resumeId is required")
		return
	}
	params := parseListParams(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&database.Education{}).
		Where("resume_id = ?", resumeID)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(school) LIKE ? OR LOWER(degree) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, err)
		return
	}

	var rows []database.Education
	if err := query.
		Order("order_index ASC").Order(nullsLastDesc("start_date")).
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error; err != nil {
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": rows,
		"pagination": gin.H{
			"total":  total,
			"limit":  params.Limit,
			"offset": params.Offset,
		},
	})
}

func (h *EducationHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid education id")
		return
	}

	var edu database.Education
	if err := h.db.WithContext(c.Request.Context()).First(&edu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "education not found")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, edu)
}

type educationRequest struct {
	ResumeID   uint    `json:"resumeId"`
	School     *string `json:"school"`
	Degree     *string `json:"degree"`
	Field      *string `json:"field"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
	Grade      *string `json:"grade"`
	OrderIndex *int    `json:"orderIndex"`
}

func (h *EducationHandler) Create(c *gin.Context) {
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if req.ResumeID == 0 {
		BadRequest(c, "resumeId is required")
		return
	}

	edu := database.Education{
		ResumeID:  req.ResumeID,
		School:    trimPtr(req.School),
		Degree:    trimPtr(req.Degree),
		Field:     trimPtr(req.Field),
		StartDate: trimPtr(req.StartDate),
		EndDate:   trimPtr(req.EndDate),
		Grade:     trimPtr(req.Grade),
	}
	if req.OrderIndex != nil {
		edu.OrderIndex = *req.OrderIndex
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&edu).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, edu)
}

func (h *EducationHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid education id")
		return
	}
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var edu database.Education
	if err := h.db.WithContext(ctx).First(&edu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "education not found")
			return
		}
		Internal(c, err)
		return
	}

	updates := map[string]any{}
	if req.School != nil {
		updates["school"] = trimPtr(req.School)
	}
	if req.Degree != nil {
		updates["degree"] = trimPtr(req.Degree)
	}
	if req.Field != nil {
		updates["field"] = trimPtr(req.Field)
	}
	if req.StartDate != nil {
		updates["start_date"] = trimPtr(req.StartDate)
	}
	if req.EndDate != nil {
		updates["end_date"] = trimPtr(req.EndDate)
	}
	if req.Grade != nil {
		updates["grade"] = trimPtr(req.Grade)
	}
	if req.OrderIndex != nil {
		updates["order_index"] = *req.OrderIndex
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&edu).Updates(updates).Error; err != nil {
			Internal(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, edu)
}

func (h *EducationHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid education id")
		return
	}
	ctx := c.Request.Context()

	var edu database.Education
	if err := h.db.WithContext(ctx).First(&edu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "education not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&database.Education{}, id).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, edu)
}
