package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

type InternshipHandler struct {
	db *gorm.DB
}

func NewInternshipHandler(db *gorm.DB) *InternshipHandler {
	return &InternshipHandler{db: db}
}

func (h *InternshipHandler) List(c *gin.Context) {
	userID, err := uintQuery(c, "userId")
	if err != nil {
		BadRequest(c, "userId is required")
		return
	}
	params := parseListParams(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&database.Internship{}).
		Where("user_id = ?", userID)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(company) LIKE ? OR LOWER(position) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, err)
		return
	}

	var internships []database.Internship
	if err := query.
		Order("start_date DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&internships).Error; err != nil {
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": internships,
		"pagination": gin.H{
			"total":  total,
			"limit":  params.Limit,
			"offset": params.Offset,
		},
	})
}

func (h *InternshipHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid internship id")
		return
	}

	var internship database.Internship
	if err := h.db.WithContext(c.Request.Context()).First(&internship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "internship not found")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, internship)
}

type internshipRequest struct {
	UserID      uint    `json:"userId"`
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Current     *bool   `json:"current"`
	Description *string `json:"description"`
	SkillsUsed  *string `json:"skillsUsed"`
	Location    *string `json:"location"`
}

func (h *InternshipHandler) Create(c *gin.Context) {
	var req internshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	req.Company = strings.TrimSpace(req.Company)
	req.Position = strings.TrimSpace(req.Position)
	req.StartDate = strings.TrimSpace(req.StartDate)
	if req.UserID == 0 || req.Company == "" || req.Position == "" || req.StartDate == "" {
		BadRequest(c, "userId, company, position and startDate are required")
		return
	}

	internship := database.Internship{
		UserID:      req.UserID,
		Company:     req.Company,
		Position:    req.Position,
		StartDate:   req.StartDate,
		EndDate:     trimPtr(req.EndDate),
		Description: trimPtr(req.Description),
		SkillsUsed:  trimPtr(req.SkillsUsed),
		Location:    trimPtr(req.Location),
	}
	if req.Current != nil {
		internship.Current = *req.Current
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&internship).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, internship)
}

type internshipUpdateRequest struct {
	Company     *string `json:"company"`
	Position    *string `json:"position"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Current     *bool   `json:"current"`
	Description *string `json:"description"`
	SkillsUsed  *string `json:"skillsUsed"`
	Location    *string `json:"location"`
}

func (h *InternshipHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid internship id")
		return
	}
	var req internshipUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var internship database.Internship
	if err := h.db.WithContext(ctx).First(&internship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "internship not found")
			return
		}
		Internal(c, err)
		return
	}

	updates := map[string]any{}
	if req.Company != nil {
		company := strings.TrimSpace(*req.Company)
		if company == "" {
			BadRequest(c, "company must not be empty")
			return
		}
		updates["company"] = company
	}
	if req.Position != nil {
		position := strings.TrimSpace(*req.Position)
		if position == "" {
			BadRequest(c, "position must not be empty")
			return
		}
		updates["position"] = position
	}
	if req.StartDate != nil {
		startDate := strings.TrimSpace(*req.StartDate)
		if startDate == "" {
			BadRequest(c, "startDate must not be empty")
			return
		}
		updates["start_date"] = startDate
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
	if req.SkillsUsed != nil {
		updates["skills_used"] = trimPtr(req.SkillsUsed)
	}
	if req.Location != nil {
		updates["location"] = trimPtr(req.Location)
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&internship).Updates(updates).Error; err != nil {
			Internal(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, internship)
}

func (h *InternshipHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid internship id")
		return
	}
	ctx := c.Request.Context()

	var internship database.Internship
	if err := h.db.WithContext(ctx).First(&internship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "internship not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&database.Internship{}, id).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, internship)
}
