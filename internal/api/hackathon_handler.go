package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

type HackathonHandler struct {
	db *gorm.DB
}

func NewHackathonHandler(db *gorm.DB) *HackathonHandler {
	return &HackathonHandler{db: db}
}

func (h *HackathonHandler) List(c *gin.Context) {
	userID, err := uintQuery(c, "userId")
	if err != nil {
		BadRequest(c, "userId is required")
		return
	}
	params := parseListParams(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&database.Hackathon{}).
		Where("user_id = ?", userID)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(organizer) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, err)
		return
	}

	var hackathons []database.Hackathon
	if err := query.
		Order("date DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&hackathons).Error; err != nil {
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": hackathons,
		"pagination": gin.H{
			"total":  total,
			"limit":  params.Limit,
			"offset": params.Offset,
		},
	})
}

func (h *HackathonHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid hackathon id")
		return
	}

	var hackathon database.Hackathon
	if err := h.db.WithContext(c.Request.Context()).First(&hackathon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "hackathon not found")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, hackathon)
}

type hackathonRequest struct {
	UserID       uint    `json:"userId"`
	Name         string  `json:"name"`
	Organizer    *string `json:"organizer"`
	Date         string  `json:"date"`
	Position     *string `json:"position"`
	ProjectName  *string `json:"projectName"`
	Description  *string `json:"description"`
	Technologies *string `json:"technologies"`
	TeamSize     *int    `json:"teamSize"`
}

func (h *HackathonHandler) Create(c *gin.Context) {
	var req hackathonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Date = strings.TrimSpace(req.Date)
	if req.UserID == 0 || req.Name == "" || req.Date == "" {
		BadRequest(c, "userId, name and date are required")
		return
	}

	hackathon := database.Hackathon{
		UserID:       req.UserID,
		Name:         req.Name,
		Organizer:    trimPtr(req.Organizer),
		Date:         req.Date,
		Position:     trimPtr(req.Position),
		ProjectName:  trimPtr(req.ProjectName),
		Description:  trimPtr(req.Description),
		Technologies: trimPtr(req.Technologies),
		TeamSize:     req.TeamSize,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&hackathon).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, hackathon)
}

type hackathonUpdateRequest struct {
	Name         *string `json:"name"`
	Organizer    *string `json:"organizer"`
	Date         *string `json:"date"`
	Position     *string `json:"position"`
	ProjectName  *string `json:"projectName"`
	Description  *string `json:"description"`
	Technologies *string `json:"technologies"`
	TeamSize     *int    `json:"teamSize"`
}

func (h *HackathonHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid hackathon id")
		return
	}
	var req hackathonUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var hackathon database.Hackathon
	if err := h.db.WithContext(ctx).First(&hackathon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "hackathon not found")
			return
		}
		Internal(c, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "name must not be empty")
			return
		}
		updates["name"] = name
	}
	if req.Date != nil {
		date := strings.TrimSpace(*req.Date)
		if date == "" {
			BadRequest(c, "date must not be empty")
			return
		}
		updates["date"] = date
	}
	if req.Organizer != nil {
		updates["organizer"] = trimPtr(req.Organizer)
	}
	if req.Position != nil {
		updates["position"] = trimPtr(req.Position)
	}
	if req.ProjectName != nil {
		updates["project_name"] = trimPtr(req.ProjectName)
	}
	if req.Description != nil {
		updates["description"] = trimPtr(req.Description)
	}
	if req.Technologies != nil {
		updates["technologies"] = trimPtr(req.Technologies)
	}
	if req.TeamSize != nil {
		updates["team_size"] = *req.TeamSize
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&hackathon).Updates(updates).Error; err != nil {
			Internal(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, hackathon)
}

func (h *HackathonHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid hackathon id")
		return
	}
	ctx := c.Request.Context()

	var hackathon database.Hackathon
	if err := h.db.WithContext(ctx).First(&hackathon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "hackathon not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&database.Hackathon{}, id).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, hackathon)
}
