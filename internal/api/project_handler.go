package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

var projectStatuses = []string{"completed", "in-progress", "archived"}

type ProjectHandler struct {
	db *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{db: db}
}

func (h *ProjectHandler) List(c *gin.Context) {
	userID, err := uintQuery(c, "userId")
	if err != nil {
		BadRequest(c, "userId is required")
		return
	}
	params := parseListParams(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&database.Project{}).
		Where("user_id = ?", userID)
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !validEnum(status, projectStatuses) {
			BadRequest(c, "invalid status")
			return
		}
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(technologies) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, err)
		return
	}

	var projects []database.Project
	if err := query.
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&projects).Error; err != nil {
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": projects,
		"pagination": gin.H{
			"total":  total,
			"limit":  params.Limit,
			"offset": params.Offset,
		},
	})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid project id")
		return
	}

	var project database.Project
	if err := h.db.WithContext(c.Request.Context()).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "project not found")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type projectRequest struct {
	UserID       uint    `json:"userId"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Link         *string `json:"link"`
	GithubURL    *string `json:"githubUrl"`
	Technologies *string `json:"technologies"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Status       *string `json:"status"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.UserID == 0 || req.Name == "" {
		BadRequest(c, "userId and name are required")
		return
	}
	if req.Status != nil && !validEnum(strings.TrimSpace(*req.Status), projectStatuses) {
		BadRequest(c, "invalid status")
		return
	}

	project := database.Project{
		UserID:       req.UserID,
		Name:         req.Name,
		Description:  trimPtr(req.Description),
		Link:         trimPtr(req.Link),
		GithubURL:    trimPtr(req.GithubURL),
		Technologies: trimPtr(req.Technologies),
		StartDate:    trimPtr(req.StartDate),
		EndDate:      trimPtr(req.EndDate),
		Status:       trimPtr(req.Status),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&project).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

type projectUpdateRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Link         *string `json:"link"`
	GithubURL    *string `json:"githubUrl"`
	Technologies *string `json:"technologies"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Status       *string `json:"status"`
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid project id")
		return
	}
	var req projectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var project database.Project
	if err := h.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "project not found")
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
	if req.Status != nil {
		if !validEnum(strings.TrimSpace(*req.Status), projectStatuses) {
			BadRequest(c, "invalid status")
			return
		}
		updates["status"] = trimPtr(req.Status)
	}
	if req.Description != nil {
		updates["description"] = trimPtr(req.Description)
	}
	if req.Link != nil {
		updates["link"] = trimPtr(req.Link)
	}
	if req.GithubURL != nil {
		updates["github_url"] = trimPtr(req.GithubURL)
	}
	if req.Technologies != nil {
		updates["technologies"] = trimPtr(req.Technologies)
	}
	if req.StartDate != nil {
		updates["start_date"] = trimPtr(req.StartDate)
	}
	if req.EndDate != nil {
		updates["end_date"] = trimPtr(req.EndDate)
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&project).Updates(updates).Error; err != nil {
			Internal(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid project id")
		return
	}
	ctx := c.Request.Context()

	var project database.Project
	if err := h.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "project not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&database.Project{}, id).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
