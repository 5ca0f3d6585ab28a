package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

type CourseHandler struct {
	db *gorm.DB
}

func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{db: db}
}

func (h *CourseHandler) List(c *gin.Context) {
	userID, err := uintQuery(c, "userId")
	if err != nil {
		BadRequest(c, "userId is required")
		return
	}
	params := parseListParams(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&database.Course{}).
		Where("user_id = ?", userID)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(platform) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, err)
		return
	}

	var courses []database.Course
	if err := query.
		Order(nullsLastDesc("completion_date")).
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&courses).Error; err != nil {
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": courses,
		"pagination": gin.H{
			"total":  total,
			"limit":  params.Limit,
			"offset": params.Offset,
		},
	})
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid course id")
		return
	}

	var course database.Course
	if err := h.db.WithContext(c.Request.Context()).First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "course not found")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

type courseRequest struct {
	UserID         uint    `json:"userId"`
	Name           string  `json:"name"`
	Platform       *string `json:"platform"`
	Instructor     *string `json:"instructor"`
	CompletionDate *string `json:"completionDate"`
	CertificateURL *string `json:"certificateUrl"`
	SkillsLearned  *string `json:"skillsLearned"`
	Duration       *string `json:"duration"`
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.UserID == 0 || req.Name == "" {
		BadRequest(c, "userId and name are required")
		return
	}

	course := database.Course{
		UserID:         req.UserID,
		Name:           req.Name,
		Platform:       trimPtr(req.Platform),
		Instructor:     trimPtr(req.Instructor),
		CompletionDate: trimPtr(req.CompletionDate),
		CertificateURL: trimPtr(req.CertificateURL),
		SkillsLearned:  trimPtr(req.SkillsLearned),
		Duration:       trimPtr(req.Duration),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&course).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

type courseUpdateRequest struct {
	Name           *string `json:"name"`
	Platform       *string `json:"platform"`
	Instructor     *string `json:"instructor"`
	CompletionDate *string `json:"completionDate"`
	CertificateURL *string `json:"certificateUrl"`
	SkillsLearned  *string `json:"skillsLearned"`
	Duration       *string `json:"duration"`
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid course id")
		return
	}
	var req courseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var course database.Course
	if err := h.db.WithContext(ctx).First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "course not found")
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
	if req.Platform != nil {
		updates["platform"] = trimPtr(req.Platform)
	}
	if req.Instructor != nil {
		updates["instructor"] = trimPtr(req.Instructor)
	}
	if req.CompletionDate != nil {
		updates["completion_date"] = trimPtr(req.CompletionDate)
	}
	if req.CertificateURL != nil {
		updates["certificate_url"] = trimPtr(req.CertificateURL)
	}
	if req.SkillsLearned != nil {
		updates["skills_learned"] = trimPtr(req.SkillsLearned)
	}
	if req.Duration != nil {
		updates["duration"] = trimPtr(req.Duration)
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&course).Updates(updates).Error; err != nil {
			Internal(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid course id")
		return
	}
	ctx := c.Request.Context()

	var course database.Course
	if err := h.db.WithContext(ctx).First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "course not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&database.Course{}, id).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}
