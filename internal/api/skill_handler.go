package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cvforge/internal/database"
	"cvforge/internal/taglist"
)

var (
	skillCategories    = []string{"technical", "soft", "domain"}
	skillProficiencies = []string{"beginner", "intermediate", "advanced", "expert"}
)

// SkillHandler manages the user-scoped skill pool. Name uniqueness is
// case-insensitive and enforced by the database, so a losing racer gets
// the same conflict answer as a plain duplicate.
type SkillHandler struct {
	db *gorm.DB
}

func NewSkillHandler(db *gorm.DB) *SkillHandler {
	return &SkillHandler{db: db}
}

func (h *SkillHandler) List(c *gin.Context) {
	userID, err := uintQuery(c, "userId")
	if err != nil {
		BadRequest(c, "userId is required")
		return
	}
	params := parseListParams(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&database.Skill{}).
		Where("user_id = ?", userID)
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		if !validEnum(category, skillCategories) {
			BadRequest(c, "invalid category")
			return
		}
		query = query.Where("category = ?", category)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("name_key LIKE ?", likePattern(search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, err)
		return
	}

	var skills []database.Skill
	if err := query.
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&skills).Error; err != nil {
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": skills,
		"pagination": gin.H{
			"total":  total,
			"limit":  params.Limit,
			"offset": params.Offset,
		},
	})
}

func (h *SkillHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid skill id")
		return
	}

	var skill database.Skill
	if err := h.db.WithContext(c.Request.Context()).First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "skill not found")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, skill)
}

type skillRequest struct {
	UserID      uint    `json:"userId"`
	Name        string  `json:"name"`
	Category    *string `json:"category"`
	Proficiency *string `json:"proficiency"`
}

func (h *SkillHandler) Create(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.UserID == 0 || req.Name == "" {
		BadRequest(c, "userId and name are required")
		return
	}
	if req.Category != nil && !validEnum(strings.TrimSpace(*req.Category), skillCategories) {
		BadRequest(c, "invalid category")
		return
	}
	if req.Proficiency != nil && !validEnum(strings.TrimSpace(*req.Proficiency), skillProficiencies) {
		BadRequest(c, "invalid proficiency")
		return
	}

	skill := database.Skill{
		UserID:      req.UserID,
		Name:        req.Name,
		NameKey:     taglist.Normalize(req.Name),
		Category:    trimPtr(req.Category),
		Proficiency: trimPtr(req.Proficiency),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "skill already exists")
			return
		}
		Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, skill)
}

type skillUpdateRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Proficiency *string `json:"proficiency"`
}

func (h *SkillHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid skill id")
		return
	}
	var req skillUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var skill database.Skill
	if err := h.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "skill not found")
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
		updates["name_key"] = taglist.Normalize(name)
	}
	if req.Category != nil {
		if !validEnum(strings.TrimSpace(*req.Category), skillCategories) {
			BadRequest(c, "invalid category")
			return
		}
		updates["category"] = trimPtr(req.Category)
	}
	if req.Proficiency != nil {
		if !validEnum(strings.TrimSpace(*req.Proficiency), skillProficiencies) {
			BadRequest(c, "invalid proficiency")
			return
		}
		updates["proficiency"] = trimPtr(req.Proficiency)
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&skill).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				Conflict(c, "skill already exists")
				return
			}
			Internal(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, skill)
}

func (h *SkillHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid skill id")
		return
	}
	ctx := c.Request.Context()

	var skill database.Skill
	if err := h.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "skill not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&database.Skill{}, id).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, skill)
}
