package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

// ResumeHandler owns the resume aggregate: the shell record plus the
// assembled detail view that pulls every child collection together.
type ResumeHandler struct {
	db *gorm.DB
}

func NewResumeHandler(db *gorm.DB) *ResumeHandler {
	return &ResumeHandler{db: db}
}

// List returns the user's resumes, most recently updated first.
func (h *ResumeHandler) List(c *gin.Context) {
	userID, err := uintQuery(c, "userId")
	if err != nil {
		BadRequest(c, "userId is required")
		return
	}
	params := parseListParams(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&database.Resume{}).
		Where("user_id = ?", userID)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		Internal(c, err)
		return
	}

	var resumes []database.Resume
	if err := query.
		Order("last_updated DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&resumes).Error; err != nil {
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": resumes,
		"pagination": gin.H{
			"total":  total,
			"limit":  params.Limit,
			"offset": params.Offset,
		},
	})
}

type createResumeRequest struct {
	UserID   uint   `json:"userId"`
	Name     string `json:"name"`
	Template string `json:"template"`
}

func (h *ResumeHandler) Create(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.UserID == 0 || req.Name == "" {
		BadRequest(c, "userId and name are required")
		return
	}

	template := strings.TrimSpace(req.Template)
	if template == "" {
		template = "modern"
	}

	resume := database.Resume{
		UserID:      req.UserID,
		Name:        req.Name,
		Template:    template,
		LastUpdated: time.Now(),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&resume).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, resume)
}

// resumeDetail is the assembled view returned by Get: the resume shell
// plus every child collection, fetched concurrently.
type resumeDetail struct {
	database.Resume
	PersonalInfo   *database.PersonalInfo   `json:"personalInfo"`
	Experience     []database.Experience    `json:"experience"`
	Education      []database.Education     `json:"education"`
	Skills         []string                 `json:"skills"`
	Projects       []database.Project       `json:"projects"`
	Certifications []database.Certification `json:"certifications"`
}

func (h *ResumeHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid resume id")
		return
	}
	ctx := c.Request.Context()

	var resume database.Resume
	if err := h.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, err)
		return
	}

	detail := resumeDetail{
		Resume:         resume,
		Experience:     []database.Experience{},
		Education:      []database.Education{},
		Skills:         []string{},
		Projects:       []database.Project{},
		Certifications: []database.Certification{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var info database.PersonalInfo
		err := h.db.WithContext(gctx).Where("resume_id = ?", id).First(&info).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		detail.PersonalInfo = &info
		return nil
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("resume_id = ?", id).
			Order("order_index ASC").Order(nullsLastDesc("start_date")).
			Find(&detail.Experience).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("resume_id = ?", id).
			Order("order_index ASC").Order(nullsLastDesc("start_date")).
			Find(&detail.Education).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Model(&database.Skill{}).
			Select("skills.name").
			Joins("JOIN resume_skills ON resume_skills.skill_id = skills.id").
			Where("resume_skills.resume_id = ?", id).
			Order("resume_skills.order_index ASC").
			Pluck("skills.name", &detail.Skills).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("user_id = ?", resume.UserID).
			Order("created_at DESC").
			Find(&detail.Projects).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).
			Where("resume_id = ?", id).
			Order("order_index ASC").
			Find(&detail.Certifications).Error
	})
	if err := g.Wait(); err != nil {
		Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

type updateResumeRequest struct {
	Name      *string `json:"name"`
	Template  *string `json:"template"`
	Thumbnail *string `json:"thumbnail"`
	AtsScore  *int    `json:"atsScore"`
}

// Update applies only the supplied fields and bumps lastUpdated.
func (h *ResumeHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid resume id")
		return
	}
	var req updateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var resume database.Resume
	if err := h.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, err)
		return
	}

	updates := map[string]any{"last_updated": time.Now()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "name must not be empty")
			return
		}
		updates["name"] = name
	}
	if req.Template != nil {
		updates["template"] = strings.TrimSpace(*req.Template)
	}
	if req.Thumbnail != nil {
		updates["thumbnail"] = trimPtr(req.Thumbnail)
	}
	if req.AtsScore != nil {
		updates["ats_score"] = *req.AtsScore
	}

	if err := h.db.WithContext(ctx).Model(&resume).Updates(updates).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

// Delete removes the resume and returns the deleted record.
func (h *ResumeHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		BadRequest(c, "invalid resume id")
		return
	}
	ctx := c.Request.Context()

	var resume database.Resume
	if err := h.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Delete(&database.Resume{}, id).Error; err != nil {
		Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}
