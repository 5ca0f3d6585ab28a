package api

import (
	"github.com/gin-gonic/gin"

	"cvforge/internal/api/middleware"
	"cvforge/internal/auth"
)

// Handlers bundles every HTTP handler the API serves.
type Handlers struct {
	Auth           *AuthHandler
	Resumes        *ResumeHandler
	PersonalInfo   *PersonalInfoHandler
	Experiences    *ExperienceHandler
	Education      *EducationHandler
	Certifications *CertificationHandler
	Skills         *SkillHandler
	ResumeSkills   *ResumeSkillHandler
	Internships    *InternshipHandler
	Hackathons     *HackathonHandler
	Courses        *CourseHandler
	Projects       *ProjectHandler
	Sync           *SyncHandler
	AI             *AIHandler
	Thumbnails     *ThumbnailHandler
}

// RegisterRoutes mounts the full API surface under /api.
func RegisterRoutes(r *gin.Engine, h Handlers, tokens *auth.TokenService) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/resend-otp", h.Auth.ResendOTP)
		authGroup.POST("/verify-otp", h.Auth.VerifyOTP)
		authGroup.GET("/me", middleware.AuthMiddleware(tokens), h.Auth.Me)
	}

	resumes := api.Group("/resumes")
	{
		resumes.GET("", h.Resumes.List)
		resumes.POST("", h.Resumes.Create)
		resumes.POST("/sync-achievements", h.Sync.SyncAchievements)
		resumes.GET("/:id", h.Resumes.Get)
		resumes.PUT("/:id", h.Resumes.Update)
		resumes.DELETE("/:id", h.Resumes.Delete)
		if h.Thumbnails != nil {
			resumes.POST("/:id/thumbnail", h.Thumbnails.Upload)
			resumes.GET("/:id/thumbnail", h.Thumbnails.Link)
			resumes.DELETE("/:id/thumbnail", h.Thumbnails.Delete)
		}
	}

	personalInfo := api.Group("/personal-info")
	{
		personalInfo.GET("", h.PersonalInfo.Get)
		personalInfo.POST("", h.PersonalInfo.Upsert)
		personalInfo.PUT("", h.PersonalInfo.Upsert)
		personalInfo.DELETE("", h.PersonalInfo.Delete)
	}

	registerCRUD(api.Group("/experiences"), h.Experiences.List, h.Experiences.Get, h.Experiences.Create, h.Experiences.Update, h.Experiences.Delete)
	registerCRUD(api.Group("/education"), h.Education.List, h.Education.Get, h.Education.Create, h.Education.Update, h.Education.Delete)
	registerCRUD(api.Group("/certifications"), h.Certifications.List, h.Certifications.Get, h.Certifications.Create, h.Certifications.Update, h.Certifications.Delete)
	registerCRUD(api.Group("/skills"), h.Skills.List, h.Skills.Get, h.Skills.Create, h.Skills.Update, h.Skills.Delete)
	registerCRUD(api.Group("/internships"), h.Internships.List, h.Internships.Get, h.Internships.Create, h.Internships.Update, h.Internships.Delete)
	registerCRUD(api.Group("/hackathons"), h.Hackathons.List, h.Hackathons.Get, h.Hackathons.Create, h.Hackathons.Update, h.Hackathons.Delete)
	registerCRUD(api.Group("/courses"), h.Courses.List, h.Courses.Get, h.Courses.Create, h.Courses.Update, h.Courses.Delete)
	registerCRUD(api.Group("/projects"), h.Projects.List, h.Projects.Get, h.Projects.Create, h.Projects.Update, h.Projects.Delete)

	resumeSkills := api.Group("/resume-skills")
	{
		resumeSkills.GET("", h.ResumeSkills.List)
		resumeSkills.POST("", h.ResumeSkills.Create)
		resumeSkills.PUT("/:id", h.ResumeSkills.Update)
		resumeSkills.DELETE("/:id", h.ResumeSkills.Delete)
	}

	aiGroup := api.Group("/ai")
	{
		aiGroup.POST("/generate-content", h.AI.GenerateContent)
		aiGroup.POST("/ats-check", h.AI.ATSCheck)
		aiGroup.POST("/improve-resume", h.AI.ImproveResume)
		aiGroup.POST("/analyze-resume", h.AI.AnalyzeResume)
	}
}

func registerCRUD(g *gin.RouterGroup, list, get, create, update, del gin.HandlerFunc) {
	g.GET("", list)
	g.GET("/:id", get)
	g.POST("", create)
	g.PUT("/:id", update)
	g.DELETE("/:id", del)
}
