package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"

	"cvforge/internal/config"
	"cvforge/internal/database"
	"cvforge/internal/taglist"
)

// Seeds a demo account with a spread of achievements so the sync and
// analysis flows have something to chew on locally.
func main() {
	email := flag.String("email", "demo@cvforge.dev", "demo account email")
	name := flag.String("name", "Demo User", "demo account name")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.MustLoad()
	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		logger.Error("database init failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		logger.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := seed(db, *email, *name); err != nil {
		logger.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seed complete", slog.String("email", *email))
}

func seed(db *gorm.DB, email, name string) error {
	var user database.User
	err := db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = database.User{Email: email, Name: name}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var count int64
	if err := db.Model(&database.Internship{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	internships := []database.Internship{
		{
			UserID:      user.ID,
			Company:     "Acme Labs",
			Position:    "Backend Engineering Intern",
			StartDate:   "2025-06",
			EndDate:     ptr("2025-09"),
			Description: ptr("Built ingestion pipelines for the analytics platform."),
			SkillsUsed:  ptr("Go, PostgreSQL, Redis"),
			Location:    ptr("Remote"),
		},
		{
			UserID:     user.ID,
			Company:    "Nimbus Cloud",
			Position:   "Platform Intern",
			StartDate:  "2026-01",
			Current:    true,
			SkillsUsed: ptr("Kubernetes, Go, Terraform"),
		},
	}
	if err := db.Create(&internships).Error; err != nil {
		return err
	}

	hackathons := []database.Hackathon{
		{
			UserID:       user.ID,
			Name:         "HackTheNorth",
			Organizer:    ptr("University of Waterloo"),
			Date:         "2025-09",
			Position:     ptr("Finalist"),
			ProjectName:  ptr("ResumeRadar"),
			Description:  ptr("Realtime resume feedback tool."),
			Technologies: ptr("TypeScript, Gemini API"),
			TeamSize:     intPtr(4),
		},
		{
			UserID: user.ID,
			Name:   "Local CodeJam",
			Date:   "2025-03",
		},
	}
	if err := db.Create(&hackathons).Error; err != nil {
		return err
	}

	courses := []database.Course{
		{
			UserID:         user.ID,
			Name:           "Distributed Systems",
			Platform:       ptr("MIT OCW"),
			CompletionDate: ptr("2025-05"),
			SkillsLearned:  ptr("Raft, gRPC"),
		},
	}
	if err := db.Create(&courses).Error; err != nil {
		return err
	}

	projects := []database.Project{
		{
			UserID:       user.ID,
			Name:         "cvforge-cli",
			Description:  ptr("Terminal client for the resume API."),
			GithubURL:    ptr("https://github.com/example/cvforge-cli"),
			Technologies: ptr("Go, Cobra"),
			Status:       ptr("in-progress"),
		},
	}
	if err := db.Create(&projects).Error; err != nil {
		return err
	}

	resume := database.Resume{
		UserID:      user.ID,
		Name:        "Software Engineer Resume",
		Template:    "modern",
		LastUpdated: time.Now(),
	}
	if err := db.Create(&resume).Error; err != nil {
		return err
	}

	for _, tag := range taglist.Parse(internships[0].SkillsUsed) {
		skill := database.Skill{
			UserID:  user.ID,
			Name:    tag,
			NameKey: taglist.Normalize(tag),
		}
		if err := db.Create(&skill).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return nil
}

func ptr(s string) *string { return &s }
func intPtr(n int) *int    { return &n }
