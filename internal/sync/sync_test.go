package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cvforge/internal/database"
	"cvforge/internal/taglist"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUserResume(t *testing.T, db *gorm.DB) (uint, uint) {
	t.Helper()
	user := database.User{Email: "jane@example.com", Name: "Jane Doe"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	resume := database.Resume{UserID: user.ID, Name: "ML Resume", Template: "modern"}
	if err := db.Create(&resume).Error; err != nil {
		t.Fatalf("create resume: %v", err)
	}
	return user.ID, resume.ID
}

func ptr(s string) *string { return &s }

func TestSyncResumeNotFound(t *testing.T) {
	svc := NewService(testDB(t))
	if _, err := svc.Sync(context.Background(), 999); !errors.Is(err, ErrResumeNotFound) {
		t.Fatalf("err = %v, want ErrResumeNotFound", err)
	}
}

func TestSyncInternshipAndInsignificantHackathon(t *testing.T) {
	db := testDB(t)
	userID, resumeID := seedUserResume(t, db)

	internship := database.Internship{
		UserID:     userID,
		Company:    "Meta",
		Position:   "ML Intern",
		StartDate:  "2025-06",
		SkillsUsed: ptr("Python, TensorFlow"),
	}
	if err := db.Create(&internship).Error; err != nil {
		t.Fatalf("create internship: %v", err)
	}
	// No position and no project name, so it never becomes an experience.
	hackathon := database.Hackathon{UserID: userID, Name: "Local Jam", Date: "2025-03"}
	if err := db.Create(&hackathon).Error; err != nil {
		t.Fatalf("create hackathon: %v", err)
	}

	summary, err := NewService(db).Sync(context.Background(), resumeID)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if summary.ExperiencesAdded != 1 {
		t.Fatalf("ExperiencesAdded = %d, want 1", summary.ExperiencesAdded)
	}
	if summary.NewSkillsCreated != 2 {
		t.Fatalf("NewSkillsCreated = %d, want 2", summary.NewSkillsCreated)
	}
	if summary.SkillsAdded != 2 {
		t.Fatalf("SkillsAdded = %d, want 2", summary.SkillsAdded)
	}
	if summary.Detail.InternshipsProcessed != 1 || summary.Detail.HackathonsProcessed != 0 {
		t.Fatalf("detail = %+v", summary.Detail)
	}
	if summary.Detail.TotalAchievementsScanned.Hackathons != 1 {
		t.Fatalf("scanned = %+v", summary.Detail.TotalAchievementsScanned)
	}

	var exp database.Experience
	if err := db.Where("resume_id = ?", resumeID).First(&exp).Error; err != nil {
		t.Fatalf("load experience: %v", err)
	}
	if exp.SourceType == nil || *exp.SourceType != database.SourceInternship {
		t.Fatalf("sourceType = %v", exp.SourceType)
	}
	if exp.SourceID == nil || *exp.SourceID != internship.ID {
		t.Fatalf("sourceId = %v", exp.SourceID)
	}
	if exp.Company == nil || *exp.Company != "Meta" {
		t.Fatalf("company = %v", exp.Company)
	}

	var skills []database.Skill
	if err := db.Where("user_id = ?", userID).Order("id").Find(&skills).Error; err != nil {
		t.Fatalf("load skills: %v", err)
	}
	if len(skills) != 2 || skills[0].Name != "Python" || skills[1].Name != "TensorFlow" {
		t.Fatalf("skills = %+v", skills)
	}

	var links []database.ResumeSkill
	if err := db.Where("resume_id = ?", resumeID).Find(&links).Error; err != nil {
		t.Fatalf("load links: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("links = %d, want 2", len(links))
	}
}

func TestSyncIdempotent(t *testing.T) {
	db := testDB(t)
	userID, resumeID := seedUserResume(t, db)

	if err := db.Create(&database.Internship{
		UserID:     userID,
		Company:    "Acme",
		Position:   "Intern",
		StartDate:  "2025-01",
		SkillsUsed: ptr("Go, Redis"),
	}).Error; err != nil {
		t.Fatalf("create internship: %v", err)
	}
	if err := db.Create(&database.Hackathon{
		UserID:      userID,
		Name:        "HackWeek",
		Date:        "2025-04",
		ProjectName: ptr("Widget"),
	}).Error; err != nil {
		t.Fatalf("create hackathon: %v", err)
	}

	svc := NewService(db)
	first, err := svc.Sync(context.Background(), resumeID)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if first.ExperiencesAdded != 2 {
		t.Fatalf("first ExperiencesAdded = %d, want 2", first.ExperiencesAdded)
	}

	second, err := svc.Sync(context.Background(), resumeID)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.ExperiencesAdded != 0 || second.SkillsAdded != 0 || second.NewSkillsCreated != 0 {
		t.Fatalf("second sync not idempotent: %+v", second)
	}

	var count int64
	db.Model(&database.Experience{}).Where("resume_id = ?", resumeID).Count(&count)
	if count != 2 {
		t.Fatalf("experience rows = %d, want 2", count)
	}
}

func TestSyncDeduplicatesSkillNames(t *testing.T) {
	db := testDB(t)
	userID, resumeID := seedUserResume(t, db)

	internships := []database.Internship{
		{UserID: userID, Company: "A", Position: "Dev", StartDate: "2024-01", SkillsUsed: ptr("React, Node.js, React")},
		{UserID: userID, Company: "B", Position: "Dev", StartDate: "2024-06", SkillsUsed: ptr("react")},
	}
	if err := db.Create(&internships).Error; err != nil {
		t.Fatalf("create internships: %v", err)
	}

	if _, err := NewService(db).Sync(context.Background(), resumeID); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	var skills []database.Skill
	if err := db.Where("user_id = ?", userID).Order("id").Find(&skills).Error; err != nil {
		t.Fatalf("load skills: %v", err)
	}
	if len(skills) != 2 {
		t.Fatalf("skills = %+v, want exactly React and Node.js", skills)
	}
	// First occurrence wins: the capitalized form and its provenance.
	if skills[0].Name != "React" || skills[1].Name != "Node.js" {
		t.Fatalf("skill names = %q, %q", skills[0].Name, skills[1].Name)
	}
	if skills[0].SourceID == nil || *skills[0].SourceID != internships[0].ID {
		t.Fatalf("provenance = %v, want first internship", skills[0].SourceID)
	}
	for _, sk := range skills {
		if sk.NameKey != taglist.Normalize(sk.Name) {
			t.Fatalf("nameKey %q does not match name %q", sk.NameKey, sk.Name)
		}
	}
}

func TestSyncHackathonExperienceShape(t *testing.T) {
	db := testDB(t)
	userID, resumeID := seedUserResume(t, db)

	teamSize := 4
	if err := db.Create(&database.Hackathon{
		UserID:       userID,
		Name:         "HackTheNorth",
		Organizer:    ptr("UW"),
		Date:         "2025-09",
		Position:     ptr("Finalist"),
		ProjectName:  ptr("ResumeRadar"),
		Description:  ptr("Realtime feedback tool."),
		Technologies: ptr("TypeScript"),
		TeamSize:     &teamSize,
	}).Error; err != nil {
		t.Fatalf("create hackathon: %v", err)
	}

	if _, err := NewService(db).Sync(context.Background(), resumeID); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	var exp database.Experience
	if err := db.Where("resume_id = ?", resumeID).First(&exp).Error; err != nil {
		t.Fatalf("load experience: %v", err)
	}
	if *exp.Company != "UW" {
		t.Fatalf("company = %q, want organizer", *exp.Company)
	}
	if *exp.Position != "ResumeRadar" {
		t.Fatalf("position = %q, want project name", *exp.Position)
	}
	wantDesc := "Achievement: Finalist\nRealtime feedback tool.\nTechnologies: TypeScript\nTeam Size: 4"
	if exp.Description == nil || *exp.Description != wantDesc {
		t.Fatalf("description = %v", exp.Description)
	}
	if *exp.StartDate != "2025-09" || *exp.EndDate != "2025-09" {
		t.Fatalf("dates = %v / %v", exp.StartDate, exp.EndDate)
	}
}

func TestSyncOrderIndexContinues(t *testing.T) {
	db := testDB(t)
	userID, resumeID := seedUserResume(t, db)

	// A manual experience already occupies index 0.
	if err := db.Create(&database.Experience{ResumeID: resumeID, Company: ptr("Manual"), OrderIndex: 0}).Error; err != nil {
		t.Fatalf("create experience: %v", err)
	}
	if err := db.Create(&database.Internship{
		UserID: userID, Company: "Acme", Position: "Intern", StartDate: "2025-01",
	}).Error; err != nil {
		t.Fatalf("create internship: %v", err)
	}

	summary, err := NewService(db).Sync(context.Background(), resumeID)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(summary.ExperiencesList) != 1 || summary.ExperiencesList[0].OrderIndex != 1 {
		t.Fatalf("order index = %+v, want continuation at 1", summary.ExperiencesList)
	}
}
