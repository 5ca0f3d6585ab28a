// Package sync materializes a user's achievements (internships,
// hackathons, courses, projects) into resume experiences and linked
// skills without duplicating rows already synced.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"cvforge/internal/database"
	"cvforge/internal/taglist"
)

// ErrResumeNotFound is returned when the target resume does not exist.
var ErrResumeNotFound = errors.New("resume not found")

// ScanCounts reports how many achievement rows of each type were scanned.
type ScanCounts struct {
	Internships int `json:"internships"`
	Hackathons  int `json:"hackathons"`
	Courses     int `json:"courses"`
	Projects    int `json:"projects"`
}

// Summary describes the outcome of one sync run.
type Summary struct {
	Success          bool                  `json:"success"`
	ExperiencesAdded int                   `json:"experiencesAdded"`
	SkillsAdded      int                   `json:"skillsAdded"`
	NewSkillsCreated int                   `json:"newSkillsCreated"`
	ExperiencesList  []database.Experience `json:"experiencesList"`
	SkillsList       []database.Skill      `json:"skillsList"`
	Detail           SummaryDetail         `json:"summary"`
}

// SummaryDetail carries the per-source processing breakdown.
type SummaryDetail struct {
	InternshipsProcessed     int        `json:"internshipsProcessed"`
	HackathonsProcessed      int        `json:"hackathonsProcessed"`
	TotalAchievementsScanned ScanCounts `json:"totalAchievementsScanned"`
}

// Service runs the achievement sync against the relational store.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type taggedSkill struct {
	name       string
	sourceType string
	sourceID   uint
}

// Sync pulls the owning user's achievements and appends the missing
// experiences and skill links to the resume. Running it twice on an
// unchanged achievement set is a no-op: experiences are guarded by their
// (sourceType, sourceId) provenance, skills by normalized name, links by
// pair existence plus the unique index.
func (s *Service) Sync(ctx context.Context, resumeID uint) (*Summary, error) {
	var resume database.Resume
	if err := s.db.WithContext(ctx).First(&resume, resumeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("load resume: %w", err)
	}
	userID := resume.UserID

	var (
		internships   []database.Internship
		hackathons    []database.Hackathon
		courses       []database.Course
		projects      []database.Project
		existingExps  []database.Experience
		existingLinks []database.ResumeSkill
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("user_id = ?", userID).Find(&internships).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("user_id = ?", userID).Find(&hackathons).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("user_id = ?", userID).Find(&courses).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("user_id = ?", userID).Find(&projects).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("resume_id = ?", resumeID).Find(&existingExps).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("resume_id = ?", resumeID).Find(&existingLinks).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch achievements: %w", err)
	}

	// Provenance guard over experiences already synced.
	synced := map[string]struct{}{}
	for _, exp := range existingExps {
		if exp.SourceType != nil && exp.SourceID != nil {
			synced[provenanceKey(*exp.SourceType, *exp.SourceID)] = struct{}{}
		}
	}

	newExps := make([]database.Experience, 0)
	orderIndex := len(existingExps)
	internshipsProcessed := 0
	for _, in := range internships {
		if _, ok := synced[provenanceKey(database.SourceInternship, in.ID)]; ok {
			continue
		}
		sourceType := database.SourceInternship
		sourceID := in.ID
		company := in.Company
		position := in.Position
		startDate := in.StartDate
		newExps = append(newExps, database.Experience{
			ResumeID:    resumeID,
			SourceType:  &sourceType,
			SourceID:    &sourceID,
			Company:     &company,
			Position:    &position,
			StartDate:   &startDate,
			EndDate:     in.EndDate,
			Current:     in.Current,
			Description: in.Description,
			OrderIndex:  orderIndex,
		})
		orderIndex++
		internshipsProcessed++
	}

	hackathonsProcessed := 0
	for _, h := range hackathons {
		if !significantHackathon(h) {
			continue
		}
		if _, ok := synced[provenanceKey(database.SourceHackathon, h.ID)]; ok {
			continue
		}
		newExps = append(newExps, hackathonExperience(h, resumeID, orderIndex))
		orderIndex++
		hackathonsProcessed++
	}

	if len(newExps) > 0 {
		if err := s.db.WithContext(ctx).Create(&newExps).Error; err != nil {
			return nil, fmt.Errorf("insert experiences: %w", err)
		}
	}

	// Mine skills from every achievement's comma-joined tag field,
	// first occurrence wins: internships, hackathons, courses, projects.
	candidates := make([]taggedSkill, 0)
	for _, in := range internships {
		for _, name := range taglist.Parse(in.SkillsUsed) {
			candidates = append(candidates, taggedSkill{name: name, sourceType: database.SourceInternship, sourceID: in.ID})
		}
	}
	for _, h := range hackathons {
		for _, name := range taglist.Parse(h.Technologies) {
			candidates = append(candidates, taggedSkill{name: name, sourceType: database.SourceHackathon, sourceID: h.ID})
		}
	}
	for _, c := range courses {
		for _, name := range taglist.Parse(c.SkillsLearned) {
			candidates = append(candidates, taggedSkill{name: name, sourceType: database.SourceCourse, sourceID: c.ID})
		}
	}
	for _, p := range projects {
		for _, name := range taglist.Parse(p.Technologies) {
			candidates = append(candidates, taggedSkill{name: name, sourceType: database.SourceProject, sourceID: p.ID})
		}
	}

	unique := make(map[string]taggedSkill)
	uniqueOrder := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		key := taglist.Normalize(cand.name)
		if _, ok := unique[key]; !ok {
			unique[key] = cand
			uniqueOrder = append(uniqueOrder, key)
		}
	}

	var existingSkills []database.Skill
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&existingSkills).Error; err != nil {
		return nil, fmt.Errorf("load user skills: %w", err)
	}
	existingNames := map[string]struct{}{}
	for _, sk := range existingSkills {
		existingNames[taglist.Normalize(sk.Name)] = struct{}{}
	}

	created := make([]database.Skill, 0)
	for _, key := range uniqueOrder {
		if _, ok := existingNames[key]; ok {
			continue
		}
		cand := unique[key]
		sourceType := cand.sourceType
		sourceID := cand.sourceID
		skill := database.Skill{
			UserID:     userID,
			Name:       cand.name,
			NameKey:    key,
			SourceType: &sourceType,
			SourceID:   &sourceID,
		}
		if err := s.db.WithContext(ctx).Create(&skill).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race against a concurrent sync; the skill exists,
				// which is all we needed.
				continue
			}
			return nil, fmt.Errorf("insert skill %q: %w", cand.name, err)
		}
		created = append(created, skill)
	}

	// Reload everything so ids cover rows created by us or by a rival run.
	var allSkills []database.Skill
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&allSkills).Error; err != nil {
		return nil, fmt.Errorf("reload user skills: %w", err)
	}
	skillIDByName := make(map[string]uint, len(allSkills))
	skillByID := make(map[uint]database.Skill, len(allSkills))
	for _, sk := range allSkills {
		skillIDByName[taglist.Normalize(sk.Name)] = sk.ID
		skillByID[sk.ID] = sk
	}

	linkedIDs := map[uint]struct{}{}
	for _, link := range existingLinks {
		linkedIDs[link.SkillID] = struct{}{}
	}

	linkOrder := len(existingLinks)
	linked := make([]database.Skill, 0)
	linksAdded := 0
	for _, key := range uniqueOrder {
		skillID, ok := skillIDByName[key]
		if !ok {
			continue
		}
		if _, ok := linkedIDs[skillID]; ok {
			continue
		}
		link := database.ResumeSkill{
			ResumeID:   resumeID,
			SkillID:    skillID,
			OrderIndex: linkOrder,
		}
		if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, fmt.Errorf("link skill %d: %w", skillID, err)
		}
		linkOrder++
		linksAdded++
		linked = append(linked, skillByID[skillID])
	}

	return &Summary{
		Success:          true,
		ExperiencesAdded: len(newExps),
		SkillsAdded:      linksAdded,
		NewSkillsCreated: len(created),
		ExperiencesList:  newExps,
		SkillsList:       linked,
		Detail: SummaryDetail{
			InternshipsProcessed: internshipsProcessed,
			HackathonsProcessed:  hackathonsProcessed,
			TotalAchievementsScanned: ScanCounts{
				Internships: len(internships),
				Hackathons:  len(hackathons),
				Courses:     len(courses),
				Projects:    len(projects),
			},
		},
	}, nil
}

// significantHackathon reports whether a hackathon carries enough
// substance (a placement or a project name) to become an experience row.
func significantHackathon(h database.Hackathon) bool {
	return deref(h.Position) != "" || deref(h.ProjectName) != ""
}

func hackathonExperience(h database.Hackathon, resumeID uint, orderIndex int) database.Experience {
	company := deref(h.Organizer)
	if company == "" {
		company = h.Name
	}
	position := deref(h.ProjectName)
	if position == "" {
		position = h.Name
	}

	parts := make([]string, 0, 4)
	if pos := deref(h.Position); pos != "" {
		parts = append(parts, "Achievement: "+pos)
	}
	if desc := deref(h.Description); desc != "" {
		parts = append(parts, desc)
	}
	if tech := deref(h.Technologies); tech != "" {
		parts = append(parts, "Technologies: "+tech)
	}
	if h.TeamSize != nil {
		parts = append(parts, "Team Size: "+strconv.Itoa(*h.TeamSize))
	}

	sourceType := database.SourceHackathon
	sourceID := h.ID
	date := h.Date
	exp := database.Experience{
		ResumeID:   resumeID,
		SourceType: &sourceType,
		SourceID:   &sourceID,
		Company:    &company,
		Position:   &position,
		StartDate:  &date,
		EndDate:    &date,
		Current:    false,
		OrderIndex: orderIndex,
	}
	if len(parts) > 0 {
		description := strings.Join(parts, "\n")
		exp.Description = &description
	}
	return exp
}

func provenanceKey(sourceType string, sourceID uint) string {
	return sourceType + "-" + strconv.FormatUint(uint64(sourceID), 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
