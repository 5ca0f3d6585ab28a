package database

import (
	"time"

	"gorm.io/datatypes"
)

// Achievement provenance source types recorded on derived rows.
const (
	SourceInternship = "internship"
	SourceHackathon  = "hackathon"
	SourceCourse     = "course"
	SourceProject    = "project"
)

// User is an account proven by email OTP. Email is stored lowercased and
// is immutable after creation.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Resume is a user-owned resume shell; content lives in the child
// collections. LastUpdated is bumped on every mutating field update.
type Resume struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	UserID       uint           `gorm:"index" json:"userId"`
	Name         string         `gorm:"size:255" json:"name"`
	Template     string         `gorm:"size:64;default:modern" json:"template"`
	Thumbnail    *string        `gorm:"size:512" json:"thumbnail"`
	AtsScore     *int           `json:"atsScore"`
	LastAnalysis datatypes.JSON `gorm:"type:jsonb" json:"lastAnalysis,omitempty"`
	LastUpdated  time.Time      `json:"lastUpdated"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// PersonalInfo holds at most one row per resume (upserted by resumeId).
type PersonalInfo struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	ResumeID uint    `gorm:"uniqueIndex" json:"resumeId"`
	FullName *string `gorm:"size:255" json:"fullName"`
	Title    *string `gorm:"size:255" json:"title"`
	Email    *string `gorm:"size:255" json:"email"`
	Phone    *string `gorm:"size:64" json:"phone"`
	Location *string `gorm:"size:255" json:"location"`
	Linkedin *string `gorm:"size:512" json:"linkedin"`
	Website  *string `gorm:"size:512" json:"website"`
	Summary  *string `json:"summary"`
}

// Experience is a resume-scoped work entry. SourceType/SourceID link back
// to the achievement it was synced from, when it was synced at all.
type Experience struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	ResumeID    uint    `gorm:"index" json:"resumeId"`
	SourceType  *string `gorm:"size:32" json:"sourceType"`
	SourceID    *uint   `json:"sourceId"`
	Company     *string `gorm:"size:255" json:"company"`
	Position    *string `gorm:"size:255" json:"position"`
	StartDate   *string `gorm:"size:64" json:"startDate"`
	EndDate     *string `gorm:"size:64" json:"endDate"`
	Current     bool    `gorm:"default:false" json:"current"`
	Description *string `json:"description"`
	OrderIndex  int     `gorm:"default:0" json:"orderIndex"`
}

type Education struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	ResumeID   uint    `gorm:"index" json:"resumeId"`
	School     *string `gorm:"size:255" json:"school"`
	Degree     *string `gorm:"size:255" json:"degree"`
	Field      *string `gorm:"size:255" json:"field"`
	StartDate  *string `gorm:"size:64" json:"startDate"`
	EndDate    *string `gorm:"size:64" json:"endDate"`
	Grade      *string `gorm:"size:64" json:"grade"`
	OrderIndex int     `gorm:"default:0" json:"orderIndex"`
}

// Skill is user-scoped. NameKey stores the lowercased name; the composite
// unique index makes duplicate names a database conflict rather than a
// best-effort application check.
type Skill struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:uniq_user_skill" json:"userId"`
	Name        string    `gorm:"size:255" json:"name"`
	NameKey     string    `gorm:"size:255;uniqueIndex:uniq_user_skill" json:"-"`
	Category    *string   `gorm:"size:64" json:"category"`
	Proficiency *string   `gorm:"size:64" json:"proficiency"`
	SourceType  *string   `gorm:"size:32" json:"sourceType"`
	SourceID    *uint     `json:"sourceId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ResumeSkill joins a user skill onto a resume; a given pair is unique.
type ResumeSkill struct {
	ID         uint `gorm:"primarykey" json:"id"`
	ResumeID   uint `gorm:"uniqueIndex:uniq_resume_skill" json:"resumeId"`
	SkillID    uint `gorm:"uniqueIndex:uniq_resume_skill" json:"skillId"`
	OrderIndex int  `gorm:"default:0" json:"orderIndex"`
}

type Certification struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	ResumeID      uint    `gorm:"index" json:"resumeId"`
	UserID        uint    `gorm:"index" json:"userId"`
	Name          string  `gorm:"size:255" json:"name"`
	Issuer        *string `gorm:"size:255" json:"issuer"`
	Date          *string `gorm:"size:64" json:"date"`
	CredentialURL *string `gorm:"size:512" json:"credentialUrl"`
	OrderIndex    int     `gorm:"default:0" json:"orderIndex"`
}

// Internship, Hackathon, Course and Project are the four achievement
// collections. They are independent of any resume until synced.

type Internship struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"index" json:"userId"`
	Company     string    `gorm:"size:255" json:"company"`
	Position    string    `gorm:"size:255" json:"position"`
	StartDate   string    `gorm:"size:64" json:"startDate"`
	EndDate     *string   `gorm:"size:64" json:"endDate"`
	Current     bool      `gorm:"default:false" json:"current"`
	Description *string   `json:"description"`
	SkillsUsed  *string   `json:"skillsUsed"`
	Location    *string   `gorm:"size:255" json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Hackathon struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"index" json:"userId"`
	Name         string    `gorm:"size:255" json:"name"`
	Organizer    *string   `gorm:"size:255" json:"organizer"`
	Date         string    `gorm:"size:64" json:"date"`
	Position     *string   `gorm:"size:255" json:"position"`
	ProjectName  *string   `gorm:"size:255" json:"projectName"`
	Description  *string   `json:"description"`
	Technologies *string   `json:"technologies"`
	TeamSize     *int      `json:"teamSize"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Course struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         uint      `gorm:"index" json:"userId"`
	Name           string    `gorm:"size:255" json:"name"`
	Platform       *string   `gorm:"size:255" json:"platform"`
	Instructor     *string   `gorm:"size:255" json:"instructor"`
	CompletionDate *string   `gorm:"size:64" json:"completionDate"`
	CertificateURL *string   `gorm:"size:512" json:"certificateUrl"`
	SkillsLearned  *string   `json:"skillsLearned"`
	Duration       *string   `gorm:"size:64" json:"duration"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Project struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"index" json:"userId"`
	Name         string    `gorm:"size:255" json:"name"`
	Description  *string   `json:"description"`
	Link         *string   `gorm:"size:512" json:"link"`
	GithubURL    *string   `gorm:"size:512" json:"githubUrl"`
	Technologies *string   `json:"technologies"`
	StartDate    *string   `gorm:"size:64" json:"startDate"`
	EndDate      *string   `gorm:"size:64" json:"endDate"`
	Status       *string   `gorm:"size:32" json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AllModels lists every entity for AutoMigrate at bootstrap.
func AllModels() []any {
	return []any{
		&User{},
		&Resume{},
		&PersonalInfo{},
		&Experience{},
		&Education{},
		&Skill{},
		&ResumeSkill{},
		&Certification{},
		&Internship{},
		&Hackathon{},
		&Course{},
		&Project{},
	}
}
