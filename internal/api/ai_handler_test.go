package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"cvforge/internal/database"
	"cvforge/internal/errcode"
)

type fakeGenerator struct {
	reply string
	err   error

	prompts []string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func aiTestRouter(t *testing.T, gen *fakeGenerator) *gin.Engine {
	t.Helper()
	h := NewAIHandler(testDB(t), gen)
	r := gin.New()
	r.POST("/api/ai/generate-content", h.GenerateContent)
	r.POST("/api/ai/ats-check", h.ATSCheck)
	r.POST("/api/ai/improve-resume", h.ImproveResume)
	return r
}

func TestATSCheckFallsBackOnUnparseableOutput(t *testing.T) {
	r := aiTestRouter(t, &fakeGenerator{reply: "sorry, I cannot do that"})

	w := performJSON(t, r, http.MethodPost, "/api/ai/ats-check", gin.H{
		"resumeData": gin.H{"name": "Jane"},
		"jobTitle":   "Backend Engineer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["score"].(float64) != 75 {
		t.Fatalf("score = %v, want fallback 75", body["score"])
	}
	issues := body["issues"].([]any)
	if len(issues) != 1 {
		t.Fatalf("issues = %v", issues)
	}
}

func TestATSCheckFallsBackOnGeneratorError(t *testing.T) {
	r := aiTestRouter(t, &fakeGenerator{err: errors.New("quota exceeded")})

	w := performJSON(t, r, http.MethodPost, "/api/ai/ats-check", gin.H{
		"resumeData": gin.H{"name": "Jane"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want degraded 200", w.Code)
	}
	if body := decodeBody(t, w); body["score"].(float64) != 75 {
		t.Fatalf("score = %v, want fallback 75", body["score"])
	}
}

func TestATSCheckParsesStructuredOutput(t *testing.T) {
	reply := "```json\n{\"score\": 88, \"issues\": [], \"keywords\": {\"found\": [\"go\"], \"missing\": [], \"repeated\": []}, \"scoreBreakdown\": {\"formatting\": 90, \"keywords\": 85, \"content\": 88, \"experience\": 89}}\n```"
	r := aiTestRouter(t, &fakeGenerator{reply: reply})

	w := performJSON(t, r, http.MethodPost, "/api/ai/ats-check", gin.H{
		"resumeData": gin.H{"skills": []string{"Go"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["score"].(float64) != 88 {
		t.Fatalf("score = %v, want 88 from model output", body["score"])
	}
}

func TestATSCheckRequiresResumeData(t *testing.T) {
	r := aiTestRouter(t, &fakeGenerator{reply: "{}"})

	w := performJSON(t, r, http.MethodPost, "/api/ai/ats-check", gin.H{"jobTitle": "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGenerateContentUnknownType(t *testing.T) {
	r := aiTestRouter(t, &fakeGenerator{reply: "text"})

	w := performJSON(t, r, http.MethodPost, "/api/ai/generate-content", gin.H{
		"type":   "sonnet",
		"inputs": gin.H{},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGenerateContent(t *testing.T) {
	gen := &fakeGenerator{reply: "Dear Hiring Manager,\n..."}
	r := aiTestRouter(t, gen)

	w := performJSON(t, r, http.MethodPost, "/api/ai/generate-content", gin.H{
		"type": "cover-letter",
		"inputs": gin.H{
			"tone":       "professional",
			"jobTitle":   "Backend Engineer",
			"company":    "Acme",
			"experience": "3 years",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["content"] != "Dear Hiring Manager,\n..." {
		t.Fatalf("content = %v", body["content"])
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("prompts = %d", len(gen.prompts))
	}
}

func TestImproveResumeSurfacesUpstreamFailure(t *testing.T) {
	r := aiTestRouter(t, &fakeGenerator{err: errors.New("timeout")})

	w := performJSON(t, r, http.MethodPost, "/api/ai/improve-resume", gin.H{
		"text": "Responsible for stuff",
		"type": "summary",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := decodeBody(t, w); body["code"] != errcode.Upstream {
		t.Fatalf("code = %v", body["code"])
	}
}

func TestImproveResumeEchoesOriginal(t *testing.T) {
	r := aiTestRouter(t, &fakeGenerator{reply: "Drove delivery of stuff"})

	w := performJSON(t, r, http.MethodPost, "/api/ai/improve-resume", gin.H{
		"text": "Responsible for stuff",
		"type": "experience",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["original"] != "Responsible for stuff" || body["improved"] != "Drove delivery of stuff" || body["type"] != "experience" {
		t.Fatalf("body = %v", body)
	}
}

func TestAnalyzeResumePersistsScore(t *testing.T) {
	db := testDB(t)
	gen := &fakeGenerator{reply: `{"resumeScore": 82, "atsScore": 79}`}
	h := NewAIHandler(db, gen)
	r := gin.New()
	r.POST("/api/ai/analyze-resume", h.AnalyzeResume)

	user := database.User{Email: "jane@example.com", Name: "Jane"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	resume := database.Resume{UserID: user.ID, Name: "ML Resume"}
	if err := db.Create(&resume).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	w := performJSON(t, r, http.MethodPost, "/api/ai/analyze-resume", gin.H{
		"resumeId":   resume.ID,
		"targetRole": "ML Engineer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["careerProgress"] == nil {
		t.Fatal("careerProgress missing from composite analysis")
	}

	var stored database.Resume
	if err := db.First(&stored, resume.ID).Error; err != nil {
		t.Fatalf("reload resume: %v", err)
	}
	if stored.AtsScore == nil || *stored.AtsScore != 79 {
		t.Fatalf("atsScore = %v, want persisted 79", stored.AtsScore)
	}
	if len(stored.LastAnalysis) == 0 {
		t.Fatal("lastAnalysis not persisted")
	}
}

func TestAnalyzeResumeNotFound(t *testing.T) {
	h := NewAIHandler(testDB(t), &fakeGenerator{reply: "{}"})
	r := gin.New()
	r.POST("/api/ai/analyze-resume", h.AnalyzeResume)

	w := performJSON(t, r, http.MethodPost, "/api/ai/analyze-resume", gin.H{"resumeId": 12345})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
