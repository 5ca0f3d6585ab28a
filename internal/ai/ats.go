package ai

import "encoding/json"

// ATSIssue is a single finding in an ATS compatibility report.
type ATSIssue struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// ATSKeywords groups keyword findings.
type ATSKeywords struct {
	Found    []string `json:"found"`
	Missing  []string `json:"missing"`
	Repeated []string `json:"repeated"`
}

// ATSScoreBreakdown splits the overall score by dimension.
type ATSScoreBreakdown struct {
	Formatting int `json:"formatting"`
	Keywords   int `json:"keywords"`
	Content    int `json:"content"`
	Experience int `json:"experience"`
}

// ATSAnalysis is the structured result of an ATS compatibility check.
type ATSAnalysis struct {
	Score          int               `json:"score"`
	Issues         []ATSIssue        `json:"issues"`
	Keywords       ATSKeywords       `json:"keywords"`
	ScoreBreakdown ATSScoreBreakdown `json:"scoreBreakdown"`
}

// ParseATSAnalysis decodes the model response, falling back to a fixed
// structure when the output is not valid JSON. The caller gets a usable
// report either way; degraded analysis beats a failed request.
func ParseATSAnalysis(text string) ATSAnalysis {
	cleaned := StripJSONFences(text)
	var analysis ATSAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return FallbackATSAnalysis()
	}
	if analysis.Issues == nil {
		analysis.Issues = []ATSIssue{}
	}
	ensureKeywords(&analysis.Keywords)
	return analysis
}

// FallbackATSAnalysis is returned when the model output cannot be parsed.
func FallbackATSAnalysis() ATSAnalysis {
	return ATSAnalysis{
		Score: 75,
		Issues: []ATSIssue{
			{
				Type:        "warning",
				Title:       "Analysis Parsing Issue",
				Description: "AI response format was unexpected",
				Suggestion:  "Manual review recommended",
			},
		},
		Keywords: ATSKeywords{
			Found:    []string{},
			Missing:  []string{},
			Repeated: []string{},
		},
		ScoreBreakdown: ATSScoreBreakdown{
			Formatting: 75,
			Keywords:   70,
			Content:    80,
			Experience: 75,
		},
	}
}

// EmptyATSAnalysis is the zeroed structure attached to upstream failures.
func EmptyATSAnalysis() ATSAnalysis {
	return ATSAnalysis{
		Score:    0,
		Issues:   []ATSIssue{},
		Keywords: ATSKeywords{Found: []string{}, Missing: []string{}, Repeated: []string{}},
	}
}

func ensureKeywords(k *ATSKeywords) {
	if k.Found == nil {
		k.Found = []string{}
	}
	if k.Missing == nil {
		k.Missing = []string{}
	}
	if k.Repeated == nil {
		k.Repeated = []string{}
	}
}
