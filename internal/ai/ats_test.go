package ai

import (
	"strings"
	"testing"
)

func TestParseATSAnalysisFallsBack(t *testing.T) {
	got := ParseATSAnalysis("I am unable to produce JSON today.")
	if got.Score != 75 {
		t.Fatalf("Score = %d, want fallback 75", got.Score)
	}
	if len(got.Issues) != 1 || got.Issues[0].Title != "Analysis Parsing Issue" {
		t.Fatalf("Issues = %+v", got.Issues)
	}
	if got.ScoreBreakdown.Keywords != 70 {
		t.Fatalf("ScoreBreakdown = %+v", got.ScoreBreakdown)
	}
}

func TestParseATSAnalysisStripsFences(t *testing.T) {
	text := "```json\n{\"score\": 91, \"issues\": [], \"keywords\": {\"found\": [\"go\"]}, \"scoreBreakdown\": {\"formatting\": 95}}\n```"
	got := ParseATSAnalysis(text)
	if got.Score != 91 {
		t.Fatalf("Score = %d, want 91", got.Score)
	}
	if got.ScoreBreakdown.Formatting != 95 {
		t.Fatalf("Formatting = %d", got.ScoreBreakdown.Formatting)
	}
	// Omitted arrays come back as empty slices, not nulls.
	if got.Keywords.Missing == nil || got.Keywords.Repeated == nil {
		t.Fatalf("Keywords = %+v", got.Keywords)
	}
}

func TestContentPromptUnknownType(t *testing.T) {
	if _, ok := ContentPrompt("sonnet", nil); ok {
		t.Fatal("unknown type should not map to a prompt")
	}
}

func TestImprovePromptDefaultsContext(t *testing.T) {
	prompt := ImprovePrompt(ImproveExperience, "Did things", "")
	if want := "Software Engineering role"; !strings.Contains(prompt, want) {
		t.Fatalf("prompt missing default context %q:\n%s", want, prompt)
	}
}
