package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Content generation types accepted by the generate-content endpoint.
const (
	ContentCoverLetter    = "cover-letter"
	ContentLinkedIn       = "linkedin"
	ContentJobDescription = "job-description"
	ContentBio            = "bio"
)

// Improvement types accepted by the improve-resume endpoint.
const (
	ImproveSummary     = "summary"
	ImproveExperience  = "experience"
	ImproveSkills      = "skills"
	ImproveATSFriendly = "ats-friendly"
	ImproveKeywords    = "keywords"
)

// ContentPrompt maps a content type and its free-form inputs onto a
// prompt template. Returns false when the type is unknown.
func ContentPrompt(contentType string, inputs map[string]string) (string, bool) {
	get := func(key string) string { return strings.TrimSpace(inputs[key]) }

	switch contentType {
	case ContentCoverLetter:
		return fmt.Sprintf(
			"Write a professional %s cover letter for a %s position at %s. The candidate has %s of experience. Make it compelling, specific, and ATS-friendly. Include proper formatting with paragraphs.",
			get("tone"), get("jobTitle"), get("company"), get("experience"),
		), true
	case ContentLinkedIn:
		return fmt.Sprintf(
			"Write a %s LinkedIn summary for a %s with %s years of experience. Key skills: %s. Make it engaging, professional, and include relevant emojis where appropriate. Keep it concise but impactful.",
			get("tone"), get("role"), get("years"), get("skills"),
		), true
	case ContentJobDescription:
		return fmt.Sprintf(
			"Create a comprehensive job description for a %s position in the %s department. Employment type: %s. Include: role overview, key responsibilities (5-7 bullet points), qualifications (5-6 bullet points), and what the company offers. Make it professional and attractive to candidates.",
			get("title"), get("department"), get("type"),
		), true
	case ContentBio:
		return fmt.Sprintf(
			"Write a %s professional bio for %s, who is a %s specializing in %s. Make it engaging, concise (2-3 paragraphs), and highlight their expertise and personality.",
			get("tone"), get("name"), get("profession"), get("specialty"),
		), true
	}
	return "", false
}

// ImprovePrompt builds the prompt for one improve-resume variant. Unknown
// types fall back to a generic improvement prompt.
func ImprovePrompt(improveType, text, context string) string {
	switch improveType {
	case ImproveSummary:
		return fmt.Sprintf("Improve this resume summary to be more professional, impactful, and ATS-friendly. Keep it concise (2-3 sentences) and focus on key achievements and skills:\n\n%q\n\nReturn only the improved summary text, nothing else.", text)
	case ImproveExperience:
		if context == "" {
			context = "Software Engineering role"
		}
		return fmt.Sprintf("Improve this job experience bullet point to be more impactful and achievement-focused. Use action verbs and quantify results when possible:\n\n%q\n\nContext: %s\n\nReturn only the improved bullet point, nothing else.", text, context)
	case ImproveSkills:
		if context == "" {
			context = "Software Engineer"
		}
		return fmt.Sprintf("Given this list of skills: %q\n\nFor the role: %s\n\nSuggest 5-10 additional relevant skills that would strengthen this resume. Return as a comma-separated list.", text, context)
	case ImproveATSFriendly:
		return fmt.Sprintf("Rewrite this resume text to be more ATS (Applicant Tracking System) friendly. Use industry-standard keywords and avoid complex formatting:\n\n%q\n\nReturn only the ATS-optimized text, nothing else.", text)
	case ImproveKeywords:
		if context == "" {
			context = "Software Engineer"
		}
		return fmt.Sprintf("Add relevant industry keywords to this resume text for a %s position:\n\n%q\n\nReturn the enhanced text with keywords naturally integrated.", context, text)
	}
	return fmt.Sprintf("Improve this resume text to be more professional and impactful:\n\n%q\n\nReturn only the improved text, nothing else.", text)
}

// ATSCheckPrompt asks for the structured ATS score analysis.
func ATSCheckPrompt(resumeData json.RawMessage, jobTitle string) string {
	if jobTitle == "" {
		jobTitle = "software engineering"
	}
	return fmt.Sprintf(`You are an ATS (Applicant Tracking System) expert. Analyze the following resume for a %s position and provide a detailed ATS score analysis.

Resume Data:
%s

Provide your response in the following JSON format (respond ONLY with valid JSON, no additional text):
{
  "score": <number 0-100>,
  "issues": [
    {
      "type": "error" | "warning" | "success",
      "title": "Issue title",
      "description": "Detailed description",
      "suggestion": "How to fix this"
    }
  ],
  "keywords": {
    "found": ["keyword1", "keyword2"],
    "missing": ["keyword3", "keyword4"],
    "repeated": ["keyword5"]
  },
  "scoreBreakdown": {
    "formatting": <number 0-100>,
    "keywords": <number 0-100>,
    "content": <number 0-100>,
    "experience": <number 0-100>
  }
}

Analyze:
1. Formatting issues (tables, images, columns that ATS can't parse)
2. Keyword optimization for %s
3. Content quality and relevance
4. Experience presentation
5. Missing critical sections

Provide actionable suggestions for improvement.`, jobTitle, resumeData, jobTitle)
}

// AnalyzePrompt asks for the composite career analysis of a resume.
func AnalyzePrompt(resumeText, targetRole string) string {
	if targetRole == "" {
		targetRole = "General Professional"
	}
	return fmt.Sprintf(`You are an expert career coach and ATS specialist. Analyze this resume comprehensively:

TARGET ROLE: %s

RESUME DATA:
%s

Provide a detailed analysis in the following JSON format:
{
  "resumeScore": <number 0-100>,
  "atsScore": <number 0-100>,
  "skillGaps": {
    "missing": [<array of skills missing for target role>],
    "recommended": [<array of skills to add>],
    "current": [<array of current strong skills>]
  },
  "suggestions": [
    {
      "type": "summary|experience|skills|formatting|keywords",
      "priority": "high|medium|low",
      "title": "<short title>",
      "description": "<detailed description>",
      "impact": "<expected impact>"
    }
  ],
  "keywordAnalysis": {
    "actionVerbs": <count>,
    "quantifiableResults": <count>,
    "industryKeywords": [<array of found industry keywords>],
    "missingKeywords": [<array of important missing keywords>]
  },
  "improvements": {
    "summary": "<improved summary text>",
    "experience": [<array of improved experience bullets>],
    "skills": [<array of recommended skills to add>],
    "overall": "<overall improvement strategy>"
  }
}

Be specific, actionable, and focus on measurable improvements.`, targetRole, resumeText)
}

// StripJSONFences removes Markdown code fences models tend to wrap JSON
// responses in.
func StripJSONFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
