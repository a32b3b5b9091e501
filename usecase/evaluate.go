package usecase

import (
	"fmt"
	"strings"

	"main/model"
)

// Evaluation is the scored outcome of one practice response. The
// progress engine only ever consumes the Score; everything else is
// user-facing feedback.
type Evaluation struct {
	Score                   float64  `json:"score"`
	Feedback                string   `json:"feedback"`
	PrioritiesCovered       []string `json:"priorities_covered"`
	EngagementPointsCovered []string `json:"engagement_points_covered"`
	MissingPoints           []string `json:"missing_points"`
}

// ScoreResponse grades a free-text answer against the persona's
// priorities (40 points), its engagement tips (40 points) and the
// question's key themes (20 points). A priority or tip counts as
// covered when any of its three leading keywords appears in the
// response.
func ScoreResponse(question *model.Question, persona *model.Persona, userResponse string) Evaluation {
	responseLower := strings.ToLower(userResponse)

	var prioritiesCovered []string
	for _, priority := range persona.Priorities {
		if coversPhrase(responseLower, priority) {
			prioritiesCovered = append(prioritiesCovered, priority)
		}
	}

	var engagementCovered []string
	for _, tip := range persona.EngagementTips {
		if coversPhrase(responseLower, tip) {
			engagementCovered = append(engagementCovered, tip)
		}
	}

	themesCovered := 0
	for _, theme := range question.KeyThemes {
		if strings.Contains(responseLower, strings.ToLower(theme)) {
			themesCovered++
		}
	}

	var priorityScore, engagementScore float64
	if len(persona.Priorities) > 0 {
		priorityScore = float64(len(prioritiesCovered)) / float64(len(persona.Priorities)) * 40
	}
	if len(persona.EngagementTips) > 0 {
		engagementScore = float64(len(engagementCovered)) / float64(len(persona.EngagementTips)) * 40
	}
	themeScore := 20.0
	if len(question.KeyThemes) > 0 {
		themeScore = float64(themesCovered) / float64(len(question.KeyThemes)) * 20
	}

	totalScore := priorityScore + engagementScore + themeScore
	if totalScore > 100 {
		totalScore = 100
	}

	feedback := fmt.Sprintf("You scored %.1f/100. ", totalScore)
	switch {
	case totalScore >= 80:
		feedback += "Excellent response! "
	case totalScore >= 60:
		feedback += "Good response, but could be improved. "
	default:
		feedback += "Your response needs improvement. "
	}

	var missing []string
	missing = append(missing, firstMissing(persona.Priorities, prioritiesCovered, 3)...)
	missing = append(missing, firstMissing(persona.EngagementTips, engagementCovered, 3)...)

	return Evaluation{
		Score:                   totalScore,
		Feedback:                feedback,
		PrioritiesCovered:       prioritiesCovered,
		EngagementPointsCovered: engagementCovered,
		MissingPoints:           missing,
	}
}

// coversPhrase reports whether any of the first three words of the
// phrase appears in the lowercased response.
func coversPhrase(responseLower, phrase string) bool {
	words := strings.Fields(strings.ToLower(phrase))
	if len(words) > 3 {
		words = words[:3]
	}
	for _, word := range words {
		if strings.Contains(responseLower, word) {
			return true
		}
	}
	return false
}

func firstMissing(all, covered []string, limit int) []string {
	coveredSet := make(map[string]struct{}, len(covered))
	for _, c := range covered {
		coveredSet[c] = struct{}{}
	}

	var missing []string
	for _, item := range all {
		if _, ok := coveredSet[item]; ok {
			continue
		}
		missing = append(missing, item)
		if len(missing) == limit {
			break
		}
	}
	return missing
}

// modelAnswerTemplates opens a model answer per question category.
var modelAnswerTemplates = map[string]string{
	"Cost & Value":                                "I understand the cost concern. Let me address the value proposition by highlighting...",
	"Clinical Data & Evidence":                    "That's an excellent question about the data. Let me walk you through...",
	"Patient Acceptance & Treatment Burden":       "Patient experience is crucial. Here's what we're seeing...",
	"Clinical Decision-Making & Time Constraints": "I appreciate your time constraints. Let me provide the key information...",
	"Data Validity & Study Design":                "Let me explain the study methodology...",
	"Treatment Practicality":                      "That's a practical consideration. Here's how it works...",
	"Skepticism & Pushback":                       "I appreciate your skepticism. Let me address that directly...",
}

// ModelAnswer is the generated reference response for a question.
type ModelAnswer struct {
	QuestionID int      `json:"question_id"`
	Question   string   `json:"question"`
	Category   string   `json:"category"`
	Answer     string   `json:"model_answer"`
	KeyPoints  []string `json:"key_points"`
	Reasoning  string   `json:"reasoning"`
}

// GenerateModelAnswer builds a reference answer for a question from
// its category template and key themes.
func GenerateModelAnswer(question *model.Question) ModelAnswer {
	base, ok := modelAnswerTemplates[question.Category]
	if !ok {
		base = "Let me address your question..."
	}

	answer := base
	if len(question.KeyThemes) > 0 {
		answer += " I'll cover " + strings.Join(question.KeyThemes, ", ") + "."
	}

	return ModelAnswer{
		QuestionID: question.ID,
		Question:   question.Question,
		Category:   question.Category,
		Answer:     answer,
		KeyPoints:  question.KeyThemes,
		Reasoning:  fmt.Sprintf("This answer addresses the %s concern by covering: %s.", question.Category, strings.Join(question.KeyThemes, ", ")),
	}
}
