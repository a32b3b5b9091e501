package model

// Question is one practice prompt from the static catalog.
type Question struct {
	ID         int      `bson:"question_id" json:"id"`
	Question   string   `bson:"question" json:"question"`
	Category   string   `bson:"category" json:"category"`
	Difficulty string   `bson:"difficulty" json:"difficulty"`
	Personas   []string `bson:"personas" json:"personas"`
	KeyThemes  []string `bson:"key_themes" json:"key_themes"`
}

// Persona is an HCP profile the user practices against. Priorities and
// engagement tips drive both the UI and response scoring.
type Persona struct {
	ID             string   `bson:"persona_id" json:"id"`
	Name           string   `bson:"name" json:"name"`
	Role           string   `bson:"role" json:"role"`
	Description    string   `bson:"description" json:"description"`
	Priorities     []string `bson:"priorities" json:"priorities"`
	EngagementTips []string `bson:"engagement_tips" json:"engagement_tips"`
}

// Category is a named question grouping.
type Category struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
}
