package model

import "time"

// PracticeSession is the stored record of one scored interaction:
// the question, the persona, the raw response and the evaluation
// outcome. The progress record aggregates these; this document keeps
// the full detail for review.
type PracticeSession struct {
	SessionID       string    `bson:"session_id" json:"session_id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	QuestionID      int       `bson:"question_id" json:"question_id"`
	PersonaID       string    `bson:"persona_id" json:"persona_id"`
	Category        string    `bson:"category" json:"category"`
	UserResponse    string    `bson:"user_response" json:"user_response"`
	Score           float64   `bson:"score" json:"score"`
	Feedback        string    `bson:"feedback" json:"feedback"`
	DurationSeconds int       `bson:"duration_seconds" json:"duration_seconds"`
	Timestamp       time.Time `bson:"timestamp" json:"timestamp"`
}
