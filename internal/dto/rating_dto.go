package dto

// TaskType selects which IELTS writing task the submission answers.
// task1 is letter writing, task2 is essay writing; the value only changes
// the rubric wording in the prompt.
type TaskType string

const (
	TaskTypeOne TaskType = "task1"
	TaskTypeTwo TaskType = "task2"
)

// WritingSubmissionRequest is the inbound payload for a rating request.
type WritingSubmissionRequest struct {
	TaskType TaskType `json:"task_type" validate:"required,oneof=task1 task2"`
	Question string   `json:"question" validate:"required"`
	Response string   `json:"response" validate:"required"`
	Model    string   `json:"model" validate:"required"`
}

// Criterion is a single rubric dimension's score and examiner feedback.
type Criterion struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// DetailedRating is the fully populated rubric result. It is only ever
// returned complete; a rating with any missing dimension is treated as a
// failed evaluation upstream.
type DetailedRating struct {
	TaskAchievement   Criterion `json:"task_achievement"`
	CoherenceCohesion Criterion `json:"coherence_cohesion"`
	LexicalResource   Criterion `json:"lexical_resource"`
	GrammaticalRange  Criterion `json:"grammatical_range"`
	OverallScore      float64   `json:"overall_score"`
	OverallFeedback   string    `json:"overall_feedback"`
}

// RatingResponse wraps a rating together with the optional diagnostic trace.
// DebugInfo is present only when the caller asked for it and never feeds back
// into scoring.
type RatingResponse struct {
	Rating    DetailedRating    `json:"rating"`
	DebugInfo map[string]string `json:"debug_info,omitempty"`
}
