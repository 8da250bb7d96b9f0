package rubric_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ielts-tools/rater-api/internal/rubric"
)

const validRatingJSON = `{
  "task_achievement": {"score": 6.5, "feedback": "Addresses the task."},
  "coherence_cohesion": {"score": 6.0, "feedback": "Mostly well organized."},
  "lexical_resource": {"score": 7.0, "feedback": "Good range of vocabulary."},
  "grammatical_range": {"score": 6.0, "feedback": "Some complex structures."},
  "overall_score": 6.5,
  "overall_feedback": "A solid response with room to grow."
}`

func TestExtractRatingFromBareJSON(t *testing.T) {
	rating, err := rubric.ExtractRating(validRatingJSON)
	require.NoError(t, err)
	require.InDelta(t, 6.5, rating.TaskAchievement.Score, 0.001)
	require.InDelta(t, 6.0, rating.CoherenceCohesion.Score, 0.001)
	require.InDelta(t, 7.0, rating.LexicalResource.Score, 0.001)
	require.InDelta(t, 6.0, rating.GrammaticalRange.Score, 0.001)
	require.InDelta(t, 6.5, rating.OverallScore, 0.001)
	require.Equal(t, "A solid response with room to grow.", rating.OverallFeedback)
	require.NotEmpty(t, rating.TaskAchievement.Feedback)
}

func TestExtractRatingIgnoresSurroundingProse(t *testing.T) {
	raw := "Certainly! Here is my assessment:\n\n" + validRatingJSON + "\n\nLet me know if you need anything else."
	rating, err := rubric.ExtractRating(raw)
	require.NoError(t, err)
	require.InDelta(t, 6.5, rating.OverallScore, 0.001)
}

func TestExtractRatingStopsAtFirstCompleteObject(t *testing.T) {
	raw := validRatingJSON + "\nAnd here is another object: {\"overall_score\": 9.0}"
	rating, err := rubric.ExtractRating(raw)
	require.NoError(t, err)
	require.InDelta(t, 6.5, rating.OverallScore, 0.001)
}

func TestExtractRatingHandlesBracesInsideFeedback(t *testing.T) {
	raw := `{
  "task_achievement": {"score": 5, "feedback": "Avoid literal {braces} in essays."},
  "coherence_cohesion": {"score": 5, "feedback": "ok"},
  "lexical_resource": {"score": 5, "feedback": "ok"},
  "grammatical_range": {"score": 5, "feedback": "ok"},
  "overall_score": 5,
  "overall_feedback": "A closing } should not end the scan early."
}`
	rating, err := rubric.ExtractRating(raw)
	require.NoError(t, err)
	require.Equal(t, "Avoid literal {braces} in essays.", rating.TaskAchievement.Feedback)
}

func TestExtractRatingNoJSON(t *testing.T) {
	_, err := rubric.ExtractRating("I am sorry, I cannot score this response.")
	require.ErrorIs(t, err, rubric.ErrNoJSON)
}

func TestExtractRatingUnbalancedObject(t *testing.T) {
	_, err := rubric.ExtractRating(`{"task_achievement": {"score": 6`)
	require.ErrorIs(t, err, rubric.ErrNoJSON)
}

func TestExtractRatingMalformedJSON(t *testing.T) {
	_, err := rubric.ExtractRating(`{this is not json}`)
	require.ErrorIs(t, err, rubric.ErrMalformedJSON)
}

func TestExtractRatingMissingDimension(t *testing.T) {
	raw := `{
  "task_achievement": {"score": 6, "feedback": "ok"},
  "coherence_cohesion": {"score": 6, "feedback": "ok"},
  "lexical_resource": {"score": 6, "feedback": "ok"},
  "overall_score": 6,
  "overall_feedback": "ok"
}`
	_, err := rubric.ExtractRating(raw)
	var missing *rubric.MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "grammatical_range", missing.Field)
}

func TestExtractRatingMissingSubKey(t *testing.T) {
	raw := `{
  "task_achievement": {"score": 6},
  "coherence_cohesion": {"score": 6, "feedback": "ok"},
  "lexical_resource": {"score": 6, "feedback": "ok"},
  "grammatical_range": {"score": 6, "feedback": "ok"},
  "overall_score": 6,
  "overall_feedback": "ok"
}`
	_, err := rubric.ExtractRating(raw)
	var missing *rubric.MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "task_achievement.feedback", missing.Field)
}

func TestExtractRatingCoercesQuotedScores(t *testing.T) {
	raw := `{
  "task_achievement": {"score": "6.5", "feedback": "ok"},
  "coherence_cohesion": {"score": 6, "feedback": "ok"},
  "lexical_resource": {"score": 6, "feedback": "ok"},
  "grammatical_range": {"score": 6, "feedback": "ok"},
  "overall_score": "7",
  "overall_feedback": "ok"
}`
	rating, err := rubric.ExtractRating(raw)
	require.NoError(t, err)
	require.InDelta(t, 6.5, rating.TaskAchievement.Score, 0.001)
	require.InDelta(t, 7.0, rating.OverallScore, 0.001)
}

func TestExtractRatingRejectsNonNumericScore(t *testing.T) {
	raw := `{
  "task_achievement": {"score": "band six", "feedback": "ok"},
  "coherence_cohesion": {"score": 6, "feedback": "ok"},
  "lexical_resource": {"score": 6, "feedback": "ok"},
  "grammatical_range": {"score": 6, "feedback": "ok"},
  "overall_score": 6,
  "overall_feedback": "ok"
}`
	_, err := rubric.ExtractRating(raw)
	var coercion *rubric.CoercionError
	require.True(t, errors.As(err, &coercion))
	require.Equal(t, "task_achievement.score", coercion.Field)
}
