package rubric

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/ielts-tools/rater-api/internal/dto"
)

// ErrNoJSON indicates the model reply contains no complete JSON object.
var ErrNoJSON = errors.New("no json object found in model reply")

// ErrMalformedJSON indicates a brace-balanced candidate was found but does
// not parse as JSON.
var ErrMalformedJSON = errors.New("embedded json object is malformed")

// MissingFieldError reports a required rating key that the parsed object
// does not contain.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "rating object is missing required field " + e.Field
}

// CoercionError reports a score field whose value cannot be read as a number.
type CoercionError struct {
	Field string
}

func (e *CoercionError) Error() string {
	return "rating field " + e.Field + " is not a number"
}

// ExtractRating locates the first complete JSON object embedded in raw,
// parses it, and maps it into a DetailedRating. It never fills defaults: the
// result is either fully populated or an error describing what was wrong
// with the reply.
func ExtractRating(raw string) (dto.DetailedRating, error) {
	candidate, ok := firstJSONObject(raw)
	if !ok {
		return dto.DetailedRating{}, ErrNoJSON
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return dto.DetailedRating{}, ErrMalformedJSON
	}

	rating := dto.DetailedRating{}
	for _, dimension := range []struct {
		key  string
		dest *dto.Criterion
	}{
		{"task_achievement", &rating.TaskAchievement},
		{"coherence_cohesion", &rating.CoherenceCohesion},
		{"lexical_resource", &rating.LexicalResource},
		{"grammatical_range", &rating.GrammaticalRange},
	} {
		criterion, err := mapCriterion(fields, dimension.key)
		if err != nil {
			return dto.DetailedRating{}, err
		}
		*dimension.dest = criterion
	}

	overall, err := numberField(fields, "overall_score")
	if err != nil {
		return dto.DetailedRating{}, err
	}
	rating.OverallScore = overall

	feedbackRaw, ok := fields["overall_feedback"]
	if !ok {
		return dto.DetailedRating{}, &MissingFieldError{Field: "overall_feedback"}
	}
	if err := json.Unmarshal(feedbackRaw, &rating.OverallFeedback); err != nil {
		return dto.DetailedRating{}, ErrMalformedJSON
	}

	return rating, nil
}

// firstJSONObject scans raw for the first brace-balanced object, tracking
// string and escape state so braces inside feedback text do not end the
// object early. Text after the closing brace is ignored, so a reply carrying
// extra JSON-like fragments still yields only the first complete object.
func firstJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}

	return "", false
}

func mapCriterion(fields map[string]json.RawMessage, key string) (dto.Criterion, error) {
	raw, ok := fields[key]
	if !ok {
		return dto.Criterion{}, &MissingFieldError{Field: key}
	}

	var sub map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sub); err != nil {
		return dto.Criterion{}, &MissingFieldError{Field: key}
	}

	score, err := numberField(sub, key+".score", "score")
	if err != nil {
		return dto.Criterion{}, err
	}

	feedbackRaw, ok := sub["feedback"]
	if !ok {
		return dto.Criterion{}, &MissingFieldError{Field: key + ".feedback"}
	}
	var feedback string
	if err := json.Unmarshal(feedbackRaw, &feedback); err != nil {
		return dto.Criterion{}, &CoercionError{Field: key + ".feedback"}
	}

	return dto.Criterion{Score: score, Feedback: feedback}, nil
}

// numberField reads fields[key] as a float, also accepting a numeric string
// since models occasionally quote scores. label is the fully qualified field
// name used in errors; key defaults to label when omitted.
func numberField(fields map[string]json.RawMessage, label string, key ...string) (float64, error) {
	lookup := label
	if len(key) > 0 {
		lookup = key[0]
	}

	raw, ok := fields[lookup]
	if !ok {
		return 0, &MissingFieldError{Field: label}
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number, nil
	}

	var quoted string
	if err := json.Unmarshal(raw, &quoted); err == nil {
		if number, err := strconv.ParseFloat(strings.TrimSpace(quoted), 64); err == nil {
			return number, nil
		}
	}

	return 0, &CoercionError{Field: label}
}
