package rubric

import (
	"strconv"
	"strings"

	"github.com/ielts-tools/rater-api/internal/dto"
)

// WordCount reports the whitespace-delimited token count of text. The count
// is shown to the model for context only; no length limit is enforced.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// BuildPrompt renders the examiner prompt for a submission. Pure function of
// its input: the rubric definitions, the literal question and response, the
// response word count, and the exact JSON shape the model must reply with.
func BuildPrompt(sub dto.WritingSubmissionRequest) string {
	builder := strings.Builder{}
	builder.WriteString("You are a certified IELTS examiner, assessing the following ")
	builder.WriteString(string(sub.TaskType))
	builder.WriteString(" response according to official IELTS scoring criteria.\n")
	builder.WriteString("\n### IELTS Assessment Criteria:\n")
	builder.WriteString("- Task Achievement (for Task 1) / Task Response (for Task 2): relevance, clarity, and completeness of the answer.\n")
	builder.WriteString("- Coherence & Cohesion: logical organization, paragraphing, and use of linking words.\n")
	builder.WriteString("- Lexical Resource: range, accuracy, and appropriateness of vocabulary.\n")
	builder.WriteString("- Grammatical Range & Accuracy: variety and correctness of sentence structures.\n")
	builder.WriteString("- Overall Band Score: the final IELTS writing band score (0-9, increments of 0.5).\n")
	builder.WriteString("\n### Task Question:\n")
	builder.WriteString(sub.Question)
	builder.WriteString("\n\n### Student Response (")
	builder.WriteString(strconv.Itoa(WordCount(sub.Response)))
	builder.WriteString(" words):\n")
	builder.WriteString(sub.Response)
	builder.WriteString("\n\n### Instructions:\n")
	builder.WriteString("- Rate the response fairly based on IELTS standards, avoiding extreme scores unless justified.\n")
	builder.WriteString("- Provide a detailed but concise explanation for each category.\n")
	builder.WriteString("- Ensure balanced feedback with both strengths and weaknesses.\n")
	builder.WriteString("- Assign scores in 0.5 increments to match IELTS standards.\n")
	builder.WriteString("\n### Return JSON Format (use realistic scores and feedback):\n")
	builder.WriteString(jsonShapeExample)
	return builder.String()
}

const jsonShapeExample = `{
  "task_achievement": {
    "score": [realistic_score],
    "feedback": "[Explain how well the response answers the question. Mention strengths and areas for improvement.]"
  },
  "coherence_cohesion": {
    "score": [realistic_score],
    "feedback": "[Assess logical flow, paragraphing, and use of linking words. Highlight improvements.]"
  },
  "lexical_resource": {
    "score": [realistic_score],
    "feedback": "[Evaluate vocabulary range and accuracy. Mention strong word choices and any misused words.]"
  },
  "grammatical_range": {
    "score": [realistic_score],
    "feedback": "[Review sentence structures, grammatical errors, and complexity. Suggest improvements.]"
  },
  "overall_score": [realistic_overall_score],
  "overall_feedback": "[Summarize the response quality, key strengths, and areas for improvement.]"
}`
