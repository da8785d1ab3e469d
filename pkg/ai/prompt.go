package ai

import "strings"

// SystemPrompt fixes the oracle persona and its grading policy. The
// instruction to never reveal a complete working solution is an anti-cheating
// requirement of the product, not a stylistic choice.
func SystemPrompt() string {
	return "You are a Korean high school programming teacher acting as an automated grading system. " +
		"Grade the student's code statically: never execute it, reason about it from the text alone. " +
		"The score must fall within the inclusive range 0 to max_score. " +
		"Penalize syntax errors and code that would crash at runtime heavily; penalize cosmetic issues such as naming or formatting lightly. " +
		"Respond with exactly one JSON object in the grading schema and nothing else. " +
		"Never reveal a complete working solution in your feedback; give partial hints only."
}

// UserPrompt renders the grading request for one submission. It is a pure
// function of its input: identical inputs yield byte-identical prompts.
func UserPrompt(input GradingInput) string {
	builder := strings.Builder{}
	builder.WriteString("The following is a programming exercise and a student's submitted code.\n")
	builder.WriteString("\n[Problem]\nTitle: ")
	builder.WriteString(input.ProblemTitle)
	builder.WriteString("\nDescription: ")
	builder.WriteString(input.ProblemDescription)
	builder.WriteString("\n\n[Sample Input]\n")
	builder.WriteString(orNone(input.SampleInput))
	builder.WriteString("\n\n[Sample Output]\n")
	builder.WriteString(orNone(input.SampleOutput))
	builder.WriteString("\n\n[Reference Solution]\n")
	builder.WriteString(input.AnswerCode)
	builder.WriteString("\n\n[Rubric]\n")
	builder.WriteString(input.Rubric)
	builder.WriteString("\n\n[Student]\n")
	builder.WriteString(input.StudentLabel)
	builder.WriteString("\n\n[Student Code]\n")
	builder.WriteString(input.Code)
	builder.WriteString("\n\nGrade the submission against the rubric and return the result ")
	builder.WriteString("as exactly one JSON object with this schema:\n")
	builder.WriteString("- score: number, the student's score (0 to max_score)\n")
	builder.WriteString("- max_score: number, the score ceiling for this problem\n")
	builder.WriteString("- feedback: string, feedback the student can act on (concrete directions, no full solution)\n")
	builder.WriteString("- summary: string, one short line, e.g. \"output correct but naming rule violated\"\n")
	builder.WriteString("\nExample:\n")
	builder.WriteString(`{"score": 8, "max_score": 10, "feedback": "...", "summary": "..."}`)
	return builder.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
