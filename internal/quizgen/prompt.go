package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert educator creating a multiple-choice quiz based on the provided text.

Rules:
- Respond in the same language as the input text.
- Each question has exactly one correct answer and usually four options.
- Options within a question must be distinct.
- correctAnswer must repeat the text of the correct option exactly.
- Distractors should be plausible, reflecting common misunderstandings of the material.`

// buildUserMessage asks for count questions about text.
func buildUserMessage(text string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The quiz should consist of %d questions.\n\n", count)
	b.WriteString("Here is the text to generate the quiz from:\n")
	b.WriteString(strings.TrimSpace(text))
	return b.String()
}
