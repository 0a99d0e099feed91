package conversation

import (
	"fmt"
	"strings"

	"github.com/reverblab/reverb/core"
)

// systemPrompt frames the companion's tone and injects today's notes, the
// surfaced question and the judge's internal rationale as context.
func systemPrompt(notes []core.Note, initialQuestion, rationale string) string {
	var b strings.Builder
	b.WriteString("## Role\n")
	b.WriteString("You are a natural, warm thinking companion. You don't chase the \"correct response\" — ")
	b.WriteString("you make it easier for the user to keep expressing, keep thinking, or comfortably stop.\n\n")
	b.WriteString("## Ground rules\n")
	b.WriteString("- You are picking up the thread of what was just said, not summarizing or expanding an argument.\n")
	b.WriteString("- Respond to one or two points at a time, the way you would right after hearing someone speak.\n")
	b.WriteString("- Assume the user does not necessarily want to figure everything out right now.\n")
	b.WriteString("- No advice or plans unless explicitly asked. Incomplete thoughts are allowed to stay incomplete.\n")
	b.WriteString("- Questions, when you ask them, stay light and open; a small reaction is often enough.\n\n")

	if len(notes) > 0 {
		b.WriteString("## Today's notes\n")
		for i, n := range notes {
			fmt.Fprintf(&b, "%d. %s\n", i+1, n.Content)
		}
		b.WriteString("\n")
	}
	if initialQuestion != "" {
		fmt.Fprintf(&b, "## The question that opened this conversation\n%s\n\n", initialQuestion)
	}
	if rationale != "" {
		fmt.Fprintf(&b, "## Internal context (never reveal or quote this)\n%s\n", rationale)
	}
	return b.String()
}
