package insight

import (
	"fmt"
	"strings"

	"github.com/reverblab/reverb/core"
)

// DefaultNoEchoSummary is returned when today's notes have no echoes in the
// history. Finding none is a normal outcome, not a failure.
const DefaultNoEchoSummary = "Today's notes don't visibly echo anything in your history — that's normal, it usually means you're exploring a new direction."

const verdictFormat = `Reply with a single JSON object and nothing else:
{"worth": true or false, "question": "one open question, empty if worth is false", "rationale": "one short sentence on why"}`

// singleNotePrompt asks for a worthiness verdict on one note in isolation.
func singleNotePrompt(note core.Note) string {
	var b strings.Builder
	b.WriteString("You are an insight-triggering companion for a personal journal.\n\n")
	b.WriteString("The user just wrote down a thought. Decide whether this thought is worth deepening right now — ")
	b.WriteString("not the most emotional or most concrete thought, but one that touches a habit of judgment, ")
	b.WriteString("a conflict of perspectives, or a tension the user has hinted at without unfolding.\n\n")
	b.WriteString("Do not summarize, evaluate, or advise. If it is worth deepening, offer one light, open question as a hook.\n\n")
	fmt.Fprintf(&b, "The thought:\n%s\n\n", note.Content)
	b.WriteString(verdictFormat)
	return b.String()
}

// echoPrompt asks whether the echo pattern between a new note and its closest
// historical matches is itself worth surfacing.
func echoPrompt(note core.Note, matches []core.EchoMatch) string {
	var b strings.Builder
	b.WriteString("You are a companion that notices historical threads in a personal journal.\n\n")
	b.WriteString("Today's thought resonates with some earlier entries. Decide whether this echo is worth pointing out — ")
	b.WriteString("a pattern or tension that is starting to surface, not a conclusion. Prefer noticing over analyzing.\n\n")
	fmt.Fprintf(&b, "Today's thought:\n%s\n\nEarlier entries it echoes:\n", note.Content)
	for _, m := range matches {
		fmt.Fprintf(&b, "- [%s] %s (similarity: %.2f)\n", m.Note.Date(), m.Note.Content, m.Similarity)
	}
	b.WriteString("\n")
	b.WriteString(verdictFormat)
	return b.String()
}

// followUpPrompt generates a standalone follow-up question from the note
// content alone. Free text, not a verdict request.
func followUpPrompt(note core.Note) string {
	var b strings.Builder
	b.WriteString("You are an insight-triggering companion for a personal journal.\n\n")
	b.WriteString("Generate exactly one guiding question for the thought below. The question should be light, open, ")
	b.WriteString("and leave the user free to pick it up or not. Do not summarize, conclude, or advise. ")
	b.WriteString("Output only the question itself.\n\n")
	fmt.Fprintf(&b, "The thought:\n%s\n", note.Content)
	return b.String()
}

// summaryPrompt asks for one restrained paragraph about the echo pattern
// across today's notes.
func summaryPrompt(groups []core.EchoGroup) string {
	var b strings.Builder
	b.WriteString("You are a companion that notices historical threads in a personal journal.\n\n")
	b.WriteString("Some of today's thoughts echo earlier entries. Point out one pattern or tension that seems to be ")
	b.WriteString("surfacing, the way the user might notice it while leafing through old pages. It may stay vague and ")
	b.WriteString("unfinished — more \"I notice...\" than \"this means...\". No advice, no verdicts, no analytic phrasing. ")
	b.WriteString("A short paragraph; leave room rather than filling it.\n\n")
	b.WriteString("The echoing fragments:\n")
	for i, g := range groups {
		fmt.Fprintf(&b, "%d. Today: %s\n   Echoes:\n", i+1, g.Note.Content)
		for _, m := range g.Matches {
			fmt.Fprintf(&b, "   - [%s] %s (similarity: %.2f)\n", m.Note.Date(), m.Note.Content, m.Similarity)
		}
	}
	b.WriteString("\nWrite the noticed thread:")
	return b.String()
}
