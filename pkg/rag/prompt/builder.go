package prompt

import (
	"fmt"
	"sort"
	"strings"

	"ai-tarot-be/pkg/knowledge"
	"ai-tarot-be/pkg/rag"
	"ai-tarot-be/pkg/tarot"
)

// Builder composes the reading prompt from the drafted spread and the
// retrieved knowledge context.
type Builder struct {
	focus      string
	question   string
	background map[string]string
	spread     tarot.Spread
	cards      []tarot.DrawnCard
	snippets   map[string][]knowledge.Snippet
}

// NewBuilder creates a prompt builder for one reading. snippets maps a
// retrieval key (card name or the question key) to its context; a nil map
// produces the shortened, context-free prompt used for the fallback retry.
func NewBuilder(
	focus string,
	question string,
	background map[string]string,
	spread tarot.Spread,
	cards []tarot.DrawnCard,
	snippets map[string][]knowledge.Snippet,
) *Builder {
	return &Builder{
		focus:      focus,
		question:   question,
		background: background,
		spread:     spread,
		cards:      cards,
		snippets:   snippets,
	}
}

// Build creates the full prompt.
func (b *Builder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeSpread(&prompt)
	b.writeReferenceMaterial(&prompt)
	b.writeQuestion(&prompt)
	b.writeOutputContract(&prompt)

	return prompt.String()
}

// Shortened returns a copy of the builder with all retrieved context
// dropped, for the reduced retry after a generation failure.
func (b *Builder) Shortened() *Builder {
	short := *b
	short.snippets = nil
	return &short
}

func (b *Builder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are an experienced tarot reader in the Golden Dawn tradition.\n")
	prompt.WriteString("Interpret the spread below for the querent, weaving the cards into one coherent narrative.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *Builder) writeSpread(prompt *strings.Builder) {
	fmt.Fprintf(prompt, "<spread type=%q>\n", b.spread.Type)
	for i, c := range b.cards {
		position := fmt.Sprintf("Position %d", i+1)
		if i < len(b.spread.Positions) {
			position = b.spread.Positions[i].Name
		}
		orientation := "Upright"
		if c.Reversed {
			orientation = "Reversed"
		}
		fmt.Fprintf(prompt, "%d. %s — %s (%s): %s\n", i+1, position, c.Card.Name, orientation, c.Meaning())
	}
	prompt.WriteString("</spread>\n\n")
}

func (b *Builder) writeReferenceMaterial(prompt *strings.Builder) {
	if len(b.snippets) == 0 {
		return
	}

	prompt.WriteString("<reference_material>\n")
	for _, c := range b.cards {
		snips := b.snippets[c.Card.Name]
		if len(snips) == 0 {
			continue
		}
		fmt.Fprintf(prompt, "About %s:\n", c.Card.Name)
		for _, s := range snips {
			fmt.Fprintf(prompt, "- %s\n", s.Content)
		}
	}
	if questionSnips := b.snippets[rag.QuestionContextKey]; len(questionSnips) > 0 {
		prompt.WriteString("About the question:\n")
		for _, s := range questionSnips {
			fmt.Fprintf(prompt, "- %s\n", s.Content)
		}
	}
	prompt.WriteString("</reference_material>\n\n")
}

func (b *Builder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("<question>\n")
	if b.focus != "" {
		fmt.Fprintf(prompt, "Focus: %s\n", b.focus)
	}
	if b.question != "" {
		fmt.Fprintf(prompt, "Question: %s\n", b.question)
	} else {
		prompt.WriteString("Question: General reading\n")
	}
	if len(b.background) > 0 {
		keys := make([]string, 0, len(b.background))
		for k := range b.background {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		prompt.WriteString("Background:\n")
		for _, k := range keys {
			fmt.Fprintf(prompt, "- %s: %s\n", k, b.background[k])
		}
	}
	prompt.WriteString("</question>\n\n")
}

func (b *Builder) writeOutputContract(prompt *strings.Builder) {
	prompt.WriteString("<output>\n")
	prompt.WriteString("Respond with a single JSON object, no surrounding prose:\n")
	prompt.WriteString(`{"interpretation": "<the full narrative>", "summary": "<one or two sentences>", "card_insights": [{"card": "<card name>", "insight": "<one sentence>"}]}`)
	prompt.WriteString("\n")
	prompt.WriteString("Ground every statement in the cards and reference material; do not invent cards.\n")
	prompt.WriteString("</output>\n")
}
