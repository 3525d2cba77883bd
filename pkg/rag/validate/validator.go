package validate

import (
	"fmt"
	"strings"

	"ai-tarot-be/pkg/rag"
	"ai-tarot-be/pkg/tarot"
)

// Outcome is the result of validating a generated interpretation. Issues
// describe every failed check; an interpretation with no issues is Valid.
type Outcome struct {
	Valid  bool
	Issues []string
}

// placeholderMarkers are artifacts of an incomplete or templated response.
var placeholderMarkers = []string{
	"tbd",
	"{{",
	"[insert",
	"as an ai",
	"as a language model",
	"lorem ipsum",
}

// Interpretation checks a parsed interpretation against the drawn cards.
// Validation never mutates the interpretation.
func Interpretation(result rag.Interpretation, cards []tarot.DrawnCard) Outcome {
	var issues []string

	if strings.TrimSpace(result.Interpretation) == "" {
		issues = append(issues, "interpretation is empty")
	}
	if strings.TrimSpace(result.Summary) == "" {
		issues = append(issues, "summary is empty")
	}

	issues = append(issues, placeholderIssues(result)...)
	issues = append(issues, insightIssues(result.CardInsights, cards)...)

	return Outcome{Valid: len(issues) == 0, Issues: issues}
}

func placeholderIssues(result rag.Interpretation) []string {
	var issues []string
	for _, field := range []struct {
		name string
		text string
	}{
		{"interpretation", result.Interpretation},
		{"summary", result.Summary},
	} {
		lowered := strings.ToLower(field.text)
		for _, marker := range placeholderMarkers {
			if strings.Contains(lowered, marker) {
				issues = append(issues, fmt.Sprintf("%s contains placeholder artifact %q", field.name, marker))
			}
		}
	}
	return issues
}

// insightIssues checks that every insight names a card that was actually
// drawn. Missing insights for a drawn card are tolerated; invented cards
// are not.
func insightIssues(insights []rag.CardInsight, cards []tarot.DrawnCard) []string {
	drawn := make(map[string]bool, len(cards))
	for _, c := range cards {
		drawn[strings.ToLower(c.Card.Name)] = true
	}

	var issues []string
	for _, insight := range insights {
		if strings.TrimSpace(insight.Insight) == "" {
			issues = append(issues, fmt.Sprintf("insight for %q is empty", insight.Card))
		}
		if !drawn[strings.ToLower(insight.Card)] {
			issues = append(issues, fmt.Sprintf("insight references %q which was not drawn", insight.Card))
		}
	}
	return issues
}
