package rag

// QuestionContextKey keys retrieved context belonging to the querent's
// question rather than a specific card.
const QuestionContextKey = "__question__"

// Interpretation is the schema-constrained output requested from the
// generation provider for a reading.
type Interpretation struct {
	Interpretation string        `json:"interpretation"`
	Summary        string        `json:"summary"`
	CardInsights   []CardInsight `json:"card_insights"`
}

// CardInsight ties one paragraph of the narrative to a drawn card.
type CardInsight struct {
	Card    string `json:"card"`
	Insight string `json:"insight"`
}
