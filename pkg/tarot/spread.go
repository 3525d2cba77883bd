package tarot

// SpreadType identifies a reading layout.
type SpreadType string

const (
	SpreadSingle      SpreadType = "single"
	SpreadThreeCard   SpreadType = "three_card"
	SpreadCelticCross SpreadType = "celtic_cross"
	SpreadHorseshoe   SpreadType = "horseshoe"
	SpreadCustom      SpreadType = "custom"
)

// SpreadPosition is a named slot in a layout with a fixed index into the
// draw sequence.
type SpreadPosition struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Spread is an ordered sequence of positions. Its position count equals
// the number of cards drawn for the reading.
type Spread struct {
	Type      SpreadType       `json:"type"`
	Positions []SpreadPosition `json:"positions"`
}

// Size returns the number of cards the spread requires.
func (s Spread) Size() int {
	return len(s.Positions)
}

var spreadLayouts = map[SpreadType][]string{
	SpreadSingle:    {"Present"},
	SpreadThreeCard: {"Past", "Present", "Future"},
	SpreadCelticCross: {
		"Present", "Challenge", "Foundation", "Recent Past", "Crown",
		"Near Future", "Self", "Environment", "Hopes and Fears", "Outcome",
	},
	SpreadHorseshoe: {
		"Past", "Present", "Hidden Influences", "The Querent",
		"Attitudes of Others", "Advice", "Outcome",
	},
}

// NewSpread returns the canonical layout for a spread type.
func NewSpread(t SpreadType) (Spread, error) {
	names, ok := spreadLayouts[t]
	if !ok {
		return Spread{}, &UnknownSpreadError{Type: t}
	}
	return buildSpread(t, names), nil
}

// NewCustomSpread builds a layout from caller-supplied position names.
func NewCustomSpread(names []string) (Spread, error) {
	if len(names) == 0 || len(names) > DeckSize {
		return Spread{}, &UnknownSpreadError{Type: SpreadCustom}
	}
	return buildSpread(SpreadCustom, names), nil
}

// SpreadTypes lists the built-in layouts.
func SpreadTypes() []SpreadType {
	return []SpreadType{SpreadSingle, SpreadThreeCard, SpreadCelticCross, SpreadHorseshoe}
}

func buildSpread(t SpreadType, names []string) Spread {
	positions := make([]SpreadPosition, len(names))
	for i, name := range names {
		positions[i] = SpreadPosition{Index: i, Name: name}
	}
	return Spread{Type: t, Positions: positions}
}
