package tarot

// Suit identifies the arcana grouping of a card.
type Suit string

const (
	SuitMajor     Suit = "major"
	SuitWands     Suit = "wands"
	SuitCups      Suit = "cups"
	SuitSwords    Suit = "swords"
	SuitPentacles Suit = "pentacles"
)

// MinorSuits is the canonical suit order used throughout the Book T sequence.
var MinorSuits = []Suit{SuitWands, SuitCups, SuitSwords, SuitPentacles}

// Element returns the elemental attribution of a minor suit.
// Major arcana cards carry their own element and return "".
func (s Suit) Element() string {
	switch s {
	case SuitWands:
		return "Fire"
	case SuitCups:
		return "Water"
	case SuitSwords:
		return "Air"
	case SuitPentacles:
		return "Earth"
	}
	return ""
}

// Court rank numbers. Pips run 1 (ace) through 10.
const (
	NumberPage   = 11
	NumberKnight = 12
	NumberQueen  = 13
	NumberKing   = 14
)

// Card is an immutable record from the canonical corpus.
type Card struct {
	Name            string    `json:"name"`
	Number          int       `json:"number"`
	Suit            Suit      `json:"suit"`
	Element         string    `json:"element"`
	Keywords        []string  `json:"keywords"`
	UprightMeaning  string    `json:"upright_meaning"`
	ReversedMeaning string    `json:"reversed_meaning"`
	Astrological    string    `json:"astrological,omitempty"`
	Kabbalistic     string    `json:"kabbalistic,omitempty"`
	Decan           string    `json:"decan,omitempty"`
	Symbolism       []string  `json:"symbolism,omitempty"`
	EnhancedMeaning string    `json:"enhanced_meaning,omitempty"`
	Embedding       []float32 `json:"embedding,omitempty"`
}

// IsMajor reports whether the card belongs to the major arcana.
func (c Card) IsMajor() bool {
	return c.Suit == SuitMajor
}

// Meaning returns the static meaning text for the given orientation.
func (c Card) Meaning(reversed bool) string {
	if reversed {
		return c.ReversedMeaning
	}
	return c.UprightMeaning
}

// Validate checks the card's structural invariants: the number range must
// match the suit classification (0-21 major, 1-14 minor) and minor cards
// must carry their suit's element.
func (c Card) Validate() error {
	if c.Name == "" {
		return &DataIntegrityError{Reason: "card with empty name"}
	}
	switch c.Suit {
	case SuitMajor:
		if c.Number < 0 || c.Number > 21 {
			return &DataIntegrityError{Reason: "major arcana number out of range 0-21", Card: c.Name}
		}
	case SuitWands, SuitCups, SuitSwords, SuitPentacles:
		if c.Number < 1 || c.Number > NumberKing {
			return &DataIntegrityError{Reason: "minor arcana number out of range 1-14", Card: c.Name}
		}
		if c.Element != "" && c.Element != c.Suit.Element() {
			return &DataIntegrityError{Reason: "element does not match suit", Card: c.Name}
		}
	default:
		return &DataIntegrityError{Reason: "unknown suit " + string(c.Suit), Card: c.Name}
	}
	return nil
}

// DrawnCard is a card placed into a reading together with its orientation.
type DrawnCard struct {
	Card     Card `json:"card"`
	Reversed bool `json:"reversed"`
}

// Meaning returns the orientation-appropriate static meaning.
func (d DrawnCard) Meaning() string {
	return d.Card.Meaning(d.Reversed)
}
