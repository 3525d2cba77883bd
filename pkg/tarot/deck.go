package tarot

import (
	"encoding/json"
	"fmt"
	"os"
)

// DeckSize is the fixed size of a complete tarot deck.
const DeckSize = 78

// RNG abstracts random number generation so draws can be seeded in tests.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Corpus is the on-disk shape of the canonical card data.
type Corpus struct {
	Version string `json:"version"`
	Cards   []Card `json:"cards"`
}

// Deck is an ordered sequence of 78 distinct cards. The canonical deck is
// built once at startup and never mutated; Shuffle and Draw return new
// values and leave the receiver untouched.
type Deck struct {
	cards []Card
}

// NewDeck validates a corpus and returns the canonical deck. The corpus
// must contain exactly 78 structurally valid cards with unique names,
// arranged in the Book T sequence.
func NewDeck(corpus Corpus) (Deck, error) {
	if len(corpus.Cards) != DeckSize {
		return Deck{}, &DataIntegrityError{
			Reason: fmt.Sprintf("expected %d cards, got %d", DeckSize, len(corpus.Cards)),
		}
	}

	seen := make(map[string]bool, DeckSize)
	for _, c := range corpus.Cards {
		if err := c.Validate(); err != nil {
			return Deck{}, err
		}
		if seen[c.Name] {
			return Deck{}, &DataIntegrityError{Reason: "duplicate card", Card: c.Name}
		}
		seen[c.Name] = true
	}

	expected := bookTSequence()
	for i, c := range corpus.Cards {
		if c.Suit != expected[i].suit || c.Number != expected[i].number {
			return Deck{}, &DataIntegrityError{
				Reason: fmt.Sprintf("position %d violates Book T order: want %s %d, got %s %d",
					i, expected[i].suit, expected[i].number, c.Suit, c.Number),
				Card: c.Name,
			}
		}
	}

	cards := make([]Card, DeckSize)
	copy(cards, corpus.Cards)
	return Deck{cards: cards}, nil
}

// LoadDeck reads and validates the canonical corpus file.
func LoadDeck(path string) (Deck, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, "", &DataIntegrityError{Reason: "read corpus: " + err.Error()}
	}
	var corpus Corpus
	if err := json.Unmarshal(raw, &corpus); err != nil {
		return Deck{}, "", &DataIntegrityError{Reason: "parse corpus: " + err.Error()}
	}
	deck, err := NewDeck(corpus)
	if err != nil {
		return Deck{}, "", err
	}
	return deck, corpus.Version, nil
}

// Size returns the number of cards in the deck.
func (d Deck) Size() int {
	return len(d.cards)
}

// Cards returns a copy of the deck's card sequence.
func (d Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// CardByName looks up a card by exact name.
func (d Deck) CardByName(name string) (Card, bool) {
	for _, c := range d.cards {
		if c.Name == name {
			return c, true
		}
	}
	return Card{}, false
}

// Shuffle returns a new permutation of the deck using Fisher-Yates.
// The receiver is left unchanged.
func (d Deck) Shuffle(rng RNG) Deck {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return Deck{cards: cards}
}

// Draw removes n cards from the top of the deck, returning the drawn cards
// and the remaining deck. The receiver is left unchanged.
func (d Deck) Draw(n int) ([]Card, Deck, error) {
	if n < 0 || n > len(d.cards) {
		return nil, d, &InsufficientCardsError{Requested: n, Remaining: len(d.cards)}
	}
	drawn := make([]Card, n)
	copy(drawn, d.cards[:n])
	remaining := make([]Card, len(d.cards)-n)
	copy(remaining, d.cards[n:])
	return drawn, Deck{cards: remaining}, nil
}

// DrawWithOrientation draws n cards and assigns each an independent
// 50/50 upright/reversed orientation.
func (d Deck) DrawWithOrientation(n int, rng RNG) ([]DrawnCard, Deck, error) {
	cards, remaining, err := d.Draw(n)
	if err != nil {
		return nil, d, err
	}
	drawn := make([]DrawnCard, n)
	for i, c := range cards {
		drawn[i] = DrawnCard{Card: c, Reversed: rng.Intn(2) == 1}
	}
	return drawn, remaining, nil
}

type deckSlot struct {
	suit   Suit
	number int
}

// bookTSequence walks the canonical Golden Dawn ordering:
// aces by suit, pips grouped by decan rotation, court cards
// Page through King per suit, then the major arcana 0-21.
func bookTSequence() []deckSlot {
	slots := make([]deckSlot, 0, DeckSize)

	for _, s := range MinorSuits {
		slots = append(slots, deckSlot{s, 1})
	}

	rotation := []struct {
		lo, hi int
		suit   Suit
	}{
		{5, 7, SuitWands}, {8, 10, SuitPentacles}, {2, 4, SuitSwords},
		{5, 7, SuitCups}, {8, 10, SuitWands}, {2, 4, SuitPentacles},
		{5, 7, SuitSwords}, {8, 10, SuitCups}, {2, 4, SuitWands},
		{5, 7, SuitPentacles}, {8, 10, SuitSwords}, {2, 4, SuitCups},
	}
	for _, r := range rotation {
		for n := r.lo; n <= r.hi; n++ {
			slots = append(slots, deckSlot{r.suit, n})
		}
	}

	for _, s := range MinorSuits {
		for n := NumberPage; n <= NumberKing; n++ {
			slots = append(slots, deckSlot{s, n})
		}
	}

	for n := 0; n <= 21; n++ {
		slots = append(slots, deckSlot{SuitMajor, n})
	}

	return slots
}
