package knowledge

import (
	"fmt"
	"strings"

	"ai-tarot-be/pkg/tarot"
)

// CorrespondenceRecord is the static esoteric metadata for one card.
type CorrespondenceRecord struct {
	CardName     string   `json:"card_name"`
	Element      string   `json:"element"`
	Astrological string   `json:"astrological"`
	Kabbalistic  string   `json:"kabbalistic"`
	Decan        string   `json:"decan,omitempty"`
	Symbolism    []string `json:"symbolism"`
	Keywords     []string `json:"keywords"`
}

// Text renders the record as a retrieval document for the snippet corpus.
func (r CorrespondenceRecord) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s. Element: %s. Astrological: %s. Kabbalistic: %s.",
		r.CardName, r.Element, r.Astrological, r.Kabbalistic)
	if r.Decan != "" {
		fmt.Fprintf(&b, " Decan: %s.", r.Decan)
	}
	if len(r.Symbolism) > 0 {
		fmt.Fprintf(&b, " Symbolism: %s.", strings.Join(r.Symbolism, ", "))
	}
	if len(r.Keywords) > 0 {
		fmt.Fprintf(&b, " Keywords: %s.", strings.Join(r.Keywords, ", "))
	}
	return b.String()
}

// UnknownCardError reports a correspondence lookup for a card that does
// not exist in the canonical deck. This is a logic error in the caller.
type UnknownCardError struct {
	Name string
}

func (e *UnknownCardError) Error() string {
	return fmt.Sprintf("unknown card %q", e.Name)
}

// CorrespondenceIndex answers static lookups keyed by card name.
type CorrespondenceIndex struct {
	records map[string]CorrespondenceRecord
	ordered []CorrespondenceRecord
}

// NewCorrespondenceIndex builds the index from the canonical deck.
func NewCorrespondenceIndex(deck tarot.Deck) *CorrespondenceIndex {
	cards := deck.Cards()
	idx := &CorrespondenceIndex{
		records: make(map[string]CorrespondenceRecord, len(cards)),
		ordered: make([]CorrespondenceRecord, 0, len(cards)),
	}
	for _, c := range cards {
		rec := CorrespondenceRecord{
			CardName:     c.Name,
			Element:      c.Element,
			Astrological: c.Astrological,
			Kabbalistic:  c.Kabbalistic,
			Decan:        c.Decan,
			Symbolism:    c.Symbolism,
			Keywords:     c.Keywords,
		}
		idx.records[strings.ToLower(c.Name)] = rec
		idx.ordered = append(idx.ordered, rec)
	}
	return idx
}

// Lookup returns the correspondence record for a card name
// (case-insensitive) or UnknownCardError.
func (idx *CorrespondenceIndex) Lookup(cardName string) (CorrespondenceRecord, error) {
	rec, ok := idx.records[strings.ToLower(cardName)]
	if !ok {
		return CorrespondenceRecord{}, &UnknownCardError{Name: cardName}
	}
	return rec, nil
}

// All returns the records in canonical deck order.
func (idx *CorrespondenceIndex) All() []CorrespondenceRecord {
	out := make([]CorrespondenceRecord, len(idx.ordered))
	copy(out, idx.ordered)
	return out
}
