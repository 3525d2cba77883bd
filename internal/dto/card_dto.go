package dto

type CardResponse struct {
	Name            string   `json:"name"`
	Number          int      `json:"number"`
	Suit            string   `json:"suit"`
	Element         string   `json:"element"`
	Keywords        []string `json:"keywords"`
	UprightMeaning  string   `json:"upright_meaning"`
	ReversedMeaning string   `json:"reversed_meaning"`
	Astrological    string   `json:"astrological,omitempty"`
	Kabbalistic     string   `json:"kabbalistic,omitempty"`
	Decan           string   `json:"decan,omitempty"`
	Symbolism       []string `json:"symbolism,omitempty"`
}

type DeckResponse struct {
	Version string         `json:"version"`
	Cards   []CardResponse `json:"cards"`
}
