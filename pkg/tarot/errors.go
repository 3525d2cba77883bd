package tarot

import "fmt"

// DataIntegrityError reports a malformed canonical corpus. It is fatal:
// no deck can be constructed from a corpus that fails validation.
type DataIntegrityError struct {
	Reason string
	Card   string
}

func (e *DataIntegrityError) Error() string {
	if e.Card != "" {
		return fmt.Sprintf("corpus integrity: %s (card %q)", e.Reason, e.Card)
	}
	return "corpus integrity: " + e.Reason
}

// InsufficientCardsError reports a draw that exceeds the remaining deck.
// Given the 78-card invariant this indicates a logic error in the caller.
type InsufficientCardsError struct {
	Requested int
	Remaining int
}

func (e *InsufficientCardsError) Error() string {
	return fmt.Sprintf("cannot draw %d cards, only %d remaining", e.Requested, e.Remaining)
}

// UnknownSpreadError reports a spread type with no registered layout.
type UnknownSpreadError struct {
	Type SpreadType
}

func (e *UnknownSpreadError) Error() string {
	return fmt.Sprintf("unknown spread type %q", e.Type)
}
