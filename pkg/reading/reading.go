package reading

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"ai-tarot-be/pkg/rag"
	"ai-tarot-be/pkg/tarot"

	"github.com/google/uuid"
)

// State is a stage in the interpretation lifecycle. A reading only moves
// forward: Drafted, Retrieving, Generating, Validating, then one of
// Complete, Degraded, or Failed.
type State string

const (
	StateDrafted    State = "drafted"
	StateRetrieving State = "retrieving"
	StateGenerating State = "generating"
	StateValidating State = "validating"
	StateComplete   State = "complete"
	StateDegraded   State = "degraded"
	StateFailed     State = "failed"
)

// Terminal reports whether the state ends the lifecycle.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateDegraded || s == StateFailed
}

// QuestionContext is what the querent brought to the table. Context holds
// optional structured background ("age": "34", "situation": ...) that
// reaches the prompt but stays out of the fingerprint.
type QuestionContext struct {
	Focus    string            `json:"focus,omitempty"`
	Question string            `json:"question,omitempty"`
	Context  map[string]string `json:"context,omitempty"`
}

// Reading is one drafted spread and everything produced while
// interpreting it. It serializes round-trip safe: private deck state is
// never part of a reading.
type Reading struct {
	ID          uuid.UUID         `json:"id"`
	Spread      tarot.Spread      `json:"spread"`
	Cards       []tarot.DrawnCard `json:"cards"`
	Question    QuestionContext   `json:"question"`
	State       State             `json:"state"`
	Fingerprint string            `json:"fingerprint"`

	Interpretation *rag.Interpretation `json:"interpretation,omitempty"`

	// PartialKnowledge is set when one or more retrieval queries failed
	// and the interpretation was generated from reduced context.
	PartialKnowledge bool `json:"partial_knowledge"`

	// Coalesced marks a reading whose interpretation was served from the
	// cache or from a concurrent identical request.
	Coalesced bool `json:"coalesced,omitempty"`

	// FailureNote records the generation failure that forced a Degraded
	// outcome. Empty on Complete readings.
	FailureNote string `json:"failure_note,omitempty"`

	Model     string    `json:"model,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Fingerprint derives the cache and coalescing identity of a reading:
// spread type, the drawn cards with orientations in position order, and
// the question. Identical fingerprints are semantically identical requests.
func Fingerprint(spreadType tarot.SpreadType, cards []tarot.DrawnCard, question QuestionContext) string {
	var b strings.Builder
	b.WriteString(string(spreadType))
	b.WriteByte('\n')
	for _, c := range cards {
		b.WriteString(c.Card.Name)
		if c.Reversed {
			b.WriteString("|reversed")
		} else {
			b.WriteString("|upright")
		}
		b.WriteByte('\n')
	}
	b.WriteString(question.Focus)
	b.WriteByte('\n')
	b.WriteString(question.Question)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
