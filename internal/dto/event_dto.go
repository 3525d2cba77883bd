package dto

import "ai-tarot-be/pkg/reading"

// ArchiveReadingMessage is the event payload published when a reading
// settles and should be written to history.
type ArchiveReadingMessage struct {
	Reading reading.Reading `json:"reading"`
}
