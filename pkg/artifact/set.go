package artifact

import (
	"time"

	"github.com/google/uuid"
)

// Default file names for the two rendered documents, used by every sink
// so consumers can rely on stable paths.
const (
	HTMLFileName = "index.html"
	TextFileName = "index.txt"
)

// Set is the complete output of one generation cycle.
type Set struct {
	// ID uniquely identifies the set.
	ID uuid.UUID

	// CycleID is the scheduler cycle that produced the set.
	CycleID uint64

	// GeneratedAt is the snapshot timestamp both documents were rendered
	// from.
	GeneratedAt time.Time

	// HTML is the styled document.
	HTML []byte

	// Text is the plain-text document.
	Text []byte
}

// NewSet assembles a Set for the given cycle.
func NewSet(cycleID uint64, generatedAt time.Time, html, text []byte) Set {
	return Set{
		ID:          uuid.New(),
		CycleID:     cycleID,
		GeneratedAt: generatedAt,
		HTML:        html,
		Text:        text,
	}
}

// Size returns the combined size of both documents in bytes.
func (s Set) Size() int {
	return len(s.HTML) + len(s.Text)
}
