package types

import "time"

// Plan sources. A plan records how it came to exist.
const (
	SourceManual  = "manual"
	SourceImage   = "image-derived"
	SourceAI      = "ai-generated"
)

// validSources is the set of recognized plan source values.
var validSources = map[string]bool{
	SourceManual: true,
	SourceImage:  true,
	SourceAI:     true,
}

// ValidSource reports whether s is a recognized plan source value.
func ValidSource(s string) bool {
	return validSources[s]
}

// Plan is an ordered collection of task snapshots produced in one
// planning step. Task order is meaningful and preserved across
// persistence round-trips.
type Plan struct {
	ID        string    // UUID v7, generated on creation.
	Title     string    // Human-readable title (required, non-empty).
	Tasks     []Task    // Embedded task snapshots, ordered.
	CreatedAt time.Time // Timestamp of creation, immutable.
	Source    string    // One of the Source constants.
}

// Validate checks that the plan and its embedded task snapshots are
// well-formed.
func (p *Plan) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if !ValidSource(p.Source) {
		return ErrInvalidSource
	}
	for i := range p.Tasks {
		if err := p.Tasks[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
