package telemetry

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Span is one timed operation within a trace. Spans reference their parent
// by identifier only; a span whose parent cannot be resolved within the same
// snapshot is treated as a root.
type Span struct {
	Name     string            `json:"name" yaml:"name"`
	ID       string            `json:"id" yaml:"id"`
	ParentID string            `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Start    time.Time         `json:"start" yaml:"start"`
	End      time.Time         `json:"end" yaml:"end"`
	Duration time.Duration     `json:"duration" yaml:"duration"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewSpan creates a Span that ended now and lasted the given duration.
// Negative durations are clamped to zero.
func NewSpan(name string, duration time.Duration) Span {
	if duration < 0 {
		duration = 0
	}
	end := time.Now().UTC()
	return Span{
		Name:     name,
		ID:       uuid.NewString(),
		Start:    end.Add(-duration),
		End:      end,
		Duration: duration,
	}
}

// SpanBetween creates a Span from explicit start and end instants.
// If end precedes start, the span is collapsed to a zero-duration span at start.
func SpanBetween(name string, start, end time.Time) Span {
	if end.Before(start) {
		end = start
	}
	return Span{
		Name:     name,
		ID:       uuid.NewString(),
		Start:    start,
		End:      end,
		Duration: end.Sub(start),
	}
}

// WithParent returns a copy of the span parented to the given span ID.
func (s Span) WithParent(parentID string) Span {
	s.ParentID = parentID
	return s
}

// WithMetadata returns a copy of the span with the given metadata entry set.
func (s Span) WithMetadata(key, value string) Span {
	md := make(map[string]string, len(s.Metadata)+1)
	for k, v := range s.Metadata {
		md[k] = v
	}
	md[key] = value
	s.Metadata = md
	return s
}

// IsRoot reports whether the span has no parent reference.
func (s Span) IsRoot() bool {
	return s.ParentID == ""
}

// Metadatum returns a metadata value and whether it was present.
func (s Span) Metadatum(key string) (string, bool) {
	v, ok := s.Metadata[key]
	return v, ok
}

// SpanNode is one node of a resolved span forest.
type SpanNode struct {
	Span     Span
	Children []SpanNode
}

// BuildForest resolves parent references into an ordered forest. Spans whose
// ParentID does not match any span in the slice become roots, as does one
// span per parent cycle, so every input span appears in the forest exactly
// once. Siblings are ordered by start time, then name, then ID, so the
// result is deterministic for a given input set regardless of input order.
func BuildForest(spans []Span) []SpanNode {
	byID := make(map[string]Span, len(spans))
	for _, s := range spans {
		byID[s.ID] = s
	}

	children := make(map[string][]Span, len(spans))
	var roots []Span
	for _, s := range spans {
		if s.ParentID == "" {
			roots = append(roots, s)
			continue
		}
		if _, ok := byID[s.ParentID]; !ok {
			// Unresolvable parent, promote to root.
			roots = append(roots, s)
			continue
		}
		children[s.ParentID] = append(children[s.ParentID], s)
	}

	// Parent chains that loop back on themselves are reachable from no
	// root. Break each loop by promoting its first span in sort order,
	// the same treatment as an unresolvable parent ID.
	reached := make(map[string]bool, len(byID))
	var mark func(list []Span)
	mark = func(list []Span) {
		for _, s := range list {
			if reached[s.ID] {
				continue
			}
			reached[s.ID] = true
			mark(children[s.ID])
		}
	}
	mark(roots)
	for len(reached) < len(byID) {
		var orphans []Span
		for _, s := range byID {
			if !reached[s.ID] {
				orphans = append(orphans, s)
			}
		}
		sortSpans(orphans)
		promoted := orphans[0]
		siblings := children[promoted.ParentID]
		for i, c := range siblings {
			if c.ID == promoted.ID {
				children[promoted.ParentID] = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
		roots = append(roots, promoted)
		mark([]Span{promoted})
	}

	var build func(list []Span) []SpanNode
	build = func(list []Span) []SpanNode {
		sortSpans(list)
		nodes := make([]SpanNode, 0, len(list))
		for _, s := range list {
			nodes = append(nodes, SpanNode{
				Span:     s,
				Children: build(children[s.ID]),
			})
		}
		return nodes
	}
	return build(roots)
}

func sortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		if !spans[i].Start.Equal(spans[j].Start) {
			return spans[i].Start.Before(spans[j].Start)
		}
		if spans[i].Name != spans[j].Name {
			return spans[i].Name < spans[j].Name
		}
		return spans[i].ID < spans[j].ID
	})
}
