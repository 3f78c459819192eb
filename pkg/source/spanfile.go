package source

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/telemetry"
)

// jsonSpan mirrors one JSON-lines span record.
type jsonSpan struct {
	Name       string            `json:"name"`
	ID         string            `json:"id"`
	ParentID   string            `json:"parentId"`
	Start      string            `json:"start"`
	End        string            `json:"end"`
	DurationMS uint64            `json:"durationMs"`
	Metadata   map[string]string `json:"metadata"`
}

// SpanFile reads trace spans from a JSON-lines file, one span record per
// line. Records without an ID are assigned one, so parent links only
// resolve between records that carry explicit IDs.
type SpanFile struct {
	path     string
	maxSpans int
}

// NewSpanFile creates a file-backed span source keeping at most maxSpans
// of the newest records.
func NewSpanFile(path string, maxSpans int) *SpanFile {
	if maxSpans <= 0 {
		maxSpans = 100
	}
	return &SpanFile{path: path, maxSpans: maxSpans}
}

// Name implements SpanSource.
func (s *SpanFile) Name() string {
	return "spanfile"
}

// CollectSpans implements SpanSource.
func (s *SpanFile) CollectSpans(ctx context.Context) ([]telemetry.Span, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCollectionUnavailable, "failed to open span file", err)
	}
	defer f.Close()

	var spans []telemetry.Span
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		span, err := parseSpanLine(line)
		if err != nil {
			return nil, errors.Newf(errors.ErrCodeMalformedResponse,
				"span file line %d: %v", lineNo, err)
		}
		spans = append(spans, span)
		if len(spans) > s.maxSpans {
			spans = spans[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedResponse, "failed to read span file", err)
	}

	return spans, nil
}

func parseSpanLine(line string) (telemetry.Span, error) {
	var parsed jsonSpan
	if err := json.UnmarshalFromString(line, &parsed); err != nil {
		return telemetry.Span{}, err
	}
	if parsed.Name == "" {
		return telemetry.Span{}, errors.New(errors.ErrCodeMalformedResponse, "span record has no name")
	}

	span := telemetry.Span{
		Name:     parsed.Name,
		ID:       parsed.ID,
		ParentID: parsed.ParentID,
		Duration: time.Duration(parsed.DurationMS) * time.Millisecond,
		Metadata: parsed.Metadata,
	}
	if span.ID == "" {
		span.ID = uuid.NewString()
	}

	if parsed.Start != "" {
		start, err := time.Parse(time.RFC3339, parsed.Start)
		if err != nil {
			return telemetry.Span{}, err
		}
		span.Start = start
	}
	if parsed.End != "" {
		end, err := time.Parse(time.RFC3339, parsed.End)
		if err != nil {
			return telemetry.Span{}, err
		}
		span.End = end
	}

	switch {
	case span.Start.IsZero() && !span.End.IsZero():
		span.Start = span.End.Add(-span.Duration)
	case !span.Start.IsZero() && span.End.IsZero():
		span.End = span.Start.Add(span.Duration)
	case !span.Start.IsZero() && !span.End.IsZero():
		if span.End.Before(span.Start) {
			span.End = span.Start
		}
		if parsed.DurationMS == 0 {
			span.Duration = span.End.Sub(span.Start)
		}
	}
	return span, nil
}
