package block

import (
	"github.com/boattime/portfolio/pkg/telemetry"
)

// Kind identifies a block variant.
type Kind int

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindCommand
	KindOutput
	KindFrame
	KindMetricsPanel
	KindLogsPanel
	KindTracesPanel
	KindVisualization
	KindTable
	KindRaw
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindCommand:
		return "command"
	case KindOutput:
		return "output"
	case KindFrame:
		return "frame"
	case KindMetricsPanel:
		return "metrics_panel"
	case KindLogsPanel:
		return "logs_panel"
	case KindTracesPanel:
		return "traces_panel"
	case KindVisualization:
		return "visualization"
	case KindTable:
		return "table"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Block is one node of the content tree. Which fields are meaningful
// depends on Kind; all others are zero.
type Block struct {
	Kind Kind

	// Level is the heading depth, 1 through 3.
	Level int

	// Text holds heading text, paragraph text, command names, captured
	// output, and raw passthrough content.
	Text string

	// Title is the frame caption.
	Title string

	// Children are the nested blocks of frames and commands.
	Children []Block

	// Unavailable carries a degradation reason for data panels built
	// from failed collections. Empty means the panel data is live.
	Unavailable string

	Metrics []telemetry.Metric
	Logs    []telemetry.LogEntry
	Traces  []telemetry.SpanNode

	// Table payload.
	Headers []string
	Rows    [][]string

	// Visualization payload, set only for KindVisualization.
	Viz *Visualization
}

// Document creates the root block of one generation cycle's content.
func Document(children ...Block) Block {
	return Block{Kind: KindDocument, Children: children}
}

// Heading creates a heading block. Depth outside 1..3 is clamped.
func Heading(level int, text string) Block {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	return Block{Kind: KindHeading, Level: level, Text: text}
}

// Paragraph creates a paragraph block.
func Paragraph(text string) Block {
	return Block{Kind: KindParagraph, Text: text}
}

// Command creates a command block with its captured output nested as a
// child.
func Command(name string, output Block) Block {
	return Block{Kind: KindCommand, Text: name, Children: []Block{output}}
}

// Output creates an output block wrapping captured or bound content.
func Output(children ...Block) Block {
	return Block{Kind: KindOutput, Children: children}
}

// Frame creates a titled frame wrapping a block sequence.
func Frame(title string, children ...Block) Block {
	return Block{Kind: KindFrame, Title: title, Children: children}
}

// MetricsPanel creates a panel bound to metric samples.
func MetricsPanel(metrics []telemetry.Metric) Block {
	return Block{Kind: KindMetricsPanel, Metrics: metrics}
}

// LogsPanel creates a panel bound to log entries.
func LogsPanel(logs []telemetry.LogEntry) Block {
	return Block{Kind: KindLogsPanel, Logs: logs}
}

// TracesPanel creates a panel bound to a span forest.
func TracesPanel(traces []telemetry.SpanNode) Block {
	return Block{Kind: KindTracesPanel, Traces: traces}
}

// Unavailable marks a panel block as degraded with a reason. Returns a
// copy; the receiver is unchanged.
func (b Block) MarkUnavailable(reason string) Block {
	b.Unavailable = reason
	return b
}

// Table creates a table block.
func Table(headers []string, rows [][]string) Block {
	return Block{Kind: KindTable, Headers: headers, Rows: rows}
}

// Raw creates a passthrough block rendered without escaping or styling.
func Raw(text string) Block {
	return Block{Kind: KindRaw, Text: text}
}

// Walk visits b and every descendant in depth-first document order. The
// visit function returning false prunes that subtree.
func Walk(b *Block, visit func(*Block) bool) {
	if !visit(b) {
		return
	}
	for i := range b.Children {
		Walk(&b.Children[i], visit)
	}
}

// Count returns the number of blocks of the given kind in the tree rooted
// at b.
func Count(b *Block, kind Kind) int {
	n := 0
	Walk(b, func(blk *Block) bool {
		if blk.Kind == kind {
			n++
		}
		return true
	})
	return n
}
