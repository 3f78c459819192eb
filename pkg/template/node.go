package template

// NodeKind identifies a parsed template directive.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeHeading
	NodeParagraph
	NodeCommand
	NodeOutput
	NodeFrame
	NodeMetric
	NodeLog
	NodeTable
	NodeTrace
	NodeChart
	NodeRaw
	NodeBinding
	NodeVar
)

// String returns the lowercase kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodeHeading:
		return "heading"
	case NodeParagraph:
		return "paragraph"
	case NodeCommand:
		return "command"
	case NodeOutput:
		return "output"
	case NodeFrame:
		return "frame"
	case NodeMetric:
		return "metric"
	case NodeLog:
		return "log"
	case NodeTable:
		return "table"
	case NodeTrace:
		return "trace"
	case NodeChart:
		return "chart"
	case NodeRaw:
		return "raw"
	case NodeBinding:
		return "binding"
	case NodeVar:
		return "var"
	default:
		return "unknown"
	}
}

// Binding marker names resolved by the content builder.
const (
	BindMetrics = "metrics"
	BindLogs    = "logs"
	BindTraces  = "traces"
)

// Node is one parsed template directive. Which fields are meaningful
// depends on Kind.
type Node struct {
	Kind NodeKind

	// Level is the heading depth.
	Level int

	// Text holds paragraph, heading, command, and raw content.
	Text string

	// Title is the frame caption. Empty means an untitled frame.
	Title string

	// Children are the nested nodes of frames and outputs.
	Children []Node

	// Metric literal fields. Value is kept textual until binding.
	Name  string
	Value string
	Unit  string
	Trend string

	// Log literal fields.
	Message   string
	LogLevel  string
	Timestamp string
	Source    string

	// Table payload.
	Headers []string
	Rows    [][]string

	// Trace literal fields.
	DurationMS uint64
	StartTime  string
	Status     string
	Metadata   map[string]string

	// Binding is the marker name for NodeBinding (metrics, logs, traces)
	// and the variable name for NodeVar.
	Binding string

	// ChartKind selects the shape for NodeChart, "bar" or "sparkline".
	ChartKind string

	// ChartMode selects the scaling mode for NodeChart, "linear" or
	// "log".
	ChartMode string
}
