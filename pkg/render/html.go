package render

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/boattime/portfolio/pkg/block"
	"github.com/boattime/portfolio/pkg/errors"
)

// HTML renders block trees as self-contained styled pages with a
// terminal-like theme.
type HTML struct {
	title     string
	inlineCSS bool
	classes   []string
	titler    cases.Caser
}

// HTMLOption configures an HTML renderer.
type HTMLOption func(*HTML)

// WithTitle sets the page title.
func WithTitle(title string) HTMLOption {
	return func(h *HTML) { h.title = title }
}

// WithInlineCSS toggles the embedded stylesheet.
func WithInlineCSS(include bool) HTMLOption {
	return func(h *HTML) { h.inlineCSS = include }
}

// WithClasses appends extra CSS classes to the page container.
func WithClasses(classes ...string) HTMLOption {
	return func(h *HTML) { h.classes = append(h.classes, classes...) }
}

// NewHTML creates an HTML renderer. Inline CSS is on by default.
func NewHTML(opts ...HTMLOption) *HTML {
	h := &HTML{
		title:     "dashboard",
		inlineCSS: true,
		titler:    cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Format implements Renderer.
func (h *HTML) Format() Format {
	return FormatHTML
}

// Render implements Renderer.
func (h *HTML) Render(root *block.Block) ([]byte, error) {
	content, err := h.renderBlock(root)
	if err != nil {
		return nil, err
	}

	classList := "terminal"
	if len(h.classes) > 0 {
		classList += " " + strings.Join(h.classes, " ")
	}

	styleTag := ""
	if h.inlineCSS {
		styleTag = "<style>" + terminalCSS + "</style>"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n%s\n</head>\n<body>\n", html.EscapeString(h.title), styleTag)
	fmt.Fprintf(&b, "<div class=\"%s\">\n%s</div>\n</body>\n</html>\n", classList, content)

	return []byte(b.String()), nil
}

func (h *HTML) renderBlock(b *block.Block) (string, error) {
	switch b.Kind {
	case block.KindDocument:
		return h.renderChildren(b)

	case block.KindHeading:
		return fmt.Sprintf("<h%d class=\"terminal-heading terminal-heading-%d\">%s</h%d>\n",
			b.Level, b.Level, html.EscapeString(b.Text), b.Level), nil

	case block.KindParagraph:
		return fmt.Sprintf("<p class=\"terminal-paragraph\">%s</p>\n", html.EscapeString(b.Text)), nil

	case block.KindCommand:
		out, err := h.renderChildren(b)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<div class=\"terminal-command\">%s</div>\n%s",
			html.EscapeString(b.Text), out), nil

	case block.KindOutput:
		content, err := h.renderChildren(b)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<div class=\"terminal-output\">\n%s</div>\n", content), nil

	case block.KindFrame:
		content, err := h.renderChildren(b)
		if err != nil {
			return "", err
		}
		titleDiv := ""
		if b.Title != "" {
			titleDiv = fmt.Sprintf("<div class=\"terminal-frame-title\">%s</div>\n",
				html.EscapeString(h.titler.String(b.Title)))
		}
		return fmt.Sprintf("<div class=\"terminal-frame\">\n%s%s</div>\n", titleDiv, content), nil

	case block.KindMetricsPanel:
		return h.renderMetricsPanel(b), nil

	case block.KindLogsPanel:
		return h.renderLogsPanel(b), nil

	case block.KindTracesPanel:
		return h.renderTracesPanel(b), nil

	case block.KindVisualization:
		return h.renderVisualization(b), nil

	case block.KindTable:
		return h.renderTable(b.Headers, b.Rows), nil

	case block.KindRaw:
		return b.Text, nil

	default:
		return "", errors.Newf(errors.ErrCodeRender, "unhandled block kind %s", b.Kind)
	}
}

func (h *HTML) renderChildren(b *block.Block) (string, error) {
	var sb strings.Builder
	for i := range b.Children {
		content, err := h.renderBlock(&b.Children[i])
		if err != nil {
			return "", err
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

func (h *HTML) renderMetricsPanel(b *block.Block) string {
	var sb strings.Builder
	if b.Unavailable != "" {
		sb.WriteString(h.renderUnavailable("metrics", b.Unavailable))
		if len(b.Metrics) == 0 {
			return sb.String()
		}
	}
	if len(b.Metrics) == 0 {
		return "<div class=\"terminal-empty-message\">No metrics available</div>\n"
	}

	for _, e := range metricEntries(b.Metrics) {
		value := e.Value
		if e.Unit != "" {
			value += " " + e.Unit
		}
		trendClass := ""
		if e.HasTrend && e.Trend > 0 {
			trendClass = " terminal-trend-up"
		} else if e.HasTrend && e.Trend < 0 {
			trendClass = " terminal-trend-down"
		}
		fmt.Fprintf(&sb,
			"<div class=\"terminal-metric\"><span class=\"terminal-metric-name\">%s</span><span class=\"terminal-metric-value%s\">%s</span></div>\n",
			html.EscapeString(e.Name), trendClass, html.EscapeString(value))
	}
	return sb.String()
}

func (h *HTML) renderLogsPanel(b *block.Block) string {
	var sb strings.Builder
	if b.Unavailable != "" {
		sb.WriteString(h.renderUnavailable("logs", b.Unavailable))
		if len(b.Logs) == 0 {
			return sb.String()
		}
	}
	if len(b.Logs) == 0 {
		return "<div class=\"terminal-empty-message\">No logs available</div>\n"
	}

	for _, e := range b.Logs {
		levelClass := "terminal-log-" + strings.ToLower(e.Level.String())
		prefix := ""
		if ts := logTimestamp(e); ts != "" {
			prefix += "[" + html.EscapeString(ts) + "] "
		}
		if e.Source != "" {
			prefix += "[" + html.EscapeString(e.Source) + "] "
		}
		fmt.Fprintf(&sb,
			"<div class=\"terminal-log %s\"><span class=\"terminal-log-prefix\">%s</span><span class=\"terminal-log-message\">%s</span></div>\n",
			levelClass, prefix, html.EscapeString(e.Message))
	}
	return sb.String()
}

func (h *HTML) renderTracesPanel(b *block.Block) string {
	if b.Unavailable != "" {
		marker := h.renderUnavailable("traces", b.Unavailable)
		if len(b.Traces) == 0 {
			return marker
		}
		return marker + h.renderTable(traceTableHeaders, traceRows(b.Traces))
	}
	if len(b.Traces) == 0 {
		return "<div class=\"terminal-empty-message\">No traces available</div>\n"
	}
	return h.renderTable(traceTableHeaders, traceRows(b.Traces))
}

func (h *HTML) renderVisualization(b *block.Block) string {
	v := b.Viz
	if v == nil || len(v.Points) == 0 {
		return "<div class=\"terminal-empty-message\">No data to chart</div>\n"
	}
	if v.Kind == block.VizSparkline {
		return h.renderSparkline(v)
	}

	var sb strings.Builder
	sb.WriteString("<div class=\"terminal-chart\">\n")
	for _, p := range v.Points {
		width := p.Scaled * 100
		fmt.Fprintf(&sb,
			"<div class=\"terminal-chart-row\"><span class=\"terminal-chart-label\">%s</span><span class=\"terminal-chart-bar\" style=\"width: %.1f%%\"></span><span class=\"terminal-chart-value\">%s</span></div>\n",
			html.EscapeString(p.Label), width, html.EscapeString(humanFloat(p.Raw)))
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

func (h *HTML) renderSparkline(v *block.Visualization) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"terminal-sparkline\">\n")
	for _, p := range v.Points {
		height := 10 + p.Scaled*90
		fmt.Fprintf(&sb,
			"<span class=\"terminal-sparkline-bar\" style=\"height: %.1f%%\" title=\"%s: %s\"></span>\n",
			height, html.EscapeString(p.Label), html.EscapeString(humanFloat(p.Raw)))
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

func (h *HTML) renderTable(headers []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString("<table class=\"terminal-table\">\n<thead>")
	if len(headers) > 0 {
		sb.WriteString("<tr>")
		for _, header := range headers {
			sb.WriteString("<th>" + html.EscapeString(header) + "</th>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</thead>\n<tbody>")
	for _, row := range rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>" + html.EscapeString(cell) + "</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>\n")
	return sb.String()
}

func (h *HTML) renderUnavailable(section, reason string) string {
	return fmt.Sprintf("<div class=\"terminal-unavailable\">%s</div>\n",
		html.EscapeString(unavailableText(section, reason)))
}

const terminalCSS = `
.terminal {
    background-color: #1e1e1e;
    color: #f0f0f0;
    font-family: 'Courier New', monospace;
    padding: 1rem;
    border-radius: 0.5rem;
    overflow: auto;
    line-height: 1.5;
    max-width: 100%;
    box-sizing: border-box;
}

.terminal-command {
    color: #63c8ff;
    margin: 0.5rem 0;
}

.terminal-command::before {
    content: '$ ';
    color: #63c8ff;
}

.terminal-output {
    margin: 0.5rem 0 1.5rem 0;
    padding-left: 0.5rem;
    border-left: 2px solid #3a3a3a;
}

.terminal-frame {
    border: 1px solid #3a3a3a;
    padding: 0.5rem;
    margin: 0.5rem 0;
    border-radius: 0.3rem;
}

.terminal-frame-title {
    background-color: #3a3a3a;
    padding: 0.3rem 0.5rem;
    margin: -0.5rem -0.5rem 0.5rem -0.5rem;
    border-radius: 0.3rem 0.3rem 0 0;
    font-weight: bold;
}

.terminal-metric {
    display: flex;
    justify-content: space-between;
    padding: 0.3rem 0;
}

.terminal-metric-name {
    font-weight: bold;
}

.terminal-metric-value {
    color: #63c8ff;
}

.terminal-log {
    padding: 0.2rem 0;
}

.terminal-log-debug {
    color: #9e9e9e;
}

.terminal-log-info {
    color: #63c8ff;
}

.terminal-log-warning {
    color: #ffac35;
}

.terminal-log-error {
    color: #ff5b5b;
}

.terminal-table {
    border-collapse: collapse;
    width: 100%;
    margin: 0.5rem 0;
}

.terminal-table th {
    text-align: left;
    padding: 0.3rem;
    border-bottom: 1px solid #3a3a3a;
    color: #63c8ff;
}

.terminal-table td {
    padding: 0.3rem;
    border-bottom: 1px solid #2a2a2a;
}

.terminal-chart-row {
    display: flex;
    align-items: center;
    gap: 0.5rem;
    padding: 0.2rem 0;
}

.terminal-chart-label {
    min-width: 10rem;
    font-weight: bold;
}

.terminal-chart-bar {
    display: inline-block;
    height: 0.8rem;
    background-color: #63c8ff;
    border-radius: 0.2rem;
}

.terminal-chart-value {
    color: #63c8ff;
}

.terminal-sparkline {
    display: flex;
    align-items: flex-end;
    gap: 0.15rem;
    height: 3rem;
    padding: 0.2rem 0;
}

.terminal-sparkline-bar {
    display: inline-block;
    width: 0.5rem;
    background-color: #63c8ff;
    border-radius: 0.1rem 0.1rem 0 0;
}

.terminal-unavailable {
    color: #ffac35;
    font-style: italic;
    padding: 0.3rem 0;
}

.terminal-trend-up::after {
    content: ' \25B2';
    color: #4caf50;
}

.terminal-trend-down::after {
    content: ' \25BC';
    color: #ff5b5b;
}

@media (max-width: 768px) {
    .terminal {
        padding: 0.5rem;
    }

    .terminal-table {
        font-size: 0.9rem;
    }
}
`
