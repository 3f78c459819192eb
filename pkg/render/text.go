package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/boattime/portfolio/pkg/block"
	"github.com/boattime/portfolio/pkg/defaults"
	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/telemetry"
)

// Text renders block trees as monospace terminal output with box-drawn
// frames and tables.
type Text struct {
	width     int
	asciiOnly bool
}

// TextOption configures a Text renderer.
type TextOption func(*Text)

// WithWidth sets the output column width.
func WithWidth(width int) TextOption {
	return func(t *Text) { t.width = width }
}

// WithASCIIOnly restricts box drawing to ASCII characters.
func WithASCIIOnly(ascii bool) TextOption {
	return func(t *Text) { t.asciiOnly = ascii }
}

// NewText creates a Text renderer with an 80 column default width.
func NewText(opts ...TextOption) *Text {
	t := &Text{width: defaults.TextWidth}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Format implements Renderer.
func (t *Text) Format() Format {
	return FormatText
}

// Render implements Renderer.
func (t *Text) Render(root *block.Block) ([]byte, error) {
	content, err := t.renderBlock(root)
	if err != nil {
		return nil, err
	}
	return []byte(content), nil
}

func (t *Text) renderBlock(b *block.Block) (string, error) {
	switch b.Kind {
	case block.KindDocument:
		return t.renderChildren(b)

	case block.KindHeading:
		return t.renderHeading(b.Level, b.Text), nil

	case block.KindParagraph:
		return t.wrap(b.Text, 0) + "\n\n", nil

	case block.KindCommand:
		out, err := t.renderChildren(b)
		if err != nil {
			return "", err
		}
		return "$ " + b.Text + "\n" + out, nil

	case block.KindOutput:
		content, err := t.renderChildren(b)
		if err != nil {
			return "", err
		}
		return content + "\n", nil

	case block.KindFrame:
		content, err := t.renderChildren(b)
		if err != nil {
			return "", err
		}
		return t.box(strings.TrimRight(content, "\n"), b.Title) + "\n\n", nil

	case block.KindMetricsPanel:
		return t.renderMetricsPanel(b), nil

	case block.KindLogsPanel:
		return t.renderLogsPanel(b), nil

	case block.KindTracesPanel:
		return t.renderTracesPanel(b), nil

	case block.KindVisualization:
		return t.renderVisualization(b), nil

	case block.KindTable:
		return t.table(b.Headers, b.Rows), nil

	case block.KindRaw:
		return b.Text, nil

	default:
		return "", errors.Newf(errors.ErrCodeRender, "unhandled block kind %s", b.Kind)
	}
}

func (t *Text) renderChildren(b *block.Block) (string, error) {
	var sb strings.Builder
	for i := range b.Children {
		content, err := t.renderBlock(&b.Children[i])
		if err != nil {
			return "", err
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

func (t *Text) renderHeading(level int, text string) string {
	underline := ""
	switch level {
	case 1:
		underline = "="
	case 2:
		underline = "-"
	case 3:
		underline = "~"
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteByte('\n')
	if underline != "" {
		sb.WriteString(strings.Repeat(underline, runewidth.StringWidth(text)))
		sb.WriteString("\n\n")
	} else {
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (t *Text) renderMetricsPanel(b *block.Block) string {
	var sb strings.Builder
	if b.Unavailable != "" {
		sb.WriteString("[" + unavailableText("metrics", b.Unavailable) + "]\n")
		if len(b.Metrics) == 0 {
			return sb.String()
		}
	}
	if len(b.Metrics) == 0 {
		return "No metrics available\n"
	}

	for _, e := range metricEntries(b.Metrics) {
		value := e.Value
		if e.Unit != "" {
			value += " " + e.Unit
		}
		if e.HasTrend && e.Trend > 0 {
			value += " " + t.trendUp()
		} else if e.HasTrend && e.Trend < 0 {
			value += " " + t.trendDown()
		}

		padding := t.width - runewidth.StringWidth(e.Name) - runewidth.StringWidth(value) - 3
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(&sb, "%s: %s%s\n", e.Name, strings.Repeat(" ", padding), value)
	}
	return sb.String()
}

func (t *Text) renderLogsPanel(b *block.Block) string {
	var sb strings.Builder
	if b.Unavailable != "" {
		sb.WriteString("[" + unavailableText("logs", b.Unavailable) + "]\n")
		if len(b.Logs) == 0 {
			return sb.String()
		}
	}
	if len(b.Logs) == 0 {
		return "No logs available\n"
	}

	for _, e := range b.Logs {
		prefix := ""
		if ts := logTimestamp(e); ts != "" {
			prefix += "[" + ts + "] "
		}
		prefix += "[" + levelTag(e.Level) + "] "
		if e.Source != "" {
			prefix += "[" + e.Source + "] "
		}

		indent := runewidth.StringWidth(prefix)
		lines := strings.Split(t.wrap(e.Message, indent), "\n")
		if len(lines) > 0 {
			sb.WriteString(prefix + strings.TrimLeft(lines[0], " ") + "\n")
			for _, line := range lines[1:] {
				sb.WriteString(line + "\n")
			}
		}
	}
	return sb.String()
}

func (t *Text) renderTracesPanel(b *block.Block) string {
	if b.Unavailable != "" {
		marker := "[" + unavailableText("traces", b.Unavailable) + "]\n"
		if len(b.Traces) == 0 {
			return marker
		}
		return marker + t.table(traceTableHeaders, traceRows(b.Traces))
	}
	if len(b.Traces) == 0 {
		return "No traces available\n"
	}
	return t.table(traceTableHeaders, traceRows(b.Traces))
}

func (t *Text) renderVisualization(b *block.Block) string {
	v := b.Viz
	if v == nil || len(v.Points) == 0 {
		return "No data to chart\n"
	}
	if v.Kind == block.VizSparkline {
		return t.renderSparkline(v)
	}

	labelWidth := 0
	for _, p := range v.Points {
		if w := runewidth.StringWidth(p.Label); w > labelWidth {
			labelWidth = w
		}
	}

	barGlyph := "#"
	if !t.asciiOnly {
		barGlyph = "█"
	}

	// leave room for the label, separators, and the printed value
	barSpace := t.width - labelWidth - 16
	if barSpace < 8 {
		barSpace = 8
	}

	var sb strings.Builder
	for _, p := range v.Points {
		barLen := int(p.Scaled * float64(barSpace))
		if barLen < 1 && p.Scaled > 0 {
			barLen = 1
		}
		fmt.Fprintf(&sb, "%s %s %s\n",
			runewidth.FillRight(p.Label, labelWidth),
			strings.Repeat(barGlyph, barLen),
			humanFloat(p.Raw))
	}
	return sb.String()
}

// renderSparkline draws the series as one line of ramp glyphs, scaled
// values picking the glyph height.
func (t *Text) renderSparkline(v *block.Visualization) string {
	ramp := []rune("▁▂▃▄▅▆▇█")
	if t.asciiOnly {
		ramp = []rune("_.-=+*#%")
	}

	rawMin, rawMax := v.Points[0].Raw, v.Points[0].Raw
	var sb strings.Builder
	for _, p := range v.Points {
		idx := int(p.Scaled * float64(len(ramp)-1))
		if idx < 0 {
			idx = 0
		}
		if idx > len(ramp)-1 {
			idx = len(ramp) - 1
		}
		sb.WriteRune(ramp[idx])
		rawMin = math.Min(rawMin, p.Raw)
		rawMax = math.Max(rawMax, p.Raw)
	}
	fmt.Fprintf(&sb, "  %s .. %s\n", humanFloat(rawMin), humanFloat(rawMax))
	return sb.String()
}

// levelTag returns a fixed-width severity tag so log columns line up.
func levelTag(l telemetry.Level) string {
	switch l {
	case telemetry.LevelDebug:
		return "DEBUG"
	case telemetry.LevelWarning:
		return "WARN "
	case telemetry.LevelError:
		return "ERROR"
	default:
		return "INFO "
	}
}

func (t *Text) trendUp() string {
	if t.asciiOnly {
		return "^"
	}
	return "▲"
}

func (t *Text) trendDown() string {
	if t.asciiOnly {
		return "v"
	}
	return "▼"
}

// wrap word-wraps text to the renderer width, indenting continuation
// lines.
func (t *Text) wrap(text string, indent int) string {
	available := t.width - indent
	if available <= 10 {
		return text
	}

	pad := strings.Repeat(" ", indent)
	var lines []string
	line := ""
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := runewidth.StringWidth(word)

		if line != "" && lineWidth+wordWidth+1 > available {
			lines = append(lines, line)
			line = ""
			lineWidth = 0
		}

		if line == "" {
			if len(lines) > 0 {
				line = pad + word
			} else {
				line = word
			}
			lineWidth = wordWidth
		} else {
			line += " " + word
			lineWidth += wordWidth + 1
		}
	}

	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

type boxChars struct {
	horizontal, vertical                       string
	topLeft, topRight, bottomLeft, bottomRight string
	cross, teeRight, teeLeft, teeDown, teeUp   string
}

func (t *Text) boxChars() boxChars {
	if t.asciiOnly {
		return boxChars{
			horizontal: "-", vertical: "|",
			topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
			cross: "+", teeRight: "+", teeLeft: "+", teeDown: "+", teeUp: "+",
		}
	}
	return boxChars{
		horizontal: "─", vertical: "│",
		topLeft: "┌", topRight: "┐", bottomLeft: "└", bottomRight: "┘",
		cross: "┼", teeRight: "├", teeLeft: "┤", teeDown: "┬", teeUp: "┴",
	}
}

// box draws a border around text, with an optional title in the top edge.
func (t *Text) box(text, title string) string {
	chars := t.boxChars()
	lines := strings.Split(text, "\n")

	maxLine := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > maxLine {
			maxLine = w
		}
	}

	titleWidth := 0
	if title != "" {
		titleWidth = runewidth.StringWidth(title) + 2
	}

	inner := maxLine
	if titleWidth > inner {
		inner = titleWidth
	}
	if limit := t.width - 4; inner > limit {
		inner = limit
	}
	boxWidth := inner + 4

	var sb strings.Builder
	if title != "" {
		decorated := " " + title + " "
		padding := boxWidth - runewidth.StringWidth(decorated) - 2
		if padding < 0 {
			padding = 0
		}
		sb.WriteString(chars.topLeft + decorated + strings.Repeat(chars.horizontal, padding) + chars.topRight)
	} else {
		sb.WriteString(chars.topLeft + strings.Repeat(chars.horizontal, boxWidth-2) + chars.topRight)
	}
	sb.WriteByte('\n')

	for _, line := range lines {
		padding := boxWidth - runewidth.StringWidth(line) - 4
		if padding < 0 {
			padding = 0
		}
		sb.WriteString(chars.vertical + " " + line + strings.Repeat(" ", padding) + " " + chars.vertical + "\n")
	}

	sb.WriteString(chars.bottomLeft + strings.Repeat(chars.horizontal, boxWidth-2) + chars.bottomRight)
	return sb.String()
}

// table draws a bordered table sized to its widest cells.
func (t *Text) table(headers []string, rows [][]string) string {
	if len(headers) == 0 && len(rows) == 0 {
		return ""
	}

	chars := t.boxChars()

	cols := len(headers)
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	widths := make([]int, cols)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	rule := func(left, junction, right string) string {
		var sb strings.Builder
		sb.WriteString(left)
		for i, w := range widths {
			sb.WriteString(strings.Repeat(chars.horizontal, w+2))
			if i < len(widths)-1 {
				sb.WriteString(junction)
			}
		}
		sb.WriteString(right + "\n")
		return sb.String()
	}

	cellsLine := func(cells []string) string {
		var sb strings.Builder
		sb.WriteString(chars.vertical)
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(" " + runewidth.FillRight(cell, widths[i]) + " " + chars.vertical)
		}
		sb.WriteString("\n")
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(rule(chars.topLeft, chars.teeDown, chars.topRight))
	if len(headers) > 0 {
		sb.WriteString(cellsLine(headers))
		sb.WriteString(rule(chars.teeRight, chars.cross, chars.teeLeft))
	}
	for _, row := range rows {
		sb.WriteString(cellsLine(row))
	}
	sb.WriteString(rule(chars.bottomLeft, chars.teeUp, chars.bottomRight))
	return sb.String()
}
