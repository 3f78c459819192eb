package block

import "math"

// VizKind selects the visualization shape.
type VizKind int

const (
	VizBar VizKind = iota
	VizSparkline
)

// ScaleMode selects how raw values are normalized.
type ScaleMode int

const (
	// ScaleLinear maps values onto [0, 1] by min/max normalization.
	ScaleLinear ScaleMode = iota

	// ScaleLog applies log10 before min/max normalization. Values at or
	// below zero are clamped to the smallest positive value in the
	// series.
	ScaleLog
)

// Point is one visualized value with its pre-computed normalized form.
type Point struct {
	Label  string
	Raw    float64
	Scaled float64
}

// Visualization is the payload of a KindVisualization block. Scaled
// values are computed once in NewVisualization and consumed verbatim by
// every renderer.
type Visualization struct {
	Kind   VizKind
	Mode   ScaleMode
	Min    float64
	Max    float64
	Points []Point
}

// NewVisualization builds a visualization block, normalizing every point
// according to the scale mode. An empty series yields an empty block; a
// constant series scales every point to 1.
func NewVisualization(kind VizKind, mode ScaleMode, points []Point) Block {
	v := &Visualization{Kind: kind, Mode: mode, Points: make([]Point, len(points))}
	copy(v.Points, points)

	if len(v.Points) > 0 {
		values := make([]float64, len(v.Points))
		for i, p := range v.Points {
			values[i] = p.Raw
		}
		if mode == ScaleLog {
			values = logTransform(values)
		}

		v.Min, v.Max = values[0], values[0]
		for _, x := range values[1:] {
			v.Min = math.Min(v.Min, x)
			v.Max = math.Max(v.Max, x)
		}

		span := v.Max - v.Min
		for i, x := range values {
			if span == 0 {
				v.Points[i].Scaled = 1
				continue
			}
			v.Points[i].Scaled = (x - v.Min) / span
		}
	}

	return Block{Kind: KindVisualization, Viz: v}
}

func logTransform(values []float64) []float64 {
	floor := math.Inf(1)
	for _, x := range values {
		if x > 0 && x < floor {
			floor = x
		}
	}
	if math.IsInf(floor, 1) {
		// no positive values, nothing to take a log of
		out := make([]float64, len(values))
		return out
	}

	out := make([]float64, len(values))
	for i, x := range values {
		if x <= 0 {
			x = floor
		}
		out[i] = math.Log10(x)
	}
	return out
}
