package chart

import (
	"strconv"

	"xpdash/internal/core"
)

// Point is a chart-local coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Marker is a hoverable data point. Tooltip positioning is left to the
// presentation layer, which places it at the pointer, not at (X, Y).
type Marker struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Tooltip string  `json:"tooltip"`
}

// Series is the geometry of the area/line chart.
type Series struct {
	Area    []Point  `json:"area"`
	Line    []Point  `json:"line"`
	Markers []Marker `json:"markers"`
}

// Empty reports whether the series has nothing to draw.
func (s Series) Empty() bool { return len(s.Line) == 0 }

// LayoutSeries spreads the time-ordered records evenly across width and
// scales them into the band between the top and bottom margins. The area
// polygon is closed against the baseline at x=0 and x=width.
func LayoutSeries(data []core.Transaction, width, height float64) Series {
	n := len(data)
	if n == 0 {
		return Series{}
	}

	chartHeight := height - MarginTop - MarginBottom
	baseline := height - MarginBottom
	maxValue := maxAmount(data)

	var stepX float64
	if n > 1 {
		stepX = width / float64(n-1)
	}

	s := Series{
		Area:    make([]Point, 0, n+2),
		Line:    make([]Point, 0, n),
		Markers: make([]Marker, 0, n),
	}
	s.Area = append(s.Area, Point{X: 0, Y: baseline})

	for i, r := range data {
		x := stepX * float64(i)
		if n == 1 {
			x = width / 2
		}
		y := baseline
		if maxValue > 0 {
			y = baseline - scale(r.Amount, maxValue)*chartHeight
		}

		p := Point{X: x, Y: y}
		s.Area = append(s.Area, p)
		s.Line = append(s.Line, p)
		s.Markers = append(s.Markers, Marker{X: x, Y: y, Tooltip: Tooltip(r)})
	}

	s.Area = append(s.Area, Point{X: width, Y: baseline})
	return s
}

// Tooltip is the hover text for a record: "<name>: <amount> XP".
func Tooltip(r core.Transaction) string {
	return r.Object.Name + ": " + strconv.FormatInt(r.Amount, 10) + " XP"
}
