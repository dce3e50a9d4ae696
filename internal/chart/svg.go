package chart

import (
	"html"
	"html/template"
	"math"
	"strconv"
	"strings"

	"xpdash/internal/core"
)

// Colours match the dashboard stylesheet.
const (
	BarFill      = "#4CAF50"
	AreaFill     = "rgba(76, 175, 80, 0.3)"
	LineStroke   = "#4CAF50"
	MarkerFill   = "#388E3C"
	MarkerRadius = 3
)

const (
	projectsEmptyText  = "No project XP yet"
	exercisesEmptyText = "No exercise XP yet"
)

// Indirection so tests can observe that empty subsets never reach layout.
var (
	barLayout    = LayoutBars
	seriesLayout = LayoutSeries
)

// RenderProjects draws the project bar chart for a container of the given
// size. An empty subset renders a placeholder and skips layout.
func RenderProjects(data []core.Transaction, width, height float64) template.HTML {
	var sb strings.Builder
	openSVG(&sb, "project-xp-graph", width, height)
	if len(data) == 0 {
		placeholder(&sb, projectsEmptyText, width, height)
	} else {
		for _, b := range barLayout(data, width, height) {
			writeBar(&sb, b)
		}
	}
	sb.WriteString(`</svg>`)
	return template.HTML(sb.String())
}

// RenderExercises draws the exercise area/line chart. Markers carry their
// tooltip in data-tooltip; the page script positions it at the pointer.
func RenderExercises(data []core.Transaction, width, height float64) template.HTML {
	var sb strings.Builder
	openSVG(&sb, "exercise-xp-graph", width, height)
	if len(data) == 0 {
		placeholder(&sb, exercisesEmptyText, width, height)
	} else {
		writeSeries(&sb, seriesLayout(data, width, height))
	}
	sb.WriteString(`</svg>`)
	return template.HTML(sb.String())
}

func writeBar(sb *strings.Builder, b Bar) {
	sb.WriteString(`<rect x="` + num(b.X) + `" y="` + num(b.Y) +
		`" width="` + size(b.Width) + `" height="` + size(b.Height) +
		`" fill="` + BarFill + `"/>`)

	lx, ly := num(b.Label.X), num(b.Label.Y)
	sb.WriteString(`<text class="bar-label" x="` + lx + `" y="` + ly +
		`" transform="rotate(` + num(b.Label.Rotation) + ` ` + lx + ` ` + ly +
		`)" text-anchor="middle">` + html.EscapeString(b.Label.Text) + `</text>`)

	sb.WriteString(`<text class="value-label" x="` + num(b.Value.X) + `" y="` + num(b.Value.Y) +
		`" text-anchor="middle">` + html.EscapeString(b.Value.Text) + `</text>`)
}

func writeSeries(sb *strings.Builder, s Series) {
	sb.WriteString(`<polygon points="` + points(s.Area) + `" fill="` + AreaFill + `"/>`)
	sb.WriteString(`<polyline points="` + points(s.Line) + `" fill="none" stroke="` + LineStroke + `" stroke-width="2"/>`)
	for _, m := range s.Markers {
		sb.WriteString(`<circle class="xp-point" cx="` + num(m.X) + `" cy="` + num(m.Y) +
			`" r="` + strconv.Itoa(MarkerRadius) + `" fill="` + MarkerFill +
			`" data-tooltip="` + html.EscapeString(m.Tooltip) + `"/>`)
	}
}

func openSVG(sb *strings.Builder, id string, width, height float64) {
	w, h := num(width), num(height)
	sb.WriteString(`<svg id="` + id + `" class="chart" xmlns="http://www.w3.org/2000/svg" width="` + w +
		`" height="` + h + `" viewBox="0 0 ` + w + ` ` + h + `">`)
}

func placeholder(sb *strings.Builder, text string, width, height float64) {
	sb.WriteString(`<text class="chart-empty" x="` + num(width/2) + `" y="` + num(height/2) +
		`" text-anchor="middle">` + html.EscapeString(text) + `</text>`)
}

func points(ps []Point) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

// num prints the shortest decimal that round-trips, so 44 stays "44".
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// size formats a rect dimension. Crowded layouts can go negative, which SVG
// rejects.
func size(v float64) string {
	return num(math.Max(0, v))
}
