// Package chart computes pixel geometry for the dashboard charts and draws
// it as SVG. Layout functions are pure: every call allocates fresh geometry
// from its arguments and nothing is cached between calls.
package chart

import (
	"strconv"

	"xpdash/internal/core"
)

const (
	// MarginTop and MarginBottom reserve room for value and name labels.
	MarginTop    = 40.0
	MarginBottom = 40.0

	// BarGap is the fixed horizontal gap between bars and at both edges.
	BarGap = 12.0

	// ValueLabelOffset lifts the value label above the bar top.
	ValueLabelOffset = 6.0

	// LabelRotation turns the name label 90° counter-clockwise.
	LabelRotation = -90.0
)

// TextAnchor places a text node. Rotation is in degrees about (X, Y).
type TextAnchor struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Text     string  `json:"text"`
}

// Bar is the geometry of one record in the categorical bar chart.
type Bar struct {
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Label  TextAnchor `json:"label"`
	Value  TextAnchor `json:"value"`
}

// LayoutBars lays out one bar per record, index-aligned with data.
// Callers are expected to skip layout for an empty subset; when they do
// not, the result is nil.
func LayoutBars(data []core.Transaction, width, height float64) []Bar {
	n := len(data)
	if n == 0 {
		return nil
	}

	baseline := height - MarginBottom
	usable := height - MarginTop - MarginBottom
	maxValue := maxAmount(data)
	barWidth := (width - BarGap*float64(n+1)) / float64(n)

	bars := make([]Bar, n)
	for i, r := range data {
		h := scale(r.Amount, maxValue) * usable
		x := BarGap + float64(i)*(barWidth+BarGap)
		y := baseline - h
		cx := x + barWidth/2

		bars[i] = Bar{
			X:      x,
			Y:      y,
			Width:  barWidth,
			Height: h,
			Label: TextAnchor{
				X:        cx,
				Y:        y + h/2,
				Rotation: LabelRotation,
				Text:     r.Object.Name,
			},
			Value: TextAnchor{
				X:    cx,
				Y:    y - ValueLabelOffset,
				Text: strconv.FormatInt(r.Amount, 10),
			},
		}
	}
	return bars
}

// maxAmount returns the largest amount, floored at 0.
func maxAmount(data []core.Transaction) int64 {
	var m int64
	for _, r := range data {
		if r.Amount > m {
			m = r.Amount
		}
	}
	return m
}

// scale maps amount into [0, 1] relative to max; 0/0 is 0.
func scale(amount, max int64) float64 {
	if max <= 0 {
		return 0
	}
	return float64(amount) / float64(max)
}
