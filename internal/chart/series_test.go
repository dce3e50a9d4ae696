package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpdash/internal/core"
)

func exercise(name string, amount int64) core.Transaction {
	return core.Transaction{Amount: amount, Object: core.Object{Type: core.ObjectExercise, Name: name}}
}

func TestLayoutSeries_Empty(t *testing.T) {
	s := LayoutSeries(nil, 1000, 400)
	assert.True(t, s.Empty())
	assert.Empty(t, s.Area)
	assert.Empty(t, s.Markers)
}

func TestLayoutSeries_SinglePointCentered(t *testing.T) {
	s := LayoutSeries([]core.Transaction{exercise("isprime", 700)}, 1000, 400)
	require.Len(t, s.Line, 1)
	assert.InDelta(t, 500, s.Line[0].X, 1e-9)
	assert.InDelta(t, 40, s.Line[0].Y, 1e-9)
	assert.Equal(t, []Point{{0, 360}, {500, 40}, {1000, 360}}, s.Area)
}

func TestLayoutSeries_PeakInMiddle(t *testing.T) {
	data := []core.Transaction{exercise("a", 0), exercise("b", 900), exercise("c", 0)}
	s := LayoutSeries(data, 1000, 400)

	const baseline, chartHeight = 360.0, 320.0
	require.Len(t, s.Line, 3)
	assert.InDelta(t, baseline-chartHeight, s.Line[1].Y, 1e-9)
	assert.InDelta(t, baseline, s.Line[0].Y, 1e-9)
	assert.InDelta(t, baseline, s.Line[2].Y, 1e-9)

	assert.InDelta(t, 0, s.Line[0].X, 1e-9)
	assert.InDelta(t, 500, s.Line[1].X, 1e-9)
	assert.InDelta(t, 1000, s.Line[2].X, 1e-9)
}

func TestLayoutSeries_AreaHasTwoAnchors(t *testing.T) {
	for n := 1; n <= 6; n++ {
		var data []core.Transaction
		for i := 0; i < n; i++ {
			data = append(data, exercise("e", int64(i*10)))
		}
		s := LayoutSeries(data, 640, 300)
		require.Len(t, s.Area, n+2, "n=%d", n)
		require.Len(t, s.Line, n)
		require.Len(t, s.Markers, n)
		assert.Equal(t, Point{0, 260}, s.Area[0])
		assert.Equal(t, Point{640, 260}, s.Area[n+1])
		assert.Equal(t, s.Line, s.Area[1:n+1])
	}
}

func TestLayoutSeries_AllZeroIsFlat(t *testing.T) {
	data := []core.Transaction{exercise("a", 0), exercise("b", 0)}
	s := LayoutSeries(data, 100, 200)
	for _, p := range s.Line {
		assert.InDelta(t, 160, p.Y, 1e-9)
	}
}

func TestLayoutSeries_InsideContainer(t *testing.T) {
	data := []core.Transaction{exercise("a", 3), exercise("b", 17), exercise("c", 9), exercise("d", 0)}
	const w, h = 333.0, 222.0
	s := LayoutSeries(data, w, h)
	for _, p := range s.Area {
		assert.True(t, p.X >= 0 && p.X <= w, "x=%v", p.X)
		assert.True(t, p.Y >= 0 && p.Y <= h, "y=%v", p.Y)
	}
}

func TestLayoutSeries_Tooltips(t *testing.T) {
	s := LayoutSeries([]core.Transaction{exercise("printalphabet", 500), exercise("isprime", 0)}, 200, 200)
	require.Len(t, s.Markers, 2)
	assert.Equal(t, "printalphabet: 500 XP", s.Markers[0].Tooltip)
	assert.Equal(t, "isprime: 0 XP", s.Markers[1].Tooltip)
	assert.Equal(t, s.Line[0].X, s.Markers[0].X)
	assert.Equal(t, s.Line[0].Y, s.Markers[0].Y)
}
