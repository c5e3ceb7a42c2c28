package planner

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/tilescan/internal/model"
)

func testSettings() model.PlanSettings {
	s := model.DefaultSettings()
	s.OverlapPercent = 0
	s.Buffer = false
	return s
}

func planRect(t *testing.T, settings model.PlanSettings, minX, minY, maxX, maxY float64, frame model.Frame) model.TilePlan {
	t.Helper()
	result, err := New(settings).Plan(model.RectRegion(minX, minY, maxX, maxY), frame, t.TempDir())
	require.NoError(t, err)
	require.Len(t, result.Plans, 1)
	return result.Plans[0]
}

func TestPlan_ConcreteScenario(t *testing.T) {
	// Rectangle (0,0)-(100,100), frame 40x40, 0% overlap: step 40, 3x3 grid,
	// 9 tiles, serpentine row 1 reversed.
	plan := planRect(t, testSettings(), 0, 0, 100, 100, model.Frame{Width: 40, Height: 40})

	require.Len(t, plan.Tiles, 9)
	assert.Equal(t, FullRegionName, plan.RegionName)

	for i, tile := range plan.Tiles {
		assert.Equal(t, i, tile.Index, "indices follow emission order")
	}

	wantCols := []int{0, 1, 2, 2, 1, 0, 0, 1, 2}
	wantRows := []int{0, 0, 0, 1, 1, 1, 2, 2, 2}
	for i, tile := range plan.Tiles {
		assert.Equal(t, wantCols[i], tile.Col, "tile %d column", i)
		assert.Equal(t, wantRows[i], tile.Row, "tile %d row", i)
	}

	// First row centers: 20, 60, 100 at y=20
	assert.InDelta(t, 20.0, plan.Tiles[0].X, 1e-9)
	assert.InDelta(t, 60.0, plan.Tiles[1].X, 1e-9)
	assert.InDelta(t, 100.0, plan.Tiles[2].X, 1e-9)
	assert.InDelta(t, 20.0, plan.Tiles[2].Y, 1e-9)
	// Second row starts where the first ended
	assert.InDelta(t, 100.0, plan.Tiles[3].X, 1e-9)
	assert.InDelta(t, 60.0, plan.Tiles[3].Y, 1e-9)
}

func TestPlan_SerpentineAdjacency(t *testing.T) {
	plan := planRect(t, testSettings(), 0, 0, 200, 150, model.Frame{Width: 45, Height: 45})

	var rows [][]model.TileRecord
	for _, tile := range plan.Tiles {
		if tile.Row >= len(rows) {
			rows = append(rows, nil)
		}
		rows[tile.Row] = append(rows[tile.Row], tile)
	}
	require.GreaterOrEqual(t, len(rows), 2)

	for r := 0; r+1 < len(rows); r++ {
		last := rows[r][len(rows[r])-1]
		first := rows[r+1][0]
		assert.LessOrEqual(t, int(math.Abs(float64(last.Col-first.Col))), 1,
			"row %d ends at col %d but row %d starts at col %d", r, last.Col, r+1, first.Col)
	}
}

// coverageCheck asserts the kept tiles leave no gap over [min, max] on one
// axis: the first frame reaches the near edge, the last reaches past the far
// edge, and adjacent centers are never more than a frame apart.
func coverageCheck(t *testing.T, centers []float64, min, max, frame float64) {
	t.Helper()
	unique := map[float64]bool{}
	for _, c := range centers {
		unique[math.Round(c*1e6)/1e6] = true
	}
	sorted := make([]float64, 0, len(unique))
	for c := range unique {
		sorted = append(sorted, c)
	}
	sort.Float64s(sorted)

	require.NotEmpty(t, sorted)
	assert.LessOrEqual(t, sorted[0]-frame/2, min+1e-9, "near edge uncovered")
	assert.GreaterOrEqual(t, sorted[len(sorted)-1]+frame/2, max-1e-9, "far edge uncovered")
	for i := 0; i+1 < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i+1]-sorted[i], frame+1e-9, "gap between adjacent tiles")
	}
}

func TestPlan_RectangleCoverage(t *testing.T) {
	for _, overlap := range []float64{0, 10, 50} {
		t.Run(fmt.Sprintf("overlap%.0f", overlap), func(t *testing.T) {
			settings := testSettings()
			settings.OverlapPercent = overlap
			plan := planRect(t, settings, 0, 0, 100, 100, model.Frame{Width: 40, Height: 40})

			var xs, ys []float64
			for _, tile := range plan.Tiles {
				xs = append(xs, tile.X)
				ys = append(ys, tile.Y)
			}
			coverageCheck(t, xs, 0, 100, 40)
			coverageCheck(t, ys, 0, 100, 40)
		})
	}
}

func centerSet(plan model.TilePlan) map[string]bool {
	set := map[string]bool{}
	for _, tile := range plan.Tiles {
		set[fmt.Sprintf("%.6f/%.6f", tile.X, tile.Y)] = true
	}
	return set
}

func TestPlan_AxisInversionSymmetry(t *testing.T) {
	frame := model.Frame{Width: 40, Height: 40}
	base := planRect(t, testSettings(), 0, 0, 100, 100, frame)

	for _, tc := range []struct{ invertX, invertY bool }{
		{true, false},
		{false, true},
		{true, true},
	} {
		settings := testSettings()
		settings.InvertX = tc.invertX
		settings.InvertY = tc.invertY
		inverted := planRect(t, settings, 0, 0, 100, 100, frame)

		require.Len(t, inverted.Tiles, len(base.Tiles))
		assert.Equal(t, centerSet(base), centerSet(inverted),
			"invertX=%v invertY=%v must visit the same centers", tc.invertX, tc.invertY)
	}
}

func TestPlan_InvertedXStartsAtFarEnd(t *testing.T) {
	settings := testSettings()
	settings.InvertX = true
	plan := planRect(t, settings, 0, 0, 100, 100, model.Frame{Width: 40, Height: 40})

	assert.InDelta(t, 100.0, plan.Tiles[0].X, 1e-9)
	assert.InDelta(t, 60.0, plan.Tiles[1].X, 1e-9)
	assert.InDelta(t, 20.0, plan.Tiles[2].X, 1e-9)
}

func TestPlan_PolygonFilterKeepsContiguousIndices(t *testing.T) {
	// A triangle keeps only part of its bounding grid; kept indices must
	// still be exactly 0..N-1.
	triangle := model.NewRegionOutline("Tri", model.Outline{
		{X: 0, Y: 0},
		{X: 200, Y: 0},
		{X: 0, Y: 200},
	})
	settings := testSettings()
	result, err := New(settings).Plan(model.PolygonRegion(triangle), model.Frame{Width: 30, Height: 30}, t.TempDir())
	require.NoError(t, err)
	require.Len(t, result.Plans, 1)

	plan := result.Plans[0]
	require.NotEmpty(t, plan.Tiles)
	// The grid corner far from the hypotenuse must have been filtered out
	full := int(math.Ceil(200.0/30.0)) * int(math.Ceil(200.0/30.0))
	assert.Less(t, len(plan.Tiles), full)

	for i, tile := range plan.Tiles {
		assert.Equal(t, i, tile.Index)
	}
	assert.Equal(t, "Tri", plan.RegionName)
}

func TestPlan_PolygonKeepsEdgeTiles(t *testing.T) {
	// Tiles whose center falls just outside the boundary are kept when the
	// frame itself still crosses it.
	square := model.NewRegionOutline("Sq", model.Outline{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	})
	settings := testSettings()
	settings.Buffer = true
	frame := model.Frame{Width: 40, Height: 40}
	result, err := New(settings).Plan(model.PolygonRegion(square), frame, t.TempDir())
	require.NoError(t, err)

	plan := result.Plans[0]
	// Buffer expands the gridded bounds by half a frame per side
	assert.InDelta(t, -20.0, plan.Bounds.MinX, 1e-9)
	assert.InDelta(t, 120.0, plan.Bounds.MaxX, 1e-9)

	// Every boundary-crossing tile is kept even when its center is outside
	for _, tile := range plan.Tiles {
		inside := tile.X >= 0 && tile.X <= 100 && tile.Y >= 0 && tile.Y <= 100
		if !inside {
			crosses := tile.X+frame.Width/2 >= 0 && tile.X-frame.Width/2 <= 100 &&
				tile.Y+frame.Height/2 >= 0 && tile.Y-frame.Height/2 <= 100
			assert.True(t, crosses, "kept tile at (%.1f, %.1f) neither contains tissue nor crosses the boundary", tile.X, tile.Y)
		}
	}
}

func TestPlan_MultiplePolygonsYieldOnePlanEach(t *testing.T) {
	a := model.NewRegionOutline("A", model.Outline{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}, {X: 0, Y: 50}})
	b := model.NewRegionOutline("B", model.Outline{{X: 200, Y: 200}, {X: 260, Y: 200}, {X: 260, Y: 260}, {X: 200, Y: 260}})

	root := t.TempDir()
	result, err := New(testSettings()).Plan(model.PolygonRegion(a, b), model.Frame{Width: 30, Height: 30}, root)
	require.NoError(t, err)
	require.Len(t, result.Plans, 2)

	assert.Equal(t, filepath.Join(root, "A"), result.Plans[0].OutputDir)
	assert.Equal(t, filepath.Join(root, "B"), result.Plans[1].OutputDir)
	// Indices are local to each plan, never global
	assert.Equal(t, 0, result.Plans[0].Tiles[0].Index)
	assert.Equal(t, 0, result.Plans[1].Tiles[0].Index)
}

func TestPlan_UnlabeledPolygonNamedFromCentroid(t *testing.T) {
	ro := model.RegionOutline{ID: "x", Outline: model.Outline{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	}}
	result, err := New(testSettings()).Plan(model.PolygonRegion(ro), model.Frame{Width: 40, Height: 40}, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "Region_x50_y50", result.Plans[0].RegionName)
}

func TestPlan_TileLimitRejected(t *testing.T) {
	// 1000x1000 area with a 1x1 frame needs over 10,000 tiles: reject, do
	// not truncate.
	_, err := New(testSettings()).Plan(model.RectRegion(0, 0, 1000, 1000), model.Frame{Width: 1, Height: 1}, t.TempDir())
	require.Error(t, err)

	var limitErr *TileLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, FullRegionName, limitErr.Region)
	assert.Greater(t, limitErr.Cols*limitErr.Rows, MaxTilesPerRegion)
	assert.Equal(t, 1.0, limitErr.FrameWidth)
	assert.Contains(t, limitErr.Error(), "same unit")
}

func TestPlan_InvalidParameters(t *testing.T) {
	rect := model.RectRegion(0, 0, 100, 100)
	frame := model.Frame{Width: 40, Height: 40}

	t.Run("zero frame", func(t *testing.T) {
		_, err := New(testSettings()).Plan(rect, model.Frame{}, t.TempDir())
		assert.Error(t, err)
	})
	t.Run("overlap at 100", func(t *testing.T) {
		s := testSettings()
		s.OverlapPercent = 100
		_, err := New(s).Plan(rect, frame, t.TempDir())
		assert.Error(t, err)
	})
	t.Run("empty region", func(t *testing.T) {
		_, err := New(testSettings()).Plan(model.Region{}, frame, t.TempDir())
		assert.Error(t, err)
	})
	t.Run("degenerate outline", func(t *testing.T) {
		ro := model.RegionOutline{Label: "bad", Outline: model.Outline{{X: 0, Y: 0}, {X: 1, Y: 1}}}
		_, err := New(testSettings()).Plan(model.PolygonRegion(ro), frame, t.TempDir())
		assert.Error(t, err)
	})
}

// rejectAll is a RegionGeometry stub that filters out every candidate.
type rejectAll struct{}

func (rejectAll) ContainsPoint(model.Point2D) bool { return false }
func (rejectAll) IntersectsRect(model.Rect) bool   { return false }

func TestPlan_EmptyPolygonPlanWarns(t *testing.T) {
	ro := model.NewRegionOutline("Ghost", model.Outline{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	})
	p := New(testSettings())
	p.Geometry = func(model.Outline) RegionGeometry { return rejectAll{} }

	result, err := p.Plan(model.PolygonRegion(ro), model.Frame{Width: 40, Height: 40}, t.TempDir())
	require.NoError(t, err, "an empty polygon plan is valid, not an error")
	require.Len(t, result.Plans, 1)
	assert.Empty(t, result.Plans[0].Tiles)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Ghost")
}

func TestPlan_Markers(t *testing.T) {
	settings := testSettings()
	settings.CreateMarkers = true
	plan := planRect(t, settings, 0, 0, 100, 100, model.Frame{Width: 40, Height: 40})

	require.Len(t, plan.Markers, len(plan.Tiles))
	m := plan.Markers[3]
	tile := plan.Tiles[3]
	assert.Equal(t, float64(tile.Index), m.Measurements["Tile index"])
	assert.Equal(t, float64(tile.Row), m.Measurements["Row"])
	assert.Equal(t, float64(tile.Col), m.Measurements["Column"])
	assert.InDelta(t, tile.X, (m.Bounds.MinX+m.Bounds.MaxX)/2, 1e-9)
	assert.InDelta(t, 40.0, m.Bounds.Width(), 1e-9)
}

func TestPlan_NoMarkersByDefault(t *testing.T) {
	plan := planRect(t, testSettings(), 0, 0, 100, 100, model.Frame{Width: 40, Height: 40})
	assert.Empty(t, plan.Markers)
}
