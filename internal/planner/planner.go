// Package planner builds ordered tile plans covering a scan region: it grids
// the region with acquisition frames, resolves the physical traversal
// direction per stage axis, visits tiles in serpentine order, and filters
// candidates against polygon boundaries.
package planner

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/piwi3910/tilescan/internal/geom"
	"github.com/piwi3910/tilescan/internal/grid"
	"github.com/piwi3910/tilescan/internal/model"
)

// MaxTilesPerRegion caps the candidate grid size for one region plan.
// Exceeding it almost always means the frame size and region use different
// units (pixels vs physical length), so it is a hard error rather than a
// silent truncation.
const MaxTilesPerRegion = 10000

// FullRegionName names the single plan produced for a rectangular region.
const FullRegionName = "FullRegion"

// RegionGeometry is the polygon capability the planner depends on for
// filtering candidate frames.
type RegionGeometry interface {
	// ContainsPoint reports whether the point lies inside the region.
	ContainsPoint(p model.Point2D) bool
	// IntersectsRect reports whether the rectangle's boundary crosses the
	// region's boundary.
	IntersectsRect(r model.Rect) bool
}

// TileLimitError reports a region whose candidate grid exceeds
// MaxTilesPerRegion, with enough detail to diagnose a unit mismatch without
// re-running.
type TileLimitError struct {
	Region      string
	Cols        int
	Rows        int
	FrameWidth  float64
	FrameHeight float64
	AreaWidth   float64
	AreaHeight  float64
}

func (e *TileLimitError) Error() string {
	return fmt.Sprintf(
		"region %q requires %d tiles (%d x %d), exceeding the limit of %d: frame %.3f x %.3f over area %.3f x %.3f — check that frame and region use the same unit",
		e.Region, e.Cols*e.Rows, e.Cols, e.Rows, MaxTilesPerRegion,
		e.FrameWidth, e.FrameHeight, e.AreaWidth, e.AreaHeight)
}

// Planner converts a region plus frame/overlap parameters into ordered tile
// plans. Planning is pure computation: the planner never touches the
// filesystem.
type Planner struct {
	Settings model.PlanSettings

	// Geometry builds the filter predicate for a polygon outline. Replaceable
	// so the planner stays decoupled from the geometry implementation.
	Geometry func(model.Outline) RegionGeometry
}

// New creates a Planner with the default polygon geometry.
func New(settings model.PlanSettings) *Planner {
	return &Planner{
		Settings: settings,
		Geometry: func(o model.Outline) RegionGeometry {
			return geom.NewPolygon(o)
		},
	}
}

// Plan produces one tile plan per polygon outline in the region, or a single
// plan for a rectangle. outputRoot is joined with each plan's region name to
// form its output directory; no files are written here.
//
// Invalid parameters reject the whole request before any computation. A
// polygon whose filter keeps zero tiles yields an empty plan plus a warning
// on the result, since it usually indicates inconsistent coordinate spaces.
func (p *Planner) Plan(region model.Region, frame model.Frame, outputRoot string) (model.PlanResult, error) {
	if err := frame.Validate(); err != nil {
		return model.PlanResult{}, err
	}
	if err := p.Settings.Validate(); err != nil {
		return model.PlanResult{}, err
	}
	if err := region.Validate(); err != nil {
		return model.PlanResult{}, err
	}

	var result model.PlanResult

	if !region.IsPolygonal() {
		plan, err := p.planArea(FullRegionName, *region.Rect, nil, nil, frame, outputRoot)
		if err != nil {
			return model.PlanResult{}, err
		}
		result.Plans = append(result.Plans, plan)
		return result, nil
	}

	for _, ro := range region.Outlines {
		name := planName(ro)
		bounds := ro.Outline.BoundingBox()
		if p.Settings.Buffer {
			// Half a frame of margin so boundary tissue is fully covered.
			bounds = bounds.Expand(frame.Width/2, frame.Height/2)
		}
		plan, err := p.planArea(name, bounds, ro.Outline, p.Geometry(ro.Outline), frame, outputRoot)
		if err != nil {
			return model.PlanResult{}, err
		}
		if len(plan.Tiles) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"region %q: filter kept no tiles — polygon and grid may use inconsistent coordinate spaces", name))
		}
		result.Plans = append(result.Plans, plan)
	}
	return result, nil
}

// planArea grids one area and emits its tiles in serpentine order. geometry
// is nil for rectangular regions, in which case every candidate is kept.
func (p *Planner) planArea(name string, bounds model.Rect, outline model.Outline, geometry RegionGeometry, frame model.Frame, outputRoot string) (model.TilePlan, error) {
	spacing, err := grid.Compute(bounds.Width(), bounds.Height(), frame.Width, frame.Height, p.Settings.OverlapFraction())
	if err != nil {
		return model.TilePlan{}, err
	}
	if spacing.Cols*spacing.Rows > MaxTilesPerRegion {
		return model.TilePlan{}, &TileLimitError{
			Region:      name,
			Cols:        spacing.Cols,
			Rows:        spacing.Rows,
			FrameWidth:  frame.Width,
			FrameHeight: frame.Height,
			AreaWidth:   bounds.Width(),
			AreaHeight:  bounds.Height(),
		}
	}

	xAxis := grid.Resolve(bounds.MinX+frame.Width/2, spacing.XStep, spacing.Cols, p.Settings.InvertX)
	yAxis := grid.Resolve(bounds.MinY+frame.Height/2, spacing.YStep, spacing.Rows, p.Settings.InvertY)

	plan := model.TilePlan{
		RegionName: name,
		OutputDir:  filepath.Join(outputRoot, name),
		Bounds:     bounds,
		Outline:    outline,
	}

	index := 0
	for row := 0; row < spacing.Rows; row++ {
		y := yAxis.At(row)
		for _, col := range grid.ColumnOrder(row, spacing.Cols) {
			x := xAxis.At(col)
			if geometry != nil && !keepTile(geometry, x, y, frame) {
				// Filtered-out candidates consume no index.
				continue
			}
			plan.Tiles = append(plan.Tiles, model.TileRecord{
				Index: index,
				Row:   row,
				Col:   col,
				X:     x,
				Y:     y,
			})
			if p.Settings.CreateMarkers {
				plan.Markers = append(plan.Markers, newMarker(index, row, col, x, y, frame))
			}
			index++
		}
	}
	return plan, nil
}

// keepTile decides region membership for one candidate frame: keep it when
// the center lies inside the polygon, or when the frame's boundary crosses
// the polygon's boundary. The second test rescues edge tiles whose center
// falls just outside a concave boundary while the frame still covers tissue.
func keepTile(geometry RegionGeometry, x, y float64, frame model.Frame) bool {
	center := model.Point2D{X: x, Y: y}
	if geometry.ContainsPoint(center) {
		return true
	}
	tileRect := model.Rect{
		MinX: x - frame.Width/2,
		MinY: y - frame.Height/2,
		MaxX: x + frame.Width/2,
		MaxY: y + frame.Height/2,
	}
	return geometry.IntersectsRect(tileRect)
}

// planName derives a plan name for a polygon outline: its explicit label if
// set, otherwise a centroid-derived name, since annotation regions are
// user-defined and may lack a stable name.
func planName(ro model.RegionOutline) string {
	if ro.Label != "" {
		return ro.Label
	}
	c := ro.Outline.Centroid()
	return fmt.Sprintf("Region_x%d_y%d", int(math.Round(c.X)), int(math.Round(c.Y)))
}
