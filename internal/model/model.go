// Package model defines the data model for tile scan planning: regions to
// cover, acquisition frames, planner settings, and the resulting tile plans.
package model

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Point2D represents a 2D coordinate. Units are whatever the caller supplies
// (pixels or physical length) and must be consistent within one planning call.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// NewRect returns a Rect with the coordinates normalized so min <= max.
func NewRect(x1, y1, x2, y2 float64) Rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{MinX: x1, MinY: y1, MaxX: x2, MaxY: y2}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Expand grows the rectangle outward by dx and dy on each side.
func (r Rect) Expand(dx, dy float64) Rect {
	return Rect{MinX: r.MinX - dx, MinY: r.MinY - dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Contains reports whether the point lies inside the rectangle (inclusive).
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the axis-aligned bounding rectangle of the outline.
func (o Outline) BoundingBox() Rect {
	if len(o) == 0 {
		return Rect{}
	}
	r := Rect{MinX: o[0].X, MinY: o[0].Y, MaxX: o[0].X, MaxY: o[0].Y}
	for _, p := range o[1:] {
		if p.X < r.MinX {
			r.MinX = p.X
		}
		if p.Y < r.MinY {
			r.MinY = p.Y
		}
		if p.X > r.MaxX {
			r.MaxX = p.X
		}
		if p.Y > r.MaxY {
			r.MaxY = p.Y
		}
	}
	return r
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Area computes the absolute area of the outline using the shoelace formula.
func (o Outline) Area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}

// Centroid returns the vertex centroid of the outline.
func (o Outline) Centroid() Point2D {
	if len(o) == 0 {
		return Point2D{}
	}
	var sx, sy float64
	for _, p := range o {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(o))
	return Point2D{X: sx / n, Y: sy / n}
}

// RegionOutline is a closed polygon boundary to scan, optionally labeled.
// Unlabeled outlines are named from their centroid when planned.
type RegionOutline struct {
	ID      string  `json:"id"`
	Label   string  `json:"label,omitempty"`
	Outline Outline `json:"outline"`
}

// NewRegionOutline creates a labeled region outline with a fresh short ID.
func NewRegionOutline(label string, outline Outline) RegionOutline {
	return RegionOutline{
		ID:      uuid.New().String()[:8],
		Label:   label,
		Outline: outline,
	}
}

// Region is the area to cover: either a plain rectangle or one or more
// polygon outlines. Exactly one of the two forms must be set.
type Region struct {
	Rect     *Rect           `json:"rect,omitempty"`
	Outlines []RegionOutline `json:"outlines,omitempty"`
}

// RectRegion builds a rectangular region.
func RectRegion(minX, minY, maxX, maxY float64) Region {
	r := NewRect(minX, minY, maxX, maxY)
	return Region{Rect: &r}
}

// PolygonRegion builds a region from one or more polygon outlines.
func PolygonRegion(outlines ...RegionOutline) Region {
	return Region{Outlines: outlines}
}

// IsPolygonal reports whether the region is defined by polygon outlines.
func (r Region) IsPolygonal() bool { return len(r.Outlines) > 0 }

// Validate checks that the region describes a usable area.
func (r Region) Validate() error {
	if r.Rect == nil && len(r.Outlines) == 0 {
		return fmt.Errorf("region has neither a rectangle nor polygon outlines")
	}
	if r.Rect != nil && len(r.Outlines) > 0 {
		return fmt.Errorf("region has both a rectangle and polygon outlines")
	}
	for _, o := range r.Outlines {
		if len(o.Outline) < 3 {
			return fmt.Errorf("region outline %q has fewer than 3 points", o.Label)
		}
	}
	return nil
}

// Frame is the footprint of one acquisition. Width and height are in the same
// unit as the region.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate checks that the frame dimensions are strictly positive.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame dimensions must be positive, got %.3f x %.3f", f.Width, f.Height)
	}
	return nil
}

// PlanSettings holds the planner configuration for one planning call.
type PlanSettings struct {
	OverlapPercent float64 `json:"overlap_percent"` // Overlap between adjacent frames, 0-100 (exclusive)
	InvertX        bool    `json:"invert_x"`        // Stage X axis runs opposite to image X
	InvertY        bool    `json:"invert_y"`        // Stage Y axis runs opposite to image Y
	Buffer         bool    `json:"buffer"`          // Expand polygon bounds by half a frame before gridding
	CreateMarkers  bool    `json:"create_markers"`  // Produce a visual marker per kept tile
}

// DefaultSettings returns the standard planner configuration.
func DefaultSettings() PlanSettings {
	return PlanSettings{
		OverlapPercent: 10.0,
		InvertX:        false,
		InvertY:        false,
		Buffer:         true,
		CreateMarkers:  false,
	}
}

// OverlapFraction converts the stored percentage to a fraction in [0, 1).
func (s PlanSettings) OverlapFraction() float64 { return s.OverlapPercent / 100.0 }

// Validate checks the settings ranges.
func (s PlanSettings) Validate() error {
	if s.OverlapPercent < 0 || s.OverlapPercent >= 100 {
		return fmt.Errorf("overlap must be in [0, 100), got %.1f%%", s.OverlapPercent)
	}
	return nil
}

// TileRecord is one planned frame placement. Index is assigned in emission
// order, contiguous from 0, and keys the physically captured frame file
// (<index>.tif) downstream. Row and Col are the logical grid indices kept for
// diagnostics and marker naming.
type TileRecord struct {
	Index int     `json:"index"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	X     float64 `json:"x"` // Frame center
	Y     float64 `json:"y"` // Frame center
}

// TileMarker is a lightweight visual marker for a kept tile, intended for
// on-screen feedback. It is a side output and not required for the
// correctness of the position list.
type TileMarker struct {
	Name         string             `json:"name"`
	Bounds       Rect               `json:"bounds"`
	Measurements map[string]float64 `json:"measurements"`
}

// TilePlan is the ordered list of tiles for one region. It is built fresh for
// every planning call and never mutated after construction.
type TilePlan struct {
	RegionName string       `json:"region_name"`
	OutputDir  string       `json:"output_dir"`
	Bounds     Rect         `json:"bounds"`            // Gridded area, including any buffer expansion
	Outline    Outline      `json:"outline,omitempty"` // Polygon boundary; nil for rectangular regions
	Tiles      []TileRecord `json:"tiles"`
	Markers    []TileMarker `json:"markers,omitempty"`
}

// PlanResult holds the plans produced by one planning call, one per polygon
// outline or exactly one for a rectangle, plus any non-fatal warnings.
type PlanResult struct {
	Plans    []TilePlan `json:"plans"`
	Warnings []string   `json:"warnings,omitempty"`
}

// TotalTiles returns the number of kept tiles across all plans.
func (r PlanResult) TotalTiles() int {
	var n int
	for _, p := range r.Plans {
		n += len(p.Tiles)
	}
	return n
}
