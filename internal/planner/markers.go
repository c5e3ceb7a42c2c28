package planner

import (
	"fmt"

	"github.com/piwi3910/tilescan/internal/model"
)

// newMarker builds the visual marker for one kept tile. The marker carries
// the tile's frame rectangle plus its index and grid position as attached
// measurements, for on-screen feedback in a viewer.
func newMarker(index, row, col int, x, y float64, frame model.Frame) model.TileMarker {
	return model.TileMarker{
		Name: fmt.Sprintf("Tile %d (r%d, c%d)", index, row, col),
		Bounds: model.Rect{
			MinX: x - frame.Width/2,
			MinY: y - frame.Height/2,
			MaxX: x + frame.Width/2,
			MaxY: y + frame.Height/2,
		},
		Measurements: map[string]float64{
			"Tile index": float64(index),
			"Row":        float64(row),
			"Column":     float64(col),
		},
	}
}
