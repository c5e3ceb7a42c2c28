// Package grid contains the pure math for covering an area with acquisition
// frames: step/count calculation, per-axis traversal direction, and the
// serpentine visit order.
package grid

import (
	"fmt"
	"math"
)

// multipleTolerance decides when area/step counts as an exact integer
// multiple. Chosen well below any realistic stage resolution.
const multipleTolerance = 1e-9

// Spacing holds the per-axis step sizes and tile counts that cover an area.
type Spacing struct {
	XStep float64
	YStep float64
	Cols  int
	Rows  int
}

// Compute returns the step sizes and minimal row/column counts so that frames
// placed at start + i*step cover the whole area, including the far edge.
// overlap is a fraction in [0, 1) applied identically to both axes.
//
// A frame whose far edge lands exactly on the area boundary does not count as
// covering it, so an exact multiple of the step gets one extra tile.
func Compute(areaW, areaH, frameW, frameH, overlap float64) (Spacing, error) {
	if frameW <= 0 || frameH <= 0 {
		return Spacing{}, fmt.Errorf("frame dimensions must be positive, got %.3f x %.3f", frameW, frameH)
	}
	if overlap < 0 || overlap >= 1 {
		return Spacing{}, fmt.Errorf("overlap fraction must be in [0, 1), got %.3f", overlap)
	}
	if areaW < 0 || areaH < 0 {
		return Spacing{}, fmt.Errorf("area dimensions must not be negative, got %.3f x %.3f", areaW, areaH)
	}

	xStep := frameW * (1 - overlap)
	yStep := frameH * (1 - overlap)
	return Spacing{
		XStep: xStep,
		YStep: yStep,
		Cols:  countAlong(areaW, xStep),
		Rows:  countAlong(areaH, yStep),
	}, nil
}

// countAlong returns the number of frames needed along one axis.
func countAlong(area, step float64) int {
	ratio := area / step
	n := int(math.Ceil(ratio))
	if isIntegerMultiple(ratio) {
		// Trailing edge would land exactly on the boundary: add one tile.
		n = int(math.Round(ratio)) + 1
	}
	if n < 1 {
		n = 1
	}
	return n
}

// isIntegerMultiple reports whether the ratio is an integer within tolerance.
func isIntegerMultiple(ratio float64) bool {
	return math.Abs(ratio-math.Round(ratio)) < multipleTolerance
}
