package grid

// Axis describes the physical traversal of one stage axis: iterating
// Start + i*Step for i in [0, count) visits every frame position from one
// physical end of the area to the other.
type Axis struct {
	Start float64
	Step  float64
}

// Resolve maps a logical axis traversal to a physical one. start is the first
// frame position at the area's near end, step the positive step magnitude and
// count the number of frames along the axis.
//
// When the axis is inverted the traversal begins at the area's far end (the
// last frame position) and steps backwards. Inversion changes only the order
// and start point, never the set of positions visited, so X and Y inversion
// compose freely with each other and with serpentine reversal.
func Resolve(start, step float64, count int, inverted bool) Axis {
	if inverted {
		return Axis{
			Start: start + float64(count-1)*step,
			Step:  -step,
		}
	}
	return Axis{Start: start, Step: step}
}

// At returns the physical coordinate of the i-th position along the axis.
func (a Axis) At(i int) float64 {
	return a.Start + float64(i)*a.Step
}
