package grid

// Serpentine visit order: rows are visited in logical order, but the column
// traversal direction alternates per row so the stage moves a single step
// between the last tile of one row and the first tile of the next instead of
// rewinding across the full width.

// RowReversed reports whether the given logical row traverses its columns in
// reverse. Even rows go forward, odd rows backward. Row indices are logical,
// i.e. before axis inversion is applied; the two sign flips compose.
func RowReversed(row int) bool {
	return row%2 == 1
}

// ColumnOrder returns the column visit order for the given logical row.
func ColumnOrder(row, cols int) []int {
	order := make([]int, cols)
	if RowReversed(row) {
		for i := range order {
			order[i] = cols - 1 - i
		}
		return order
	}
	for i := range order {
		order[i] = i
	}
	return order
}
