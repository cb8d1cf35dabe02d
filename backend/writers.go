package backend

// RowWriter is implemented by backends that can accept a run of cells at once.
// The runtime prefers it over per-cell SetContent when a row is mostly dirty.
type RowWriter interface {
	SetRow(y int, startX int, cells []Cell)
}
