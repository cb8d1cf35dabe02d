package runtime

// Widgets render into a Buffer every frame. The Buffer only marks cells
// whose content actually changed, so the app flushes the minimal set of
// cells to the backend.

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-counter/backend"
)

// Cell represents a single character cell in the buffer.
type Cell = backend.Cell

// Buffer is a 2D grid of cells with dirty tracking.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	// dirtyStamp[i] == dirtyGen marks cell i dirty for the current frame.
	dirtyStamp []uint32
	dirtyGen   uint32
	dirtyAll   bool
	dirtyCount int
	dirtyRect  Rect
}

// NewBuffer creates a buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	w, h = max(w, 0), max(h, 0)
	b := &Buffer{
		cells:      make([]Cell, w*h),
		dirtyStamp: make([]uint32, w*h),
		dirtyGen:   1,
		width:      w,
		height:     h,
	}
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the dimensions, keeping the overlapping content, and
// marks everything dirty.
func (b *Buffer) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w == b.width && h == b.height {
		return
	}
	cells := make([]Cell, w*h)
	minW := min(w, b.width)
	for y := 0; y < min(h, b.height); y++ {
		copy(cells[y*w:y*w+minW], b.cells[y*b.width:y*b.width+minW])
	}
	b.cells = cells
	b.dirtyStamp = make([]uint32, w*h)
	b.dirtyGen = 1
	b.width = w
	b.height = h
	b.MarkAllDirty()
}

// Clear fills the buffer with spaces and the default style.
func (b *Buffer) Clear() {
	b.Fill(Rect{0, 0, b.width, b.height}, ' ', backend.DefaultStyle())
}

// Get returns the cell at (x, y), or a blank cell when out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{Rune: ' '}
	}
	return b.cells[y*b.width+x]
}

// Set writes a rune with style at (x, y). Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := y*b.width + x
	cell := Cell{Rune: r, Style: s}
	if b.cells[idx] != cell {
		b.cells[idx] = cell
		b.markCellDirty(x, y, idx)
	}
}

// SetString writes s starting at (x, y), clipped to the buffer, and
// returns the number of columns consumed. Wide runes take two columns.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) int {
	px := x
	for _, r := range s {
		if px >= b.width {
			break
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		b.Set(px, y, r, style)
		for i := 1; i < w; i++ {
			b.Set(px+i, y, 0, style)
		}
		px += w
	}
	return px - x
}

// Fill fills r (clipped) with ch in style.
func (b *Buffer) Fill(r Rect, ch rune, s backend.Style) {
	clipped := r.Intersection(Rect{0, 0, b.width, b.height})
	for y := clipped.Y; y < clipped.Y+clipped.Height; y++ {
		for x := clipped.X; x < clipped.X+clipped.Width; x++ {
			b.Set(x, y, ch, s)
		}
	}
}

func (b *Buffer) markCellDirty(x, y, idx int) {
	if b.dirtyAll || b.dirtyStamp[idx] == b.dirtyGen {
		return
	}
	b.dirtyStamp[idx] = b.dirtyGen
	b.dirtyCount++
	if b.dirtyCount == 1 {
		b.dirtyRect = Rect{X: x, Y: y, Width: 1, Height: 1}
		return
	}
	x0 := min(b.dirtyRect.X, x)
	y0 := min(b.dirtyRect.Y, y)
	x1 := max(b.dirtyRect.X+b.dirtyRect.Width, x+1)
	y1 := max(b.dirtyRect.Y+b.dirtyRect.Height, y+1)
	b.dirtyRect = Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// MarkAllDirty forces the next flush to repaint everything.
func (b *Buffer) MarkAllDirty() {
	b.dirtyAll = true
	b.dirtyCount = b.width * b.height
	b.dirtyRect = Rect{X: 0, Y: 0, Width: b.width, Height: b.height}
}

// ClearDirty resets dirty tracking after a flush.
func (b *Buffer) ClearDirty() {
	b.dirtyAll = false
	b.dirtyCount = 0
	b.dirtyRect = Rect{}
	b.dirtyGen++
	if b.dirtyGen == 0 {
		clear(b.dirtyStamp)
		b.dirtyGen = 1
	}
}

// IsDirty reports whether any cell changed since the last ClearDirty.
func (b *Buffer) IsDirty() bool {
	return b.dirtyAll || b.dirtyCount > 0
}

// DirtyCount returns the number of dirty cells.
func (b *Buffer) DirtyCount() int {
	return b.dirtyCount
}

// DirtyRect returns the bounding box of dirty cells.
func (b *Buffer) DirtyRect() Rect {
	return b.dirtyRect
}

// IsCellDirty reports whether (x, y) changed.
func (b *Buffer) IsCellDirty(x, y int) bool {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return false
	}
	return b.dirtyAll || b.dirtyStamp[y*b.width+x] == b.dirtyGen
}

// ForEachDirtySpan calls fn for each contiguous run of dirty cells per row.
func (b *Buffer) ForEachDirtySpan(fn func(y, startX, endX int)) {
	if !b.IsDirty() {
		return
	}
	rect := b.dirtyRect
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		x := rect.X
		end := rect.X + rect.Width
		for x < end {
			if !b.IsCellDirty(x, y) {
				x++
				continue
			}
			start := x
			for x < end && b.IsCellDirty(x, y) {
				x++
			}
			fn(y, start, x)
		}
	}
}

// Cells returns the underlying row-major cells.
func (b *Buffer) Cells() []Cell {
	return b.cells
}

// Text returns the buffer contents as lines with trailing spaces removed.
func (b *Buffer) Text() []string {
	lines := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		row := make([]rune, 0, b.width)
		for x := 0; x < b.width; x++ {
			r := b.cells[y*b.width+x].Rune
			switch r {
			case 0:
				// continuation of a wide rune, or never written
				if x == 0 || runewidth.RuneWidth(b.cells[y*b.width+x-1].Rune) < 2 {
					row = append(row, ' ')
				}
			default:
				row = append(row, r)
			}
		}
		end := len(row)
		for end > 0 && row[end-1] == ' ' {
			end--
		}
		lines[y] = string(row[:end])
	}
	return lines
}
