// Package backend defines the terminal output/input contract used by the runtime.
package backend

import "github.com/odvcencio/furry-counter/terminal"

// Backend draws cells and produces input events.
type Backend interface {
	Init() error
	Fini()
	Size() (width, height int)
	SetContent(x, y int, mainc rune, combc []rune, style Style)
	Show()
	Sync()
	HideCursor()
	// PollEvent blocks until an event arrives. It returns nil after Fini.
	PollEvent() terminal.Event
}

// Color is a palette index. ColorDefault uses the terminal default.
type Color int32

// ColorDefault selects the terminal's default color.
const ColorDefault Color = -1

// Common palette colors.
const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// AttrMask is a set of text attributes.
type AttrMask uint8

const (
	AttrBold AttrMask = 1 << iota
	AttrDim
	AttrReverse
	AttrItalic
)

// Style is a comparable cell style.
type Style struct {
	fg    Color
	bg    Color
	attrs AttrMask
}

// DefaultStyle uses the terminal default colors and no attributes.
func DefaultStyle() Style {
	return Style{fg: ColorDefault, bg: ColorDefault}
}

// Foreground returns a copy with the foreground color set.
func (s Style) Foreground(c Color) Style {
	s.fg = c
	return s
}

// Background returns a copy with the background color set.
func (s Style) Background(c Color) Style {
	s.bg = c
	return s
}

// Bold returns a copy with bold toggled.
func (s Style) Bold(on bool) Style {
	return s.attr(AttrBold, on)
}

// Dim returns a copy with dim toggled.
func (s Style) Dim(on bool) Style {
	return s.attr(AttrDim, on)
}

// Reverse returns a copy with reverse video toggled.
func (s Style) Reverse(on bool) Style {
	return s.attr(AttrReverse, on)
}

// Italic returns a copy with italics toggled.
func (s Style) Italic(on bool) Style {
	return s.attr(AttrItalic, on)
}

// Decompose returns the style components.
func (s Style) Decompose() (fg, bg Color, attrs AttrMask) {
	return s.fg, s.bg, s.attrs
}

func (s Style) attr(mask AttrMask, on bool) Style {
	if on {
		s.attrs |= mask
	} else {
		s.attrs &^= mask
	}
	return s
}

// Cell is a single rendered character.
type Cell struct {
	Rune  rune
	Style Style
}
