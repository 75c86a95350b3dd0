// Package draw renders frames to ANSI terminals: a truecolor half-block
// canvas plus the escape sequences and buffered writer around it.
package draw

// BlockUpperHalf is the glyph every canvas cell is drawn with.
const BlockUpperHalf = '▀'

// SGR attribute sequences.
const (
	ColorReset = "\033[0m"
	ColorDim   = "\033[2m"
)
