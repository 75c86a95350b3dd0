package draw

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
)

// Logical size of one terminal cell. Each cell shows two vertically stacked
// sub-pixels, so one sub-pixel covers CellWidth x CellHeight/2 logical px.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// SubPixelScale maps logical px to canvas image px on both axes.
const SubPixelScale = 1 / CellWidth

// cellColors is what a cell showed the last time it was written.
type cellColors struct {
	top, bottom color.RGBA
}

// Canvas is a truecolor drawing surface with 2x vertical resolution using
// upper half-block characters: the foreground paints the top sub-pixel and the
// background paints the bottom one. Only cells that changed since the last
// Render are written.
type Canvas struct {
	termWidth  int // Terminal columns covered
	termHeight int // Terminal rows covered
	img        *image.RGBA

	prev  []cellColors // Last written colors per cell
	drawn []bool       // Whether prev holds what is on screen
	dirty []bool       // Cells overwritten by text since the last Render

	// 0-based terminal offsets of the render area when it is centered inside
	// a larger terminal.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewCanvas creates a canvas covering termWidth x termHeight cells.
func NewCanvas(termWidth, termHeight int) *Canvas {
	c := &Canvas{}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize reallocates the canvas for new terminal dimensions. Returns true
// when the size changed, in which case everything is redrawn next Render.
func (c *Canvas) Resize(termWidth, termHeight int) bool {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	if c.img != nil && termWidth == c.termWidth && termHeight == c.termHeight {
		return false
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.img = image.NewRGBA(image.Rect(0, 0, termWidth, termHeight*2))
	cells := termWidth * termHeight
	c.prev = make([]cellColors, cells)
	c.drawn = make([]bool, cells)
	c.dirty = make([]bool, cells)
	return true
}

// Ready reports whether the canvas covers at least one cell.
func (c *Canvas) Ready() bool {
	return c.termWidth > 0 && c.termHeight > 0
}

// Image returns the sub-pixel image backing the canvas. It is reallocated by
// Resize, so callers must not keep it across frames.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render write every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	clear(c.drawn)
}

// MarkTextDirty records that text was written over width cells starting at
// the 1-based canvas position (col, row), so the canvas repaints them once
// the text moves away.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	row--
	if row < 0 || row >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+width; x++ {
		if x >= 0 && x < c.termWidth {
			c.dirty[row*c.termWidth+x] = true
		}
	}
}

// CellColors returns the colors of the two sub-pixels of the 1-based cell
// (col, row). Out-of-range cells are transparent black.
func (c *Canvas) CellColors(col, row int) (top, bottom color.RGBA) {
	x, y := col-1, (row-1)*2
	if x < 0 || x >= c.termWidth || row < 1 || row > c.termHeight {
		return color.RGBA{}, color.RGBA{}
	}
	return c.img.RGBAAt(x, y), c.img.RGBAAt(x, y+1)
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes every changed cell to w and returns how many cells were
// written. Consecutive changed cells share one cursor move, and color
// sequences are only emitted when the color changes.
func (c *Canvas) Render(w io.Writer) int {
	c.renderBuf.Reset()

	written := 0
	nextRow, nextCol := -1, -1 // Where the terminal cursor sits after the last write
	var fg, bg color.RGBA
	haveColor := false

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			i := row*c.termWidth + col
			cell := cellColors{
				top:    c.img.RGBAAt(col, row*2),
				bottom: c.img.RGBAAt(col, row*2+1),
			}
			if c.drawn[i] && !c.dirty[i] && c.prev[i] == cell {
				continue
			}

			if row != nextRow || col != nextCol {
				c.writeCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if !haveColor || cell.top != fg {
				c.writeColor(38, cell.top)
				fg = cell.top
			}
			if !haveColor || cell.bottom != bg {
				c.writeColor(48, cell.bottom)
				bg = cell.bottom
			}
			haveColor = true
			c.renderBuf.WriteRune(BlockUpperHalf)

			c.prev[i] = cell
			c.drawn[i] = true
			c.dirty[i] = false
			nextRow, nextCol = row, col+1
			written++
		}
	}
	if written > 0 {
		c.renderBuf.WriteString(ColorReset)
	}

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
	return written
}

func (c *Canvas) writeCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// writeColor appends an SGR truecolor sequence; layer is 38 for foreground
// and 48 for background.
func (c *Canvas) writeColor(layer int, rgba color.RGBA) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(layer), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(rgba.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(rgba.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(rgba.B), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	buf.WriteString(ColorDim)

	if hasV {
		line := strings.Repeat("─", c.termWidth)
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, line)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, line)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, line)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, line)
		}
	}

	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}

	buf.WriteString(ColorReset)
	io.WriteString(w, buf.String())
}

// LogicalWidth returns the width of the canvas in logical px.
func (c *Canvas) LogicalWidth() float64 {
	return float64(c.termWidth) * CellWidth
}

// LogicalHeight returns the height of the canvas in logical px.
func (c *Canvas) LogicalHeight() float64 {
	return float64(c.termHeight) * CellHeight
}

// TerminalWidth returns the terminal column count covered by the canvas.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the terminal row count covered by the canvas.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas
// position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	return int(math.Floor(x/CellWidth)) + 1, int(math.Floor(y/CellHeight)) + 1
}

// TerminalToLogical converts a 0-based terminal position, as reported by the
// mouse, into the logical px at the center of that cell within the canvas.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	x = (float64(col-c.offsetCol) + 0.5) * CellWidth
	y = (float64(row-c.offsetRow) + 0.5) * CellHeight
	return x, y
}
