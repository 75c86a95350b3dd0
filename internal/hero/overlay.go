package hero

import (
	"fmt"
	"image"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Font sizes of the overlay text, in px.
const (
	LabelFontSize = 14.0
	TitleFontSize = 40.0
	chipPadding   = 4.0 // Space around an inverted label's chip
)

// Overlay draws the text layer onto a raster surface whose px equal logical
// px: the labels of a Layout and the splash title.
type Overlay struct {
	palette   Palette
	label     font.Face
	title     font.Face
	measureDC *gg.Context

	dc    *gg.Context
	dcImg *image.RGBA
}

// NewOverlay loads the monospaced faces used for the labels and the title.
func NewOverlay(palette Palette) (*Overlay, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	label := truetype.NewFace(ttf, &truetype.Options{
		Size:    LabelFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	title := truetype.NewFace(ttf, &truetype.Options{
		Size:    TitleFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	measureDC := gg.NewContext(1, 1)
	measureDC.SetFontFace(label)
	return &Overlay{palette: palette, label: label, title: title, measureDC: measureDC}, nil
}

// Measure returns the size of label text. It satisfies MeasureFunc.
func (o *Overlay) Measure(text string) (width, height float64) {
	return o.measureDC.MeasureString(text)
}

// Draw paints every laid out label of layout, inverting the ones inverted
// reports, then the splash title faded for elapsed.
func (o *Overlay) Draw(dst *image.RGBA, layout *Layout, inverted func(key string) bool, title string, elapsed time.Duration) {
	if dst == nil || dst.Bounds().Empty() {
		return
	}
	if o.dcImg != dst {
		o.dc = gg.NewContextForRGBA(dst)
		o.dcImg = dst
	}
	dc := o.dc
	dc.SetFontFace(o.label)

	for _, label := range layout.Labels() {
		box, ok := layout.BoundingBox(label.Key)
		if !ok {
			continue
		}
		if inverted != nil && inverted(label.Key) {
			dc.SetColor(o.palette.Inverted)
			dc.DrawRectangle(box.X.Lo-chipPadding, box.Y.Lo-chipPadding, box.X.Length()+2*chipPadding, box.Y.Length()+2*chipPadding)
			dc.Fill()
			dc.SetColor(o.palette.Background)
		} else {
			dc.SetColor(o.palette.Foreground)
		}
		dc.DrawStringAnchored(label.Text, box.X.Lo, box.Y.Lo, 0, 1)
	}

	if opacity := SplashOpacity(elapsed); opacity > 0 && title != "" {
		dc.SetFontFace(o.title)
		dc.SetColor(withAlpha(o.palette.Foreground, opacity))
		dc.DrawStringAnchored(title, float64(dc.Width())/2, float64(dc.Height())/2, 0.5, 0.5)
	}
}
