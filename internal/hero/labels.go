package hero

import (
	"github.com/golang/geo/r2"

	"github.com/tomz197/spotlight/internal/config"
	"github.com/tomz197/spotlight/internal/geom"
)

// Label keys registered with the proximity inverter.
const (
	KeyTitle  = "title"
	KeyNav    = "nav"
	KeySocial = "social"
)

// LabelMargin is the distance of every label from its viewport corner, in
// logical px.
const LabelMargin = 32.0

// Anchor is the viewport corner a label is laid out from.
type Anchor int

const (
	TopLeft Anchor = iota
	TopRight
	BottomRight
)

// Label is one piece of overlay text.
type Label struct {
	Key    string
	Text   string
	Anchor Anchor
}

// DefaultLabels returns the title, nav and social labels of the banner.
func DefaultLabels(cfg config.Tunables) []Label {
	return []Label{
		{Key: KeyTitle, Text: cfg.Title, Anchor: TopLeft},
		{Key: KeyNav, Text: cfg.Nav, Anchor: TopRight},
		{Key: KeySocial, Text: cfg.Social, Anchor: BottomRight},
	}
}

// MeasureFunc returns the rendered size of text in logical px.
type MeasureFunc func(text string) (width, height float64)

// Layout places labels in the viewport and answers bounding-box queries for
// them.
type Layout struct {
	labels  []Label
	measure MeasureFunc
	depth   float64 // Fraction of the image parallax applied to labels

	boxes map[string]r2.Rect
}

// NewLayout creates a layout. Nothing is measurable until the first Update.
func NewLayout(labels []Label, measure MeasureFunc, depth float64) *Layout {
	return &Layout{
		labels:  labels,
		measure: measure,
		depth:   depth,
		boxes:   make(map[string]r2.Rect, len(labels)),
	}
}

// Labels returns the laid out labels.
func (l *Layout) Labels() []Label {
	return l.labels
}

// Update lays every label out for a viewport and the current image parallax.
// Labels that do not fit inside the viewport become unmeasurable.
func (l *Layout) Update(width, height float64, parallax r2.Point) {
	shift := parallax.Mul(l.depth)
	viewport := geom.Rect(0, 0, width, height)
	clear(l.boxes)

	for _, label := range l.labels {
		w, h := l.measure(label.Text)
		var x, y float64
		switch label.Anchor {
		case TopLeft:
			x, y = LabelMargin, LabelMargin
		case TopRight:
			x, y = width-LabelMargin-w, LabelMargin
		case BottomRight:
			x, y = width-LabelMargin-w, height-LabelMargin-h
		}
		box := geom.Rect(x+shift.X, y+shift.Y, x+shift.X+w, y+shift.Y+h)
		if !viewport.Contains(box) {
			continue
		}
		l.boxes[label.Key] = box
	}
}

// BoundingBox returns the box a label occupies in viewport space.
func (l *Layout) BoundingBox(key string) (r2.Rect, bool) {
	box, ok := l.boxes[key]
	return box, ok
}
