package hero

import (
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
)

// Source resolution of the generated portraits.
const (
	SourceWidth  = 360
	SourceHeight = 480
)

// Noise parameters: alpha and beta control roughness, octaves the detail.
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
	noiseScale   = 0.012
)

// Portraits holds the two layers of the banner: the base image everyone sees
// and the reveal image shown inside the spotlight.
type Portraits struct {
	Base   *image.RGBA
	Reveal *image.RGBA
}

// GeneratePortraits renders both layers from the same noise field so the
// reveal lines up with the base. The same seed always yields the same images.
func GeneratePortraits(seed int64) Portraits {
	noise := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)
	base := image.NewRGBA(image.Rect(0, 0, SourceWidth, SourceHeight))
	reveal := image.NewRGBA(image.Rect(0, 0, SourceWidth, SourceHeight))

	for y := 0; y < SourceHeight; y++ {
		for x := 0; x < SourceWidth; x++ {
			u := float64(x) / SourceWidth
			v := float64(y) / SourceHeight
			n := noise.Noise2D(float64(x)*noiseScale, float64(y)*noiseScale)
			m := silhouette(u, v)

			// Base: a dim monochrome figure
			l := 0.06 + m*(0.28+0.18*n)
			base.SetRGBA(x, y, toRGBA(colorful.Hsl(0, 0, clamp01(l))))

			// Reveal: the same figure in warm color with the noise as texture
			hue := math.Mod(20+60*(n+1), 360)
			lr := 0.10 + m*(0.45+0.15*n)
			reveal.SetRGBA(x, y, toRGBA(colorful.Hcl(hue, 0.35+0.25*m, clamp01(lr))))
		}
	}
	return Portraits{Base: base, Reveal: reveal}
}

// silhouette returns how much of a head-and-shoulders figure covers the
// normalized point (u, v), softened at the edges.
func silhouette(u, v float64) float64 {
	head := ellipse(u, v, 0.5, 0.38, 0.2, 0.25)
	shoulders := ellipse(u, v, 0.5, 1.02, 0.46, 0.34)
	return math.Max(head, shoulders)
}

func ellipse(u, v, cx, cy, rx, ry float64) float64 {
	du := (u - cx) / rx
	dv := (v - cy) / ry
	d := math.Sqrt(du*du + dv*dv)
	// 1 inside, fading to 0 over the outer fifth
	return clamp01((1.2 - d) / 0.2)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// CoverRect returns the centered part of src that fills a dstW x dstH area
// at the same aspect ratio, like CSS object-fit: cover.
func CoverRect(src image.Rectangle, dstW, dstH int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 || dstW <= 0 || dstH <= 0 {
		return src
	}
	srcAspect := float64(sw) / float64(sh)
	dstAspect := float64(dstW) / float64(dstH)

	if srcAspect > dstAspect {
		// Source is wider: crop the sides
		w := int(math.Round(float64(sh) * dstAspect))
		x := src.Min.X + (sw-w)/2
		return image.Rect(x, src.Min.Y, x+w, src.Max.Y)
	}
	h := int(math.Round(float64(sw) / dstAspect))
	y := src.Min.Y + (sh-h)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+h)
}

// CoverFit scales src into a new dstW x dstH image, cropping to preserve the
// aspect ratio.
func CoverFit(src image.Image, dstW, dstH int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(dstW, 1), max(dstH, 1)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, CoverRect(src.Bounds(), dst.Bounds().Dx(), dst.Bounds().Dy()), xdraw.Src, nil)
	return dst
}
