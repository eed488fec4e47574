package imagegen

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// renderCard rasterizes the card to a PNG at outputPath: gradient background,
// decorative circles, centered title and subtitle, hashtag footer, border.
func renderCard(content CardContent, palette Palette, width, height int, outputPath string) error {
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	fillGradient(canvas, palette)

	canvas = overlayCircles(canvas, width, height)
	strokeBorder(canvas, 40, 3, color.NRGBA{0xff, 0xff, 0xff, 0x4d})

	titleFace, err := newFace(gobold.TTF, 64)
	if err != nil {
		return fmt.Errorf("load title font: %w", err)
	}
	defer titleFace.Close()
	subtitleFace, err := newFace(goregular.TTF, 32)
	if err != nil {
		return fmt.Errorf("load subtitle font: %w", err)
	}
	defer subtitleFace.Close()
	footerFace, err := newFace(goregular.TTF, 20)
	if err != nil {
		return fmt.Errorf("load footer font: %w", err)
	}
	defer footerFace.Close()

	drawCentered(canvas, titleFace, content.Title, width/2, height/2-50, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	if content.Subtitle != "" {
		drawCentered(canvas, subtitleFace, content.Subtitle, width/2, height/2+30, color.NRGBA{0xff, 0xff, 0xff, 0xe6})
	}
	if content.Hashtags != "" {
		drawRightAligned(canvas, footerFace, content.Hashtags, width-50, height-40, color.NRGBA{0xff, 0xff, 0xff, 0x99})
	}

	if err := imaging.Save(canvas, outputPath); err != nil {
		return fmt.Errorf("save card: %w", err)
	}
	return nil
}

// fillGradient paints a diagonal two-stop gradient across the canvas.
func fillGradient(canvas *image.NRGBA, palette Palette) {
	bounds := canvas.Bounds()
	span := float64(bounds.Dx() + bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			t := float64(x+y) / span
			canvas.SetNRGBA(x, y, lerpColor(palette.Primary, palette.Secondary, t))
		}
	}
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.NRGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 0xff}
}

// overlayCircles blends the decorative white circles over the gradient.
func overlayCircles(canvas *image.NRGBA, width, height int) *image.NRGBA {
	circles := []struct {
		cx, cy, r int
	}{
		{1000, 100, 150},
		{200, 500, 100},
		{800, 400, 80},
	}
	out := canvas
	for _, c := range circles {
		// Positions assume the reference 1200x630 canvas; scale for others.
		cx := c.cx * width / 1200
		cy := c.cy * height / 630
		r := c.r * width / 1200
		circle := newCircleImage(r, color.NRGBA{0xff, 0xff, 0xff, 0xff})
		out = imaging.Overlay(out, circle, image.Pt(cx-r, cy-r), 0.15)
	}
	return out
}

func newCircleImage(r int, fill color.NRGBA) *image.NRGBA {
	size := 2 * r
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	rr := r * r
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := x - r
			dy := y - r
			if dx*dx+dy*dy <= rr {
				img.SetNRGBA(x, y, fill)
			}
		}
	}
	return img
}

// strokeBorder draws an inset rectangular outline of the given thickness.
func strokeBorder(canvas *image.NRGBA, inset, thickness int, stroke color.NRGBA) {
	bounds := canvas.Bounds()
	left := bounds.Min.X + inset
	top := bounds.Min.Y + inset
	right := bounds.Max.X - inset - 1
	bottom := bounds.Max.Y - inset - 1
	for t := 0; t < thickness; t++ {
		for x := left; x <= right; x++ {
			blendPixel(canvas, x, top+t, stroke)
			blendPixel(canvas, x, bottom-t, stroke)
		}
		for y := top; y <= bottom; y++ {
			blendPixel(canvas, left+t, y, stroke)
			blendPixel(canvas, right-t, y, stroke)
		}
	}
}

func blendPixel(canvas *image.NRGBA, x, y int, c color.NRGBA) {
	base := canvas.NRGBAAt(x, y)
	alpha := float64(c.A) / 255
	mix := func(under, over uint8) uint8 {
		return uint8(float64(under)*(1-alpha) + float64(over)*alpha)
	}
	canvas.SetNRGBA(x, y, color.NRGBA{
		R: mix(base.R, c.R),
		G: mix(base.G, c.G),
		B: mix(base.B, c.B),
		A: 0xff,
	})
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func drawCentered(canvas *image.NRGBA, face font.Face, text string, cx, baseline int, c color.NRGBA) {
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := drawer.MeasureString(text)
	drawer.Dot = fixed.Point26_6{
		X: fixed.I(cx) - width/2,
		Y: fixed.I(baseline),
	}
	drawer.DrawString(text)
}

func drawRightAligned(canvas *image.NRGBA, face font.Face, text string, rightX, baseline int, c color.NRGBA) {
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := drawer.MeasureString(text)
	drawer.Dot = fixed.Point26_6{
		X: fixed.I(rightX) - width,
		Y: fixed.I(baseline),
	}
	drawer.DrawString(text)
}
