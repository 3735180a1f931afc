package detector

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

const boxThickness = 3

// Box colors cycle per detection so adjacent objects stay distinguishable.
var palette = []color.NRGBA{
	{R: 255, G: 64, B: 64, A: 255},
	{R: 64, G: 160, B: 255, A: 255},
	{R: 64, G: 200, B: 96, A: 255},
	{R: 255, G: 180, B: 32, A: 255},
	{R: 200, G: 96, B: 255, A: 255},
}

// Annotate decodes the image, draws each detection's bounding box on a
// copy and re-encodes it in the original format.
func Annotate(img []byte, detections []Detection) ([]byte, error) {
	decoded, format, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	canvas := imaging.Clone(decoded)
	for i, d := range detections {
		drawBox(canvas, d, palette[i%len(palette)])
	}

	encFormat, err := imaging.FormatFromExtension("." + format)
	if err != nil {
		// Decoded formats without an imaging encoder fall back to PNG.
		encFormat = imaging.PNG
	}

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, canvas, encFormat); err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBox outlines the detection's rectangle, clamped to the image bounds.
func drawBox(dst *image.NRGBA, d Detection, c color.NRGBA) {
	bounds := dst.Bounds()
	x1, y1 := clamp(d.X1, bounds.Min.X, bounds.Max.X-1), clamp(d.Y1, bounds.Min.Y, bounds.Max.Y-1)
	x2, y2 := clamp(d.X2, bounds.Min.X, bounds.Max.X-1), clamp(d.Y2, bounds.Min.Y, bounds.Max.Y-1)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for t := 0; t < boxThickness; t++ {
		for x := x1; x <= x2; x++ {
			dst.SetNRGBA(x, clamp(y1+t, y1, y2), c)
			dst.SetNRGBA(x, clamp(y2-t, y1, y2), c)
		}
		for y := y1; y <= y2; y++ {
			dst.SetNRGBA(clamp(x1+t, x1, x2), y, c)
			dst.SetNRGBA(clamp(x2-t, x1, x2), y, c)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
