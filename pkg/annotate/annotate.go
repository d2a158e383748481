package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Box is one rectangle to burn into the frame, labeled by detection type.
type Box struct {
	X1, Y1, X2, Y2 float64
	Confidence     float64
	Label          string
}

const (
	strokeWidth = 2
	jpegQuality = 85
)

var labelColors = map[string]color.RGBA{
	"fire":   {R: 220, G: 20, B: 20, A: 255},
	"smoke":  {R: 128, G: 128, B: 128, A: 255},
	"person": {R: 20, G: 180, B: 20, A: 255},
}

var defaultColor = color.RGBA{R: 255, G: 200, B: 0, A: 255}

func colorFor(label string) color.RGBA {
	if c, ok := labelColors[label]; ok {
		return c
	}
	return defaultColor
}

// Render decodes the original frame, draws every box with its label and
// confidence, and re-encodes as JPEG. The original bytes are not modified.
func Render(original []byte, boxes []Box) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	for _, box := range boxes {
		c := colorFor(box.Label)
		x1, y1 := clamp(int(box.X1), bounds), clampY(int(box.Y1), bounds)
		x2, y2 := clamp(int(box.X2), bounds), clampY(int(box.Y2), bounds)
		if x2 <= x1 || y2 <= y1 {
			continue
		}

		drawRect(canvas, x1, y1, x2, y2, c)
		drawLabel(canvas, x1, y1, fmt.Sprintf("%s: %.2f", box.Label, box.Confidence), c)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode annotated frame: %w", err)
	}

	return buf.Bytes(), nil
}

func clamp(x int, b image.Rectangle) int {
	if x < b.Min.X {
		return b.Min.X
	}
	if x > b.Max.X-1 {
		return b.Max.X - 1
	}
	return x
}

func clampY(y int, b image.Rectangle) int {
	if y < b.Min.Y {
		return b.Min.Y
	}
	if y > b.Max.Y-1 {
		return b.Max.Y - 1
	}
	return y
}

func drawRect(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	for w := 0; w < strokeWidth; w++ {
		for x := x1; x <= x2; x++ {
			img.SetRGBA(x, min(y1+w, y2), c)
			img.SetRGBA(x, max(y2-w, y1), c)
		}
		for y := y1; y <= y2; y++ {
			img.SetRGBA(min(x1+w, x2), y, c)
			img.SetRGBA(max(x2-w, x1), y, c)
		}
	}
}

func drawLabel(img *image.RGBA, x, y int, text string, c color.RGBA) {
	// Place the label just above the box, inside the frame if the box
	// touches the top edge.
	baseline := y - 4
	if baseline < basicfont.Face7x13.Height {
		baseline = y + basicfont.Face7x13.Height + 2
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}
