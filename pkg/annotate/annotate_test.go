package annotate

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whiteFrame(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func TestRenderDrawsBoxes(t *testing.T) {
	frame := whiteFrame(t, 200, 200)

	out, err := Render(frame, []Box{
		{X1: 50, Y1: 50, X2: 150, Y2: 150, Confidence: 0.9, Label: "fire"},
	})
	require.NoError(t, err)
	require.NotEqual(t, frame, out)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// The stroke at the top edge of the box should be strongly red.
	r, g, b, _ := img.At(100, 50).RGBA()
	assert.Greater(t, r>>8, uint32(150))
	assert.Less(t, g>>8, uint32(120))
	assert.Less(t, b>>8, uint32(120))

	// Well inside the box the frame stays untouched (white).
	r, g, b, _ = img.At(100, 100).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Greater(t, g>>8, uint32(200))
	assert.Greater(t, b>>8, uint32(200))
}

func TestRenderClampsOutOfFrameBoxes(t *testing.T) {
	frame := whiteFrame(t, 100, 100)

	out, err := Render(frame, []Box{
		{X1: -20, Y1: -20, X2: 400, Y2: 400, Confidence: 0.5, Label: "smoke"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRenderNoBoxesStillReencodes(t *testing.T) {
	frame := whiteFrame(t, 64, 64)

	out, err := Render(frame, nil)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestRenderRejectsGarbage(t *testing.T) {
	_, err := Render([]byte("not an image"), nil)
	assert.Error(t, err)
}
