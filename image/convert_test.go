package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func noise(w, h int, seed int64) *image.Gray {
	r := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, w, h))
	r.Read(img.Pix)
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDitherAllBlackRow(t *testing.T) {
	c := &Converter{MaxWidth: 512}
	bm, err := c.Convert(uniform(16, 1, color.Black), 16, FitWidth)
	require.NoError(t, err)

	assert.Equal(t, 16, bm.Width)
	assert.Equal(t, 1, bm.Height)
	assert.Equal(t, 2, bm.Stride)
	assert.Equal(t, []byte{0xff, 0xff}, bm.Pix)
}

func TestDitherAllWhite(t *testing.T) {
	bm := Dither(Grayscale(uniform(12, 3, color.White)), DefaultThreshold)
	assert.Equal(t, make([]byte, 2*3), bm.Pix)
}

func TestDitherPropagatesError(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix[0], gray.Pix[1] = 100, 100

	// 100 is black, its error 100 pushes round(700/16) = 44 right: 144 stays white.
	bm := Dither(gray, DefaultThreshold)
	assert.Equal(t, []byte{0x80}, bm.Pix)
}

func TestDitherThresholdBoundary(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 1, 2))
	gray.Pix[0] = 128
	gray.Pix[1] = 127

	// 128 -> white with error -127; below gets round(-635/16) = -40: 87 -> black
	bm := Dither(gray, DefaultThreshold)
	assert.False(t, bm.Black(0, 0))
	assert.True(t, bm.Black(0, 1))
}

func TestDitherDeterministic(t *testing.T) {
	c := &Converter{MaxWidth: 384}
	src := noise(301, 97, 7)

	first, err := c.Convert(src, 200, FitWidth)
	require.NoError(t, err)
	second, err := c.Convert(src, 200, FitWidth)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDitherPaddingBitsAreZero(t *testing.T) {
	bm := Dither(noise(13, 40, 3), DefaultThreshold)
	require.Equal(t, 2, bm.Stride)
	for y := 0; y < bm.Height; y++ {
		assert.Zero(t, bm.Row(y)[1]&0x07, "row %d", y)
	}
}

func TestDitherHonoursBoundsOffset(t *testing.T) {
	full := noise(20, 20, 11)
	sub := full.SubImage(image.Rect(4, 5, 14, 15)).(*image.Gray)

	copied := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			copied.SetGray(x, y, full.GrayAt(x+4, y+5))
		}
	}
	assert.Equal(t, Dither(copied, DefaultThreshold), Dither(sub, DefaultThreshold))
}

func TestScaledHeight(t *testing.T) {
	assert.Equal(t, 50, ScaledHeight(200, 100, 100))
	assert.Equal(t, 67, ScaledHeight(3, 1, 200))
	assert.Equal(t, 1, ScaledHeight(300, 1, 100))
}

func TestConvertScaleModes(t *testing.T) {
	c := &Converter{MaxWidth: 512}
	src := uniform(32, 16, color.Black)

	fit, err := c.Convert(src, 16, FitWidth)
	require.NoError(t, err)
	assert.Equal(t, 16, fit.Width)
	assert.Equal(t, 8, fit.Height)
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 2*8), fit.Pix)

	stretch, err := c.Convert(src, 16, Stretch)
	require.NoError(t, err)
	assert.Equal(t, 16, stretch.Width)
	assert.Equal(t, 16, stretch.Height)
}

func TestConvertResamplingModes(t *testing.T) {
	src := noise(64, 64, 5)
	for _, r := range []Resampling{Bilinear, NearestNeighbor} {
		c := &Converter{MaxWidth: 512, Resampling: r}
		a, err := c.Convert(src, 48, FitWidth)
		require.NoError(t, err)
		b, err := c.Convert(src, 48, FitWidth)
		require.NoError(t, err)
		assert.Equal(t, a, b, r.String())
		assert.Equal(t, 48, a.Height)
	}
}

func TestConvertZeroWidthRejected(t *testing.T) {
	c := &Converter{MaxWidth: 512}
	for _, mode := range []ScaleMode{FitWidth, Stretch} {
		bm, err := c.Convert(uniform(16, 4, color.Gray{Y: 0x80}), 0, mode)
		assert.ErrorIs(t, err, ErrUnsupportedDimensions)
		assert.Nil(t, bm)
	}
}

func TestConvertRejectsTallResult(t *testing.T) {
	// 1x200 fit to 512 dots would be 102400 rows
	c := &Converter{MaxWidth: 512}
	bm, err := c.Convert(uniform(1, 200, color.Black), 512, FitWidth)
	assert.ErrorIs(t, err, ErrUnsupportedDimensions)
	assert.Nil(t, bm)

	c = &Converter{MaxWidth: 512, MaxHeight: 16}
	_, err = c.Convert(uniform(8, 17, color.Black), 8, FitWidth)
	assert.ErrorIs(t, err, ErrUnsupportedDimensions)

	bm, err = c.Convert(uniform(8, 16, color.Black), 8, FitWidth)
	require.NoError(t, err)
	assert.Equal(t, 16, bm.Height)
}

func TestConvertRejectsDimensions(t *testing.T) {
	c := &Converter{MaxWidth: 384}

	_, err := c.Convert(uniform(10, 10, color.Black), 385, FitWidth)
	assert.ErrorIs(t, err, ErrUnsupportedDimensions)

	_, err = c.Convert(uniform(500, 10, color.Black), 500, FitWidth)
	assert.ErrorIs(t, err, ErrUnsupportedDimensions)

	_, err = c.Convert(uniform(10, 10, color.Black), -1, Stretch)
	assert.ErrorIs(t, err, ErrUnsupportedDimensions)

	_, err = c.Convert(image.NewGray(image.Rect(0, 0, 0, 0)), 10, FitWidth)
	assert.ErrorIs(t, err, ErrUnsupportedDimensions)
}

func TestConvertBytes(t *testing.T) {
	c := &Converter{MaxWidth: 512}

	bm, err := c.ConvertBytes(encodePNG(t, uniform(8, 4, color.Black)), 8, FitWidth)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, bm.Pix)

	_, err = c.ConvertBytes([]byte("definitely not an image"), 8, FitWidth)
	assert.ErrorIs(t, err, ErrImageDecode)
}

func TestGrayscaleLightnessAndAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 0})
	img.Set(2, 0, color.NRGBA{R: 40, G: 40, B: 40, A: 255})

	g := Grayscale(img)
	assert.Equal(t, uint8(128), g.GrayAt(0, 0).Y) // (255 + 0) / 2
	assert.Equal(t, uint8(255), g.GrayAt(1, 0).Y) // transparent over white
	assert.Equal(t, uint8(40), g.GrayAt(2, 0).Y)
}

func TestParseModes(t *testing.T) {
	m, err := ParseScaleMode("Stretch")
	require.NoError(t, err)
	assert.Equal(t, Stretch, m)

	m, err = ParseScaleMode("")
	require.NoError(t, err)
	assert.Equal(t, FitWidth, m)

	_, err = ParseScaleMode("zoom")
	assert.Error(t, err)

	r, err := ParseResampling("nearest")
	require.NoError(t, err)
	assert.Equal(t, NearestNeighbor, r)

	_, err = ParseResampling("lanczos")
	assert.Error(t, err)
}

func TestMonoBitmapImage(t *testing.T) {
	bm := NewMonoBitmap(3, 2)
	bm.Set(1, 0, true)
	bm.Set(2, 1, true)
	bm.Set(2, 1, false)
	bm.Set(9, 9, true)

	img := bm.Image()
	assert.Equal(t, uint8(0), img.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(255), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), img.GrayAt(2, 1).Y)
	assert.Equal(t, []byte{0x40, 0x00}, bm.Pix)
}
