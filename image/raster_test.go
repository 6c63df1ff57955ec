package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRasterLength(t *testing.T) {
	sizes := [][2]int{{1, 1}, {8, 1}, {9, 3}, {16, 16}, {383, 17}, {384, 200}, {512, 1}}
	for _, sz := range sizes {
		bm := NewMonoBitmap(sz[0], sz[1])
		out, err := EncodeRaster(bm)
		require.NoError(t, err)
		assert.Len(t, out, len(RasterPrefix)+4+((sz[0]+7)/8)*sz[1], "%dx%d", sz[0], sz[1])
		assert.Equal(t, RasterLen(sz[0], sz[1]), len(out))
	}
}

func TestEncodeRasterHeader(t *testing.T) {
	bm := NewMonoBitmap(10, 3)
	bm.Set(0, 0, true)
	bm.Set(9, 2, true)

	out, err := EncodeRaster(bm)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x1d, 0x76, 0x30, 0x00, // GS v 0 m
		0x02, 0x00, // xL xH: bytes per row
		0x03, 0x00, // yL yH: dots
		0x80, 0x00,
		0x00, 0x00,
		0x00, 0x40,
	}, out)
}

func TestEncodeRasterLargeHeight(t *testing.T) {
	bm := NewMonoBitmap(8, 300)
	out, err := EncodeRaster(bm)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x2c, 0x01}, out[4:8])
}

func TestEncodeRasterRejectsEmpty(t *testing.T) {
	_, err := EncodeRaster(nil)
	assert.ErrorIs(t, err, ErrUnsupportedDimensions)

	_, err = EncodeRaster(NewMonoBitmap(0, 4))
	assert.ErrorIs(t, err, ErrUnsupportedDimensions)
}

func TestEncodeRasterBands(t *testing.T) {
	bm := NewMonoBitmap(16, 5)
	for y := 0; y < 5; y++ {
		bm.Set(y, y, true)
	}

	out, err := EncodeRasterBands(bm, 2)
	require.NoError(t, err)
	assert.Len(t, out, 3*8+2*5)

	// second band starts after 8 + 2*2 bytes
	second := out[12:]
	assert.Equal(t, []byte{0x1d, 0x76, 0x30, 0x00, 0x02, 0x00, 0x02, 0x00}, second[:8])
	assert.Equal(t, bm.Rows(2, 4), second[8:12])

	last := out[24:]
	assert.Equal(t, []byte{0x01, 0x00}, last[6:8])

	whole, err := EncodeRasterBands(bm, 0)
	require.NoError(t, err)
	single, err := EncodeRaster(bm)
	require.NoError(t, err)
	assert.Equal(t, single, whole)
}

func TestEncodeGraphics(t *testing.T) {
	bm := NewMonoBitmap(20, 2)
	bm.Set(0, 0, true)

	out, err := EncodeGraphics(bm)
	require.NoError(t, err)

	size := 10 + 3*2
	assert.Equal(t, []byte{
		0x1d, 0x38, 0x4c,
		byte(size), 0x00, 0x00, 0x00,
		0x30, 0x70, 0x30,
		0x01, 0x01,
		0x31,
		20, 0x00,
		2, 0x00,
	}, out[:17])
	assert.Equal(t, bm.Pix, out[17:23])
	assert.Equal(t, []byte{0x1d, 0x28, 0x4c, 0x02, 0x00, 0x30, 0x32}, out[23:])
}

func TestEncodeGraphicsChunks(t *testing.T) {
	bm := NewMonoBitmap(8, gs8lMaxY+10)
	out, err := EncodeGraphics(bm)
	require.NoError(t, err)
	assert.Len(t, out, 2*(17+7)+len(bm.Pix))
}
