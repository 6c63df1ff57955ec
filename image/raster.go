package image

import (
	"fmt"

	"github.com/AlexStarov/escpos-jobprint/util"
)

// RasterPrefix is the fixed part of the bit image command, GS v 0 m with m = 0 (normal density).
var RasterPrefix = []byte{util.GS, 0x76, 0x30, 0x00}

const gs8lMaxY = 831 // Ограничение по высоте для GS 8 L режима

// RasterLen is the exact byte length of EncodeRaster for a width x height bitmap.
func RasterLen(width, height int) int {
	return len(RasterPrefix) + 4 + ((width+7)>>3)*height
}

// EncodeRaster emits the bitmap as a single GS v 0 command:
// GS v 0 m xL xH yL yH d1...dk, x in bytes per row, y in dots, rows top to bottom.
func EncodeRaster(bm *MonoBitmap) ([]byte, error) {
	if bm == nil || bm.Width <= 0 || bm.Height <= 0 {
		return nil, fmt.Errorf("%w: empty bitmap", ErrUnsupportedDimensions)
	}
	out := make([]byte, 0, RasterLen(bm.Width, bm.Height))
	return appendRaster(out, bm, 0, bm.Height)
}

// EncodeRasterBands splits the bitmap into GS v 0 commands of at most
// bandHeight rows each, for printers whose receive buffer cannot hold a
// whole image. bandHeight <= 0 is the same as EncodeRaster.
func EncodeRasterBands(bm *MonoBitmap, bandHeight int) ([]byte, error) {
	if bandHeight <= 0 || (bm != nil && bandHeight >= bm.Height) {
		return EncodeRaster(bm)
	}
	if bm == nil || bm.Width <= 0 || bm.Height <= 0 {
		return nil, fmt.Errorf("%w: empty bitmap", ErrUnsupportedDimensions)
	}
	bands := (bm.Height + bandHeight - 1) / bandHeight
	out := make([]byte, 0, bands*(len(RasterPrefix)+4)+len(bm.Pix))
	var err error
	for l := 0; l < bm.Height; l += bandHeight {
		end := l + bandHeight
		if end > bm.Height {
			end = bm.Height
		}
		if out, err = appendRaster(out, bm, l, end); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendRaster(out []byte, bm *MonoBitmap, from, to int) ([]byte, error) {
	xs, err := util.IntLowHigh(bm.Stride, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDimensions, err)
	}
	ys, err := util.IntLowHigh(to-from, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDimensions, err)
	}
	out = append(out, RasterPrefix...)
	out = append(out, xs...)
	out = append(out, ys...)
	return append(out, bm.Rows(from, to)...), nil
}

// EncodeGraphics emits the bitmap with GS 8 L (store graphics data, fn 112)
// followed by GS ( L fn 50 (print), in chunks of at most 831 rows.
func EncodeGraphics(bm *MonoBitmap) ([]byte, error) {
	if bm == nil || bm.Width <= 0 || bm.Height <= 0 {
		return nil, fmt.Errorf("%w: empty bitmap", ErrUnsupportedDimensions)
	}
	if bm.Width > 0xffff {
		return nil, fmt.Errorf("%w: width %d", ErrUnsupportedDimensions, bm.Width)
	}
	var out []byte
	for l := 0; l < bm.Height; {
		lines := gs8lMaxY
		if lines > bm.Height-l {
			lines = bm.Height - l
		}
		dataBlock := bm.Rows(l, l+lines)
		blockSize := 10 + len(dataBlock)

		out = append(out,
			// GS 8 L, p1 p2 p3 p4
			util.GS, 0x38, 0x4c,
			byte(blockSize), byte(blockSize>>8), byte(blockSize>>16), byte(blockSize>>24),
			// function 112, bx by zoom, c single-color printing model
			0x30, 0x70, 0x30,
			0x01, 0x01,
			0x31,
			// xl xh: dots in the horizontal direction, yl yh: dots in the vertical direction
			byte(bm.Width), byte(bm.Width>>8),
			byte(lines), byte(lines>>8),
		)
		out = append(out, dataBlock...)
		out = append(out, util.GS, 0x28, 0x4c, 0x02, 0x00, 0x30, 0x32) // Fn 50
		l += lines
	}
	return out, nil
}
