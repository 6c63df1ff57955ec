package image

import (
	"image"
	"image/color"
)

// MonoBitmap is a 1-bit raster: one bit per dot, most significant bit first,
// rows padded to whole bytes. A set bit is a printed (black) dot and padding
// bits are always zero.
type MonoBitmap struct {
	Width, Height int
	// Stride is the number of bytes per row, ceil(Width/8).
	Stride int
	Pix    []byte
}

// NewMonoBitmap allocates an all-white bitmap.
func NewMonoBitmap(width, height int) *MonoBitmap {
	stride := (width + 7) >> 3
	return &MonoBitmap{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}
}

// Set marks the dot at (x, y) black or white. Out of range coordinates are ignored.
func (b *MonoBitmap) Set(x, y int, black bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := y*b.Stride + x/8
	mask := byte(0x80) >> uint(x%8)
	if black {
		b.Pix[i] |= mask
	} else {
		b.Pix[i] &^= mask
	}
}

// Black reports whether the dot at (x, y) is printed.
func (b *MonoBitmap) Black(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Stride+x/8]&(0x80>>uint(x%8)) != 0
}

// Row returns the packed bytes of row y.
func (b *MonoBitmap) Row(y int) []byte {
	return b.Pix[y*b.Stride : (y+1)*b.Stride]
}

// Rows returns the packed bytes of rows [from, to).
func (b *MonoBitmap) Rows(from, to int) []byte {
	return b.Pix[from*b.Stride : to*b.Stride]
}

// Image renders the bitmap as a grayscale image, black dots as 0 and white as 255.
func (b *MonoBitmap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			v := color.Gray{Y: 0xff}
			if b.Black(x, y) {
				v.Y = 0
			}
			img.SetGray(x, y, v)
		}
	}
	return img
}
