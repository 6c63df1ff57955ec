package image

import (
	"image"
)

// DefaultThreshold is the intensity at or above which a dot stays white.
const DefaultThreshold = 128

// Floyd–Steinberg weights, in sixteenths.
const (
	weightRight      = 7
	weightBelowLeft  = 3
	weightBelow      = 5
	weightBelowRight = 1
)

// Dither converts a grayscale plane into a MonoBitmap with Floyd–Steinberg
// error diffusion. Pixels are visited row-major, left to right; every
// decision depends on the error pushed from earlier pixels, so the walk is
// strictly sequential.
func Dither(gray *image.Gray, threshold uint8) *MonoBitmap {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	bm := NewMonoBitmap(w, h)

	plane := make([]int, w*h)
	for y := 0; y < h; y++ {
		off := gray.PixOffset(b.Min.X, b.Min.Y+y)
		for x, v := range gray.Pix[off : off+w] {
			plane[y*w+x] = int(v)
		}
	}

	diffuse := func(x, y, e, weight int) {
		if x < 0 || x >= w || y >= h {
			return
		}
		i := y*w + x
		plane[i] = clamp(plane[i] + share(e, weight))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			old := plane[y*w+x]
			quantized := 0
			if old >= int(threshold) {
				quantized = 255
			} else {
				bm.Set(x, y, true)
			}
			e := old - quantized
			if e == 0 {
				continue
			}
			diffuse(x+1, y, e, weightRight)
			diffuse(x-1, y+1, e, weightBelowLeft)
			diffuse(x, y+1, e, weightBelow)
			diffuse(x+1, y+1, e, weightBelowRight)
		}
	}
	return bm
}

// share returns round(e*weight/16), rounding halves away from zero.
func share(e, weight int) int {
	n := e * weight
	if n >= 0 {
		return (n + 8) / 16
	}
	return -((-n + 8) / 16)
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return v
}
