package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"

	logInternal "github.com/AlexStarov/escpos-jobprint/log"
)

var (
	// ErrImageDecode reports malformed or unsupported image data.
	ErrImageDecode = errors.New("image decode failure")
	// ErrUnsupportedDimensions reports a target width the printer cannot take.
	ErrUnsupportedDimensions = errors.New("unsupported dimensions")
)

// ScaleMode selects how the height follows a change of width.
type ScaleMode int

const (
	// FitWidth scales the height by the same factor as the width.
	FitWidth ScaleMode = iota
	// Stretch changes the width only and keeps the source height.
	Stretch
)

func (m ScaleMode) String() string {
	if m == Stretch {
		return "stretch"
	}
	return "fit"
}

// ParseScaleMode accepts "fit" (or "" / "fit-width") and "stretch".
func ParseScaleMode(s string) (ScaleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fit", "fit-width", "fitwidth":
		return FitWidth, nil
	case "stretch":
		return Stretch, nil
	}
	return FitWidth, fmt.Errorf("unknown scale mode %q", s)
}

// Resampling is the interpolation used when the width changes. It is fixed
// per Converter because the dithered output depends on it bit for bit.
type Resampling int

const (
	Bilinear Resampling = iota
	NearestNeighbor
)

func (r Resampling) String() string {
	if r == NearestNeighbor {
		return "nearest"
	}
	return "bilinear"
}

// ParseResampling accepts "bilinear" (or "") and "nearest".
func ParseResampling(s string) (Resampling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bilinear", "triangle":
		return Bilinear, nil
	case "nearest", "nearest-neighbor", "nearestneighbor":
		return NearestNeighbor, nil
	}
	return Bilinear, fmt.Errorf("unknown resampling %q", s)
}

func (r Resampling) interpolation() resize.InterpolationFunction {
	if r == NearestNeighbor {
		return resize.NearestNeighbor
	}
	return resize.Bilinear
}

type Converter struct {
	// The maximum line width of the printer, in dots
	MaxWidth int

	// Intensity (0-255) at or above which a dot stays white; 0 means DefaultThreshold
	Threshold uint8

	Resampling Resampling

	// Tallest bitmap Convert produces, in dots; 0 means MaxRasterHeight
	MaxHeight int
}

// MaxRasterHeight is the most rows a single GS v 0 command can carry.
const MaxRasterHeight = 0xffff

// Decode decodes PNG, JPEG, GIF or BMP data.
func (c *Converter) Decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	logInternal.Debugf("decoded %s image %v", format, img.Bounds().Size())
	return img, nil
}

// ConvertBytes decodes data and converts it with Convert.
func (c *Converter) ConvertBytes(data []byte, width int, mode ScaleMode) (*MonoBitmap, error) {
	img, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	return c.Convert(img, width, mode)
}

// Convert turns img into a dithered MonoBitmap that is width dots wide.
func (c *Converter) Convert(img image.Image, width int, mode ScaleMode) (*MonoBitmap, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no image data", ErrImageDecode)
	}
	sz := img.Bounds().Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return nil, fmt.Errorf("%w: empty source image %dx%d", ErrUnsupportedDimensions, sz.X, sz.Y)
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: width %d", ErrUnsupportedDimensions, width)
	}
	if c.MaxWidth > 0 && width > c.MaxWidth {
		return nil, fmt.Errorf("%w: width %d exceeds printer maximum of %d dots",
			ErrUnsupportedDimensions, width, c.MaxWidth)
	}

	height := sz.Y
	if mode == FitWidth {
		height = ScaledHeight(sz.X, sz.Y, width)
	}
	maxHeight := c.MaxHeight
	if maxHeight <= 0 {
		maxHeight = MaxRasterHeight
	}
	if height > maxHeight {
		return nil, fmt.Errorf("%w: height %d exceeds the maximum of %d dots",
			ErrUnsupportedDimensions, height, maxHeight)
	}

	gray := c.scale(Grayscale(img), width, height)

	threshold := c.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	logInternal.Debugf("dither %dx%d -> %dx%d (%s, %s)", sz.X, sz.Y, width, height, mode, c.Resampling)
	return Dither(gray, threshold), nil
}

// ScaledHeight keeps the aspect ratio: round(h * target / w), at least 1.
func ScaledHeight(w, h, target int) int {
	height := int(math.Round(float64(h) * float64(target) / float64(w)))
	if height < 1 {
		height = 1
	}
	return height
}

func (c *Converter) scale(gray *image.Gray, width, height int) *image.Gray {
	sz := gray.Bounds().Size()
	if sz.X == width && sz.Y == height {
		return gray
	}
	scaled := resize.Resize(uint(width), uint(height), gray, c.Resampling.interpolation())
	if g, ok := scaled.(*image.Gray); ok {
		return g
	}
	return Grayscale(scaled)
}

// Grayscale flattens img onto white and maps every pixel to its lightness,
// round(255 * (max(r,g,b) + min(r,g,b)) / 2).
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetGray(x-b.Min.X, y-b.Min.Y, lightness(img.At(x, y)))
		}
	}
	return out
}

func lightness(c color.Color) color.Gray {
	r, g, b, a := c.RGBA()
	// premultiplied: compositing over white adds the uncovered share
	bg := 0xffff - a
	r, g, b = r+bg, g+bg, b+bg

	hi, lo := r, r
	for _, v := range [2]uint32{g, b} {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	return color.Gray{Y: uint8(math.Round(float64(hi+lo) * 255 / (2 * 0xffff)))}
}
