package qrcode

import (
	"fmt"

	imgInternal "github.com/AlexStarov/escpos-jobprint/image"
)

// DefaultQuietZone is the light border, in modules, the standard asks for.
const DefaultQuietZone = 4

// Render draws m into a MonoBitmap, every module becoming a
// modulePixels x modulePixels block, surrounded by quietZone light modules.
func Render(m *Matrix, modulePixels, quietZone int) (*imgInternal.MonoBitmap, error) {
	if modulePixels < 1 {
		return nil, fmt.Errorf("%w: module pixel size %d", imgInternal.ErrUnsupportedDimensions, modulePixels)
	}
	if quietZone < 0 {
		quietZone = 0
	}

	side := (m.Size + 2*quietZone) * modulePixels
	bm := imgInternal.NewMonoBitmap(side, side)
	for my := 0; my < m.Size; my++ {
		for mx := 0; mx < m.Size; mx++ {
			if !m.Dark(mx, my) {
				continue
			}
			x0 := (mx + quietZone) * modulePixels
			y0 := (my + quietZone) * modulePixels
			for y := y0; y < y0+modulePixels; y++ {
				for x := x0; x < x0+modulePixels; x++ {
					bm.Set(x, y, true)
				}
			}
		}
	}
	return bm, nil
}
