package qrcode

import "strings"

// Matrix is a finished symbol: Size x Size modules, true for dark.
type Matrix struct {
	Version int
	Level   Level
	Mask    int
	Size    int
	modules []bool
}

// Dark reports whether the module at column x, row y is dark.
func (m *Matrix) Dark(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Size || y >= m.Size {
		return false
	}
	return m.modules[y*m.Size+x]
}

// String draws the symbol with two characters per module.
func (m *Matrix) String() string {
	var sb strings.Builder
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; x++ {
			if m.Dark(x, y) {
				sb.WriteString("##")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

const empty int8 = -1

// grid is the working symbol while patterns and data are placed.
type grid struct {
	size  int
	cells []int8
}

func newGrid(size int) *grid {
	return &grid{size: size, cells: make([]int8, size*size)}
}

func (g *grid) get(x, y int) int8    { return g.cells[y*g.size+x] }
func (g *grid) set(x, y int, v int8) { g.cells[y*g.size+x] = v }

func (g *grid) setBool(x, y int, dark bool) {
	if dark {
		g.set(x, y, 1)
	} else {
		g.set(x, y, 0)
	}
}

func (g *grid) matrix(ver int, level Level, mask int) *Matrix {
	m := &Matrix{Version: ver, Level: level, Mask: mask, Size: g.size, modules: make([]bool, len(g.cells))}
	for i, c := range g.cells {
		m.modules[i] = c == 1
	}
	return m
}

func (g *grid) build(codewords []byte, ver *version, level Level, mask int) {
	for i := range g.cells {
		g.cells[i] = empty
	}
	g.embedBasicPatterns(ver)
	g.embedFormatInfo(level, mask)
	g.embedVersionInfo(ver)
	g.embedData(codewords, mask)
}

var finderPattern = [7][7]int8{
	{1, 1, 1, 1, 1, 1, 1},
	{1, 0, 0, 0, 0, 0, 1},
	{1, 0, 1, 1, 1, 0, 1},
	{1, 0, 1, 1, 1, 0, 1},
	{1, 0, 1, 1, 1, 0, 1},
	{1, 0, 0, 0, 0, 0, 1},
	{1, 1, 1, 1, 1, 1, 1},
}

var alignmentPattern = [5][5]int8{
	{1, 1, 1, 1, 1},
	{1, 0, 0, 0, 1},
	{1, 0, 1, 0, 1},
	{1, 0, 0, 0, 1},
	{1, 1, 1, 1, 1},
}

func (g *grid) embedBasicPatterns(ver *version) {
	n := g.size

	for _, at := range [][2]int{{0, 0}, {n - 7, 0}, {0, n - 7}} {
		for y := 0; y < 7; y++ {
			for x := 0; x < 7; x++ {
				g.set(at[0]+x, at[1]+y, finderPattern[y][x])
			}
		}
	}

	// separators
	for x := 0; x < 8; x++ {
		g.set(x, 7, 0)
		g.set(n-8+x, 7, 0)
		g.set(x, n-8, 0)
	}
	for y := 0; y < 7; y++ {
		g.set(7, y, 0)
		g.set(n-8, y, 0)
		g.set(7, n-7+y, 0)
	}

	// alignment patterns, skipped where a finder already sits
	for _, cy := range ver.align {
		for _, cx := range ver.align {
			if g.get(cx, cy) != empty {
				continue
			}
			for y := 0; y < 5; y++ {
				for x := 0; x < 5; x++ {
					g.set(cx-2+x, cy-2+y, alignmentPattern[y][x])
				}
			}
		}
	}

	// timing patterns
	for i := 8; i < n-8; i++ {
		bit := int8((i + 1) % 2)
		if g.get(i, 6) == empty {
			g.set(i, 6, bit)
		}
		if g.get(6, i) == empty {
			g.set(6, i, bit)
		}
	}

	// dark module
	g.set(8, n-8, 1)
}

const (
	formatInfoPoly = 0x537
	formatInfoMask = 0x5412
	versionPoly    = 0x1f25
)

var formatInfoCoordinates = [15][2]int{
	{8, 0}, {8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5}, {8, 7}, {8, 8},
	{7, 8}, {5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8},
}

func formatInfo(level Level, mask int) int {
	info := level.formatBits()<<3 | mask
	return (info<<10 | bchCode(info, formatInfoPoly)) ^ formatInfoMask
}

func (g *grid) embedFormatInfo(level Level, mask int) {
	bits := formatInfo(level, mask)
	for i := 0; i < 15; i++ {
		bit := int8(bits >> uint(i) & 1)
		at := formatInfoCoordinates[i]
		g.set(at[0], at[1], bit)
		if i < 8 {
			g.set(g.size-1-i, 8, bit)
		} else {
			g.set(8, g.size-7+(i-8), bit)
		}
	}
}

func (g *grid) embedVersionInfo(ver *version) {
	if ver.number < 7 {
		return
	}
	bits := ver.number<<12 | bchCode(ver.number, versionPoly)
	i := 0
	for a := 0; a < 6; a++ {
		for b := 0; b < 3; b++ {
			bit := int8(bits >> uint(i) & 1)
			i++
			g.set(a, g.size-11+b, bit) // bottom left
			g.set(g.size-11+b, a, bit) // top right
		}
	}
}

// embedData walks two-column strips from the bottom right corner, zig-zagging
// up and down, and fills every empty module with the next data bit (zero once
// the codewords run out), flipped where the mask condition holds.
func (g *grid) embedData(codewords []byte, mask int) {
	total := len(codewords) * 8
	bitIndex := 0
	direction := -1
	y := g.size - 1
	for x := g.size - 1; x > 0; x -= 2 {
		if x == 6 {
			x--
		}
		for y >= 0 && y < g.size {
			for i := 0; i < 2; i++ {
				xx := x - i
				if g.get(xx, y) != empty {
					continue
				}
				bit := false
				if bitIndex < total {
					bit = codewords[bitIndex/8]&(0x80>>uint(bitIndex%8)) != 0
					bitIndex++
				}
				if maskBit(mask, xx, y) {
					bit = !bit
				}
				g.setBool(xx, y, bit)
			}
			y += direction
		}
		direction = -direction
		y += direction
	}
}

// maskBit is the data mask condition for column x, row y.
func maskBit(mask, x, y int) bool {
	switch mask {
	case 0:
		return (y+x)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (y+x)%3 == 0
	case 4:
		return (y/2+x/3)%2 == 0
	case 5:
		return (y*x)%2+(y*x)%3 == 0
	case 6:
		return ((y*x)%2+(y*x)%3)%2 == 0
	case 7:
		return ((y*x)%3+(y+x)%2)%2 == 0
	}
	return false
}

func bchCode(value, poly int) int {
	msb := msbSet(poly)
	value <<= uint(msb - 1)
	for msbSet(value) >= msb {
		value ^= poly << uint(msbSet(value)-msb)
	}
	return value
}

func msbSet(value int) int {
	n := 0
	for value != 0 {
		value >>= 1
		n++
	}
	return n
}
