package qrcode

import (
	"fmt"
	"strings"
)

// Level is the error correction level of a symbol.
type Level int

const (
	Low      Level = iota // ~7% recovery
	Medium                // ~15% recovery
	Quartile              // ~25% recovery
	High                  // ~30% recovery
)

func (l Level) String() string {
	switch l {
	case Low:
		return "L"
	case Medium:
		return "M"
	case Quartile:
		return "Q"
	case High:
		return "H"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// formatBits is the two-bit level indicator stored in the format information.
func (l Level) formatBits() int {
	switch l {
	case Low:
		return 0x01
	case Medium:
		return 0x00
	case Quartile:
		return 0x03
	}
	return 0x02
}

func (l Level) valid() bool { return l >= Low && l <= High }

// ParseLevel accepts L/M/Q/H and low/medium/quartile/high, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return Low, nil
	case "", "m", "medium":
		return Medium, nil
	case "q", "quartile":
		return Quartile, nil
	case "h", "high":
		return High, nil
	}
	return Medium, fmt.Errorf("unknown error correction level %q", s)
}

const (
	MinVersion = 1
	MaxVersion = 40
)

type blockGroup struct {
	count         int
	dataCodewords int
}

type ecBlocks struct {
	ecPerBlock int
	groups     []blockGroup
}

func (e ecBlocks) numBlocks() int {
	n := 0
	for _, g := range e.groups {
		n += g.count
	}
	return n
}

func (e ecBlocks) dataCodewords() int {
	n := 0
	for _, g := range e.groups {
		n += g.count * g.dataCodewords
	}
	return n
}

type version struct {
	number int
	align  []int
	ec     [4]ecBlocks // L, M, Q, H
}

// Size is the number of modules per side.
func (v *version) Size() int { return 17 + 4*v.number }

func (v *version) totalCodewords() int {
	l := v.ec[Low]
	return l.dataCodewords() + l.ecPerBlock*l.numBlocks()
}

// countBits is the width of the byte mode character count indicator.
func (v *version) countBits() int {
	if v.number <= 9 {
		return 8
	}
	return 16
}

// Capacity returns how many payload bytes a version holds at level in byte mode.
func Capacity(ver int, level Level) int {
	if ver < MinVersion || ver > MaxVersion || !level.valid() {
		return 0
	}
	v := &versions[ver-1]
	bits := v.ec[level].dataCodewords()*8 - 4 - v.countBits()
	return bits / 8
}

// MaxPayload is the capacity of the largest supported version at level.
func MaxPayload(level Level) int { return Capacity(MaxVersion, level) }

// chooseVersion returns the smallest version holding n payload bytes at level.
func chooseVersion(n int, level Level) (*version, error) {
	for i := range versions {
		if Capacity(versions[i].number, level) >= n {
			return &versions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d bytes exceed the %d byte capacity of version %d-%s",
		ErrCapacity, n, MaxPayload(level), MaxVersion, level)
}

func newVersion(number int, align []int, l, m, q, h ecBlocks) version {
	return version{number: number, align: align, ec: [4]ecBlocks{l, m, q, h}}
}

func ecb(ecPerBlock int, groups ...blockGroup) ecBlocks {
	return ecBlocks{ecPerBlock: ecPerBlock, groups: groups}
}

func blk(count, dataCodewords int) blockGroup { return blockGroup{count, dataCodewords} }

func centers(c ...int) []int { return c }

// ISO/IEC 18004 table 9: error correction blocks, and table E.1: alignment pattern centers.
var versions = [MaxVersion]version{
	newVersion(1, nil, ecb(7, blk(1, 19)), ecb(10, blk(1, 16)), ecb(13, blk(1, 13)), ecb(17, blk(1, 9))),
	newVersion(2, centers(6, 18), ecb(10, blk(1, 34)), ecb(16, blk(1, 28)), ecb(22, blk(1, 22)), ecb(28, blk(1, 16))),
	newVersion(3, centers(6, 22), ecb(15, blk(1, 55)), ecb(26, blk(1, 44)), ecb(18, blk(2, 17)), ecb(22, blk(2, 13))),
	newVersion(4, centers(6, 26), ecb(20, blk(1, 80)), ecb(18, blk(2, 32)), ecb(26, blk(2, 24)), ecb(16, blk(4, 9))),
	newVersion(5, centers(6, 30), ecb(26, blk(1, 108)), ecb(24, blk(2, 43)), ecb(18, blk(2, 15), blk(2, 16)), ecb(22, blk(2, 11), blk(2, 12))),
	newVersion(6, centers(6, 34), ecb(18, blk(2, 68)), ecb(16, blk(4, 27)), ecb(24, blk(4, 19)), ecb(28, blk(4, 15))),
	newVersion(7, centers(6, 22, 38), ecb(20, blk(2, 78)), ecb(18, blk(4, 31)), ecb(18, blk(2, 14), blk(4, 15)), ecb(26, blk(4, 13), blk(1, 14))),
	newVersion(8, centers(6, 24, 42), ecb(24, blk(2, 97)), ecb(22, blk(2, 38), blk(2, 39)), ecb(22, blk(4, 18), blk(2, 19)), ecb(26, blk(4, 14), blk(2, 15))),
	newVersion(9, centers(6, 26, 46), ecb(30, blk(2, 116)), ecb(22, blk(3, 36), blk(2, 37)), ecb(20, blk(4, 16), blk(4, 17)), ecb(24, blk(4, 12), blk(4, 13))),
	newVersion(10, centers(6, 28, 50), ecb(18, blk(2, 68), blk(2, 69)), ecb(26, blk(4, 43), blk(1, 44)), ecb(24, blk(6, 19), blk(2, 20)), ecb(28, blk(6, 15), blk(2, 16))),
	newVersion(11, centers(6, 30, 54), ecb(20, blk(4, 81)), ecb(30, blk(1, 50), blk(4, 51)), ecb(28, blk(4, 22), blk(4, 23)), ecb(24, blk(3, 12), blk(8, 13))),
	newVersion(12, centers(6, 32, 58), ecb(24, blk(2, 92), blk(2, 93)), ecb(22, blk(6, 36), blk(2, 37)), ecb(26, blk(4, 20), blk(6, 21)), ecb(28, blk(7, 14), blk(4, 15))),
	newVersion(13, centers(6, 34, 62), ecb(26, blk(4, 107)), ecb(22, blk(8, 37), blk(1, 38)), ecb(24, blk(8, 20), blk(4, 21)), ecb(22, blk(12, 11), blk(4, 12))),
	newVersion(14, centers(6, 26, 46, 66), ecb(30, blk(3, 115), blk(1, 116)), ecb(24, blk(4, 40), blk(5, 41)), ecb(20, blk(11, 16), blk(5, 17)), ecb(24, blk(11, 12), blk(5, 13))),
	newVersion(15, centers(6, 26, 48, 70), ecb(22, blk(5, 87), blk(1, 88)), ecb(24, blk(5, 41), blk(5, 42)), ecb(30, blk(5, 24), blk(7, 25)), ecb(24, blk(11, 12), blk(7, 13))),
	newVersion(16, centers(6, 26, 50, 74), ecb(24, blk(5, 98), blk(1, 99)), ecb(28, blk(7, 45), blk(3, 46)), ecb(24, blk(15, 19), blk(2, 20)), ecb(30, blk(3, 15), blk(13, 16))),
	newVersion(17, centers(6, 30, 54, 78), ecb(28, blk(1, 107), blk(5, 108)), ecb(28, blk(10, 46), blk(1, 47)), ecb(28, blk(1, 22), blk(15, 23)), ecb(28, blk(2, 14), blk(17, 15))),
	newVersion(18, centers(6, 30, 56, 82), ecb(30, blk(5, 120), blk(1, 121)), ecb(26, blk(9, 43), blk(4, 44)), ecb(28, blk(17, 22), blk(1, 23)), ecb(28, blk(2, 14), blk(19, 15))),
	newVersion(19, centers(6, 30, 58, 86), ecb(28, blk(3, 113), blk(4, 114)), ecb(26, blk(3, 44), blk(11, 45)), ecb(26, blk(17, 21), blk(4, 22)), ecb(26, blk(9, 13), blk(16, 14))),
	newVersion(20, centers(6, 34, 62, 90), ecb(28, blk(3, 107), blk(5, 108)), ecb(26, blk(3, 41), blk(13, 42)), ecb(30, blk(15, 24), blk(5, 25)), ecb(28, blk(15, 15), blk(10, 16))),
	newVersion(21, centers(6, 28, 50, 72, 94), ecb(28, blk(4, 116), blk(4, 117)), ecb(26, blk(17, 42)), ecb(28, blk(17, 22), blk(6, 23)), ecb(30, blk(19, 16), blk(6, 17))),
	newVersion(22, centers(6, 26, 50, 74, 98), ecb(28, blk(2, 111), blk(7, 112)), ecb(28, blk(17, 46)), ecb(30, blk(7, 24), blk(16, 25)), ecb(24, blk(34, 13))),
	newVersion(23, centers(6, 30, 54, 78, 102), ecb(30, blk(4, 121), blk(5, 122)), ecb(28, blk(4, 47), blk(14, 48)), ecb(30, blk(11, 24), blk(14, 25)), ecb(30, blk(16, 15), blk(14, 16))),
	newVersion(24, centers(6, 28, 54, 80, 106), ecb(30, blk(6, 117), blk(4, 118)), ecb(28, blk(6, 45), blk(14, 46)), ecb(30, blk(11, 24), blk(16, 25)), ecb(30, blk(30, 16), blk(2, 17))),
	newVersion(25, centers(6, 32, 58, 84, 110), ecb(26, blk(8, 106), blk(4, 107)), ecb(28, blk(8, 47), blk(13, 48)), ecb(30, blk(7, 24), blk(22, 25)), ecb(30, blk(22, 15), blk(13, 16))),
	newVersion(26, centers(6, 30, 58, 86, 114), ecb(28, blk(10, 114), blk(2, 115)), ecb(28, blk(19, 46), blk(4, 47)), ecb(28, blk(28, 22), blk(6, 23)), ecb(30, blk(33, 16), blk(4, 17))),
	newVersion(27, centers(6, 34, 62, 90, 118), ecb(30, blk(8, 122), blk(4, 123)), ecb(28, blk(22, 45), blk(3, 46)), ecb(30, blk(8, 23), blk(26, 24)), ecb(30, blk(12, 15), blk(28, 16))),
	newVersion(28, centers(6, 26, 50, 74, 98, 122), ecb(30, blk(3, 117), blk(10, 118)), ecb(28, blk(3, 45), blk(23, 46)), ecb(30, blk(4, 24), blk(31, 25)), ecb(30, blk(11, 15), blk(31, 16))),
	newVersion(29, centers(6, 30, 54, 78, 102, 126), ecb(30, blk(7, 116), blk(7, 117)), ecb(28, blk(21, 45), blk(7, 46)), ecb(30, blk(1, 23), blk(37, 24)), ecb(30, blk(19, 15), blk(26, 16))),
	newVersion(30, centers(6, 26, 52, 78, 104, 130), ecb(30, blk(5, 115), blk(10, 116)), ecb(28, blk(19, 47), blk(10, 48)), ecb(30, blk(15, 24), blk(25, 25)), ecb(30, blk(23, 15), blk(25, 16))),
	newVersion(31, centers(6, 30, 56, 82, 108, 134), ecb(30, blk(13, 115), blk(3, 116)), ecb(28, blk(2, 46), blk(29, 47)), ecb(30, blk(42, 24), blk(1, 25)), ecb(30, blk(23, 15), blk(28, 16))),
	newVersion(32, centers(6, 34, 60, 86, 112, 138), ecb(30, blk(17, 115)), ecb(28, blk(10, 46), blk(23, 47)), ecb(30, blk(10, 24), blk(35, 25)), ecb(30, blk(19, 15), blk(35, 16))),
	newVersion(33, centers(6, 30, 58, 86, 114, 142), ecb(30, blk(17, 115), blk(1, 116)), ecb(28, blk(14, 46), blk(21, 47)), ecb(30, blk(29, 24), blk(19, 25)), ecb(30, blk(11, 15), blk(46, 16))),
	newVersion(34, centers(6, 34, 62, 90, 118, 146), ecb(30, blk(13, 115), blk(6, 116)), ecb(28, blk(14, 46), blk(23, 47)), ecb(30, blk(44, 24), blk(7, 25)), ecb(30, blk(59, 16), blk(1, 17))),
	newVersion(35, centers(6, 30, 54, 78, 102, 126, 150), ecb(30, blk(12, 121), blk(7, 122)), ecb(28, blk(12, 47), blk(26, 48)), ecb(30, blk(39, 24), blk(14, 25)), ecb(30, blk(22, 15), blk(41, 16))),
	newVersion(36, centers(6, 24, 50, 76, 102, 128, 154), ecb(30, blk(6, 121), blk(14, 122)), ecb(28, blk(6, 47), blk(34, 48)), ecb(30, blk(46, 24), blk(10, 25)), ecb(30, blk(2, 15), blk(64, 16))),
	newVersion(37, centers(6, 28, 54, 80, 106, 132, 158), ecb(30, blk(17, 122), blk(4, 123)), ecb(28, blk(29, 46), blk(14, 47)), ecb(30, blk(49, 24), blk(10, 25)), ecb(30, blk(24, 15), blk(46, 16))),
	newVersion(38, centers(6, 32, 58, 84, 110, 136, 162), ecb(30, blk(4, 122), blk(18, 123)), ecb(28, blk(13, 46), blk(32, 47)), ecb(30, blk(48, 24), blk(14, 25)), ecb(30, blk(42, 15), blk(32, 16))),
	newVersion(39, centers(6, 26, 54, 82, 110, 138, 166), ecb(30, blk(20, 117), blk(4, 118)), ecb(28, blk(40, 47), blk(7, 48)), ecb(30, blk(43, 24), blk(22, 25)), ecb(30, blk(10, 15), blk(67, 16))),
	newVersion(40, centers(6, 30, 58, 86, 114, 142, 170), ecb(30, blk(19, 118), blk(6, 119)), ecb(28, blk(18, 47), blk(31, 48)), ecb(30, blk(34, 24), blk(34, 25)), ecb(30, blk(20, 15), blk(61, 16))),
}
