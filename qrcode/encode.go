// Package qrcode encodes byte payloads as QR Code 2005 symbols and emits
// them either as native ESC/POS QR commands or as a monochrome raster.
package qrcode

import (
	"errors"
	"fmt"
	"math"

	"github.com/skip2/go-qrcode/bitset"
	"github.com/skip2/go-qrcode/reedsolomon"
)

// ErrCapacity reports a payload that no supported version can hold at the requested level.
var ErrCapacity = errors.New("qr encoding failure")

const (
	numMasks     = 8
	modeByte     = 0x4
	padCodeword1 = 0xec
	padCodeword2 = 0x11
)

// Encode builds the symbol for payload in byte mode, using the smallest
// version that fits at level and the mask with the lowest penalty.
func Encode(payload []byte, level Level) (*Matrix, error) {
	if !level.valid() {
		return nil, fmt.Errorf("%w: invalid level %d", ErrCapacity, int(level))
	}
	ver, err := chooseVersion(len(payload), level)
	if err != nil {
		return nil, err
	}

	codewords, err := interleave(dataCodewords(payload, ver, level), ver, level)
	if err != nil {
		return nil, err
	}

	g := newGrid(ver.Size())
	mask := chooseMask(codewords, ver, level, g)
	g.build(codewords, ver, level, mask)

	return g.matrix(ver.number, level, mask), nil
}

// dataCodewords lays out mode, count, payload, terminator and pad codewords.
func dataCodewords(payload []byte, ver *version, level Level) *bitset.Bitset {
	capacity := ver.ec[level].dataCodewords() * 8

	bits := bitset.New()
	bits.AppendUint32(modeByte, 4)
	bits.AppendUint32(uint32(len(payload)), ver.countBits())
	bits.AppendBytes(payload)

	terminator := capacity - bits.Len()
	if terminator > 4 {
		terminator = 4
	}
	bits.AppendNumBools(terminator, false)
	if r := bits.Len() % 8; r != 0 {
		bits.AppendNumBools(8-r, false)
	}

	for i := 0; bits.Len() < capacity; i++ {
		if i%2 == 0 {
			bits.AppendUint32(padCodeword1, 8)
		} else {
			bits.AppendUint32(padCodeword2, 8)
		}
	}
	return bits
}

// interleave splits the data into Reed-Solomon blocks, appends their error
// correction codewords and interleaves data then EC codewords block by block.
func interleave(data *bitset.Bitset, ver *version, level Level) ([]byte, error) {
	blocks := ver.ec[level]

	type block struct {
		data []byte
		ec   []byte
	}
	var all []block

	start := 0
	maxData := 0
	for _, grp := range blocks.groups {
		for i := 0; i < grp.count; i++ {
			end := start + grp.dataCodewords*8
			encoded := toBytes(reedsolomon.Encode(data.Substr(start, end), blocks.ecPerBlock))
			all = append(all, block{
				data: encoded[:grp.dataCodewords],
				ec:   encoded[grp.dataCodewords:],
			})
			if grp.dataCodewords > maxData {
				maxData = grp.dataCodewords
			}
			start = end
		}
	}

	out := make([]byte, 0, ver.totalCodewords())
	for i := 0; i < maxData; i++ {
		for _, b := range all {
			if i < len(b.data) {
				out = append(out, b.data[i])
			}
		}
	}
	for i := 0; i < blocks.ecPerBlock; i++ {
		for _, b := range all {
			out = append(out, b.ec[i])
		}
	}

	if len(out) != ver.totalCodewords() {
		return nil, fmt.Errorf("%w: interleaved %d codewords, version %d needs %d",
			ErrCapacity, len(out), ver.number, ver.totalCodewords())
	}
	return out, nil
}

func toBytes(bits *bitset.Bitset) []byte {
	out := make([]byte, bits.Len()/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if bits.At(i*8 + j) {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}

// chooseMask builds the symbol with every mask and keeps the one with the
// lowest total penalty; the first (lowest) mask wins a tie.
func chooseMask(codewords []byte, ver *version, level Level, g *grid) int {
	best, minPenalty := 0, math.MaxInt
	for mask := 0; mask < numMasks; mask++ {
		g.build(codewords, ver, level, mask)
		if p := penalty(g); p < minPenalty {
			best, minPenalty = mask, p
		}
	}
	return best
}
