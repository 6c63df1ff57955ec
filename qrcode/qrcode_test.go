package qrcode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, m *Matrix) string {
	t.Helper()
	bm, err := Render(m, 4, DefaultQuietZone)
	require.NoError(t, err)

	bmp, err := gozxing.NewBinaryBitmapFromImage(bm.Image())
	require.NoError(t, err)

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_PURE_BARCODE: true,
	}
	result, err := zxqr.NewQRCodeReader().Decode(bmp, hints)
	require.NoError(t, err)
	return result.GetText()
}

func payload(n int) []byte {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 .,:;-+*/=!?"
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[(i*7+3)%len(alphabet)]
	}
	return out
}

func TestCapacityTable(t *testing.T) {
	assert.Equal(t, 17, Capacity(1, Low))
	assert.Equal(t, 14, Capacity(1, Medium))
	assert.Equal(t, 11, Capacity(1, Quartile))
	assert.Equal(t, 7, Capacity(1, High))
	assert.Equal(t, 2953, Capacity(40, Low))
	assert.Equal(t, 1273, Capacity(40, High))
	assert.Equal(t, 0, Capacity(41, Low))
	assert.Equal(t, 0, Capacity(0, Low))
}

func TestTotalCodewordsAgreeAcrossLevels(t *testing.T) {
	for i := range versions {
		v := &versions[i]
		for _, l := range []Level{Medium, Quartile, High} {
			e := v.ec[l]
			assert.Equal(t, v.totalCodewords(), e.dataCodewords()+e.ecPerBlock*e.numBlocks(),
				"version %d level %s", v.number, l)
		}
	}
}

func TestEncodeSmallestVersion(t *testing.T) {
	m, err := Encode([]byte("HELLO"), Medium)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Version)
	assert.Equal(t, 21, m.Size)

	m, err = Encode(payload(15), Medium)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Version)
	assert.Equal(t, 25, m.Size)
}

func TestEncodeCapacityLimit(t *testing.T) {
	m, err := Encode(payload(MaxPayload(High)), High)
	require.NoError(t, err)
	assert.Equal(t, MaxVersion, m.Version)
	assert.Equal(t, 177, m.Size)

	m, err = Encode(payload(MaxPayload(High)+1), High)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Nil(t, m)
}

func TestEncodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		data  string
		level Level
	}{
		{"short low", "HI", Low},
		{"url medium", "https://example.com/receipt?id=42", Medium},
		{"quartile", string(payload(60)), Quartile},
		{"high", string(payload(100)), High},
		{"version info", string(payload(200)), Medium},
		{"two byte count", string(payload(400)), Low},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Encode([]byte(tc.data), tc.level)
			require.NoError(t, err)
			assert.Equal(t, tc.data, decode(t, m))
		})
	}
}

func TestEncodeVersionSevenAndUp(t *testing.T) {
	m, err := Encode(payload(200), Medium)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.Version, 7)
}

func TestEncodeDeterministic(t *testing.T) {
	a, err := Encode([]byte("same input"), Quartile)
	require.NoError(t, err)
	b, err := Encode([]byte("same input"), Quartile)
	require.NoError(t, err)
	assert.Equal(t, a.Mask, b.Mask)
	assert.Equal(t, a.String(), b.String())
}

func TestChosenMaskHasLowestPenalty(t *testing.T) {
	data := []byte("mask selection")
	m, err := Encode(data, Medium)
	require.NoError(t, err)

	ver, err := chooseVersion(len(data), Medium)
	require.NoError(t, err)
	codewords, err := interleave(dataCodewords(data, ver, Medium), ver, Medium)
	require.NoError(t, err)

	g := newGrid(ver.Size())
	g.build(codewords, ver, Medium, m.Mask)
	chosen := penalty(g)
	for mask := 0; mask < numMasks; mask++ {
		g.build(codewords, ver, Medium, mask)
		p := penalty(g)
		assert.GreaterOrEqual(t, p, chosen, "mask %d", mask)
		if mask < m.Mask {
			assert.Greater(t, p, chosen, "earlier mask %d ties", mask)
		}
	}
}

func TestFinderPatternsPresent(t *testing.T) {
	m, err := Encode([]byte("X"), Low)
	require.NoError(t, err)
	for _, at := range [][2]int{{0, 0}, {m.Size - 7, 0}, {0, m.Size - 7}} {
		assert.True(t, m.Dark(at[0], at[1]))
		assert.False(t, m.Dark(at[0]+1, at[1]+1))
		assert.True(t, m.Dark(at[0]+3, at[1]+3))
	}
	assert.True(t, m.Dark(8, m.Size-8), "dark module")
}

func TestFormatInfoKnownValue(t *testing.T) {
	// M, mask 5 from the standard's worked example
	assert.Equal(t, 0x40ce, formatInfo(Medium, 5))
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"L": Low, "m": Medium, "quartile": Quartile, "H": High, "": Medium} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("x")
	assert.Error(t, err)
}

func TestNativeCommandsLayout(t *testing.T) {
	cmd, err := NativeCommands([]byte("ABC"), Quartile, 6)
	require.NoError(t, err)

	want := []byte{
		0x1d, '(', 'k', 4, 0, 0x31, 0x41, 0x32, 0,
		0x1d, '(', 'k', 3, 0, 0x31, 0x43, 6,
		0x1d, '(', 'k', 3, 0, 0x31, 0x45, 50,
		0x1d, '(', 'k', 6, 0, 0x31, 0x50, 0x30, 'A', 'B', 'C',
		0x1d, '(', 'k', 3, 0, 0x31, 0x51, 0x30,
	}
	assert.Equal(t, want, cmd)
}

func TestNativeCommandsStoreLength(t *testing.T) {
	data := bytes.Repeat([]byte{'z'}, 300)
	cmd, err := NativeCommands(data, Low, 3)
	require.NoError(t, err)

	store := bytes.Index(cmd, []byte{0x31, 0x50, 0x30})
	require.Greater(t, store, 2)
	assert.Equal(t, []byte{byte(303 % 256), byte(303 / 256)}, cmd[store-2:store])
}

func TestNativeCommandsRejects(t *testing.T) {
	cmd, err := NativeCommands(payload(MaxPayload(High)+1), High, 4)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Nil(t, cmd)

	cmd, err = NativeCommands([]byte("A"), Medium, 0)
	assert.ErrorIs(t, err, ErrModuleSize)
	assert.Nil(t, cmd)

	_, err = NativeCommands([]byte("A"), Medium, 17)
	assert.ErrorIs(t, err, ErrModuleSize)
}

func TestRenderScalesModules(t *testing.T) {
	m, err := Encode([]byte("R"), Low)
	require.NoError(t, err)

	bm, err := Render(m, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, (21+4)*3, bm.Width)
	assert.Equal(t, bm.Width, bm.Height)

	// quiet zone light, top left finder corner dark over a full 3x3 block
	assert.False(t, bm.Black(5, 5))
	for y := 6; y < 9; y++ {
		for x := 6; x < 9; x++ {
			assert.True(t, bm.Black(x, y))
		}
	}

	_, err = Render(m, 0, 2)
	assert.Error(t, err)
}

func TestMatrixString(t *testing.T) {
	m, err := Encode([]byte("S"), Low)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(m.String(), "\n"), "\n")
	assert.Len(t, lines, m.Size)
	assert.True(t, strings.HasPrefix(lines[0], "##############"))
}
