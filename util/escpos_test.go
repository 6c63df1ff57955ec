package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntLowHigh(t *testing.T) {
	testCases := []struct {
		name string
		n, b int
		want []byte
	}{
		{"Zero", 0, 2, []byte{0x00, 0x00}},
		{"LowOnly", 48, 2, []byte{0x30, 0x00}},
		{"Split", 0x1234, 2, []byte{0x34, 0x12}},
		{"MaxTwo", 0xffff, 2, []byte{0xff, 0xff}},
		{"Four", 0x01020304, 4, []byte{0x04, 0x03, 0x02, 0x01}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IntLowHigh(tc.n, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIntLowHighRejects(t *testing.T) {
	_, err := IntLowHigh(1, 0)
	assert.Error(t, err)

	_, err = IntLowHigh(1, 5)
	assert.Error(t, err)

	_, err = IntLowHigh(0x10000, 2)
	assert.Error(t, err)

	_, err = IntLowHigh(-1, 2)
	assert.Error(t, err)
}
