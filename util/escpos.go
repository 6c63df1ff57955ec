package util

import "fmt"

// Control bytes used by the ESC/POS command set.
const (
	LF  byte = 0x0A
	ESC byte = 0x1B
	GS  byte = 0x1D
)

// IntLowHigh splits n into b little-endian bytes (nL nH ...), the way
// ESC/POS encodes numeric command parameters.
func IntLowHigh(n int, b int) ([]byte, error) {
	if b < 1 || b > 4 {
		return nil, fmt.Errorf("IntLowHigh: 1-4 bytes only, got %d", b)
	}
	if n < 0 || (b < 4 && n >= 1<<(8*uint(b))) {
		return nil, fmt.Errorf("IntLowHigh: %d does not fit in %d bytes", n, b)
	}

	out := make([]byte, b)
	for i := 0; i < b; i++ {
		out[i] = byte(n % 256)
		n = n / 256
	}
	return out, nil
}
