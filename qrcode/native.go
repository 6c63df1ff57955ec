package qrcode

import (
	"errors"
	"fmt"

	"github.com/AlexStarov/escpos-jobprint/util"
)

// ErrModuleSize reports a native module size outside 1..16.
var ErrModuleSize = errors.New("qr module size out of range")

const (
	MinModuleSize = 1
	MaxModuleSize = 16
)

// NativeCommands returns the GS ( k sequence that makes the printer render
// payload itself: model 2, module size, error correction, store, print.
// Capacity is checked up front so an oversized payload yields no bytes.
func NativeCommands(payload []byte, level Level, moduleSize int) ([]byte, error) {
	if !level.valid() {
		return nil, fmt.Errorf("%w: invalid level %d", ErrCapacity, int(level))
	}
	if moduleSize < MinModuleSize || moduleSize > MaxModuleSize {
		return nil, fmt.Errorf("%w: %d", ErrModuleSize, moduleSize)
	}
	if _, err := chooseVersion(len(payload), level); err != nil {
		return nil, err
	}
	storeLen, err := util.IntLowHigh(len(payload)+3, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapacity, err)
	}

	cmd := make([]byte, 0, len(payload)+36)
	// model 2
	cmd = append(cmd, util.GS, '(', 'k', 4, 0, 0x31, 0x41, 0x32, 0)
	// module size
	cmd = append(cmd, util.GS, '(', 'k', 3, 0, 0x31, 0x43, byte(moduleSize))
	// error correction: 48 L, 49 M, 50 Q, 51 H
	cmd = append(cmd, util.GS, '(', 'k', 3, 0, 0x31, 0x45, 48+byte(level))
	// store in symbol area
	cmd = append(cmd, util.GS, '(', 'k')
	cmd = append(cmd, storeLen...)
	cmd = append(cmd, 0x31, 0x50, 0x30)
	cmd = append(cmd, payload...)
	// print
	cmd = append(cmd, util.GS, '(', 'k', 3, 0, 0x31, 0x51, 0x30)
	return cmd, nil
}
