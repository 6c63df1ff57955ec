//go:build !windows
// +build !windows

package printer

import "fmt"

// openSpooler: заглушка для систем без Windows Spooler
func openSpooler(printerName string) (Transport, error) {
	return nil, fmt.Errorf("%w: spooler printer %q: Windows Spooler printing is only supported on Windows",
		ErrTransportWrite, printerName)
}
