package printer

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	logInternal "github.com/AlexStarov/escpos-jobprint/log"
)

// openSerial opens a COM port or /dev/tty* device, 8N1 at baudRate.
func openSerial(portName string, baudRate int) (Transport, error) {
	// Получаем список доступных портов
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list serial ports: %v", ErrTransportWrite, err)
	}
	logInternal.Debugf("serial ports: %v", ports)

	if !contains(ports, portName) {
		return nil, fmt.Errorf("%w: serial port %s not found", ErrTransportWrite, portName)
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open serial port %s: %v", ErrTransportWrite, portName, err)
	}
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, fmt.Errorf("%w: %v", ErrTransportWrite, err)
	}
	logInternal.Debugf("serial port %s opened at %d baud", portName, baudRate)
	return &RawTransport{conn: port}, nil
}

// Проверяем, есть ли порт в списке
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
