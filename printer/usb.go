package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/gousb"
)

type usbConn struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
	in   *gousb.InEndpoint
}

// parseUSBID reads "VID:PID" in hex, e.g. "04b8:0202".
func parseUSBID(s string) (gousb.ID, gousb.ID, error) {
	v, p, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("usb device %q: want VID:PID", s)
	}
	vid, err := strconv.ParseUint(strings.TrimPrefix(v, "0x"), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("usb vendor id %q: %w", v, err)
	}
	pid, err := strconv.ParseUint(strings.TrimPrefix(p, "0x"), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("usb product id %q: %w", p, err)
	}
	return gousb.ID(vid), gousb.ID(pid), nil
}

func openUSB(vendorID, productID gousb.ID) (Transport, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(vendorID, productID)
	if err == nil && dev == nil {
		err = fmt.Errorf("usb printer %s:%s not found", vendorID, productID)
	}
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("%w: %v", ErrTransportWrite, err)
	}

	dev.SetAutoDetach(true)
	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("%w: %v", ErrTransportWrite, err)
	}

	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("%w: %v", ErrTransportWrite, err)
	}

	outEp, err := intf.OutEndpoint(0x01)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("%w: %v", ErrTransportWrite, err)
	}

	inEp, err := intf.InEndpoint(1)
	if err != nil {
		inEp = nil
	}

	return &RawTransport{conn: &usbConn{ctx, dev, cfg, intf, outEp, inEp}}, nil
}

func (u *usbConn) Read(p []byte) (int, error) {
	if u.in != nil {
		return u.in.Read(p)
	}
	return 0, fmt.Errorf("USB read not supported")
}

func (u *usbConn) Write(p []byte) (int, error) {
	return u.out.Write(p)
}

func (u *usbConn) Close() error {
	if u.intf != nil {
		u.intf.Close()
	}
	if u.cfg != nil {
		u.cfg.Close()
	}
	if u.dev != nil {
		u.dev.Close()
	}
	if u.ctx != nil {
		u.ctx.Close()
	}
	return nil
}
