package printer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	logInternal "github.com/AlexStarov/escpos-jobprint/log"
)

// Printer owns one open transport for the length of a print.
type Printer struct {
	t Transport

	sync.Mutex
}

// NewPrinter wraps an already open connection.
func NewPrinter(w io.ReadWriter) (*Printer, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: nil connection", ErrTransportWrite)
	}

	var transport Transport

	// Если нам дали сетевое соединение, проверим порт
	if conn, ok := w.(net.Conn); ok {
		// LPD соединение (порт 515): используем буферизованный LPDTransport
		if strings.HasSuffix(conn.RemoteAddr().String(), ":"+DefaultLPDPort) {
			transport = NewLPDTransport(conn, DefaultLPDQueue)
		} else {
			transport = &RawTransport{conn: conn}
		}
	} else if t, ok := w.(Transport); ok {
		transport = t
	} else if rc, ok := w.(io.ReadWriteCloser); ok {
		transport = &RawTransport{conn: rc}
	} else {
		// Любой io.ReadWriter (например, bytes.Buffer) оборачиваем в nopCloser
		transport = &RawTransport{conn: nopCloser{w}}
	}

	return &Printer{t: transport}, nil
}

// Dial opens the transport named by device, see Open.
func Dial(ctx context.Context, device string) (*Printer, error) {
	t, err := Open(ctx, device)
	if err != nil {
		return nil, err
	}
	return &Printer{t: t}, nil
}

func (p *Printer) Write(buf []byte) (int, error) {
	p.Lock()
	defer p.Unlock()
	if err := writeAll(p.t, buf); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransportWrite, err)
	}
	return len(buf), nil
}

// Send writes a finished command stream.
func (p *Printer) Send(buf *CommandBuffer) error {
	if buf == nil {
		return fmt.Errorf("%w: no command buffer", ErrTransportWrite)
	}
	_, err := p.Write(buf.Bytes())
	return err
}

// Print builds job and sends it; nothing is written when the build fails.
func (p *Printer) Print(b *Builder, job *PrintJob) error {
	buf, err := b.Build(job)
	if err != nil {
		return err
	}
	return p.Send(buf)
}

// Close releases the transport; buffered transports deliver the job here.
func (p *Printer) Close() error {
	p.Lock()
	defer p.Unlock()
	if err := p.t.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransportWrite, err)
	}
	return nil
}

// Submit opens device, writes buf and closes the device again on every path.
func Submit(ctx context.Context, device string, buf *CommandBuffer) (err error) {
	if buf == nil {
		return fmt.Errorf("%w: no command buffer", ErrTransportWrite)
	}
	p, err := Dial(ctx, device)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, p.Close())
	}()

	logInternal.Debugf("sending %d bytes to %s", buf.Len(), device)
	return p.Send(buf)
}
