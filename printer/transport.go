package printer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	logInternal "github.com/AlexStarov/escpos-jobprint/log"
)

type Transport interface {
	Write([]byte) (int, error)
	Read([]byte) (int, error)
	Close() error
}

const (
	DefaultLPDPort   = "515"
	DefaultLPDQueue  = "lp"
	DefaultBaudRate  = 9600
	lpdAckTimeout    = 5 * time.Second
	defaultRawScheme = "tcp"
)

// Open returns the transport for a device identifier:
//
//	/dev/usb/lp0, \\HOST\Share, file:///path  file or printer share
//	tcp://host:9100                          raw socket
//	lpd://host[:515]/queue                   LPD print job
//	usb://VID:PID                            USB bulk endpoint
//	serial:///dev/ttyUSB0?baud=9600          serial port
//	spool://Printer Name                     Windows spooler
//
// ctx bounds dialing only.
func Open(ctx context.Context, device string) (Transport, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return nil, fmt.Errorf("%w: no device", ErrTransportWrite)
	}
	if strings.HasPrefix(device, `\\`) || !strings.Contains(device, "://") {
		return openFile(device)
	}

	scheme, rest, _ := strings.Cut(device, "://")
	switch strings.ToLower(scheme) {
	case "file":
		return openFile(rest)
	case "spool":
		return openSpooler(rest)
	case "usb":
		// hex ids are not a valid URL port
		vid, pid, err := parseUSBID(strings.TrimSuffix(rest, "/"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransportWrite, err)
		}
		return openUSB(vid, pid)
	}

	u, err := url.Parse(device)
	if err != nil {
		return nil, fmt.Errorf("%w: device %q: %v", ErrTransportWrite, device, err)
	}

	var d net.Dialer
	switch strings.ToLower(u.Scheme) {
	case defaultRawScheme:
		conn, err := d.DialContext(ctx, "tcp", u.Host)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransportWrite, err)
		}
		return &RawTransport{conn: conn}, nil

	case "lpd":
		host := u.Host
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), DefaultLPDPort)
		}
		conn, err := d.DialContext(ctx, "tcp", host)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransportWrite, err)
		}
		return NewLPDTransport(conn, strings.Trim(u.Path, "/")), nil

	case "serial":
		baud := DefaultBaudRate
		if s := u.Query().Get("baud"); s != "" {
			if baud, err = strconv.Atoi(s); err != nil || baud <= 0 {
				return nil, fmt.Errorf("%w: invalid baud rate %q", ErrTransportWrite, s)
			}
		}
		port := u.Path
		if u.Host != "" {
			port = u.Host + u.Path
		}
		return openSerial(port, baud)
	}
	return nil, fmt.Errorf("%w: unsupported device scheme %q", ErrTransportWrite, u.Scheme)
}

// -------------------- FILE --------------------

// FileTransport writes to a device node, a printer share or a plain file.
type FileTransport struct {
	f *os.File
}

func openFile(path string) (*FileTransport, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportWrite, err)
	}
	return &FileTransport{f: f}, nil
}

func (t *FileTransport) Write(b []byte) (int, error) { return t.f.Write(b) }
func (t *FileTransport) Close() error                { return t.f.Close() }

func (t *FileTransport) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for %s", t.f.Name())
}

// -------------------- RAW --------------------

type RawTransport struct {
	conn io.ReadWriteCloser
}

func (r *RawTransport) Write(b []byte) (int, error) { return r.conn.Write(b) }
func (r *RawTransport) Read(b []byte) (int, error)  { return r.conn.Read(b) }
func (r *RawTransport) Close() error                { return r.conn.Close() }

// -------------------- LPD --------------------

// LPDTransport buffers everything written and sends it as one RFC 1179
// print job when closed.
type LPDTransport struct {
	conn   net.Conn
	queue  string
	jobBuf bytes.Buffer
	closed bool
	mu     sync.Mutex
}

func NewLPDTransport(conn net.Conn, queue string) *LPDTransport {
	if queue == "" {
		queue = DefaultLPDQueue
	}
	return &LPDTransport{
		conn:  conn,
		queue: queue,
	}
}

func (l *LPDTransport) Write(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, io.ErrClosedPipe
	}
	return l.jobBuf.Write(data)
}

func (l *LPDTransport) Read(b []byte) (int, error) {
	return l.conn.Read(b)
}

func (l *LPDTransport) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	defer func() { l.closed = true }()

	logInternal.Debugf("LPDTransport.Close(): jobBuf.Len()=%d", l.jobBuf.Len())

	if l.jobBuf.Len() == 0 {
		return l.conn.Close()
	}

	if err := l.flushJob(); err != nil {
		_ = l.conn.Close()
		return err
	}
	return l.conn.Close()
}

func (l *LPDTransport) flushJob() error {
	host, _ := os.Hostname()
	if host == "" {
		host = "localhost"
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "GoLang"
	}

	jobID := int(time.Now().UnixNano() % 1000000)
	hostShort := host
	if i := strings.IndexByte(hostShort, '.'); i > 0 {
		hostShort = hostShort[:i]
	}
	jobName := fmt.Sprintf("escpos-%d", jobID)
	cfName := fmt.Sprintf("cfA%03d%s", jobID%1000, hostShort)
	dfName := fmt.Sprintf("dfA%03d%s", jobID%1000, hostShort)

	// H - host, P - user, J - job name, N - original file name, l - data file printed raw
	control := fmt.Sprintf(
		"H%s\nP%s\nJ%s\nN%s\nl%s\nU%s\n",
		host, user, jobName, dfName, dfName, dfName,
	)

	if err := requestPrintJob(l.conn, l.queue); err != nil {
		return fmt.Errorf("LPD: stage 1 failed: %w", err)
	}
	if err := sendFile(l.conn, 0x02, cfName, []byte(control), "stage 2"); err != nil {
		return fmt.Errorf("LPD: stage 2 failed: %w", err)
	}
	data := l.jobBuf.Bytes()
	logInternal.Debugf("LPD: sending data file %s (len=%d) to queue %q", dfName, len(data), l.queue)
	if err := sendFile(l.conn, 0x03, dfName, data, "stage 3"); err != nil {
		return fmt.Errorf("LPD: stage 3 failed: %w", err)
	}

	l.jobBuf.Reset()
	return nil
}

// -------------------- LPD helpers --------------------

func requestPrintJob(conn net.Conn, queue string) error {
	// \x02 + <queue>\n
	if err := writeAll(conn, append([]byte{0x02}, queue+"\n"...)); err != nil {
		return err
	}
	return readAck(conn, "stage 1")
}

// sendFile sends a control (0x02) or data (0x03) file:
// <cmd> + "<size> <name>\n" + <content> + \x00
func sendFile(conn net.Conn, cmd byte, name string, content []byte, stage string) error {
	header := append([]byte{cmd}, strconv.Itoa(len(content))+" "+name+"\n"...)
	if err := writeAll(conn, header); err != nil {
		return err
	}
	if err := readAck(conn, stage+" header"); err != nil {
		return err
	}
	if err := writeAll(conn, content); err != nil {
		return err
	}
	if err := writeAll(conn, []byte{0x00}); err != nil {
		return err
	}
	return readAck(conn, stage)
}

func readAck(conn net.Conn, stage string) error {
	_ = conn.SetReadDeadline(time.Now().Add(lpdAckTimeout))
	defer conn.SetReadDeadline(time.Time{})

	ack := make([]byte, 1)
	n, err := conn.Read(ack)
	if err != nil {
		return fmt.Errorf("reading ACK on %s: %w", stage, err)
	}
	if n != 1 || ack[0] != 0x00 {
		return fmt.Errorf("LPD request not acknowledged on %s (0x%02x)", stage, ack[0])
	}
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	sent := 0
	for sent < len(b) {
		n, err := w.Write(b[sent:])
		if err != nil {
			return err
		}
		sent += n
	}
	return nil
}

// -------------------- helpers --------------------

type nopCloser struct {
	io.ReadWriter
}

func (n nopCloser) Close() error { return nil }
