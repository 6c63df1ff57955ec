package printer

import (
	"fmt"
	"io"
	"strings"

	imgInternal "github.com/AlexStarov/escpos-jobprint/image"
	logInternal "github.com/AlexStarov/escpos-jobprint/log"
	"github.com/AlexStarov/escpos-jobprint/qrcode"
	"github.com/AlexStarov/escpos-jobprint/util"
)

// RasterCommand selects how bitmaps are sent to the printer.
type RasterCommand int

const (
	// BitImage is GS v 0.
	BitImage RasterCommand = iota
	// Graphics is GS 8 L followed by GS ( L.
	Graphics
)

func (r RasterCommand) String() string {
	if r == Graphics {
		return "graphics"
	}
	return "bitimage"
}

func ParseRasterCommand(s string) (RasterCommand, error) {
	switch strings.ToLower(s) {
	case "", "bitimage", "gsv0":
		return BitImage, nil
	case "graphics", "gs8l":
		return Graphics, nil
	}
	return BitImage, fmt.Errorf("unknown raster command %q", s)
}

// CutMode is the paper cut appended after the feed.
type CutMode int

const (
	CutFull CutMode = iota
	CutPartial
	CutNone
)

func (c CutMode) String() string {
	switch c {
	case CutPartial:
		return "partial"
	case CutNone:
		return "none"
	}
	return "full"
}

func ParseCutMode(s string) (CutMode, error) {
	switch strings.ToLower(s) {
	case "", "full":
		return CutFull, nil
	case "partial":
		return CutPartial, nil
	case "none":
		return CutNone, nil
	}
	return CutFull, fmt.Errorf("unknown cut mode %q", s)
}

// Options configure a Builder.
type Options struct {
	// Printable width of the printer, in dots
	MaxDots    int
	CodePage   string
	Resampling imgInternal.Resampling
	Raster     RasterCommand
	// Rows per GS v 0 command, 0 for a single command
	BandHeight int

	// NativeQR sends QR codes as GS ( k commands instead of a raster
	NativeQR       bool
	QRModuleSize   int
	QRModulePixels int
	QRQuietZone    int

	FeedLines int
	Cut       CutMode
	// Initialize prefixes the job with ESC @
	Initialize bool
	// ExplicitJustification emits ESC a 0 before the first content
	// element instead of trusting the printer's power-on state
	ExplicitJustification bool
}

func DefaultOptions() Options {
	return Options{
		MaxDots:        512,
		CodePage:       DefaultCodePage,
		Resampling:     imgInternal.Bilinear,
		QRModuleSize:   6,
		QRModulePixels: 4,
		QRQuietZone:    qrcode.DefaultQuietZone,
		FeedLines:      3,
		Cut:            CutFull,
	}
}

// CommandBuffer holds a finished command stream.
type CommandBuffer struct {
	data []byte
}

func (c *CommandBuffer) Bytes() []byte { return c.data }
func (c *CommandBuffer) Len() int      { return len(c.data) }

func (c *CommandBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.data)
	return int64(n), err
}

func (c *CommandBuffer) append(b ...byte) { c.data = append(c.data, b...) }

// Builder turns PrintJobs into command streams. A Builder holds no state
// between builds and can be reused.
type Builder struct {
	opts     Options
	conv     *imgInternal.Converter
	codePage *CodePage
}

func NewBuilder(opts Options) (*Builder, error) {
	if opts.MaxDots <= 0 || opts.MaxDots > 0xffff {
		return nil, fmt.Errorf("%w: max dots %d", ErrUnsupportedDimensions, opts.MaxDots)
	}
	if opts.FeedLines < 0 || opts.FeedLines > 255 {
		return nil, fmt.Errorf("feed lines must be within 0..255, got %d", opts.FeedLines)
	}
	if opts.BandHeight < 0 {
		return nil, fmt.Errorf("band height must not be negative, got %d", opts.BandHeight)
	}
	if opts.NativeQR {
		if opts.QRModuleSize < qrcode.MinModuleSize || opts.QRModuleSize > qrcode.MaxModuleSize {
			return nil, fmt.Errorf("%w: %d", qrcode.ErrModuleSize, opts.QRModuleSize)
		}
	} else if opts.QRModulePixels < 1 {
		return nil, fmt.Errorf("%w: qr module pixels %d", ErrUnsupportedDimensions, opts.QRModulePixels)
	}
	cp, err := LookupCodePage(opts.CodePage)
	if err != nil {
		return nil, err
	}
	return &Builder{
		opts:     opts,
		conv:     &imgInternal.Converter{MaxWidth: opts.MaxDots, Resampling: opts.Resampling},
		codePage: cp,
	}, nil
}

func (b *Builder) Options() Options { return b.opts }

// Build encodes the job element by element. The first failure aborts the
// build and no buffer is returned.
func (b *Builder) Build(job *PrintJob) (*CommandBuffer, error) {
	buf := &CommandBuffer{}
	tracker := NewTracker(b.opts.ExplicitJustification)

	if b.opts.Initialize {
		buf.append(util.ESC, '@')
	}

	if job != nil {
		for i, el := range job.Elements {
			if el.Kind == KindSetJustification {
				if el.Justification < Left || el.Justification > Right {
					return nil, &BuildError{Index: i, Stage: StageJustify,
						Err: fmt.Errorf("%w: justification %d", ErrInvalidElement, int(el.Justification))}
				}
				buf.append(tracker.Set(el.Justification)...)
				continue
			}

			var (
				out   []byte
				stage Stage
				err   error
			)
			switch el.Kind {
			case KindText:
				out, stage = b.codePage.Encode(el.Text), StageText
			case KindImage:
				out, stage, err = b.image(el)
			case KindQrCode:
				out, stage, err = b.qrCode(el)
			default:
				stage, err = Stage(el.Kind.String()), fmt.Errorf("%w: kind %d", ErrInvalidElement, int(el.Kind))
			}
			if err != nil {
				logInternal.Debugf("element %d (%s) failed: %v", i, stage, err)
				return nil, &BuildError{Index: i, Stage: stage, Err: err}
			}

			buf.append(tracker.Ensure()...)
			buf.append(out...)
			logInternal.Debugf("element %d: %s, %d bytes, %s", i, el.Kind, len(out), tracker.Current())
		}
	}

	b.trailer(buf)
	return buf, nil
}

func (b *Builder) trailer(buf *CommandBuffer) {
	if b.opts.FeedLines > 0 {
		buf.append(util.ESC, 'd', byte(b.opts.FeedLines))
	}
	switch b.opts.Cut {
	case CutFull:
		buf.append([]byte("\x1DVA0")...)
	case CutPartial:
		buf.append([]byte("\x1DVB0")...)
	}
}

func (b *Builder) image(el PrintElement) ([]byte, Stage, error) {
	img := el.Picture
	if img == nil {
		var err error
		if img, err = b.conv.Decode(el.ImageData); err != nil {
			return nil, StageImage, err
		}
	}

	width := el.Width
	if width == AutoWidth {
		width = img.Bounds().Dx()
	}

	bm, err := b.conv.Convert(img, width, el.Scale)
	if err != nil {
		return nil, StageImage, err
	}
	out, err := b.raster(bm)
	return out, StageRaster, err
}

func (b *Builder) raster(bm *imgInternal.MonoBitmap) ([]byte, error) {
	if b.opts.Raster == Graphics {
		return imgInternal.EncodeGraphics(bm)
	}
	return imgInternal.EncodeRasterBands(bm, b.opts.BandHeight)
}

func (b *Builder) qrCode(el PrintElement) ([]byte, Stage, error) {
	if b.opts.NativeQR {
		out, err := qrcode.NativeCommands(el.Payload, el.Level, b.opts.QRModuleSize)
		return out, StageQrCode, err
	}

	m, err := qrcode.Encode(el.Payload, el.Level)
	if err != nil {
		return nil, StageQrCode, err
	}
	bm, err := qrcode.Render(m, b.opts.QRModulePixels, b.opts.QRQuietZone)
	if err != nil {
		return nil, StageQrCode, err
	}
	if bm.Width > b.opts.MaxDots {
		return nil, StageQrCode, fmt.Errorf("%w: qr code version %d is %d dots wide, printer has %d",
			ErrUnsupportedDimensions, m.Version, bm.Width, b.opts.MaxDots)
	}
	logInternal.Debugf("qr version %d-%s mask %d, %d dots", m.Version, m.Level, m.Mask, bm.Width)
	out, err := b.raster(bm)
	return out, StageRaster, err
}
