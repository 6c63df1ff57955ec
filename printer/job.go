package printer

import (
	"fmt"
	"image"
	"strings"

	imgInternal "github.com/AlexStarov/escpos-jobprint/image"
	"github.com/AlexStarov/escpos-jobprint/qrcode"
)

// Justification is the horizontal alignment selected with ESC a n.
type Justification int

const (
	Left Justification = iota
	Center
	Right
)

func (j Justification) String() string {
	switch j {
	case Left:
		return "left"
	case Center:
		return "center"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Justification(%d)", int(j))
}

func ParseJustification(s string) (Justification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "center", "centre":
		return Center, nil
	case "right":
		return Right, nil
	}
	return Left, fmt.Errorf("invalid alignment: %s", s)
}

// AutoWidth as an image width prints the image at its own width; it still
// has to fit the printer.
const AutoWidth = -1

// Kind tags the variant held by a PrintElement.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindQrCode
	KindSetJustification
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindQrCode:
		return "qrcode"
	case KindSetJustification:
		return "justify"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// PrintElement is one entry of a job. Only the fields of its Kind are used.
type PrintElement struct {
	Kind Kind

	// KindText
	Text string

	// KindImage: encoded image data, or an already decoded Picture.
	// Width AutoWidth prints at the source width.
	ImageData []byte
	Picture   image.Image
	Width     int
	Scale     imgInternal.ScaleMode

	// KindQrCode
	Payload []byte
	Level   qrcode.Level

	// KindSetJustification
	Justification Justification
}

func Text(s string) PrintElement {
	return PrintElement{Kind: KindText, Text: s}
}

func Image(data []byte, width int, mode imgInternal.ScaleMode) PrintElement {
	return PrintElement{Kind: KindImage, ImageData: data, Width: width, Scale: mode}
}

func ImageFrom(img image.Image, width int, mode imgInternal.ScaleMode) PrintElement {
	return PrintElement{Kind: KindImage, Picture: img, Width: width, Scale: mode}
}

func QrCode(payload []byte, level qrcode.Level) PrintElement {
	return PrintElement{Kind: KindQrCode, Payload: payload, Level: level}
}

func SetJustification(j Justification) PrintElement {
	return PrintElement{Kind: KindSetJustification, Justification: j}
}

// PrintJob is the ordered list of elements of one print.
type PrintJob struct {
	Elements []PrintElement
}

func NewJob(elements ...PrintElement) *PrintJob {
	return &PrintJob{Elements: elements}
}

// Add appends elements and returns the job for chaining.
func (j *PrintJob) Add(elements ...PrintElement) *PrintJob {
	j.Elements = append(j.Elements, elements...)
	return j
}
