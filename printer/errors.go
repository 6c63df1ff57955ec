package printer

import (
	"errors"
	"fmt"

	imgInternal "github.com/AlexStarov/escpos-jobprint/image"
	"github.com/AlexStarov/escpos-jobprint/qrcode"
)

var (
	ErrImageDecodeFailure    = imgInternal.ErrImageDecode
	ErrUnsupportedDimensions = imgInternal.ErrUnsupportedDimensions
	ErrQrEncodingFailure     = qrcode.ErrCapacity
	ErrTransportWrite        = errors.New("transport write failure")
	ErrInvalidElement        = errors.New("invalid print element")
)

// Stage names the part of a build that failed.
type Stage string

const (
	StageText    Stage = "text"
	StageImage   Stage = "image"
	StageRaster  Stage = "raster"
	StageQrCode  Stage = "qrcode"
	StageJustify Stage = "justify"
)

// BuildError reports which element of a job failed and in which stage.
type BuildError struct {
	Index int
	Stage Stage
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("element %d (%s): %v", e.Index, e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
