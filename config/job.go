package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	imgInternal "github.com/AlexStarov/escpos-jobprint/image"
	"github.com/AlexStarov/escpos-jobprint/printer"
	"github.com/AlexStarov/escpos-jobprint/qrcode"
)

// JobFile is the YAML form of a print job:
//
//	elements:
//	  - justify: center
//	  - image: {path: logo.png, width: 384, scale: fit} # no width: image width
//	  - text: "Thank you\n"
//	  - qr: {data: "https://example.com", level: high}
type JobFile struct {
	Elements []ElementSpec `yaml:"elements"`
}

// ElementSpec holds exactly one of its fields.
type ElementSpec struct {
	Text    *string    `yaml:"text,omitempty"`
	Justify string     `yaml:"justify,omitempty"`
	Image   *ImageSpec `yaml:"image,omitempty"`
	QR      *QRSpec    `yaml:"qr,omitempty"`
}

type ImageSpec struct {
	Path  string `yaml:"path"`
	Width *int   `yaml:"width,omitempty"`
	Scale string `yaml:"scale,omitempty"`
}

type QRSpec struct {
	Data  string `yaml:"data"`
	Level string `yaml:"level,omitempty"`
}

// LoadJob reads a job file; image paths are relative to its directory.
func LoadJob(path string, defaultLevel qrcode.Level) (*printer.PrintJob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open job: %w", err)
	}
	defer f.Close()
	return ParseJob(f, filepath.Dir(path), defaultLevel)
}

// ParseJob decodes a YAML job. QR elements without a level use defaultLevel.
func ParseJob(r io.Reader, baseDir string, defaultLevel qrcode.Level) (*printer.PrintJob, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var jf JobFile
	if err := dec.Decode(&jf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode job: %w", err)
	}

	job := printer.NewJob()
	for i, spec := range jf.Elements {
		el, err := spec.element(baseDir, defaultLevel)
		if err != nil {
			return nil, fmt.Errorf("job element %d: %w", i, err)
		}
		job.Add(el)
	}
	return job, nil
}

func (s ElementSpec) element(baseDir string, defaultLevel qrcode.Level) (printer.PrintElement, error) {
	set := 0
	for _, ok := range []bool{s.Text != nil, s.Justify != "", s.Image != nil, s.QR != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return printer.PrintElement{}, fmt.Errorf("want exactly one of text, justify, image, qr; got %d", set)
	}

	switch {
	case s.Text != nil:
		return printer.Text(*s.Text), nil

	case s.Justify != "":
		j, err := printer.ParseJustification(s.Justify)
		if err != nil {
			return printer.PrintElement{}, err
		}
		return printer.SetJustification(j), nil

	case s.Image != nil:
		mode, err := imgInternal.ParseScaleMode(s.Image.Scale)
		if err != nil {
			return printer.PrintElement{}, err
		}
		width := printer.AutoWidth
		if s.Image.Width != nil {
			if width = *s.Image.Width; width <= 0 {
				return printer.PrintElement{}, fmt.Errorf("image width must be positive, got %d", width)
			}
		}
		path := s.Image.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return printer.PrintElement{}, fmt.Errorf("read image: %w", err)
		}
		return printer.Image(data, width, mode), nil
	}

	level := defaultLevel
	if s.QR.Level != "" {
		var err error
		if level, err = qrcode.ParseLevel(s.QR.Level); err != nil {
			return printer.PrintElement{}, err
		}
	}
	return printer.QrCode([]byte(s.QR.Data), level), nil
}
