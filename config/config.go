// Package config loads printer settings and job descriptions.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	imgInternal "github.com/AlexStarov/escpos-jobprint/image"
	"github.com/AlexStarov/escpos-jobprint/printer"
	"github.com/AlexStarov/escpos-jobprint/qrcode"
)

// EnvPrefix prefixes environment overrides, e.g. ESCPRINT_DEVICE or ESCPRINT_QR_NATIVE.
const EnvPrefix = "ESCPRINT"

type Config struct {
	Device                string    `mapstructure:"device"`
	MaxDots               int       `mapstructure:"max_dots"`
	CodePage              string    `mapstructure:"code_page"`
	Resampling            string    `mapstructure:"resampling"`
	Raster                string    `mapstructure:"raster"`
	BandHeight            int       `mapstructure:"band_height"`
	FeedLines             int       `mapstructure:"feed_lines"`
	Cut                   string    `mapstructure:"cut"`
	Initialize            bool      `mapstructure:"initialize"`
	ExplicitJustification bool      `mapstructure:"explicit_justification"`
	QR                    QRConfig  `mapstructure:"qr"`
	Log                   LogConfig `mapstructure:"log"`
}

type QRConfig struct {
	Native       bool   `mapstructure:"native"`
	Level        string `mapstructure:"level"`
	ModuleSize   int    `mapstructure:"module_size"`
	ModulePixels int    `mapstructure:"module_pixels"`
	QuietZone    int    `mapstructure:"quiet_zone"`
}

type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Debug bool   `mapstructure:"debug"`
}

// New returns a viper instance with every default and the environment bound.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("device", "")
	v.SetDefault("max_dots", 512)
	v.SetDefault("code_page", printer.DefaultCodePage)
	v.SetDefault("resampling", imgInternal.Bilinear.String())
	v.SetDefault("raster", printer.BitImage.String())
	v.SetDefault("band_height", 0)
	v.SetDefault("feed_lines", 3)
	v.SetDefault("cut", printer.CutFull.String())
	v.SetDefault("initialize", false)
	v.SetDefault("explicit_justification", false)
	v.SetDefault("qr.native", false)
	v.SetDefault("qr.level", "medium")
	v.SetDefault("qr.module_size", 6)
	v.SetDefault("qr.module_pixels", 4)
	v.SetDefault("qr.quiet_zone", qrcode.DefaultQuietZone)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.debug", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (YAML, TOML or JSON by extension) over the defaults.
// An empty path looks for escprint.* in the working directory and is not an
// error when nothing is found.
func Load(path string) (*Config, error) {
	return LoadWith(New(), path)
}

func LoadWith(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("escprint")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every enumerated and numeric setting.
func (c *Config) Validate() error {
	_, err := c.Options()
	return err
}

// Options maps the settings onto builder options.
func (c *Config) Options() (printer.Options, error) {
	opts := printer.Options{
		MaxDots:               c.MaxDots,
		CodePage:              c.CodePage,
		BandHeight:            c.BandHeight,
		NativeQR:              c.QR.Native,
		QRModuleSize:          c.QR.ModuleSize,
		QRModulePixels:        c.QR.ModulePixels,
		QRQuietZone:           c.QR.QuietZone,
		FeedLines:             c.FeedLines,
		Initialize:            c.Initialize,
		ExplicitJustification: c.ExplicitJustification,
	}

	var err error
	if opts.Resampling, err = imgInternal.ParseResampling(c.Resampling); err != nil {
		return opts, fmt.Errorf("config resampling: %w", err)
	}
	if opts.Raster, err = printer.ParseRasterCommand(c.Raster); err != nil {
		return opts, fmt.Errorf("config raster: %w", err)
	}
	if opts.Cut, err = printer.ParseCutMode(c.Cut); err != nil {
		return opts, fmt.Errorf("config cut: %w", err)
	}
	if _, err = c.QRLevel(); err != nil {
		return opts, fmt.Errorf("config qr.level: %w", err)
	}
	if c.QR.QuietZone < 0 {
		return opts, fmt.Errorf("config qr.quiet_zone: must not be negative, got %d", c.QR.QuietZone)
	}
	if c.QR.ModuleSize < qrcode.MinModuleSize || c.QR.ModuleSize > qrcode.MaxModuleSize {
		return opts, fmt.Errorf("config qr.module_size: %w: %d", qrcode.ErrModuleSize, c.QR.ModuleSize)
	}
	if c.QR.ModulePixels < 1 {
		return opts, fmt.Errorf("config qr.module_pixels: must be at least 1, got %d", c.QR.ModulePixels)
	}
	if _, err = printer.NewBuilder(opts); err != nil {
		return opts, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}

// QRLevel is the error correction level QR elements default to.
func (c *Config) QRLevel() (qrcode.Level, error) {
	return qrcode.ParseLevel(c.QR.Level)
}

// Builder returns a command stream builder for these settings.
func (c *Config) Builder() (*printer.Builder, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return printer.NewBuilder(opts)
}
