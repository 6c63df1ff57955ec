// Command escprint builds ESC/POS command streams from print jobs and sends
// them to a thermal printer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlexStarov/escpos-jobprint/config"
	imgInternal "github.com/AlexStarov/escpos-jobprint/image"
	logInternal "github.com/AlexStarov/escpos-jobprint/log"
	"github.com/AlexStarov/escpos-jobprint/printer"
	"github.com/AlexStarov/escpos-jobprint/qrcode"
)

var rootCmd = &cobra.Command{
	Use:   "escprint",
	Short: "Print text, images and QR codes on ESC/POS printers",
	Long: `escprint turns a print job (text runs, images and QR codes) into an ESC/POS
command stream and writes it to a printer share, device node, socket, LPD
queue, USB or serial printer.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Build a job and send it to the printer",
	RunE:  runPrint,
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Build a job and write the command stream to a file",
	RunE:  runEncode,
}

var qrCmd = &cobra.Command{
	Use:   "qr <payload>",
	Short: "Show the QR symbol chosen for a payload",
	Args:  cobra.ExactArgs(1),
	RunE:  runQR,
}

var (
	configPath string
	debug      bool

	jobPath    string
	device     string
	input      string
	imageWidth int
	text       string
	qrPayload  string
	output     string
	qrLevel    string

	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	for _, cmd := range []*cobra.Command{printCmd, encodeCmd} {
		cmd.Flags().StringVarP(&jobPath, "job", "j", "", "YAML job file")
		cmd.Flags().StringVarP(&input, "input", "i", "", "image to print")
		cmd.Flags().IntVarP(&imageWidth, "image-width", "w", 0, "image width in dots (0: the image's own width)")
		cmd.Flags().StringVarP(&text, "text", "t", "", "text to print")
		cmd.Flags().StringVar(&qrPayload, "qr-code", "", "QR code payload")
	}
	printCmd.Flags().StringVar(&device, "device", "", `printer device, e.g. \\HOST\Printer, tcp://host:9100, lpd://host/queue`)
	encodeCmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	qrCmd.Flags().StringVarP(&qrLevel, "level", "l", "", "error correction level L, M, Q or H")

	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(qrCmd)
}

func main() {
	err := rootCmd.Execute()
	logInternal.PrintIfErr("escprint", &err)
	if err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(configPath); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return logInternal.Setup(cfg.Log.Dir, debug || cfg.Log.Debug)
}

// buildJob reads --job, or assembles a centered image, text, QR code job
// from the individual flags.
func buildJob() (*printer.PrintJob, error) {
	level, err := cfg.QRLevel()
	if err != nil {
		return nil, err
	}
	if jobPath != "" {
		return config.LoadJob(jobPath, level)
	}

	job := printer.NewJob(printer.SetJustification(printer.Center))
	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		width := imageWidth
		if width == 0 {
			width = printer.AutoWidth
		}
		job.Add(printer.Image(data, width, imgInternal.FitWidth))
	}
	if text != "" {
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		job.Add(printer.Text(text))
	}
	if qrPayload != "" {
		job.Add(printer.QrCode([]byte(qrPayload), level))
	}
	if len(job.Elements) == 1 {
		return nil, fmt.Errorf("nothing to print: give --job or at least one of --input, --text, --qr-code")
	}
	return job, nil
}

func encode() (*printer.CommandBuffer, error) {
	job, err := buildJob()
	if err != nil {
		return nil, err
	}
	b, err := cfg.Builder()
	if err != nil {
		return nil, err
	}
	buf, err := b.Build(job)
	if err != nil {
		return nil, err
	}
	logInternal.Debugf("built %d elements into %d bytes", len(job.Elements), buf.Len())
	return buf, nil
}

func runPrint(cmd *cobra.Command, args []string) error {
	target := cfg.Device
	if device != "" {
		target = device
	}
	if target == "" {
		return fmt.Errorf("no printer device: set --device, device in the config or %s_DEVICE", config.EnvPrefix)
	}

	buf, err := encode()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := printer.Submit(ctx, target, buf); err != nil {
		return err
	}
	logInternal.Infof("sent %d bytes to %s", buf.Len(), target)
	return nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	if output == "-" {
		// stdout carries the command stream
		logInternal.SetOutput(os.Stderr, os.Stderr)
	}
	buf, err := encode()
	if err != nil {
		return err
	}
	if output == "-" {
		_, err = buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	return os.WriteFile(output, buf.Bytes(), 0o644)
}

func runQR(cmd *cobra.Command, args []string) error {
	level, err := cfg.QRLevel()
	if err != nil {
		return err
	}
	if qrLevel != "" {
		if level, err = qrcode.ParseLevel(qrLevel); err != nil {
			return err
		}
	}
	m, err := qrcode.Encode([]byte(args[0]), level)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d-%s, %dx%d modules, mask %d\n\n%s", m.Version, m.Level, m.Size, m.Size, m.Mask, m.String())
	return nil
}
