package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gophersatwork/asciify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "asciify",
		Short:   "asciify renders images as terminal text",
		Version: version,
	}

	root.AddCommand(
		newConvertCmd(),
		newDetectCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newConvertCmd() *cobra.Command {
	var (
		configPath string
		binary     string
		save       string
		quiet      bool
		verbose    bool
		opts       = asciify.DefaultOptions()
	)

	cmd := &cobra.Command{
		Use:   "convert <path-or-url>",
		Short: "Convert an image to terminal text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := asciify.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if binary != "" {
				cfg.Binary = binary
			}

			log := zerolog.Nop()
			if verbose {
				log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			}

			conv := asciify.New(
				asciify.WithBinary(cfg.Binary),
				asciify.WithEnv(cfg.Env...),
				asciify.WithCacheCapacity(cfg.CacheCapacity),
				asciify.WithDisplay(&asciify.WriterDisplay{W: cmd.OutOrStdout()}),
				asciify.WithLogger(log),
			)

			opts.SaveTo = save
			opts.NoDisplay = quiet

			src := asciify.Path(args[0])
			if strings.HasPrefix(args[0], "http://") || strings.HasPrefix(args[0], "https://") {
				src = asciify.URL(args[0])
			}

			_, err = conv.Convert(cmd.Context(), src, opts)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&binary, "binary", "", "converter binary (overrides config)")
	cmd.Flags().BoolVar(&opts.Color, "color", false, "emit ANSI color")
	cmd.Flags().BoolVar(&opts.Negative, "negative", false, "invert brightness")
	cmd.Flags().BoolVar(&opts.Grayscale, "grayscale", false, "gray glyph ramp")
	cmd.Flags().BoolVar(&opts.Complex, "complex", false, "extended glyph set")
	cmd.Flags().BoolVar(&opts.Braille, "braille", false, "Braille glyphs")
	cmd.Flags().BoolVar(&opts.Dither, "dither", false, "dithering (Braille only)")
	cmd.Flags().IntVar(&opts.Threshold, "threshold", asciify.ThresholdUnset, "Braille luminance cutoff (0-255)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "target columns")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "target rows")
	cmd.Flags().StringVar(&save, "save", "", "persist plain text to this path")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "skip terminal output")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log pipeline details to stderr")

	return cmd
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <path>",
		Short: "Print the sniffed image type of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), asciify.DetectType(data))
			return nil
		},
	}
}
