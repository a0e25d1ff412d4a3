// Package main is the distil CLI.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/distilgo"
	"github.com/hupe1980/distilgo/codec"
	"github.com/hupe1980/distilgo/palette"
	"github.com/hupe1980/distilgo/quantization"
	"github.com/hupe1980/distilgo/swatch"
)

const (
	// Flags.
	flagColors       = "colors"
	flagCycles       = "cycles"
	flagThreshold    = "threshold"
	flagSeed         = "seed"
	flagQuantizer    = "quantizer"
	flagWorkers      = "workers"
	flagMaxPixels    = "max-pixels"
	flagJSON         = "json"
	flagSwatch       = "swatch"
	flagCellSize     = "cell-size"
	flagProportional = "proportional"
	flagVerbose      = "verbose"

	quantizerNeuQuant = "neuquant"
	quantizerKMeans   = "kmeans"
)

func main() {
	app := &cli.App{
		Name:      "distil",
		Usage:     "extract perceptual color palettes from images",
		ArgsUsage: "<image> [<image>...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  flagColors,
				Value: distilgo.DefaultColors,
				Usage: "number of quantizer colors",
			},
			&cli.IntFlag{
				Name:  flagCycles,
				Value: quantization.DefaultNeuQuantOptions().Cycles,
				Usage: "training cycles over the pixel sample",
			},
			&cli.Float64Flag{
				Name:  flagThreshold,
				Value: distilgo.DefaultThreshold,
				Usage: "perceptual distance below which colors merge",
			},
			&cli.Int64Flag{
				Name:  flagSeed,
				Usage: "seed for random network initialization",
			},
			&cli.StringFlag{
				Name:  flagQuantizer,
				Value: quantizerNeuQuant,
				Usage: "quantizer to use: neuquant or kmeans",
			},
			&cli.IntFlag{
				Name:  flagWorkers,
				Usage: "concurrent workers (0 = number of CPUs)",
			},
			&cli.IntFlag{
				Name:  flagMaxPixels,
				Value: distilgo.DefaultMaxPixels,
				Usage: "pixel budget before downsampling",
			},
			&cli.BoolFlag{
				Name:  flagJSON,
				Usage: "print palettes as JSON",
			},
			&cli.StringFlag{
				Name:  flagSwatch,
				Usage: "write a palette strip PNG to `FILE` (single image only)",
			},
			&cli.IntFlag{
				Name:  flagCellSize,
				Value: 80,
				Usage: "swatch cell size in pixels",
			},
			&cli.BoolFlag{
				Name:  flagProportional,
				Usage: "size swatch cells by weight share",
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "at least one image path required")
		cli.ShowAppHelpAndExit(c, 1)

		return nil
	}

	if c.String(flagSwatch) != "" && len(paths) != 1 {
		return fmt.Errorf("--%s works with exactly one input image, got %d", flagSwatch, len(paths))
	}

	d, err := buildDistiller(c)
	if err != nil {
		return err
	}

	results := d.FromFiles(c.Context, paths)

	if c.Bool(flagJSON) {
		if err := printJSON(c, results); err != nil {
			return err
		}
	} else {
		printText(c, results)
	}

	if out := c.String(flagSwatch); out != "" && results[0].Err == nil {
		err := swatch.SavePNG(out, results[0].Palette, func(o *swatch.Options) {
			o.CellSize = c.Int(flagCellSize)
			o.Proportional = c.Bool(flagProportional)
		})
		if err != nil {
			return err
		}
	}

	var failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(paths))
	}

	return nil
}

func buildDistiller(c *cli.Context) (*distilgo.Distiller, error) {
	var logger *distilgo.Logger
	if c.Bool(flagVerbose) {
		logger = distilgo.NewTextLogger(slog.LevelDebug)
	}

	switch c.String(flagQuantizer) {
	case quantizerNeuQuant:
		b := distilgo.NeuQuant().
			Colors(c.Int(flagColors)).
			Cycles(c.Int(flagCycles)).
			Threshold(c.Float64(flagThreshold)).
			Workers(c.Int(flagWorkers)).
			MaxPixels(c.Int(flagMaxPixels))

		if c.IsSet(flagSeed) {
			b = b.RandomInit(c.Int64(flagSeed))
		}

		if logger != nil {
			b = b.Logger(logger)
		}

		return b.Build()
	case quantizerKMeans:
		b := distilgo.KMeans().
			Colors(c.Int(flagColors)).
			Threshold(c.Float64(flagThreshold)).
			Workers(c.Int(flagWorkers)).
			MaxPixels(c.Int(flagMaxPixels))

		if logger != nil {
			b = b.Logger(logger)
		}

		return b.Build()
	default:
		return nil, fmt.Errorf("unknown quantizer %q (use %s or %s)", c.String(flagQuantizer), quantizerNeuQuant, quantizerKMeans)
	}
}

func printText(c *cli.Context, results []distilgo.FileResult) {
	multi := len(results) > 1

	for i, r := range results {
		if multi {
			if i > 0 {
				fmt.Fprintln(c.App.Writer)
			}

			fmt.Fprintf(c.App.Writer, "%s:\n", r.Path)
		}

		if r.Err != nil {
			fmt.Fprintf(c.App.ErrWriter, "%v\n", r.Err)

			continue
		}

		for _, e := range r.Palette {
			fmt.Fprintf(c.App.Writer, "%s %d\n", e.Color.Hex(), e.Weight)
		}
	}
}

func printJSON(c *cli.Context, results []distilgo.FileResult) error {
	type fileOutput struct {
		Path    string          `json:"path"`
		Palette palette.Palette `json:"palette,omitempty"`
		Error   string          `json:"error,omitempty"`
	}

	out := make([]fileOutput, len(results))

	for i, r := range results {
		out[i] = fileOutput{Path: r.Path, Palette: r.Palette}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}

	data, err := codec.Default.Marshal(out)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, string(data))

	return nil
}
