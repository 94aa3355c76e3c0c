package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alitto/pond"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/pixelator/internal/colour"
	"github.com/jmylchreest/pixelator/internal/image"
	"github.com/jmylchreest/pixelator/internal/seed"
	"github.com/jmylchreest/pixelator/internal/store"
)

type extractOptions struct {
	colours      int
	algorithm    string
	sampleStep   int
	maxDimension int
	format       string
	output       string
	preview      bool
	seedMode     string
	seedValue    int64
	workers      int
	save         string
	saveAuto     bool
}

// extractResult is the outcome for one image, kept in argument order.
type extractResult struct {
	source  string
	palette *colour.Palette
	err     error
	done    bool
}

func newExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <image>...",
		Short: "Extract colour palette from images",
		Long: `Extract a colour palette from one or more images.

Images may be local files, directories (every supported image directly inside
is used) or HTTP(S) URLs. Several images are processed concurrently and their
palettes are printed in the order given.

Before sampling, images are downscaled so that their longest side is at most
--max-dimension pixels. Randomised algorithms are seeded from the image
content by default, so the same image always yields the same palette.

Supported image formats: JPEG, PNG, GIF, WebP

Algorithms:
  dominant     most frequent colours on a 16-level grid
  mediancut    median cut (alias: median)
  kmeans-rgb   k-means in RGB space (alias: kmeans)
  kmeans-lab   k-means in LAB space with Delta E 76 (alias: lab)
  deltae       maximally distinct colours

Examples:
  # Extract 8 colours (default) from an image
  pixelator extract wallpaper.jpg

  # Extract 5 colours with median cut and show swatches
  pixelator extract -c 5 -a median --preview wallpaper.png

  # Extract every image in a directory as JSON
  pixelator extract --format json ~/Pictures/wallpapers

  # Extract and save the palette to the store
  pixelator extract --save sunset photo.jpg

  # Save with an automatic name such as photo+25-03-04-05-06-07
  pixelator extract --save-auto photo.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.colours, "colours", "c", a.cfg.Colours, "number of colours to extract (1-256)")
	flags.StringVarP(&opts.algorithm, "algorithm", "a", a.cfg.Algorithm.String(), "extraction algorithm (dominant, mediancut, kmeans-rgb, kmeans-lab, deltae)")
	flags.IntVar(&opts.sampleStep, "sample-step", a.cfg.SampleStep, "sample every n-th pixel")
	flags.IntVar(&opts.maxDimension, "max-dimension", a.cfg.MaxDimension, "downscale so the longest side is at most this many pixels (0 disables)")
	flags.VarP(newChoiceValue(&opts.format, "hex", outputFormats...), "format", "f", "output format (hex, rgb, json)")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	flags.BoolVar(&opts.preview, "preview", false, "show colour previews when writing to a terminal")
	flags.StringVar(&opts.seedMode, "seed-mode", string(a.cfg.SeedMode), "seed mode (content, filepath, manual, random)")
	flags.Int64Var(&opts.seedValue, "seed", 0, "seed value (implies --seed-mode manual)")
	flags.IntVarP(&opts.workers, "workers", "j", a.cfg.Workers, "number of images processed concurrently")
	flags.StringVar(&opts.save, "save", "", "save the palette to the store under this name")
	flags.BoolVar(&opts.saveAuto, "save-auto", false, "save each palette as <file>+<yy-mm-dd-hh-mm-ss>")
	cmd.MarkFlagsMutuallyExclusive("save", "save-auto")

	return cmd
}

// runExtract executes the extract command.
func (a *app) runExtract(cmd *cobra.Command, args []string, opts *extractOptions) error {
	ctx := cmd.Context()
	logger := a.logger.Named("extract")

	alg, err := colour.ParseAlgorithm(opts.algorithm)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	config := colour.ExtractorConfig{
		Algorithm:  alg,
		ColorCount: opts.colours,
		SampleStep: opts.sampleStep,
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	if opts.workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", opts.workers)
	}

	seedConfig, err := opts.seedConfig(cmd)
	if err != nil {
		return err
	}

	paths, err := image.ExpandPaths(args)
	if err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}
	if opts.save != "" && len(paths) > 1 {
		return fmt.Errorf("--save names a single palette but %d images were given; use --save-auto", len(paths))
	}

	var loaderOpts []image.SmartLoaderOption
	if a.cfg.CacheDir != "" {
		loaderOpts = append(loaderOpts, image.WithCacheDir(a.cfg.CacheDir))
	}
	loader := image.NewSmartLoader(loaderOpts...)

	logger.Debug("extracting", "images", len(paths), "algorithm", alg, "colours", config.ColorCount, "seed_mode", seedConfig.Mode)

	results := extractAll(ctx, logger, paths, opts.workers, func(ctx context.Context, path string) (*colour.Palette, error) {
		return extractOne(ctx, logger, loader, path, config, opts.maxDimension, seedConfig)
	})

	var (
		palettes []*colour.Palette
		errs     []error
	)
	for _, r := range results {
		if r.err != nil {
			logger.Error("extraction failed", "path", r.source, "error", r.err)
			errs = append(errs, fmt.Errorf("%s: %w", r.source, r.err))
			continue
		}
		palettes = append(palettes, r.palette)
	}

	if len(palettes) > 0 {
		if err := a.savePalettes(ctx, palettes, opts); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		showPreview := opts.preview && opts.output == "" && isTerminal(out)
		if opts.preview && !showPreview {
			logger.Debug("preview disabled, output is not a terminal")
		}

		text, err := formatPalettes(palettes, opts.format, showPreview)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		if opts.output != "" {
			if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil { // #nosec G306 - Palette output is not sensitive
				return fmt.Errorf("failed to write output file: %w", err)
			}
			logger.Info("wrote palette", "path", opts.output)
		} else {
			fmt.Fprint(out, text)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to extract %d of %d images: %w", len(errs), len(results), errors.Join(errs...))
	}
	return nil
}

// seedConfig resolves --seed and --seed-mode. An explicit --seed selects manual mode.
func (o *extractOptions) seedConfig(cmd *cobra.Command) (seed.Config, error) {
	if cmd.Flags().Changed("seed") {
		v := o.seedValue
		return seed.Config{Mode: seed.ModeManual, Value: &v}, nil
	}

	mode, err := seed.ParseMode(o.seedMode)
	if err != nil {
		return seed.Config{}, err
	}
	if mode == seed.ModeManual {
		return seed.Config{}, fmt.Errorf("--seed-mode manual requires --seed")
	}
	return seed.Config{Mode: mode}, nil
}

// extractAll runs fn over paths on a bounded worker pool and returns the
// results in the order of paths.
func extractAll(ctx context.Context, logger hclog.Logger, paths []string, workers int, fn func(context.Context, string) (*colour.Palette, error)) []extractResult {
	results := make([]extractResult, len(paths))
	if len(paths) == 0 {
		return results
	}

	workers = min(workers, len(paths))
	panicHandler := func(p interface{}) {
		logger.Error("extraction task panicked", "panic", p)
	}
	pool := pond.New(workers, len(paths), pond.MinWorkers(workers), pond.PanicHandler(panicHandler))

	for i := range paths {
		pool.Submit(func() {
			palette, err := fn(ctx, paths[i])
			results[i] = extractResult{source: paths[i], palette: palette, err: err, done: true}
		})
	}
	pool.StopAndWait()

	for i := range results {
		if !results[i].done {
			results[i] = extractResult{source: paths[i], err: fmt.Errorf("extraction task panicked")}
		}
	}
	return results
}

// extractOne loads, downscales, seeds and extracts a single image.
func extractOne(ctx context.Context, logger hclog.Logger, loader image.Loader, path string, config colour.ExtractorConfig, maxDimension int, seedConfig seed.Config) (*colour.Palette, error) {
	img, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()

	buf := image.ToBuffer(image.Downscale(img, maxDimension))

	rng, err := seed.Rand(seed.Source{Buffer: buf, Path: path}, seedConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to seed extractor: %w", err)
	}

	palette, err := colour.ExtractFromBuffer(buf, config, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}
	palette.Name = displayName(path)

	logger.Debug("extracted palette",
		"path", path,
		"size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"sampled", fmt.Sprintf("%dx%d", buf.Width, buf.Height),
		"colours", palette.Len())
	return palette, nil
}

// displayName is the name an extracted palette is printed under.
func displayName(path string) string {
	if image.IsURL(path) {
		return path
	}
	return filepath.Base(path)
}

// savePalettes stores extracted palettes when --save or --save-auto is set.
// It renames the palettes to their stored names.
func (a *app) savePalettes(ctx context.Context, palettes []*colour.Palette, opts *extractOptions) error {
	if opts.save == "" && !opts.saveAuto {
		return nil
	}

	cat, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer cat.Close()

	now := time.Now()
	for _, p := range palettes {
		name := opts.save
		if opts.saveAuto {
			name = store.AutoName(p.Name, now)
		}
		if err := cat.Put(ctx, colour.Palette{Name: name, Colors: p.Colors}); err != nil {
			return fmt.Errorf("failed to save palette %q: %w", name, err)
		}
		p.Name = name
		a.logger.Info("saved palette", "name", name, "colours", p.Len())
	}
	return nil
}
