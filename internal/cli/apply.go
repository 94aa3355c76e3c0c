package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/pixelator/internal/colour"
	"github.com/jmylchreest/pixelator/internal/effects"
	"github.com/jmylchreest/pixelator/internal/image"
)

type applyOptions struct {
	palette      string
	colours      []string
	blend        float64
	contrast     float64
	brightness   int
	hue          float64
	saturation   float64
	removeColour string
	metric       string
	output       string
}

func newApplyCmd(a *app) *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <image>",
		Short: "Recolour an image with a palette",
		Long: `Map every pixel of an image onto its nearest palette colour and write the
result as PNG.

Adjustments run before mapping, in this order: contrast, brightness, colour
removal, then hue and saturation. --blend mixes the mapped colour with the
adjusted original (1 is the palette colour, 0 the original). Without a palette
only the adjustments are applied. Transparency is preserved.

Examples:
  # Recolour with a stored or builtin palette
  pixelator apply photo.jpg --palette "Sweetie 16" -o photo-sweetie.png

  # Recolour with explicit colours, half blended
  pixelator apply photo.jpg --colours "#1a1c2c,#5d275d,#f4f4f4" --blend 0.5 -o out.png

  # Boost contrast, rotate hue and make white transparent
  pixelator apply logo.png --contrast 40 --hue 90 --remove-colour "#ffffff" -o logo-out.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runApply(cmd, args[0], opts)
		},
	}

	defaults := effects.Defaults()
	flags := cmd.Flags()
	flags.StringVarP(&opts.palette, "palette", "p", "", "name of a stored or builtin palette")
	flags.StringSliceVar(&opts.colours, "colours", nil, "palette colours as hex values")
	flags.Float64Var(&opts.blend, "blend", defaults.Blend, "blend factor between original (0) and palette colour (1)")
	flags.Float64Var(&opts.contrast, "contrast", 0, "contrast adjustment (-255 to 255)")
	flags.IntVar(&opts.brightness, "brightness", 0, "brightness adjustment (-255 to 255)")
	flags.Float64Var(&opts.hue, "hue", 0, "hue rotation in degrees")
	flags.Float64Var(&opts.saturation, "saturation", defaults.SaturationPercent, "saturation in percent (100 is unchanged)")
	flags.StringVar(&opts.removeColour, "remove-colour", "", "make pixels of this exact hex colour transparent")
	flags.Var(newChoiceValue(&opts.metric, "rgb", "rgb", "lab"), "metric", "colour distance used for mapping (rgb, lab)")
	flags.StringVarP(&opts.output, "output", "o", "", "output PNG file")
	cmd.MarkFlagsMutuallyExclusive("palette", "colours")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// runApply executes the apply command.
func (a *app) runApply(cmd *cobra.Command, path string, opts *applyOptions) error {
	ctx := cmd.Context()
	logger := a.logger.Named("apply")

	adj := effects.Defaults()
	adj.Contrast = opts.contrast
	adj.Brightness = opts.brightness
	adj.HueDegrees = opts.hue
	adj.SaturationPercent = opts.saturation
	adj.Blend = opts.blend

	metric, err := parseMetric(opts.metric)
	if err != nil {
		return err
	}
	adj.Metric = metric

	if opts.removeColour != "" {
		c, err := colour.ParseHex(opts.removeColour)
		if err != nil {
			return fmt.Errorf("invalid --remove-colour: %w", err)
		}
		adj.RemoveColour = &c
	}

	switch {
	case len(opts.colours) > 0:
		adj.Palette, err = parseColours(opts.colours)
		if err != nil {
			return fmt.Errorf("invalid --colours: %w", err)
		}
	case opts.palette != "":
		cat, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		p, err := cat.Get(ctx, opts.palette)
		cat.Close()
		if err != nil {
			return fmt.Errorf("failed to load palette: %w", err)
		}
		adj.Palette = p.Colors
	}

	if err := adj.Validate(); err != nil {
		return fmt.Errorf("invalid adjustments: %w", err)
	}

	if err := image.ValidateImagePath(path); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	var loaderOpts []image.SmartLoaderOption
	if a.cfg.CacheDir != "" {
		loaderOpts = append(loaderOpts, image.WithCacheDir(a.cfg.CacheDir))
	}
	img, err := image.NewSmartLoader(loaderOpts...).Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	buf := image.ToBuffer(img)
	logger.Debug("applying adjustments", "path", path, "width", buf.Width, "height", buf.Height, "palette_colours", len(adj.Palette))

	if err := adj.Apply(buf); err != nil {
		return fmt.Errorf("failed to apply adjustments: %w", err)
	}

	if err := image.SavePNG(opts.output, image.FromBuffer(buf)); err != nil {
		return err
	}
	logger.Info("wrote image", "path", opts.output)
	return nil
}

func parseMetric(s string) (colour.Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb", "":
		return colour.MetricRGB, nil
	case "lab", "deltae":
		return colour.MetricLAB, nil
	default:
		return 0, fmt.Errorf("unknown metric: %s (valid: rgb, lab)", s)
	}
}
