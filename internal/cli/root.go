// Package cli provides the command-line interface for pixelator.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/pixelator/internal/config"
	"github.com/jmylchreest/pixelator/internal/logging"
	"github.com/jmylchreest/pixelator/internal/store"
	"github.com/jmylchreest/pixelator/internal/version"
)

// app holds state shared by every subcommand of one root command.
type app struct {
	cfg    config.Config
	cfgErr error

	verbose   bool
	quiet     bool
	storePath string

	logger hclog.Logger
}

// NewRootCmd builds the pixelator command tree. Flag defaults come from the
// PIXELATOR_* environment; explicit flags override them.
func NewRootCmd() *cobra.Command {
	a := &app{logger: hclog.NewNullLogger()}
	a.cfg, a.cfgErr = config.Load()
	if a.cfgErr != nil {
		a.cfg = config.Default()
	}

	rootCmd := &cobra.Command{
		Use:   "pixelator",
		Short: "Extract colour palettes from images and recolour images with them",
		Long: `Pixelator extracts representative colour palettes from images and maps
images onto palettes.

Palettes can be extracted with several algorithms (dominant colours, median
cut, k-means in RGB or LAB space, and maximally distinct Delta E picks),
saved to a local palette store, and applied back to images together with
contrast, brightness, hue and saturation adjustments.`,
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfgErr != nil {
				return a.cfgErr
			}
			a.logger = logging.New(logging.Options{
				Verbose: a.verbose,
				Quiet:   a.quiet,
				Output:  cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&a.storePath, "store", a.cfg.Store,
		"palette store (.json, .json.xz, .db, .sqlite or :memory:; default: user config dir)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newApplyCmd(a))
	rootCmd.AddCommand(newPaletteCmd(a))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// openStore opens the configured palette store.
func (a *app) openStore(ctx context.Context) (*store.Catalogue, error) {
	cat, err := store.Open(ctx, a.storePath, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open palette store: %w", err)
	}
	return cat, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
