package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/pixelator/internal/colour"
	"github.com/jmylchreest/pixelator/internal/store"
)

func newPaletteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "palette",
		Aliases: []string{"palettes"},
		Short:   "Manage saved palettes",
		Long: `List, show, save, delete, import and export palettes.

Builtin palettes are always listed first and cannot be modified. User
palettes are kept in the palette store selected with --store or
PIXELATOR_STORE: a .json file (.json.xz is compressed), a SQLite database
(.db, .sqlite) or :memory:.`,
	}

	cmd.AddCommand(newPaletteListCmd(a))
	cmd.AddCommand(newPaletteShowCmd(a))
	cmd.AddCommand(newPaletteSaveCmd(a))
	cmd.AddCommand(newPaletteDeleteCmd(a))
	cmd.AddCommand(newPaletteImportCmd(a))
	cmd.AddCommand(newPaletteExportCmd(a))
	return cmd
}

// withStore opens the palette store for the duration of fn.
func (a *app) withStore(ctx context.Context, fn func(*store.Catalogue) error) error {
	cat, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer cat.Close()
	return fn(cat)
}

func newPaletteListCmd(a *app) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List builtin and saved palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(cat *store.Catalogue) error {
				palettes, err := cat.List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list palettes: %w", err)
				}

				out := cmd.OutOrStdout()
				showPreview := preview && isTerminal(out)
				headers := []string{"NAME", "COLOURS", "TYPE"}
				if showPreview {
					headers = append(headers, "PREVIEW")
				}

				table := NewTable(headers)
				table.AlignRight(1)
				for i := range palettes {
					p := &palettes[i]
					kind := "user"
					if cat.IsBuiltin(p.Name) {
						kind = "builtin"
					}
					row := []string{p.Name, strconv.Itoa(p.Len()), kind}
					if showPreview {
						row = append(row, p.Swatches(2))
					}
					table.AddRow(row)
				}
				fmt.Fprint(out, table.Render())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "show colour swatches when writing to a terminal")
	return cmd
}

func newPaletteShowCmd(a *app) *cobra.Command {
	var (
		format  string
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print the colours of a palette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(cat *store.Catalogue) error {
				p, err := cat.Get(ctx, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				text, err := formatPalette(&p, format, preview && isTerminal(out))
				if err != nil {
					return err
				}
				fmt.Fprint(out, text)
				return nil
			})
		},
	}

	cmd.Flags().VarP(newChoiceValue(&format, "hex", outputFormats...), "format", "f", "output format (hex, rgb, json)")
	cmd.Flags().BoolVar(&preview, "preview", false, "show colour previews when writing to a terminal")
	return cmd
}

func newPaletteSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <colour>...",
		Short: "Save a palette from hex colours",
		Long: `Save a palette from hex colours, given as separate arguments or comma
separated. An existing user palette of the same name is replaced in place.

Examples:
  pixelator palette save dusk "#1a1c2c" "#5d275d" "#b13e53"
  pixelator palette save dusk 1a1c2c,5d275d,b13e53`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			colors, err := parseColours(args[1:])
			if err != nil {
				return fmt.Errorf("invalid colours: %w", err)
			}

			ctx := cmd.Context()
			return a.withStore(ctx, func(cat *store.Catalogue) error {
				if err := cat.Put(ctx, colour.Palette{Name: args[0], Colors: colors}); err != nil {
					return fmt.Errorf("failed to save palette: %w", err)
				}
				a.logger.Info("saved palette", "name", args[0], "colours", len(colors))
				return nil
			})
		},
	}
}

func newPaletteDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>...",
		Aliases: []string{"rm"},
		Short:   "Delete saved palettes",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(cat *store.Catalogue) error {
				var errs []error
				for _, name := range args {
					if err := cat.Delete(ctx, name); err != nil {
						errs = append(errs, err)
						continue
					}
					a.logger.Info("deleted palette", "name", name)
				}
				return errors.Join(errs...)
			})
		},
	}
}

func newPaletteImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import palettes from a JSON file",
		Long: `Import palettes from a JSON file, or "-" for standard input.

Accepted layouts: a file written by "palette export", a {"name": ["#hex", ...]}
map, or the output of "extract --format json" (a single palette or a list).
Unnamed palettes are named after the file. Builtin names are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			source := args[0]
			if source != "-" {
				f, err := os.Open(source) // #nosec G304 - User-specified import file
				if err != nil {
					return fmt.Errorf("failed to open import file: %w", err)
				}
				defer f.Close()
				r = f
			}

			palettes, err := store.DecodePalettes(r)
			if err != nil {
				return fmt.Errorf("failed to import palettes: %w", err)
			}

			ctx := cmd.Context()
			return a.withStore(ctx, func(cat *store.Catalogue) error {
				now := time.Now()
				imported := 0
				for i, p := range palettes {
					if p.Name == "" {
						p.Name = store.AutoName(source, now)
						if len(palettes) > 1 {
							p.Name += "-" + strconv.Itoa(i+1)
						}
					}
					if err := cat.Put(ctx, p); err != nil {
						if errors.Is(err, store.ErrReadOnly) {
							a.logger.Warn("skipping builtin palette", "name", p.Name)
							continue
						}
						return fmt.Errorf("failed to import palette %q: %w", p.Name, err)
					}
					imported++
				}
				a.logger.Info("imported palettes", "count", imported, "source", source)
				return nil
			})
		},
	}
}

func newPaletteExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [name]...",
		Short: "Export palettes as JSON",
		Long: `Export palettes in the store's JSON layout. Without names every user palette
is exported; named palettes may include builtins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(cat *store.Catalogue) error {
				var palettes []colour.Palette
				if len(args) == 0 {
					all, err := cat.User().List(ctx)
					if err != nil {
						return fmt.Errorf("failed to list palettes: %w", err)
					}
					palettes = all
				}
				for _, name := range args {
					p, err := cat.Get(ctx, name)
					if err != nil {
						return err
					}
					palettes = append(palettes, p)
				}

				if output == "" {
					return store.EncodePalettes(cmd.OutOrStdout(), palettes)
				}

				f, err := os.Create(output) // #nosec G304 - User-specified export file
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				if err := store.EncodePalettes(f, palettes); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write export file: %w", err)
				}
				a.logger.Info("exported palettes", "count", len(palettes), "path", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
