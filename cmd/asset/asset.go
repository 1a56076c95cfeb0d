package asset

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goava/di"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gitlab.com/olaris/olaris-variants/app"
	"gitlab.com/olaris/olaris-variants/catalog"
	"gitlab.com/olaris/olaris-variants/cmd/root"
	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/pkg/cmd"
	"gitlab.com/olaris/olaris-variants/resolver"
	"gitlab.com/olaris/olaris-variants/scanner"
)

type AssetCommand cmd.Command

func RegisterAssetCommand(rootCommand root.RootCommand, assetCommand AssetCommand) {
	c := assetCommand.GetCobraCommand()
	c.AddCommand(newListCommand(), newImportCommand(), newPreferCommand())
	rootCommand.GetCobraCommand().AddCommand(c)
}

func New() di.Option {
	return di.Options(
		di.Provide(NewAssetCommand, di.As(new(AssetCommand))),
		di.Invoke(RegisterAssetCommand),
	)
}

func NewAssetCommand() *cmd.CobraCommand {
	c := &cobra.Command{
		Use:   "asset",
		Short: "Manage media assets and their variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("Subcommand required")
		},
	}

	return cmd.New(c)
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List assets with their variants and the variant that would be served",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.NewDefaultAppContext()
			if err != nil {
				return err
			}
			defer env.Cleanup()

			assets, err := catalog.AllAssets()
			if err != nil {
				return err
			}

			prefs := env.Preferences.Snapshot()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UUID\tNAME\tKIND\tVARIANTS\tPREFERRED\tCURRENT")
			for _, a := range assets {
				set := a.VariantSet()
				current := "-"
				if id, err := resolveForListing(&a, prefs, env); err == nil {
					current = string(id)
				}
				preferred := string(a.Preferred())
				if preferred == "" {
					preferred = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", a.UUID, a.Name, a.Kind, joinIDs(set.IDs()), preferred, current)
			}
			return w.Flush()
		},
	}
}

func newImportCommand() *cobra.Command {
	var path string
	var workers int

	c := &cobra.Command{
		Use:   "import",
		Short: "Import variant files from a library directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = viper.GetString("library.path")
			}
			if path == "" {
				return errors.New("no library path given, use --path or library.path")
			}

			env, err := app.NewDefaultAppContext()
			if err != nil {
				return err
			}
			defer env.Cleanup()

			importer := scanner.NewImporter(path, workers)
			defer importer.Shutdown()

			res, err := importer.Import()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d assets, %d variants, %d skipped\n", res.Assets, res.Variants, res.Skipped)
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", "", "library directory, defaults to library.path")
	c.Flags().IntVar(&workers, "workers", 4, "number of concurrent file probes")

	return c
}

func newPreferCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prefer <asset uuid> [codec]",
		Short: "Set the preferred codec of an asset, or clear it when no codec is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.NewDefaultAppContext()
			if err != nil {
				return err
			}
			defer env.Cleanup()

			var asset *catalog.MediaAsset
			if len(args) == 1 {
				asset, err = catalog.ClearPreferredCodec(args[0])
			} else {
				asset, err = catalog.SetPreferredCodec(args[0], codec.Parse(args[1]))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s preferred codec: %s\n", asset.Name, orDash(string(asset.Preferred())))
			return nil
		},
	}
}

// resolveForListing resolves like a headless client would.
func resolveForListing(a *catalog.MediaAsset, prefs []codec.ID, env *app.AppContext) (codec.ID, error) {
	set := a.VariantSet()
	override := a.Preferred()
	if !set.Has(override) {
		override = ""
	}
	return resolver.Resolve(set, override, prefs, env.Headless)
}

func joinIDs(ids []codec.ID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}
	return strings.Join(s, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
