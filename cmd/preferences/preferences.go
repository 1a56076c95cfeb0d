package preferences

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goava/di"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gitlab.com/olaris/olaris-variants/app"
	"gitlab.com/olaris/olaris-variants/cmd/root"
	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/pkg/cmd"
)

type PreferencesCommand cmd.Command

func RegisterPreferencesCommand(rootCommand root.RootCommand, preferencesCommand PreferencesCommand) {
	c := preferencesCommand.GetCobraCommand()
	c.AddCommand(newShowCommand(), newMoveCommand())
	rootCommand.GetCobraCommand().AddCommand(c)
}

func New() di.Option {
	return di.Options(
		di.Provide(NewPreferencesCommand, di.As(new(PreferencesCommand))),
		di.Invoke(RegisterPreferencesCommand),
	)
}

func NewPreferencesCommand() *cmd.CobraCommand {
	c := &cobra.Command{
		Use:   "preferences",
		Short: "Show or reorder the global codec preference list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("Subcommand required")
		},
	}

	return cmd.New(c)
}

func printOrder(w io.Writer, order []codec.ID) {
	for i, id := range order {
		fmt.Fprintf(w, "%2d  %s\n", i, id)
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the preference order, most preferred first",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.NewDefaultAppContext()
			if err != nil {
				return err
			}
			defer env.Cleanup()

			printOrder(cmd.OutOrStdout(), env.Preferences.Snapshot())
			return nil
		},
	}
}

func newMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <codec> <index>",
		Short: "Move a codec to a new position in the preference order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrapf(err, "invalid index %q", args[1])
			}

			env, err := app.NewDefaultAppContext()
			if err != nil {
				return err
			}
			defer env.Cleanup()

			order, err := env.Preferences.Move(codec.Parse(args[0]), index)
			if err != nil {
				return err
			}
			printOrder(cmd.OutOrStdout(), order)
			return nil
		},
	}
}
