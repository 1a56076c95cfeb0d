package version

import (
	"fmt"

	"github.com/goava/di"
	"github.com/spf13/cobra"

	"gitlab.com/olaris/olaris-variants/cmd/root"
	"gitlab.com/olaris/olaris-variants/helpers"
	"gitlab.com/olaris/olaris-variants/pkg/cmd"
)

type VersionCommand cmd.Command

func RegisterVersionCommand(rootCommand root.RootCommand, versionCommand VersionCommand) {
	rootCommand.GetCobraCommand().AddCommand(versionCommand.GetCobraCommand())
}

func New() di.Option {
	return di.Options(
		di.Provide(NewVersionCommand, di.As(new(VersionCommand))),
		di.Invoke(RegisterVersionCommand),
	)
}

func NewVersionCommand() *cmd.CobraCommand {
	c := &cobra.Command{
		Use:              "version",
		Short:            "Displays the current olaris-variants version",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), helpers.Version)
		},
	}

	return cmd.New(c)
}
