package root

import (
	"github.com/goava/di"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gitlab.com/olaris/olaris-variants/helpers"
	"gitlab.com/olaris/olaris-variants/pkg/cmd"
	"gitlab.com/olaris/olaris-variants/pkg/config"
)

type RootCommand cmd.Command

func New() di.Option {
	return di.Options(
		di.Provide(NewRootCommand, di.As(new(RootCommand))),
	)
}

// NewRootCommand builds the root command. Every subcommand gets the config
// loaded and the loggers set up before it runs.
func NewRootCommand() *cmd.CobraCommand {
	c := &cobra.Command{
		Use:   "olaris-variants",
		Short: "Serve media assets in the best codec variant a client can play",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitViper()

			level := log.InfoLevel
			if viper.GetBool("server.verbose") {
				level = log.DebugLevel
			}
			helpers.InitLoggers(level)
		},
		SilenceUsage: true,
	}

	c.PersistentFlags().StringVar(&config.ConfigDir, "config-dir", config.GetDefaultConfigDir(), "directory holding olaris-variants.yaml, the catalog and logs")

	return cmd.New(c)
}
