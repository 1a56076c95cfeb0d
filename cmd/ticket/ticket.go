package ticket

import (
	"fmt"
	"time"

	"github.com/goava/di"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gitlab.com/olaris/olaris-variants/auth"
	"gitlab.com/olaris/olaris-variants/cmd/root"
	"gitlab.com/olaris/olaris-variants/pkg/cmd"
)

type TicketCommand cmd.Command

func RegisterTicketCommand(rootCommand root.RootCommand, ticketCommand TicketCommand) {
	rootCommand.GetCobraCommand().AddCommand(ticketCommand.GetCobraCommand())
}

func New() di.Option {
	return di.Options(
		di.Provide(NewTicketCommand, di.As(new(TicketCommand))),
		di.Invoke(RegisterTicketCommand),
	)
}

func NewTicketCommand() *cmd.CobraCommand {
	var validFor time.Duration

	c := &cobra.Command{
		Use:   "ticket <asset uuid>",
		Short: "Generate a stream ticket for an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := auth.TokenSecret(viper.GetString("server.ticketSecret"))
			if err != nil {
				return errors.Wrap(err, "failed to load ticket secret")
			}
			token, expiresAt, err := auth.NewTickets(secret, validFor).CreateStreamingJWT(args[0])
			if err != nil {
				return errors.Wrap(err, "failed to create stream ticket")
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintln(cmd.ErrOrStderr(), "expires at", expiresAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	c.Flags().DurationVar(&validFor, "valid-for", auth.DefaultTicketLifetime, "how long the ticket stays valid")

	return cmd.New(c)
}
