package cmd

import (
	"github.com/goava/di"

	"gitlab.com/olaris/olaris-variants/cmd/asset"
	"gitlab.com/olaris/olaris-variants/cmd/dumpdebug"
	"gitlab.com/olaris/olaris-variants/cmd/preferences"
	"gitlab.com/olaris/olaris-variants/cmd/root"
	"gitlab.com/olaris/olaris-variants/cmd/serve"
	"gitlab.com/olaris/olaris-variants/cmd/ticket"
	"gitlab.com/olaris/olaris-variants/cmd/version"
)

func New() di.Option {
	return di.Options(
		root.New(),
		serve.New(),
		asset.New(),
		preferences.New(),
		ticket.New(),
		version.New(),
		dumpdebug.New(),
	)
}
