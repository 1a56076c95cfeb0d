package main

import (
	"os"

	"github.com/goava/di"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"gitlab.com/olaris/olaris-variants/cmd"
	"gitlab.com/olaris/olaris-variants/cmd/root"
	"gitlab.com/olaris/olaris-variants/utils"
)

func main() {
	// hack to get rid of the unwanted extra pflags from rclone/fs/log
	pflag.CommandLine = pflag.NewFlagSet("olaris-variants", pflag.ExitOnError)

	container, err := di.New(cmd.New())
	if err != nil {
		log.Fatal(err)
	}

	var rootCommand root.RootCommand
	utils.MustResolve(container, &rootCommand)

	if err := rootCommand.GetCobraCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
