// Package cmd lets cobra commands be provided through the di container.
package cmd

import (
	"github.com/spf13/cobra"
)

// Command is implemented by everything the container hands out as a CLI
// command. Each command package declares its own named type of it so the
// container can tell them apart.
type Command interface {
	GetCobraCommand() *cobra.Command
}

type CobraCommand struct {
	Command *cobra.Command
}

func New(c *cobra.Command) *CobraCommand {
	return &CobraCommand{Command: c}
}

func (c *CobraCommand) GetCobraCommand() *cobra.Command {
	return c.Command
}

var (
	_ Command = (*CobraCommand)(nil)
)
