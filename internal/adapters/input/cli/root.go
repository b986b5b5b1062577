// Package cli is the command line front end. It only formats what the
// porter returns.
package cli

import (
	"iot-scenario-porter/internal/logger"
	"iot-scenario-porter/internal/ports"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree around porter.
func NewRootCmd(porter ports.PorterPort) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "porter",
		Short:         "Export, inspect and import smart-home scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.FromContext(cmd.Context()).Debug("command started", "cmd", cmd.CommandPath(), "args", args)
		},
	}

	cmd.AddCommand(
		FetchCmd(porter),
		ExportCmd(porter),
		ImportCmd(porter),
		DescribeCmd(porter),
		GroupCmd(porter),
		DeleteCmd(porter),
		ActivateCmd(porter),
		ToggleCmd(porter),
		ConfigCmd(porter),
	)
	return cmd
}
