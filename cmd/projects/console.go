package main

import (
	"github.com/spf13/cobra"

	"github.com/myth21/viewcontroller"
)

func newConsoleCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "console key=value...",
		Short: "Dispatch one console request",
		Long: `Dispatch one console request to the console controllers.

Example:
  projects console controller=Migrate action=up
  projects console controller=Project action=add name="Website relaunch"
  projects console controller=Project action=list`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, conn, err := root.open(ctx, root.logger(), viewcontroller.WithOutput(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer conn.Close()

			return app.RunConsole(ctx, args)
		},
	}
}
