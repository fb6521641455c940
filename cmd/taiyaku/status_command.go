package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and store status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			client, err := ctx.dialClient()
			if err != nil {
				if ctx.flags.json {
					return writeJSON(cmd, map[string]any{"running": false, "error": err.Error()})
				}
				fmt.Fprintln(out, "Daemon: not running")
				fmt.Fprintf(out, "Detail: %v\n", err)
				return nil
			}
			defer client.Close()

			status, err := client.Status()
			if err != nil {
				return err
			}
			if ctx.flags.json {
				return writeJSON(cmd, status)
			}
			rows := [][]string{
				{"Daemon", fmt.Sprintf("running (pid %d)", status.PID)},
				{"Driver", status.Driver},
				{"Target", status.Target},
				{"Generation", status.Generation},
				{"Scripts", fmt.Sprintf("%d", status.Count)},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}
