package main

import (
	"github.com/spf13/cobra"

	"shmpipe/internal/record"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "record SOURCE",
		Short: "Persist a position stream to SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := record.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sigCtx, cancel := signalContext()
			defer cancel()
			n, err := record.NewNode(sigCtx, store, args[0])
			if err != nil {
				return err
			}
			defer closeNode(n)

			ctx.logger.Info("recording",
				"channel", args[0], "db", dbPath, "session", n.Session())
			return ctx.runNode("record", n)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "shmpipe.db", "SQLite database path")
	return cmd
}
