package main

import (
	"github.com/spf13/cobra"

	"shmpipe/internal/decorate"
)

func newDecorateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decorate FRAMESOURCE POSITIONSOURCE SINK",
		Short: "Overlay detected positions onto frames and republish",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := decorate.DefaultConfig()
			if err := ctx.section("decorate", &cfg); err != nil {
				return err
			}

			sigCtx, cancel := signalContext()
			defer cancel()
			n, err := decorate.NewNode(sigCtx, cfg, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			defer closeNode(n)
			return ctx.runNode("decorate", n)
		},
	}
	return cmd
}
