package main

import (
	"github.com/spf13/cobra"

	"shmpipe/internal/serve"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve SINK",
		Short: "Publish synthetic test frames on a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := serve.DefaultConfig()
			if err := ctx.section("serve", &cfg); err != nil {
				return err
			}
			n, err := serve.NewNode(cfg, args[0])
			if err != nil {
				return err
			}
			defer closeNode(n)
			return ctx.runNode("serve", n)
		},
	}
	return cmd
}
