package main

import (
	"github.com/spf13/cobra"

	"shmpipe/internal/filter"
)

func newFilterCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter TYPE SOURCE SINK",
		Short: "Transform a frame stream (TYPE: bgsub)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := filter.ParseKind(args[0])
			if err != nil {
				return err
			}
			var flt filter.Filter
			switch kind {
			case filter.KindBgSub:
				var cfg filter.BgSubConfig
				if err := ctx.section("filter", &cfg); err != nil {
					return err
				}
				flt, err = filter.NewBgSub(cfg)
				if err != nil {
					return err
				}
			}

			sigCtx, cancel := signalContext()
			defer cancel()
			n, err := filter.NewNode(sigCtx, flt, args[1], args[2])
			if err != nil {
				return err
			}
			defer closeNode(n)
			return ctx.runNode("filter", n)
		},
	}
	return cmd
}
