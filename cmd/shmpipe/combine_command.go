package main

import (
	"github.com/spf13/cobra"

	"shmpipe/internal/combine"
)

func newCombineCommand(ctx *commandContext) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "combine TYPE SOURCE... SINK",
		Short: "Merge position streams (TYPE: mean); the last positional is the sink",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := combine.ParseKind(args[0])
			if err != nil {
				return err
			}
			sources := args[1 : len(args)-1]
			sink := args[len(args)-1]
			if label == "" {
				label = kind.String()
			}

			var comb combine.Combiner
			switch kind {
			case combine.KindMean:
				comb = combine.NewMean(label)
			}

			sigCtx, cancel := signalContext()
			defer cancel()
			n, err := combine.NewNode(sigCtx, comb, sources, sink)
			if err != nil {
				return err
			}
			defer closeNode(n)
			return ctx.runNode("combine", n)
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "Label stamped into combined positions (default: TYPE)")
	return cmd
}
