package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shmpipe/internal/stream"
	"shmpipe/internal/token"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch SOURCE",
		Short: "Print a position stream to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCtx, cancel := signalContext()
			defer cancel()

			src, err := stream.AttachPositions(sigCtx, args[0])
			if err != nil {
				return err
			}
			defer src.Detach()

			var p token.Position
			for {
				meta, err := src.Pull(sigCtx, &p)
				if err != nil {
					if sigCtx.Err() != nil {
						return nil
					}
					return err
				}
				if meta.Payload {
					printPosition(cmd, meta, &p)
				}
				if meta.EOS {
					return nil
				}
			}
		},
	}
	return cmd
}

func printPosition(cmd *cobra.Command, meta stream.Meta, p *token.Position) {
	out := cmd.OutOrStdout()
	if !p.Valid {
		fmt.Fprintf(out, "%8d  %s  (no detection)\n",
			meta.Sample, meta.Stamp.Format("15:04:05.000"))
		return
	}
	fmt.Fprintf(out, "%8d  %s  x=%.2f y=%.2f", meta.Sample, meta.Stamp.Format("15:04:05.000"), p.X, p.Y)
	if p.HasHeading {
		fmt.Fprintf(out, " heading=%.3f", p.Heading)
	}
	if p.HasRegion {
		fmt.Fprintf(out, " region=%gx%g+%g+%g", p.Region.W, p.Region.H, p.Region.X, p.Region.Y)
	}
	if p.Label != "" {
		fmt.Fprintf(out, " label=%s", p.Label)
	}
	fmt.Fprintln(out)
}
