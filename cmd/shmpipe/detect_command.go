package main

import (
	"github.com/spf13/cobra"

	"shmpipe/internal/detect"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "detect TYPE SOURCE SINK",
		Short: "Extract positions from a frame stream (TYPE: diff, hsv)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := detect.ParseKind(args[0])
			if err != nil {
				return err
			}
			if label == "" {
				label = args[1]
			}

			var det detect.Detector
			switch kind {
			case detect.KindDiff:
				cfg := detect.DefaultDiffConfig()
				if err := ctx.section("detect", &cfg); err != nil {
					return err
				}
				det, err = detect.NewDiff(label, cfg)
			case detect.KindHSV:
				cfg := detect.DefaultHSVConfig()
				if err := ctx.section("detect", &cfg); err != nil {
					return err
				}
				det, err = detect.NewHSV(label, cfg)
			}
			if err != nil {
				return err
			}

			sigCtx, cancel := signalContext()
			defer cancel()
			n, err := detect.NewNode(sigCtx, det, args[1], args[2])
			if err != nil {
				return err
			}
			defer closeNode(n)
			return ctx.runNode("detect", n)
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "Label stamped into emitted positions (default: source channel)")
	return cmd
}
