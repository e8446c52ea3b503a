package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shmpipe/internal/shm"
	"shmpipe/internal/token"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List live channels and their state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := shm.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No live channels.")
				return nil
			}

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				state, err := inspect(name)
				if err != nil {
					ctx.logger.Warn("skipping channel", "channel", name, "error", err)
					continue
				}
				rows = append(rows, []string{
					name,
					state.Shape.String(),
					strconv.FormatUint(state.Published, 10),
					strconv.FormatUint(uint64(state.Readers), 10),
					yesNo(state.SinkBound),
					yesNo(state.EOS),
					strconv.FormatUint(uint64(state.Attached), 10),
				})
			}

			headers := []string{"CHANNEL", "SHAPE", "PUBLISHED", "READERS", "SINK", "EOS", "ATTACHED"}
			aligns := []columnAlignment{
				alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignRight,
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
	return cmd
}

func inspect(name string) (token.State, error) {
	v, err := shm.InspectChannel(name)
	if err != nil {
		return token.State{}, err
	}
	defer v.Close()
	return token.ReadState(v), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
