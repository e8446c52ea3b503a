package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "shmpipe",
		Short:         "Shared memory streaming pipeline nodes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFile, "config-file", "c", "", "TOML configuration file path")
	flags.StringVarP(&ctx.configKey, "config-key", "k", "", "Configuration table for this node")
	flags.StringVar(&ctx.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&ctx.logFormat, "log-format", "", "Log format (console, json)")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newFilterCommand(ctx))
	rootCmd.AddCommand(newDetectCommand(ctx))
	rootCmd.AddCommand(newCombineCommand(ctx))
	rootCmd.AddCommand(newDecorateCommand(ctx))
	rootCmd.AddCommand(newRecordCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newChannelsCommand(ctx))

	return rootCmd
}
