package main

import (
	"git.gammaspectra.live/P2Pool/scytale/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRootCmd() *cobra.Command {
	var debug, logFile bool

	rootCmd := &cobra.Command{
		Use:           "scytale",
		Short:         "WHIRLPOOL digests and XTEA enciphering",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.LogFile = logFile
			if debug {
				utils.GlobalLogLevel |= utils.LogLevelDebug | utils.LogLevelNotice
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logFile, "log-file", false, "include source file and line in log messages")

	rootCmd.AddCommand(newWhirlpoolCmd(), newXTEACmd())
	return rootCmd
}

func withParallel(flags *pflag.FlagSet, parallel *int, usage string) {
	flags.IntVarP(parallel, "parallel", "p", 1, usage+", 0 to pick from the CPU count")
}

func withJSON(flags *pflag.FlagSet, json *bool) {
	flags.BoolVar(json, "json", false, "print results as JSON")
}
