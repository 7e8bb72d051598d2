// Command magpen renders the magnetic pendulum basin field to a PNG.
package main

import (
	"log/slog"
	"os"

	"github.com/gogpu/magpen"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:          "magpen",
		Short:        "magnetic pendulum particle field renderer",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			magpen.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newRenderCmd(), newPresetsCmd(), newConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
