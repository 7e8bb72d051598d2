package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gogpu/magpen"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list parameter presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPresets(cmd.OutOrStdout())
		},
	}
}

func listPresets(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tN\tR\tD\tMU\tC\tDT\tVELOCITY\tANGLE\tPATTERN")
	for _, name := range magpen.PresetNames() {
		p, err := magpen.Preset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%g\t%g\t%g\t%.3f\t%s\n",
			name, p.N, p.R, p.D, p.Mu, p.C, p.Dt,
			p.VelocityMagnitude, p.VelocityAngle, p.VelocityPattern)
	}
	return w.Flush()
}
