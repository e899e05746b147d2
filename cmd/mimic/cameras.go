package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ayusman/mimic/internal/capture"
)

func newCamerasCmd() *cobra.Command {
	var maxDevices int
	cmd := &cobra.Command{
		Use:   "cameras",
		Short: "List camera devices that can be opened",
		RunE: func(cmd *cobra.Command, args []string) error {
			bar := progressbar.NewOptions(maxDevices,
				progressbar.OptionSetDescription("Probing cameras"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
			)
			found := capture.Probe(maxDevices, func(int) { _ = bar.Add(1) })
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)

			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintln(out, "No cameras found.")
				return nil
			}
			for _, id := range found {
				fmt.Fprintf(out, "Camera %d\n", id)
			}
			fmt.Fprintf(out, "\nStart with: mimic run --camera %d\n", found[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDevices, "max", capture.MaxProbeDevices, "number of device indices to try")
	return cmd
}
