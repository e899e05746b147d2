package main

import (
	"github.com/spf13/cobra"

	"github.com/ayusman/mimic/internal/config"
)

// Version is the application version.
const Version = "0.1.0"

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "mimic",
		Short:         "Hand gesture recognition with live image overlays",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	root.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the gesture history database")

	root.AddCommand(
		newRunCmd(cfg),
		newCamerasCmd(),
		newEventsCmd(cfg),
	)
	return root
}
