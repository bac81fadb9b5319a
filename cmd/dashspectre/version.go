package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dashspectre version and build platform",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("dashspectre %s\n", version)
			cmd.Printf("go: %s, platform: %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
