package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.Version=... -X main.GitCommit=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("Consultas API version %s\n", Version)
			cmd.Printf("Git commit: %s\n", GitCommit)
			cmd.Printf("Go version: %s\n", runtime.Version())
		},
	}
}
