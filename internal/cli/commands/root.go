package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "armforge",
		Short: "ARM template synthesizer with size-aware partitioning",
		Long: color.CyanString(`armforge - infrastructure template synthesizer

armforge compiles a declarative stack definition into one or more
deployable ARM template documents, splitting the deployment whenever a
single document would exceed the platform's size or resource-count
ceiling and rewriting cross-document references so they stay valid.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewValidateCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Print("armforge version: ")
			color.White("%s", Version)
			titleColor.Print("Git commit:       ")
			color.White("%s", GitCommit)
			titleColor.Print("Build date:       ")
			color.White("%s", BuildDate)
			titleColor.Print("Go version:       ")
			color.White("%s", runtime.Version())
		},
	}
}
