package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/armforge/armforge/internal/cli/config"
	"github.com/armforge/armforge/internal/synth"
	"github.com/armforge/armforge/internal/synth/discover"
	"github.com/armforge/armforge/internal/synth/writer"
)

var (
	buildOutput  string
	buildVerbose bool
)

// NewBuildCommand creates the build command
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [stack file]",
		Short: "Synthesize a stack definition into deployable templates",
		Long: `Compile a stack definition into ARM template documents.

The synthesis process:
  1. Discovery - parse resource definitions and dependencies
  2. Partitioning - assign resources to size-bounded documents
  3. Orchestration - build the root document and deployment order
  4. Rendering - emit resource bodies with resolved references
  5. Validation - check size and reference invariants
  6. Write-out - persist documents and the run manifest`,
		Example: `  # Synthesize stack.yaml with default settings
  armforge build stack.yaml

  # Write documents to a custom directory
  armforge build stack.yaml --output dist/templates`,
		Args: cobra.ExactArgs(1),
		RunE: runBuild,
	}

	cmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory (default: build/templates)")
	cmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "Show per-resource placement decisions")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	warningColor := color.New(color.FgYellow)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	outputDir := buildOutput
	if outputDir == "" {
		outputDir = cfg.Out.Dir
	}

	opts, err := cfg.PartitionOptions()
	if err != nil {
		return err
	}

	logger, err := newLogger(buildVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	def, err := discover.LoadFile(args[0])
	if err != nil {
		return err
	}
	infoColor.Printf("Synthesizing stack %q (%d resources)\n", def.Name, len(def.Resources))

	out, err := synth.New(opts, logger.Sugar()).Run(def)
	if err != nil {
		return err
	}

	if buildVerbose {
		for _, p := range out.Result.Placements {
			infoColor.Printf("  %s -> %s (%s)\n", p.ResourceID, p.Document, p.Reason)
		}
	}
	for _, w := range out.Findings.Warnings {
		warningColor.Printf("Warning: %s\n", w.Message)
	}

	manifest, err := writer.New(outputDir, logger.Sugar()).Write(def.Name, out.Templates, out.Result, out.Plan)
	if err != nil {
		return err
	}

	successColor.Printf("✓ Wrote %d document(s) to %s in %s\n",
		len(manifest.Documents), outputDir, time.Since(startTime).Round(time.Millisecond))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
