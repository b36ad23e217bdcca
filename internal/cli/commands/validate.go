package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/armforge/armforge/internal/cli/config"
	"github.com/armforge/armforge/internal/synth"
	"github.com/armforge/armforge/internal/synth/discover"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [stack file]",
		Short: "Synthesize without writing and report findings",
		Long: `Run the full synthesis pipeline and report validation findings
without writing any documents. Useful in CI to catch partitioning
problems before a deployment attempt times out against them.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	opts, err := cfg.PartitionOptions()
	if err != nil {
		return err
	}

	def, err := discover.LoadFile(args[0])
	if err != nil {
		return err
	}

	out, err := synth.New(opts, zap.NewNop().Sugar()).Run(def)
	if err != nil && out == nil {
		return err
	}

	for _, e := range out.Findings.Errors {
		color.Red("error: %s", e.Message)
	}
	for _, w := range out.Findings.Warnings {
		color.Yellow("warning: %s", w.Message)
	}
	if !out.Findings.OK() {
		return fmt.Errorf("validation failed with %d error(s)", len(out.Findings.Errors))
	}

	color.Green("✓ %d document(s), %d cross-document reference(s), no errors",
		len(out.Result.Documents), len(out.Result.CrossReferences))
	return nil
}
