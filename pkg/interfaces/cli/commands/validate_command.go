package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/services/bom_validator"
	"github.com/vsinha/mrpplan/pkg/domain/services/llc"
)

// ValidateConfig holds configuration for the validate command
type ValidateConfig struct {
	Input   InputConfig
	Verbose bool
}

// ValidateCommand checks a planning request without netting it
type ValidateCommand struct {
	config ValidateConfig
	out    io.Writer
}

// NewValidateCommand creates a new validate command
func NewValidateCommand(config ValidateConfig, out io.Writer) *ValidateCommand {
	return &ValidateCommand{config: config, out: out}
}

// Execute runs every check the engine runs before netting and reports the BOM structure.
// It returns the same InvalidInput or CycleDetected error a planning run would fail with.
func (c *ValidateCommand) Execute(ctx context.Context) error {
	req, err := loadRequest(c.config.Input)
	if err != nil {
		return err
	}
	run := req.ToRun()

	if err := run.Validate(); err != nil {
		return err
	}
	if err := bom_validator.ValidateBOM(run.BOM).Err(); err != nil {
		return err
	}
	resolution, err := llc.Resolve(run.Items, run.BOM)
	if err != nil {
		return err
	}
	consistency := bom_validator.ValidateBOMItemConsistency(run.BOM, run.Items)
	graph := mrp.BuildDependencyGraph(run.Items, run.BOM)

	fmt.Fprintf(c.out, "🔍 Planning request is valid\n")
	fmt.Fprintf(c.out, "  Horizon: %d %s buckets\n", run.Horizon.Buckets, run.Horizon.Unit)
	fmt.Fprintf(c.out, "  Items: %d\n", len(run.Items))
	fmt.Fprintf(c.out, "  BOM Edges: %d\n", len(run.BOM))
	fmt.Fprintf(c.out, "  Demand Entries: %d\n", len(run.Demand))
	fmt.Fprintf(c.out, "  Scheduled Receipts: %d\n", len(run.Supply))
	fmt.Fprintf(c.out, "  Top-level Items: %s\n", joinCodes(graph.Roots()))
	fmt.Fprintf(c.out, "  Low-Level Codes: 0-%d\n", len(resolution.Tiers)-1)

	if len(consistency.OrphanedItems) > 0 {
		fmt.Fprintf(c.out, "  Standalone Items: %s\n", joinCodes(consistency.OrphanedItems))
	}

	fmt.Fprintf(c.out, "\nCritical Paths:\n")
	for _, path := range mrp.AnalyzeCriticalPaths(run.Items, graph) {
		fmt.Fprintf(c.out, "  %s: %d buckets (%s)", path.Item, path.CumulativeLeadTime, strings.Join(codeStrings(path.Path), " -> "))
		if path.CumulativeLeadTime > run.Horizon.Buckets {
			fmt.Fprintf(c.out, " ⚠️  longer than the horizon")
		}
		fmt.Fprintln(c.out)
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out)
		for level, tier := range resolution.Tiers {
			fmt.Fprintf(c.out, "Level %d (%d items)\n", level, len(tier))
			for _, code := range tier {
				components := graph.Components(code)
				if len(components) == 0 {
					fmt.Fprintf(c.out, "  %s\n", code)
					continue
				}
				parts := make([]string, len(components))
				for i, edge := range components {
					parts[i] = fmt.Sprintf("%s x%s", edge.Child, edge.QtyPer.String())
				}
				fmt.Fprintf(c.out, "  %s -> %s\n", code, strings.Join(parts, ", "))
			}
		}
	}
	return nil
}

func joinCodes(codes []entities.ItemCode) string {
	if len(codes) == 0 {
		return "none"
	}
	return strings.Join(codeStrings(codes), ", ")
}

func codeStrings(codes []entities.ItemCode) []string {
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = string(code)
	}
	return parts
}

func newValidateCmd(env *environment) *cobra.Command {
	var (
		input   inputFlags
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a planning request without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := NewValidateCommand(ValidateConfig{
				Input:   input.config(env.cfg),
				Verbose: verbose,
			}, cmd.OutOrStdout())
			return command.Execute(cmd.Context())
		},
	}

	input.register(cmd)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every low-level code with its components")
	return cmd
}
