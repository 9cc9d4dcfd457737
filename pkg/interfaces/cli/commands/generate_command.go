package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vsinha/mrpplan/pkg/application/services/scenario"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Scenario  scenario.Config
	OutputDir string // Output directory for generated CSV files
	// RequestFile additionally writes the scenario as a single JSON or YAML request
	RequestFile string
	Verbose     bool
}

// GenerateCommand handles scenario generation
type GenerateCommand struct {
	config GenerateConfig
	out    io.Writer
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig, out io.Writer) *GenerateCommand {
	return &GenerateCommand{config: config, out: out}
}

// Execute runs the generate command
func (c *GenerateCommand) Execute(ctx context.Context) error {
	if c.config.OutputDir == "" && c.config.RequestFile == "" {
		return fmt.Errorf("must specify --output directory or --request file")
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out,
			"🔧 Generating scenario with %d items, max depth %d, %d demands, %d receipts, %.1fx inventory\n",
			c.config.Scenario.Items,
			c.config.Scenario.MaxDepth,
			c.config.Scenario.Demands,
			c.config.Scenario.Supplies,
			c.config.Scenario.Inventory,
		)
		fmt.Fprintf(c.out, "🎲 Random seed: %d\n", c.config.Scenario.Seed)
	}

	req, err := scenario.NewGenerator(c.config.Scenario).Generate()
	if err != nil {
		return fmt.Errorf("failed to generate scenario: %w", err)
	}

	if c.config.OutputDir != "" {
		if err := csv.NewWriter().WriteDir(c.config.OutputDir, req); err != nil {
			return fmt.Errorf("failed to write scenario: %w", err)
		}
		fmt.Fprintf(c.out, "✅ Scenario generated in %s: %d items, %d BOM edges, %d demands, %d receipts\n",
			c.config.OutputDir, len(req.Items), len(req.BOM), len(req.Demand), len(req.Supply))
	}
	if c.config.RequestFile != "" {
		if err := writeRequestFile(c.config.RequestFile, req); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Request written to %s\n", c.config.RequestFile)
	}
	return nil
}

func newGenerateCmd(env *environment) *cobra.Command {
	var (
		config  GenerateConfig
		unit    string
		buckets int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random multi-level planning scenario",
		Example: `  # 200 items, 6 levels deep, reproducible
  mrp generate --items 200 --depth 6 --seed 42 --output scenarios/large

  # Same scenario as one YAML request
  mrp generate --items 200 --depth 6 --seed 42 --request scenarios/large.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Scenario.Buckets = buckets
			if !cmd.Flags().Changed("buckets") {
				config.Scenario.Buckets = env.cfg.Planning.Buckets
			}
			config.Scenario.Unit = entities.BucketUnit(unit)
			if unit == "" {
				config.Scenario.Unit = entities.BucketUnit(env.cfg.Planning.BucketUnit)
			}
			return NewGenerateCommand(config, cmd.OutOrStdout()).Execute(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&config.Scenario.Items, "items", 50, "total number of items")
	cmd.Flags().IntVar(&config.Scenario.MaxDepth, "depth", 4, "maximum BOM depth")
	cmd.Flags().IntVar(&config.Scenario.Demands, "demands", 5, "number of top-level demand entries")
	cmd.Flags().IntVar(&config.Scenario.Supplies, "supplies", 5, "number of scheduled receipts")
	cmd.Flags().Float64Var(&config.Scenario.Inventory, "inventory", 0.5, "on-hand multiplier against one complete assembly")
	cmd.Flags().Int64Var(&config.Scenario.Seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().IntVar(&buckets, "buckets", 0, "horizon length in buckets (default from config)")
	cmd.Flags().StringVar(&unit, "unit", "", "bucket unit (default from config)")
	cmd.Flags().StringVarP(&config.OutputDir, "output", "o", "", "output directory for CSV files")
	cmd.Flags().StringVarP(&config.RequestFile, "request", "r", "", "also write a .json or .yaml request file")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "enable verbose output")
	return cmd
}
