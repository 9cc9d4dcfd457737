package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/mrpplan/pkg/interfaces/cli/output"
)

// PlanConfig holds configuration for the plan command
type PlanConfig struct {
	Input      InputConfig
	OutputDir  string
	Format     string
	Workers    int
	MaxBuckets int
	// StorePath enables run persistence when set
	StorePath string
	Verbose   bool
}

// PlanCommand runs a planning request and renders the result
type PlanCommand struct {
	config PlanConfig
	logger *zap.Logger
	out    io.Writer
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config PlanConfig, logger *zap.Logger, out io.Writer) *PlanCommand {
	return &PlanCommand{
		config: config,
		logger: logger,
		out:    out,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Verbose {
		c.printHeader()
	}

	req, err := loadRequest(c.config.Input)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Data loaded successfully:\n")
		fmt.Fprintf(c.out, "  Items: %d\n", len(req.Items))
		fmt.Fprintf(c.out, "  BOM Edges: %d\n", len(req.BOM))
		fmt.Fprintf(c.out, "  Demand Entries: %d\n", len(req.Demand))
		fmt.Fprintf(c.out, "  Scheduled Receipts: %d\n", len(req.Supply))
		fmt.Fprintln(c.out)
	}

	var store mrp.RunStore
	if c.config.StorePath != "" {
		s, err := sqlite.NewStore(c.config.StorePath, c.logger)
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer s.Close()
		store = s
	}

	service := mrp.NewMRPService(mrp.NewEngineWithConfig(mrp.EngineConfig{
		Workers:    c.config.Workers,
		MaxBuckets: c.config.MaxBuckets,
	}), store, c.logger)

	startTime := time.Now()
	result, err := c.plan(ctx, service, req)
	if err != nil {
		return fmt.Errorf("error running MRP: %w", err)
	}
	elapsed := time.Since(startTime)

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Planning completed in %v\n\n", elapsed)
	}

	return output.Generate(c.out, result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Elapsed:   elapsed,
	})
}

// plan reads scenario directories through the collaborator interfaces and hands
// request files to the service directly
func (c *PlanCommand) plan(ctx context.Context, service *mrp.MRPService, req dto.PlanningRunRequest) (*dto.PlanningRunResult, error) {
	if c.config.Input.ScenarioDir == "" {
		return service.Plan(ctx, req)
	}
	repos := memory.NewRepositories(req)
	return service.PlanFromRepositories(ctx, req.Horizon, repos.Items, repos.BOM, repos.Demand, repos.Supply)
}

func (c *PlanCommand) printHeader() {
	fmt.Fprintf(c.out, "🚀 MRP Engine CLI\n")
	if c.config.Input.ScenarioDir != "" {
		fmt.Fprintf(c.out, "Scenario: %s\n", c.config.Input.ScenarioDir)
	} else {
		fmt.Fprintf(c.out, "Request: %s\n", c.config.Input.RequestFile)
	}
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	if c.config.StorePath != "" {
		fmt.Fprintf(c.out, "Run store: %s\n", c.config.StorePath)
	}
	fmt.Fprintln(c.out)
}

func newPlanCmd(env *environment) *cobra.Command {
	var (
		input     inputFlags
		outputDir string
		format    string
		workers   int
		storePath string
		persist   bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run a planning request and render the time-phased plan",
		Example: `  # Plan a CSV scenario over 12 weeks
  mrp plan --scenario examples/saturn --buckets 12

  # Plan a YAML request and write a workbook
  mrp plan --request run.yaml --format xlsx --output results/

  # Keep the run in the configured SQLite store
  mrp plan --scenario examples/saturn --persist`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = env.cfg.Planning.Workers
			}
			if persist && storePath == "" {
				storePath = env.cfg.Store.Path
			}

			command := NewPlanCommand(PlanConfig{
				Input:      input.config(env.cfg),
				OutputDir:  outputDir,
				Format:     format,
				Workers:    workers,
				MaxBuckets: env.cfg.Planning.MaxBuckets,
				StorePath:  storePath,
				Verbose:    verbose,
			}, env.logger, cmd.OutOrStdout())
			return command.Execute(cmd.Context())
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for results")
	cmd.Flags().StringVarP(&format, "format", "f", output.FormatText, "output format: text, json, csv, xlsx")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers per low-level code (default from config)")
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite run store path")
	cmd.Flags().BoolVar(&persist, "persist", false, "store the run in the configured run store")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	return cmd
}
