package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/mrpplan/pkg/interfaces/cli/output"
)

// RunsConfig holds configuration for the runs commands
type RunsConfig struct {
	StorePath string
	Limit     int
	// Item restricts runs show to the stored ledger of one item
	Item      entities.ItemCode
	Format    string
	OutputDir string
}

// RunsCommand reads planning runs back from the run store
type RunsCommand struct {
	config RunsConfig
	logger *zap.Logger
	out    io.Writer
}

// NewRunsCommand creates a new runs command
func NewRunsCommand(config RunsConfig, logger *zap.Logger, out io.Writer) *RunsCommand {
	return &RunsCommand{config: config, logger: logger, out: out}
}

func (c *RunsCommand) openStore() (*sqlite.Store, error) {
	store, err := sqlite.NewStore(c.config.StorePath, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	return store, nil
}

// List prints the stored runs, newest first
func (c *RunsCommand) List(ctx context.Context) error {
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, c.config.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "No planning runs stored")
		return nil
	}

	fmt.Fprintf(c.out, "%-36s  %-20s  %-10s  %6s  %7s  %8s  %6s\n",
		"Run", "Created", "Horizon", "Items", "Orders", "Past Due", "Failed")
	for _, run := range runs {
		fmt.Fprintf(c.out, "%-36s  %-20s  %-10s  %6d  %7d  %8d  %6d\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d %s", run.Buckets, run.Unit),
			run.Summary.Items,
			run.Summary.PlannedOrders,
			run.Summary.PastDueItems,
			run.Summary.FailedItems)
	}
	return nil
}

// Show renders one stored run, or the stored ledger of a single item when Item is set
func (c *RunsCommand) Show(ctx context.Context, runID string) error {
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if c.config.Item == "" {
		result, err := store.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		return output.Generate(c.out, result, output.Config{Format: c.config.Format, OutputDir: c.config.OutputDir})
	}

	// Checks the run exists so an unknown id is not reported as an empty ledger
	if _, err := store.GetRun(ctx, runID); err != nil {
		return err
	}
	rows, err := store.LedgerRows(ctx, runID, c.config.Item)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("item %s is not part of run %s", c.config.Item, runID)
	}

	fmt.Fprintf(c.out, "%s (LLC %d) in run %s\n", c.config.Item, rows[0].LowLevelCode, runID)
	fmt.Fprintf(c.out, "%6s %8s %8s %8s %8s %8s %8s %8s\n",
		"Bucket", "Gross", "Sched", "Begin", "End", "Net", "Receipt", "Release")
	for _, row := range rows {
		fmt.Fprintf(c.out, "%6d %8d %8d %8d %8d %8d %8d %8d\n",
			row.Bucket, row.GrossRequirement, row.ScheduledReceipt, row.BeginningOnHand,
			row.ProjectedOnHand, row.NetRequirement, row.PlannedOrderReceipt, row.PlannedOrderRelease)
	}

	conditions, err := store.Conditions(ctx, runID)
	if err != nil {
		return err
	}
	for _, cond := range conditions {
		if cond.Item == c.config.Item {
			fmt.Fprintf(c.out, "%s: %s\n", cond.Kind, cond.Reason)
		}
	}
	return nil
}

func newRunsCmd(env *environment) *cobra.Command {
	var config RunsConfig
	var item string

	resolve := func(cmd *cobra.Command) RunsConfig {
		resolved := config
		if !cmd.Flags().Changed("store") {
			resolved.StorePath = env.cfg.Store.Path
		}
		resolved.Item = entities.ItemCode(item)
		return resolved
	}

	runs := &cobra.Command{
		Use:   "runs",
		Short: "Inspect planning runs kept in the run store",
	}
	runs.PersistentFlags().StringVar(&config.StorePath, "store", "", "SQLite run store path (default from config)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewRunsCommand(resolve(cmd), env.logger, cmd.OutOrStdout()).List(cmd.Context())
		},
	}
	list.Flags().IntVarP(&config.Limit, "limit", "n", 20, "maximum runs to list (0 lists all)")

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Render a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewRunsCommand(resolve(cmd), env.logger, cmd.OutOrStdout()).Show(cmd.Context(), args[0])
		},
	}
	show.Flags().StringVar(&item, "item", "", "show only the stored ledger of this item")
	show.Flags().StringVarP(&config.Format, "format", "f", output.FormatText, "output format: text, json, csv, xlsx")
	show.Flags().StringVarP(&config.OutputDir, "output", "o", "", "output directory for results")

	runs.AddCommand(list, show)
	return runs
}
