package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/mrpplan/pkg/infrastructure/config"
	"github.com/vsinha/mrpplan/pkg/infrastructure/logging"
)

// environment carries what every subcommand needs once flags are parsed
type environment struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func (e *environment) init() error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.logLevel != "" {
		cfg.Log.Level = e.logLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.logger = logger
	return nil
}

func (e *environment) close() {
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

// NewRootCommand builds the mrp command tree
func NewRootCommand() *cobra.Command {
	env := &environment{}

	root := &cobra.Command{
		Use:   "mrp",
		Short: "Time-phased material requirements planning",
		Long: `mrp nets gross requirements against on-hand stock and scheduled receipts
item by item, level by level through the bill of materials, and produces
time-phased planned orders offset by lead time.

Configuration is read from config.yaml when present (or --config) and
MRP_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			env.close()
		},
	}

	root.PersistentFlags().StringVar(&env.configPath, "config", "", fmt.Sprintf("config file (default is ./%s when present)", config.DefaultPath))
	root.PersistentFlags().StringVar(&env.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		newPlanCmd(env),
		newValidateCmd(env),
		newGenerateCmd(env),
		newServeCmd(env),
		newRunsCmd(env),
	)
	return root
}

// ExecuteContext runs the command tree with ctx
func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
