package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/config"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/csv"
)

// InputConfig names where a planning request comes from. Exactly one of
// ScenarioDir and RequestFile must be set.
type InputConfig struct {
	ScenarioDir string
	RequestFile string
	// Horizon applies to scenario directories and to request files without one
	Horizon entities.Horizon
}

func (in InputConfig) validate() error {
	switch {
	case in.ScenarioDir == "" && in.RequestFile == "":
		return fmt.Errorf("must specify either --scenario directory or --request file")
	case in.ScenarioDir != "" && in.RequestFile != "":
		return fmt.Errorf("--scenario and --request are mutually exclusive")
	}
	return nil
}

func loadRequest(in InputConfig) (dto.PlanningRunRequest, error) {
	if err := in.validate(); err != nil {
		return dto.PlanningRunRequest{}, err
	}

	if in.ScenarioDir != "" {
		req, err := csv.NewLoader().LoadDir(in.ScenarioDir, in.Horizon)
		if err != nil {
			return dto.PlanningRunRequest{}, fmt.Errorf("error loading scenario: %w", err)
		}
		return req, nil
	}

	req, err := readRequestFile(in.RequestFile)
	if err != nil {
		return dto.PlanningRunRequest{}, err
	}
	if req.Horizon.Buckets == 0 {
		req.Horizon = in.Horizon
	}
	return req, nil
}

// readRequestFile decodes a JSON or YAML request chosen by file extension
func readRequestFile(path string) (dto.PlanningRunRequest, error) {
	var req dto.PlanningRunRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read request file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(&req)
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err = decoder.Decode(&req)
	default:
		return req, fmt.Errorf("unsupported request file %s: use .json, .yaml or .yml", path)
	}
	if err != nil {
		return req, fmt.Errorf("failed to decode request file %s: %w", path, err)
	}
	return req, nil
}

// writeRequestFile encodes a request as JSON or YAML chosen by file extension
func writeRequestFile(path string, req dto.PlanningRunRequest) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(req, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(req)
	default:
		return fmt.Errorf("unsupported request file %s: use .json, .yaml or .yml", path)
	}
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}

// inputFlags binds the shared input flags of plan and validate
type inputFlags struct {
	scenarioDir string
	requestFile string
	buckets     int
	unit        string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.scenarioDir, "scenario", "s", "", "scenario directory with items.csv, bom.csv, demand.csv and optional supply.csv")
	cmd.Flags().StringVarP(&f.requestFile, "request", "r", "", "planning request file (.json, .yaml)")
	cmd.Flags().IntVar(&f.buckets, "buckets", 0, "horizon length in buckets (default from config)")
	cmd.Flags().StringVar(&f.unit, "unit", "", "bucket unit: day, week or month (default from config)")
}

func (f *inputFlags) config(cfg *config.Config) InputConfig {
	horizon := cfg.Horizon()
	if f.buckets != 0 {
		horizon.Buckets = f.buckets
	}
	if f.unit != "" {
		horizon.Unit = entities.BucketUnit(f.unit)
	}
	return InputConfig{ScenarioDir: f.scenarioDir, RequestFile: f.requestFile, Horizon: horizon}
}
