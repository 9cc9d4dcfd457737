// Package output renders planning results for people and spreadsheets.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/mrpplan/pkg/application/dto"
)

// Supported formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Elapsed   time.Duration
}

// Generate renders result in the configured format. Text and JSON go to w unless an
// output directory is set; CSV and XLSX always need one.
func Generate(w io.Writer, result *dto.PlanningRunResult, config Config) error {
	switch config.Format {
	case FormatText, "":
		return generateText(w, result, config)
	case FormatJSON:
		return generateJSON(w, result, config)
	case FormatCSV:
		if config.OutputDir == "" {
			return fmt.Errorf("output directory required for CSV format")
		}
		files, err := WriteCSV(config.OutputDir, result)
		if err != nil {
			return err
		}
		reportSaved(w, config, files...)
		return nil
	case FormatXLSX:
		if config.OutputDir == "" {
			return fmt.Errorf("output directory required for XLSX format")
		}
		return generateXLSX(w, result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateText(w io.Writer, result *dto.PlanningRunResult, config Config) error {
	if config.OutputDir == "" {
		return WriteText(w, result, config.Elapsed)
	}
	return saveFile(w, config, "mrp_results.txt", func(f io.Writer) error {
		return WriteText(f, result, config.Elapsed)
	})
}

func generateJSON(w io.Writer, result *dto.PlanningRunResult, config Config) error {
	if config.OutputDir == "" {
		return WriteJSON(w, result)
	}
	return saveFile(w, config, "mrp_results.json", func(f io.Writer) error {
		return WriteJSON(f, result)
	})
}

func generateXLSX(w io.Writer, result *dto.PlanningRunResult, config Config) error {
	return saveFile(w, config, "mrp_results.xlsx", func(f io.Writer) error {
		return WriteXLSX(f, result)
	})
}

// WriteJSON writes the result as indented JSON
func WriteJSON(w io.Writer, result *dto.PlanningRunResult) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(jsonData)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func saveFile(w io.Writer, config Config, name string, write func(io.Writer) error) error {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, name)
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}

	reportSaved(w, config, filename)
	return nil
}

func reportSaved(w io.Writer, config Config, files ...string) {
	if !config.Verbose {
		return
	}
	for _, file := range files {
		fmt.Fprintf(w, "Results saved to: %s\n", file)
	}
}
