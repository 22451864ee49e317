// cmd/tools/config-exporter/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tca-workers/internal/common/config"
	"tca-workers/internal/scorecard"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	out := exportCmd.String("out", "", "Output file (default stdout)")
	configPath := exportCmd.String("config", "", "Optional config.yaml whose general thresholds drive the color logic")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		thresholds, err := loadThresholds(*configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if err := export(*out, thresholds, os.Stdout); err != nil {
			fmt.Printf("Error exporting scorecard config: %v\n", err)
			os.Exit(1)
		}
		if *out != "" {
			fmt.Printf("Wrote scorecard config to %s\n", *out)
		}

	case "help":
		help()

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		help()
		os.Exit(1)
	}
}

func loadThresholds(path string) (scorecard.Thresholds, error) {
	if path == "" {
		return scorecard.DefaultThresholds, nil
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return scorecard.Thresholds{}, err
	}
	fallback := config.ThresholdConfig{Green: scorecard.DefaultThresholds.Green, Yellow: scorecard.DefaultThresholds.Yellow}
	t := cfg.Scorecard.ThresholdsFor(string(scorecard.FrameworkGeneral), fallback)
	return scorecard.Thresholds{Green: t.Green, Yellow: t.Yellow}, nil
}

// export writes the default framework tables to path, or to stdout when path
// is empty.
func export(path string, thresholds scorecard.Thresholds, stdout io.Writer) error {
	tables := make(map[scorecard.Framework]scorecard.WeightTable, len(scorecard.Frameworks))
	for _, f := range scorecard.Frameworks {
		tables[f] = scorecard.DefaultWeights(f)
	}

	data, err := scorecard.BuildExport(tables, thresholds).MarshalIndent()
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func help() {
	fmt.Println("Usage: config-exporter <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  export   Write the TCA scorecard weights and color logic as JSON")
	fmt.Println("           -out <file>      (default stdout)")
	fmt.Println("           -config <file>   read thresholds from a config file")
	fmt.Println("  help     Show this help")
}
