package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"acti-analyzer/logging"
	"acti-analyzer/pipeline"
)

func main() {
	var (
		csvPath    = flag.String("csv", "", "Path to input epoch CSV file")
		inputDir   = flag.String("dir", "", "Directory of epoch CSV files (batch mode)")
		outDir     = flag.String("out", "", "Output directory")
		configPath = flag.String("config", "", "Optional YAML threshold config")
		format     = flag.String("format", "parquet", "Epoch stream format: parquet|csv")
		workers    = flag.Int("workers", 0, "Batch worker count (0 = number of CPUs)")
		overwrite  = flag.Bool("overwrite", true, "Allow writing into non-empty output directories")
		logLevel   = flag.String("log-level", "info", "Log level: debug|info|warn|error")
		logFormat  = flag.String("log-format", "console", "Log format: json|console")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s --csv input.csv --out outdir [--config thresholds.yaml] [--format parquet|csv]\n",
			filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(),
			"       %s --dir inputs/ --out outdir [--workers 4]\n",
			filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	single := strings.TrimSpace(*csvPath) != ""
	batch := strings.TrimSpace(*inputDir) != ""
	if single == batch || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := logging.New(*logLevel, *logFormat, "acti_analyze")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if batch {
		result, err := pipeline.RunBatch(pipeline.BatchOptions{
			InputDir:   *inputDir,
			OutDir:     *outDir,
			ConfigPath: *configPath,
			Format:     *format,
			Overwrite:  *overwrite,
			Workers:    *workers,
			Logger:     logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "acti_analyze failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("acti_analyze batch complete\n")
		fmt.Printf("files analyzed:  %d\n", len(result.Outcomes))
		fmt.Printf("failed:          %d\n", result.Failed)
		fmt.Printf("summary csv:     %s\n", result.SummaryCSV)
		fmt.Printf("summary xlsx:    %s\n", result.SummaryXLSX)
		if result.Failed > 0 {
			os.Exit(1)
		}
		return
	}

	result, err := pipeline.Run(pipeline.Options{
		CSVPath:    *csvPath,
		OutDir:     *outDir,
		ConfigPath: *configPath,
		Format:     *format,
		Overwrite:  *overwrite,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "acti_analyze failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("acti_analyze complete\n")
	fmt.Printf("Participant:        %s\n", result.Analysis.ParticipantID)
	fmt.Printf("Quality:            %s (%.1f/100)\n", result.Analysis.Quality.Grade, result.Analysis.Quality.Composite)
	fmt.Printf("Output dir:         %s\n", result.Bundle.OutputDir)
	fmt.Printf("analysis.json:      %s\n", result.Bundle.AnalysisPath)
	fmt.Printf("manifest.json:      %s\n", result.Bundle.ManifestPath)
	fmt.Printf("epoch stream:       %s\n", result.Bundle.EpochsPath)
	fmt.Printf("daily summary:      %s\n", result.Bundle.DailyPath)
	fmt.Printf("notes:              %s\n", result.Bundle.NotesPath)
	for _, w := range result.Analysis.Warnings {
		fmt.Printf("warning:            %s\n", w)
	}
}
