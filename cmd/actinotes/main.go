package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	actinotes "acti-analyzer"
)

func main() {
	var (
		configPath = flag.String("config", "", "Optional YAML threshold config")
		jsonOut    = flag.Bool("json", false, "Emit full analysis as JSON")
		showDays   = flag.Bool("days", false, "Include day-by-day summary in text output")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-epoch-csv>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := actinotes.DefaultConfig()
	if *configPath != "" {
		loaded, err := actinotes.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	analysis, err := actinotes.AnalyzeFile(flag.Arg(0), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(analysis.Notes)
	if *showDays && len(analysis.Daily) > 0 {
		fmt.Println()
		fmt.Println("Daily Summary")
		for _, d := range analysis.Daily {
			fmt.Printf(
				"- %s | wear %5.1f h | sed %5.0f min | MVPA %4.0f min | sleep %5.0f min\n",
				d.Date,
				d.WearHours,
				d.SedentaryMinutes,
				d.MVPAMinutes,
				d.SleepMinutes,
			)
		}
	}
}
