package pipeline

import (
	"go.uber.org/zap"

	actinotes "acti-analyzer"
	"acti-analyzer/report"
)

// Options configures one acti_analyze run.
type Options struct {
	CSVPath    string
	OutDir     string
	ConfigPath string
	Format     string // parquet|csv
	Overwrite  bool
	Logger     *zap.Logger
}

// Result returns the analysis plus generated output paths.
type Result struct {
	Analysis *actinotes.Analysis `json:"analysis"`
	Bundle   *report.Result      `json:"bundle"`
}

// BatchOptions configures a directory-wide run.
type BatchOptions struct {
	InputDir   string
	OutDir     string
	ConfigPath string
	Format     string
	Overwrite  bool
	Workers    int
	Logger     *zap.Logger
}

// FileOutcome is one row of the batch summary.
type FileOutcome struct {
	File          string  `json:"file"`
	ParticipantID string  `json:"participant_id"`
	OK            bool    `json:"ok"`
	Error         string  `json:"error,omitempty"`
	Grade         string  `json:"grade,omitempty"`
	Composite     float64 `json:"composite"`
	CompliancePct float64 `json:"compliance_pct"`
	MVPAMinutes   float64 `json:"mvpa_minutes"`
	MeanMainHours float64 `json:"mean_main_sleep_hours"`
	Usable        bool    `json:"usable"`
	OutputDir     string  `json:"output_dir,omitempty"`
}

// BatchResult summarises a batch run.
type BatchResult struct {
	Outcomes    []FileOutcome `json:"outcomes"`
	SummaryCSV  string        `json:"summary_csv"`
	SummaryXLSX string        `json:"summary_xlsx"`
	Failed      int           `json:"failed"`
}
