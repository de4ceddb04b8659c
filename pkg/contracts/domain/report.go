package domain

import "time"

// CleaningReport collects the observable side effects of a cleaning run
type CleaningReport struct {
	RunID           string             `json:"run_id"`
	InputPath       string             `json:"input_path"`
	OutputPath      string             `json:"output_path"`
	XLSXPath        string             `json:"xlsx_path,omitempty"`
	Encoding        string             `json:"encoding"`
	RowsLoaded      int                `json:"rows_loaded"`
	RowsMatched     int                `json:"rows_matched"`
	RowsWritten     int                `json:"rows_written"`
	MissingByColumn map[string]int     `json:"missing_by_column"`
	FillValues      map[string]float64 `json:"fill_values"`
	PriceMedian     float64            `json:"price_median"`
	HasPriceMedian  bool               `json:"has_price_median"`
	AliasRemaps     int                `json:"alias_remaps"`
	StartedAt       time.Time          `json:"started_at"`
	Duration        time.Duration      `json:"duration"`
}

// NewCleaningReport creates an empty report for a run
func NewCleaningReport(runID string) *CleaningReport {
	return &CleaningReport{
		RunID:           runID,
		MissingByColumn: make(map[string]int),
		FillValues:      make(map[string]float64),
		StartedAt:       time.Now(),
	}
}
