package pipeline

import "time"

// PassCount is the number of rows a pass invalidated.
type PassCount struct {
	Pass    string
	Invalid int
}

// FetchStats summarizes remote lookups of a run.
type FetchStats struct {
	CacheHits          int64
	NetworkFetches     int64
	Retries            int64
	NotFound           int64
	Exhausted          int64
	CacheWriteFailures int64
}

// Result describes a completed run.
type Result struct {
	RunID        string
	InputFile    string
	ResultFile   string
	ExportFile   string
	MetricsFile  string
	TotalRecords int
	ValidRecords int
	// DroppedLines counts input rows with too few fields.
	DroppedLines int
	PassCounts   []PassCount
	Fetches      FetchStats
	StartedAt    time.Time
	Duration     time.Duration
}

// InvalidRecords is TotalRecords minus ValidRecords.
func (r Result) InvalidRecords() int {
	return r.TotalRecords - r.ValidRecords
}

// Invalidated returns the count recorded for pass.
func (r Result) Invalidated(pass string) int {
	for _, pc := range r.PassCounts {
		if pc.Pass == pass {
			return pc.Invalid
		}
	}
	return 0
}
