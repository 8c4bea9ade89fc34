package pipeline

import (
	"context"
	"fmt"
	"strings"

	"rostercheck/internal/fileutil"
	"rostercheck/internal/logging"
	"rostercheck/internal/roster"
)

// OutputPrefix is prepended to the input file name to name the result file.
const OutputPrefix = "valid."

// OutputPath returns where the annotated copy of inputPath is written.
func OutputPath(inputPath string) string {
	return fileutil.SiblingPath(inputPath, OutputPrefix)
}

// Render returns the annotated file content for records.
func Render(records []*roster.Record, withPerformance bool) []byte {
	var b strings.Builder
	b.WriteString(roster.Header(withPerformance))
	b.WriteString("\n")
	for _, rec := range records {
		b.WriteString(rec.Line(withPerformance))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func (v *Validator) write(ctx context.Context, r *run) error {
	v.advance(r, PassWrite, markConsistency, "Writing the validated file...")

	valid := 0
	for _, rec := range r.records {
		if rec.IsValid() {
			valid++
		}
	}
	r.result.ValidRecords = valid

	path := OutputPath(r.result.InputFile)
	if err := fileutil.WriteFileAtomic(path, Render(r.records, v.cfg.Performance.Enabled), 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	r.result.ResultFile = path
	r.result.Fetches = r.env.fetchStats()
	r.result.Duration = v.now().UTC().Sub(r.result.StartedAt)

	if v.cfg.Output.SQLiteExport {
		exportPath := fileutil.ReplaceExt(path, ".db")
		if err := exportRecords(ctx, exportPath, r.result, r.records); err != nil {
			return fmt.Errorf("sqlite export: %w", err)
		}
		r.result.ExportFile = exportPath
	}
	if target := v.cfg.Output.MetricsTextfile; target != "" {
		if err := writeMetrics(target, r.result); err != nil {
			// Metrics are a side artifact; the run itself succeeded.
			logging.WarnWithContext(r.logger, "metrics textfile not written", "metrics_write_failed",
				logging.String("path", target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check output.metrics_textfile"))
		} else {
			r.result.MetricsFile = target
		}
	}

	r.logger.Info("validation finished",
		logging.String("result_file", path),
		logging.Int("total", r.result.TotalRecords),
		logging.Int("valid", r.result.ValidRecords),
		logging.Int64("network_fetches", r.result.Fetches.NetworkFetches),
		logging.Int64("cache_hits", r.result.Fetches.CacheHits),
		logging.Duration("elapsed", r.result.Duration))
	v.advance(r, PassWrite, markWrite, fmt.Sprintf("Validated file wrote on '%s'.", path))
	return nil
}
