package pipeline

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"rostercheck/internal/roster"
)

//go:embed export_schema.sql
var exportSchemaSQL string

// exportRecords writes a fresh SQLite database with the run and its rows.
// An existing file at path is replaced; the export is never read back.
func exportRecords(ctx context.Context, path string, result Result, records []*roster.Record) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove previous export: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, exportSchemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, input_file, started_at, duration_ms, total_records, valid_records, dropped_lines)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.InputFile,
		result.StartedAt.Format(time.RFC3339Nano),
		result.Duration.Milliseconds(),
		result.TotalRecords,
		result.ValidRecords,
		result.DroppedLines,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, pc := range result.PassCounts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pass_counts (run_id, pass, invalid) VALUES (?, ?, ?)`,
			result.RunID, pc.Pass, pc.Invalid,
		); err != nil {
			return fmt.Errorf("insert pass count %s: %w", pc.Pass, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (
            run_id, line, team_name, gamer_tag, clan_tag, clan_url, preferred_server, alternate_server,
            contact_email, is_valid, invalid_reasons, clan_id, player_id, current_clan_id, current_clan_tag,
            player_moment, battles, win_rate, avg_tier, wn8
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var (
			playerID, currentClanID, battles sql.NullInt64
			currentClanTag, moment           sql.NullString
			winRate, avgTier, wn8            sql.NullFloat64
		)
		if p := rec.Player; p != nil {
			playerID = sql.NullInt64{Int64: p.ID, Valid: true}
			currentClanID = nullInt(p.CurrentClanID)
			currentClanTag = sql.NullString{String: p.CurrentClanTag, Valid: true}
			moment = sql.NullString{String: p.Moment.UTC().Format(roster.MomentLayout), Valid: true}
		}
		if perf := rec.Performance; perf != nil {
			battles = sql.NullInt64{Int64: perf.Battles, Valid: true}
			winRate = sql.NullFloat64{Float64: perf.WinRate, Valid: true}
			avgTier = sql.NullFloat64{Float64: perf.AvgTier, Valid: true}
			wn8 = sql.NullFloat64{Float64: perf.WN8, Valid: true}
		}
		contact := rec.ContactAddress
		if contact == "" {
			contact = rec.ContactEmail
		}
		if _, err := stmt.ExecContext(ctx,
			result.RunID, rec.OriginalLine, rec.TeamName, rec.GamerTag, rec.ClanTag, rec.ClanURL,
			rec.PreferredLocation.String(), rec.AlternateLocation.String(), contact,
			rec.IsValid(), rec.Joined(), nullInt(rec.ClanID), playerID, currentClanID, currentClanTag,
			moment, battles, winRate, avgTier, wn8,
		); err != nil {
			return fmt.Errorf("insert record line %d: %w", rec.OriginalLine, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
