package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"rostercheck/internal/config"
	"rostercheck/internal/consistency"
	"rostercheck/internal/fetcher"
	"rostercheck/internal/logging"
	"rostercheck/internal/performance"
	"rostercheck/internal/resolve"
	"rostercheck/internal/roster"
)

// ErrNoRecords reports an input file without a single data row.
var ErrNoRecords = errors.New("pipeline: no records found")

// NoRecordsStatus is the status published when a run ends with ErrNoRecords.
const NoRecordsStatus = "No records were found!"

// Option customizes a Validator.
type Option func(*Validator)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// WithHTTPClient replaces the HTTP client used for API requests.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Validator) { v.httpClient = client }
}

// WithSleep replaces the sleep used by rate limiting and retries.
func WithSleep(sleep fetcher.SleepFunc) Option {
	return func(v *Validator) { v.sleep = sleep }
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// Validator runs validation passes over roster files. A Validator runs one
// file at a time.
type Validator struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpClient *http.Client
	sleep      fetcher.SleepFunc
	now        func() time.Time
	progress   *Progress
}

// New creates a Validator for cfg.
func New(cfg *config.Config, opts ...Option) (*Validator, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config is required")
	}
	v := &Validator{cfg: cfg, now: time.Now, progress: newProgress()}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = logging.NewComponentLogger(v.logger, "pipeline")
	return v, nil
}

// Progress exposes the run status.
func (v *Validator) Progress() *Progress {
	return v.progress
}

// run carries the state of one Run call.
type run struct {
	id      string
	logger  *slog.Logger
	env     *environment
	records []*roster.Record
	result  Result
}

// Run validates inputPath and writes the annotated file next to it. The
// returned error is the fatal error that ended the run; it is also published
// as the terminal status.
func (v *Validator) Run(ctx context.Context, inputPath string) (Result, error) {
	v.progress.reset()
	r := &run{id: uuid.NewString()}
	ctx = logging.WithRunID(ctx, r.id)
	r.logger = v.logger.With(logging.String(logging.FieldRunID, r.id))
	r.result = Result{RunID: r.id, InputFile: inputPath, StartedAt: v.now().UTC()}

	env, err := newEnvironment(v.cfg, r.logger, v.httpClient, v.sleep)
	if err != nil {
		return r.result, v.abort(r, PassParse, err)
	}
	r.env = env

	r.logger.Info("validation started",
		logging.String("input", inputPath),
		logging.Bool("performance", v.cfg.Performance.Enabled),
		logging.Int("parallelism", v.cfg.Resolve.Parallelism))

	if err := v.parse(r, inputPath); err != nil {
		return r.result, v.abort(r, PassParse, err)
	}
	v.validateFields(r)
	if err := v.resolveClans(ctx, r); err != nil {
		return r.result, v.abort(r, PassClans, err)
	}

	var ref *performance.Reference
	if v.cfg.Performance.Enabled {
		if ref, err = v.loadReference(ctx, r); err != nil {
			return r.result, v.abort(r, PassReference, err)
		}
	}
	if err := v.resolvePlayers(ctx, r, ref); err != nil {
		return r.result, v.abort(r, PassPlayers, err)
	}
	v.checkConsistency(r)
	if err := v.write(ctx, r); err != nil {
		return r.result, v.abort(r, PassWrite, err)
	}
	return r.result, nil
}

func (v *Validator) abort(r *run, pass string, err error) error {
	r.result.Duration = v.now().UTC().Sub(r.result.StartedAt)
	logging.ErrorWithContext(r.logger, "validation aborted", "run_failed",
		logging.String(logging.FieldPass, pass),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the input file and the output directory"))
	status := ""
	if errors.Is(err, ErrNoRecords) {
		status = NoRecordsStatus
	}
	v.progress.fail(err, status)
	return err
}

func (v *Validator) advance(r *run, pass string, fraction float64, status string) {
	if v.progress.update(pass, fraction, status) {
		r.logger.Info(status,
			logging.String(logging.FieldPass, pass),
			logging.Float64("progress", fraction))
	}
}

// passProgress maps a pass-local done/total onto the [from, to] range.
func (v *Validator) passProgress(r *run, pass string, from, to float64, status string) resolve.ProgressFunc {
	return func(done, total int) {
		if total <= 0 {
			return
		}
		v.advance(r, pass, from+(to-from)*float64(done)/float64(total), status)
	}
}

func (v *Validator) parse(r *run, inputPath string) error {
	v.advance(r, PassParse, 0, fmt.Sprintf("Reading '%s'...", inputPath))
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	parsed, err := roster.Parse(f)
	if err != nil {
		return err
	}
	for _, d := range parsed.Dropped {
		logging.WarnWithContext(r.logger, "line dropped", "line_dropped",
			logging.Int(logging.FieldLine, d.Line),
			logging.Int("fields", d.Fields),
			logging.Int("expected", roster.FieldCount),
			logging.String(logging.FieldImpact, "row left out of the output"),
			logging.String(logging.FieldErrorHint, "check the separators of the row"))
	}
	r.records = parsed.Records
	r.result.DroppedLines = len(parsed.Dropped)
	r.result.TotalRecords = len(parsed.Records)
	if len(parsed.Records) == 0 {
		return ErrNoRecords
	}
	r.result.PassCounts = append(r.result.PassCounts, PassCount{Pass: PassParse, Invalid: len(parsed.Dropped)})
	v.advance(r, PassParse, markParse, fmt.Sprintf("Read %d records.", len(parsed.Records)))
	return nil
}

func (v *Validator) validateFields(r *run) {
	invalid := 0
	for _, rec := range r.records {
		wasValid := rec.IsValid()
		rec.Validate()
		if wasValid && !rec.IsValid() {
			invalid++
			logging.WarnWithContext(r.logger, "line is invalid", "line_invalid",
				logging.String(logging.FieldLine, rec.Label()),
				logging.String("reasons", rec.Joined()))
		}
	}
	r.result.PassCounts = append(r.result.PassCounts, PassCount{Pass: PassValidate, Invalid: invalid})
	v.advance(r, PassValidate, markValidate, fmt.Sprintf("%d records failed the basic validations.", invalid))
}

func (v *Validator) resolveClans(ctx context.Context, r *run) error {
	client, err := r.env.newClient()
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}
	resolver := resolve.NewClanResolver(client, r.logger)
	invalid := resolver.Resolve(logging.WithPass(ctx, PassClans), r.records,
		v.passProgress(r, PassClans, markValidate, markClans, "Resolving clans..."))
	r.result.PassCounts = append(r.result.PassCounts, PassCount{Pass: PassClans, Invalid: invalid})
	v.advance(r, PassClans, markClans, fmt.Sprintf("%d records with unknown clans.", invalid))
	return nil
}

func (v *Validator) loadReference(ctx context.Context, r *run) (*performance.Reference, error) {
	v.advance(r, PassReference, markClans, "Loading reference data...")
	client, err := r.env.newClient()
	if err != nil {
		return nil, err
	}
	ref, err := performance.LoadReference(logging.WithPass(ctx, PassReference), client)
	if err != nil {
		return nil, err
	}
	r.logger.Info("reference data loaded",
		logging.Int("vehicles", len(ref.Vehicles)),
		logging.Int("expected_values", len(ref.Expected)))
	v.advance(r, PassReference, markReference, "Reference data loaded.")
	return ref, nil
}

func (v *Validator) resolvePlayers(ctx context.Context, r *run, ref *performance.Reference) error {
	pool, err := r.env.newClientPool(v.cfg.Resolve.PoolSize)
	if err != nil {
		return err
	}
	resolver, err := resolve.NewPlayerResolver(resolve.PlayerOptions{
		Pool:        pool,
		Parallelism: v.cfg.Resolve.Parallelism,
		Reference:   ref,
		Logger:      r.logger,
	})
	if err != nil {
		return err
	}
	from := markClans
	if ref != nil {
		from = markReference
	}
	invalid, err := resolver.Resolve(logging.WithPass(ctx, PassPlayers), r.records,
		v.passProgress(r, PassPlayers, from, markPlayers, "Resolving players..."))
	if err != nil {
		return err
	}
	r.result.PassCounts = append(r.result.PassCounts, PassCount{Pass: PassPlayers, Invalid: invalid})
	v.advance(r, PassPlayers, markPlayers, fmt.Sprintf("%d records with unknown players.", invalid))
	return nil
}

func (v *Validator) checkConsistency(r *run) {
	invalid := consistency.Check(r.records, r.logger)
	r.result.PassCounts = append(r.result.PassCounts, PassCount{Pass: PassConsistency, Invalid: invalid})
	v.advance(r, PassConsistency, markConsistency, fmt.Sprintf("%d records with clan conflicts.", invalid))
}
