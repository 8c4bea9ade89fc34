package pipeline

import (
	"slices"
	"sync"

	"rostercheck/internal/logging"
)

// Pass names, in execution order.
const (
	PassParse       = "parse"
	PassValidate    = "validate"
	PassClans       = "clans"
	PassReference   = "reference"
	PassPlayers     = "players"
	PassConsistency = "consistency"
	PassWrite       = "write"
)

// Progress marks reached when each pass completes.
const (
	markParse       = 0.10
	markValidate    = 0.20
	markClans       = 0.45
	markReference   = 0.50
	markPlayers     = 0.90
	markConsistency = 0.95
	markWrite       = 1.0
)

// Snapshot is a point-in-time copy of the run status.
type Snapshot struct {
	Fraction float64
	Pass     string
	Status   string
	// Err is the fatal error that ended the run, if any.
	Err error
}

// Done reports whether the run reached a terminal state.
func (s Snapshot) Done() bool {
	return s.Err != nil || s.Fraction >= 1
}

// Progress is the observable status of a run. Updates from workers are
// advisory; the fraction never moves backwards within a run.
type Progress struct {
	// notify serializes deliveries so observers see updates in order.
	notify    sync.Mutex
	mu        sync.Mutex
	snap      Snapshot
	observers []func(Snapshot)
	sampler   *logging.ProgressSampler
}

func newProgress() *Progress {
	return &Progress{sampler: logging.NewProgressSampler(0.05)}
}

// Snapshot returns the current status.
func (p *Progress) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// OnProgress registers fn to receive every update. fn runs on the goroutine
// that made the update, one call at a time, and must not block.
func (p *Progress) OnProgress(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	p.observers = append(p.observers, fn)
	p.mu.Unlock()
}

func (p *Progress) reset() {
	p.mu.Lock()
	p.snap = Snapshot{}
	p.sampler.Reset()
	p.mu.Unlock()
}

// update publishes a new status and reports whether it is worth logging.
func (p *Progress) update(pass string, fraction float64, status string) bool {
	p.notify.Lock()
	defer p.notify.Unlock()
	p.mu.Lock()
	if fraction < p.snap.Fraction {
		fraction = p.snap.Fraction
	}
	p.snap.Fraction = fraction
	p.snap.Pass = pass
	if status != "" {
		p.snap.Status = status
	}
	snap := p.snap
	observers := slices.Clone(p.observers)
	shouldLog := p.sampler.ShouldLog(fraction, pass)
	p.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
	return shouldLog
}

// fail records the terminal error. status replaces the current status; when
// blank the error message is used.
func (p *Progress) fail(err error, status string) {
	p.notify.Lock()
	defer p.notify.Unlock()
	p.mu.Lock()
	p.snap.Err = err
	if status == "" {
		status = err.Error()
	}
	p.snap.Status = status
	snap := p.snap
	observers := slices.Clone(p.observers)
	p.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
