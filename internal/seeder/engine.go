package seeder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Lumos-Labs-HQ/flashseed/internal/jsonstream"
	"github.com/Lumos-Labs-HQ/flashseed/internal/policy"
	"go.uber.org/zap"
)

const DefaultChunkSize = 1

// Store is the persistence layer a run writes to.
type Store interface {
	Truncate(ctx context.Context, table string) error
	BulkInsert(ctx context.Context, table string, rows []jsonstream.Record) error
	SetForeignKeyConstraints(ctx context.Context, enabled bool) error
}

// Source gives access to the seed files of the storage folder.
type Source interface {
	Exists(name string) bool
	Open(name string) (io.ReadCloser, error)
}

type Options struct {
	Environment             policy.Environment
	ChunkSize               int
	QuickSeed               bool
	NumQuickRecords         int
	DisableAllFKConstraints bool
}

type JobResult struct {
	Table    string
	Truncate Status
	Seed     Status
	Chunks   int
	Records  int
}

type RunResult struct {
	Deferred bool
	Jobs     []JobResult
	Elapsed  time.Duration
}

// Engine owns the seeding queue for a single run.
type Engine struct {
	store    Store
	source   Source
	reporter Reporter
	logger   *zap.SugaredLogger
	opts     Options
	queue    []JobSpec
	now      func() time.Time
}

func New(store Store, source Source, reporter Reporter, logger *zap.SugaredLogger, opts Options) *Engine {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Engine{
		store:    store,
		source:   source,
		reporter: reporter,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// Register appends a job to the queue. Jobs run in registration order.
func (e *Engine) Register(job JobSpec) error {
	job, err := job.withDefaults()
	if err != nil {
		return err
	}
	e.queue = append(e.queue, job)
	return nil
}

func (e *Engine) RegisterEntity(entity string, options policy.Flags, pre, post Hook) error {
	return e.Register(NewJob(entity, options, pre, post))
}

func (e *Engine) Jobs() []JobSpec {
	jobs := make([]JobSpec, len(e.queue))
	copy(jobs, e.queue)
	return jobs
}

// runContext carries state shared by the phases of one run.
type runContext struct {
	fkDisabled bool
}

// disableForeignKeys turns constraints off and returns the matching release.
// The release must run exactly once, whatever the outcome of the guarded work.
func (rc *runContext) disableForeignKeys(ctx context.Context, store Store, table string) (func() error, error) {
	if err := store.SetForeignKeyConstraints(ctx, false); err != nil {
		return nil, &StorageError{Op: "fk-disable", Table: table, Err: err}
	}
	rc.fkDisabled = true
	return func() error {
		rc.fkDisabled = false
		if err := store.SetForeignKeyConstraints(ctx, true); err != nil {
			return &StorageError{Op: "fk-enable", Table: table, Err: err}
		}
		return nil
	}, nil
}

// Run processes the queue: for every job the truncate phase, then the seed
// phase. The first fatal error stops the run and is returned; later jobs are
// not touched. A deferred run does nothing.
func (e *Engine) Run(ctx context.Context, deferred bool) (result *RunResult, err error) {
	if deferred {
		e.logger.Debugw("seeding deferred", "jobs", len(e.queue))
		return &RunResult{Deferred: true}, nil
	}

	start := e.now()
	result = &RunResult{Jobs: make([]JobResult, len(e.queue))}
	for i, job := range e.queue {
		result.Jobs[i].Table = job.Table
	}

	e.reporter.Header()
	defer func() {
		result.Elapsed = e.now().Sub(start)
		e.reporter.Footer(result.Elapsed, err)
		if err != nil {
			e.logger.Errorw("seeding halted", "error", err)
		}
	}()

	rc := &runContext{}
	if e.opts.DisableAllFKConstraints {
		release, ferr := rc.disableForeignKeys(ctx, e.store, "")
		if ferr != nil {
			return result, ferr
		}
		defer func() {
			if rerr := release(); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}()
	}

	for i, job := range e.queue {
		if err := e.truncatePhase(ctx, job, &result.Jobs[i]); err != nil {
			return result, err
		}
		if err := e.seedPhase(ctx, rc, job, &result.Jobs[i]); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (e *Engine) truncatePhase(ctx context.Context, job JobSpec, res *JobResult) error {
	e.reporter.PhaseStart(PhaseTruncate, job.Table)
	e.logger.Debugw("phase start", "phase", PhaseTruncate, "table", job.Table, "options", job.Options.String())

	if !truncates(job, e.opts.Environment) {
		res.Truncate = e.outcome(StatusSkipped, "")
		return nil
	}

	if err := e.store.Truncate(ctx, job.Table); err != nil {
		res.Truncate = e.outcome(StatusFailure, fmt.Sprintf("Unable To Truncate Table - %v", err))
		return &StorageError{Op: "truncate", Table: job.Table, Err: err}
	}

	res.Truncate = e.outcome(StatusSuccess, "")
	return nil
}

func (e *Engine) seedPhase(ctx context.Context, rc *runContext, job JobSpec, res *JobResult) error {
	e.reporter.PhaseStart(PhaseSeed, job.Table)
	e.logger.Debugw("phase start", "phase", PhaseSeed, "table", job.Table, "file", job.Filename)

	if !seeds(job, e.opts.Environment) {
		res.Seed = e.outcome(StatusSkipped, "")
		return nil
	}

	if !e.source.Exists(job.Filename) {
		res.Seed = e.outcome(StatusFailure, "Unable To Locate JSON Data")
		return &SourceNotFoundError{Table: job.Table, Filename: job.Filename}
	}

	if err := checkScrub(job); err != nil {
		res.Seed = e.outcome(StatusFailure, "Unable To Find Key Name During Scrubbing")
		return err
	}

	if err := e.importJob(ctx, rc, job, res); err != nil {
		var hookErr *HookError
		if errors.As(err, &hookErr) {
			phase, label := PhasePreScript, "Pre"
			if hookErr.Stage == PostHook {
				phase, label = PhasePostScript, "Post"
			}
			e.reporter.PhaseStart(phase, job.Table)
			res.Seed = e.outcome(StatusFailure, fmt.Sprintf("Unable To Complete Callback (%s) - %v", label, hookErr.Err))
		} else {
			res.Seed = e.outcome(StatusFailure, fmt.Sprintf("Unable To Insert Data - %v", err))
		}
		return err
	}

	if job.PreHook != nil || job.PostHook != nil {
		e.reporter.PhaseStart(PhaseSeed, job.Table)
	}
	res.Seed = e.outcome(StatusSuccess, "")
	e.logger.Debugw("table seeded", "table", job.Table, "records", res.Records, "chunks", res.Chunks)
	return nil
}

// importJob streams, scrubs and inserts the records of job. Foreign keys
// disabled for the job are re-enabled before it returns, including on error.
func (e *Engine) importJob(ctx context.Context, rc *runContext, job JobSpec, res *JobResult) (err error) {
	if job.Options.Has(policy.DisableFKConstraints) && !rc.fkDisabled {
		release, ferr := rc.disableForeignKeys(ctx, e.store, job.Table)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if rerr := release(); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}()
	}

	records := e.records(job)

	if err := e.runHook(ctx, PreHook, job, records); err != nil {
		return err
	}

	limit := chunkLimit(job, e.opts)
	if limit != 0 {
		for chunk, err := range jsonstream.Chunks(records, e.opts.ChunkSize) {
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", job.Filename, err)
			}
			if err := e.store.BulkInsert(ctx, job.Table, chunk.Records); err != nil {
				return &StorageError{Op: "insert", Table: job.Table, Err: err}
			}
			res.Chunks++
			res.Records += len(chunk.Records)
			// Stop before the next chunk is decoded.
			if limit > 0 && res.Chunks == limit {
				break
			}
		}
	}

	return e.runHook(ctx, PostHook, job, records)
}

// records opens the seed file of job on every iteration and yields scrubbed
// records in file order.
func (e *Engine) records(job JobSpec) jsonstream.Records {
	return func(yield func(jsonstream.Record, error) bool) {
		rc, err := e.source.Open(job.Filename)
		if err != nil {
			yield(nil, &SourceNotFoundError{Table: job.Table, Filename: job.Filename, Err: err})
			return
		}
		defer rc.Close()

		for rec, err := range jsonstream.NewDecoder(rc).All() {
			if err != nil {
				yield(nil, err)
				return
			}
			rec, err = Scrub(job, rec)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (e *Engine) runHook(ctx context.Context, stage HookStage, job JobSpec, records jsonstream.Records) error {
	hook, phase := job.PreHook, PhasePreScript
	if stage == PostHook {
		hook, phase = job.PostHook, PhasePostScript
	}
	if hook == nil {
		return nil
	}

	e.reporter.PhaseStart(phase, job.Table)
	e.outcome(StatusStarted, "")

	if err := hook(ctx, records); err != nil {
		e.logger.Errorw("seed hook failed", "stage", stage, "table", job.Table, "error", err)
		return &HookError{Stage: stage, Table: job.Table, Err: err}
	}

	e.reporter.PhaseStart(phase, job.Table)
	e.outcome(StatusSuccess, "")
	return nil
}

func (e *Engine) outcome(status Status, detail string) Status {
	e.reporter.Outcome(status, detail)
	return status
}
