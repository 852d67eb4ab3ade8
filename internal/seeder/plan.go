package seeder

import "github.com/Lumos-Labs-HQ/flashseed/internal/policy"

// JobPlan is what a run would do with one job, decided from its options and
// the run options alone.
type JobPlan struct {
	Table     string
	Filename  string
	Truncate  bool
	Seed      bool
	DisableFK bool
	// ChunkLimit is the number of chunks the seed phase would insert, or -1
	// when the whole file is imported.
	ChunkLimit int
}

// Plan evaluates every queued job without touching the store or the source.
func (e *Engine) Plan() []JobPlan {
	plans := make([]JobPlan, len(e.queue))
	for i, job := range e.queue {
		plans[i] = PlanJob(job, e.opts)
	}
	return plans
}

func PlanJob(job JobSpec, opts Options) JobPlan {
	p := JobPlan{
		Table:      job.Table,
		Filename:   job.Filename,
		Truncate:   truncates(job, opts.Environment),
		Seed:       seeds(job, opts.Environment),
		ChunkLimit: -1,
	}
	if p.Seed {
		p.DisableFK = opts.DisableAllFKConstraints || job.Options.Has(policy.DisableFKConstraints)
		p.ChunkLimit = chunkLimit(job, opts)
	}
	return p
}

func truncates(job JobSpec, env policy.Environment) bool {
	return job.Options.Has(policy.TruncateTable) &&
		policy.PassesEnvironmentCheck(job.Options, policy.NoTruncateInProduction, env)
}

func seeds(job JobSpec, env policy.Environment) bool {
	return job.Options.Has(policy.ImportData) &&
		policy.PassesEnvironmentCheck(job.Options, policy.NoSeedInProduction, env)
}

// chunkLimit returns -1 for a full import, otherwise the quick seed cutoff.
func chunkLimit(job JobSpec, opts Options) int {
	if !opts.QuickSeed || job.Options.Has(policy.AlwaysFullSeed) {
		return -1
	}
	return max(opts.NumQuickRecords, 0)
}
