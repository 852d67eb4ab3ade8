package seeder

import (
	"github.com/Lumos-Labs-HQ/flashseed/internal/jsonstream"
	"github.com/Lumos-Labs-HQ/flashseed/internal/policy"
)

// Scrub removes the primary key column from rec when the job asks for it.
// Records are modified in place. Scrubbing a record without the key is a no-op.
func Scrub(job JobSpec, rec jsonstream.Record) (jsonstream.Record, error) {
	if err := checkScrub(job); err != nil {
		return nil, err
	}
	if job.Options.Has(policy.SkipPrimaryKey) {
		delete(rec, job.PrimaryKey)
	}
	return rec, nil
}

func checkScrub(job JobSpec) error {
	if job.Options.Has(policy.SkipPrimaryKey) && job.PrimaryKey == "" {
		return &ConfigurationError{Table: job.Table, Reason: "primary key scrubbing requested without a key name"}
	}
	return nil
}
