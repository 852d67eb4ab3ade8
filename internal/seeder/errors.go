package seeder

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/flashseed/internal/jsonstream"
)

// DecodeError is returned when a seed file is not a JSON array of objects.
type DecodeError = jsonstream.DecodeError

// ConfigurationError reports a job whose options cannot be honoured, such as
// primary key scrubbing without a key name.
type ConfigurationError struct {
	Table  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid seed job for %s: %s", e.Table, e.Reason)
}

type SourceNotFoundError struct {
	Table    string
	Filename string
	Err      error
}

func (e *SourceNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("seed file %s for table %s: %v", e.Filename, e.Table, e.Err)
	}
	return fmt.Sprintf("seed file %s for table %s not found", e.Filename, e.Table)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// StorageError wraps a failure of the persistence layer.
type StorageError struct {
	Op    string // truncate, insert, fk-disable, fk-enable
	Table string
	Err   error
}

func (e *StorageError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

type HookError struct {
	Stage HookStage
	Table string
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook for %s failed: %v", e.Stage, e.Table, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }
