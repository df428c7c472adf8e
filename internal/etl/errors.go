package etl

import "fmt"

// FailureKind labels one entry in a run's failure list. Extraction and
// validation failures are per-item and never abort a batch; mapping and
// storage failures are batch-fatal.
type FailureKind string

const (
	KindExtraction FailureKind = "extraction"
	KindValidation FailureKind = "validation"
	KindMapping    FailureKind = "mapping"
	KindStorage    FailureKind = "storage"
)

// ValidationError reports a malformed or missing required field in one raw
// record. It is deterministic for the same input, so retrying is pointless.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// MappingError is a reference-entity resolution or association write that
// violated a constraint. It indicates a logic or schema defect, so it aborts
// the whole batch.
type MappingError struct {
	Detail string
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping error: %s: %v", e.Detail, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

// StorageError is a transaction that could not complete or commit. The whole
// batch rolls back; re-running the same batch is safe.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v", e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
