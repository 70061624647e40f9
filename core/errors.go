package core

import (
	"errors"
	"fmt"
)

var (
	ErrQueryExecutionFailed = errors.New("query execution failed")
	ErrUnsupportedFieldType = errors.New("unsupported field type")
	ErrBatchExecutionFailed = errors.New("batch execution failed")
	ErrEmptyIteration       = errors.New("no batches left")

	ErrInvalidBatchSize   = errors.New("batch size must be greater than zero")
	ErrInvalidWorkerCount = errors.New("worker count must be greater than zero")
	ErrSourceReused       = errors.New("query source already executed")
)

// QueryError is returned when acquiring a connection, executing a query or
// reading its rows fails.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %q: %s", ErrQueryExecutionFailed, e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQueryExecutionFailed }

// UnsupportedFieldTypeError is returned when a column reports a type name
// that has no entry in the field type table.
type UnsupportedFieldTypeError struct {
	TypeName string
}

func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedFieldType, e.TypeName)
}

func (e *UnsupportedFieldTypeError) Is(target error) bool { return target == ErrUnsupportedFieldType }

// BatchError aborts a whole run. Batch and Position locate the first item
// that failed; Position is the index within the batch.
type BatchError struct {
	Batch    int
	Position int
	Err      error
}

func (e *BatchError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%s: batch %d: %s", ErrBatchExecutionFailed, e.Batch, e.Err)
	}
	return fmt.Sprintf("%s: batch %d, item %d: %s", ErrBatchExecutionFailed, e.Batch, e.Position, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

func (e *BatchError) Is(target error) bool { return target == ErrBatchExecutionFailed }
