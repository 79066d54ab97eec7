package domain

import (
	"errors"
	"fmt"
)

// ErrNotAccepted is returned when a record is requested for a rejected article.
var ErrNotAccepted = errors.New("article not accepted")

// ErrAlreadyStored is returned by a repository that already holds a record
// with the same checksum.
var ErrAlreadyStored = errors.New("article already stored")

// ParseError reports malformed markup.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractionError reports a missing or unusable mandatory element.
type ExtractionError struct {
	Field  string
	Reason string
}

func (e *ExtractionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("extract %s: element missing", e.Field)
	}
	return fmt.Sprintf("extract %s: %s", e.Field, e.Reason)
}

// StoreError reports an insert or commit failure in the persistence sink.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// StageError ties a per-document failure to the pipeline stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
