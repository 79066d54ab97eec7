package domain

import "time"

// Stage enumerates the per-document pipeline milestones.
type Stage string

const (
	StageParsing     Stage = "parsing"
	StageExtracting  Stage = "extracting"
	StageAssembling  Stage = "assembling"
	StageMeasuring   Stage = "measuring"
	StageClassifying Stage = "classifying"
	StagePersisting  Stage = "persisting"
	StageSkipping    Stage = "skipping"
	StageFinalizing  Stage = "finalizing"
)

// OutcomeKind is the terminal state of one document.
type OutcomeKind string

const (
	OutcomeAccepted OutcomeKind = "accepted"
	OutcomeRejected OutcomeKind = "rejected"
	OutcomeFailed   OutcomeKind = "failed"
)

// Bucket is the file-lifecycle destination of a document.
type Bucket string

const (
	BucketProcessed Bucket = "processed"
	BucketIgnored   Bucket = "ignored"
	BucketErroneous Bucket = "erroneous"
)

// Outcome is the result of processing one document.
type Outcome struct {
	Kind    OutcomeKind
	Record  Record
	Reasons []Reason
	Err     error

	// Duplicate marks an accepted article whose checksum was already archived.
	Duplicate bool
}

// Bucket maps the outcome to its destination directory.
func (o Outcome) Bucket() Bucket {
	switch o.Kind {
	case OutcomeAccepted:
		return BucketProcessed
	case OutcomeRejected:
		return BucketIgnored
	default:
		return BucketErroneous
	}
}

// RunStatus summarises how a whole run ended.
type RunStatus string

const (
	RunStatusOK          RunStatus = "ok"
	RunStatusWithErrors  RunStatus = "completed_with_errors"
	RunStatusNoDocuments RunStatus = "no_documents"
)

// RunSummary aggregates per-document outcomes of one run.
type RunSummary struct {
	RunID    string
	Total    int
	Accepted int
	Rejected int
	Failed   int
	Started  time.Time
	Duration time.Duration
}

// Add counts one outcome.
func (s *RunSummary) Add(o Outcome) {
	s.Total++
	switch o.Kind {
	case OutcomeAccepted:
		s.Accepted++
	case OutcomeRejected:
		s.Rejected++
	default:
		s.Failed++
	}
}

// Status derives the final run status.
func (s RunSummary) Status() RunStatus {
	switch {
	case s.Total == 0:
		return RunStatusNoDocuments
	case s.Failed > 0:
		return RunStatusWithErrors
	default:
		return RunStatusOK
	}
}

// Stats is the archive statistics report.
type Stats struct {
	Articles     int64
	AvgWordCount float64
	TotalTokens  int64
}
