package domain

import "time"

// ExtractedArticle is the raw article pulled out of one NewsML document.
type ExtractedArticle struct {
	Title     string
	Byline    string
	HasByline bool

	Body                string
	TableContained      bool
	ParagraphCount      int
	FirstParagraphChars int

	PublishedAt time.Time
	Language    string

	Wires        []string
	Subjects     []string
	Industries   []string
	Countries    []string
	CompanyIDs   []string
	CompanyNames []string
}

// PublishDate formats the publication day as stored downstream.
func (a ExtractedArticle) PublishDate() string {
	return a.PublishedAt.Format("2006-01-02")
}

// PublishTime formats the publication time of day.
func (a ExtractedArticle) PublishTime() string {
	return a.PublishedAt.Format("15:04:05")
}

// AssembledText holds the canonical text variants derived from an article.
type AssembledText struct {
	Body         string
	Complete     string
	Authors      string
	CopyrightAWP bool
}

// Metrics captures size measurements over AssembledText.Complete.
type Metrics struct {
	WordCount  int
	TokenCount int
}

// Reason names an editorial rule that rejected an article.
type Reason string

const (
	ReasonRepetition      Reason = "Repetition"
	ReasonFlash           Reason = "Flash"
	ReasonTabularTitle    Reason = "Tabular title"
	ReasonTableDominant   Reason = "Table-dominant body"
	ReasonNetAssetValue   Reason = "Net-asset-value notice"
	ReasonAdministrative  Reason = "Administrative filler"
	ReasonCalendar        Reason = "Calendar notice"
	ReasonWireEligibility Reason = "Wire eligibility"
)

// Verdict is the classifier decision. An empty reason list means accept.
type Verdict struct {
	Reasons []Reason
}

// Accept reports whether no rule fired.
func (v Verdict) Accept() bool {
	return len(v.Reasons) == 0
}

// Has reports whether the given rule fired.
func (v Verdict) Has(r Reason) bool {
	for _, got := range v.Reasons {
		if got == r {
			return true
		}
	}
	return false
}

// Strings returns the reasons as plain strings for logging.
func (v Verdict) Strings() []string {
	out := make([]string, len(v.Reasons))
	for i, r := range v.Reasons {
		out[i] = string(r)
	}
	return out
}

// Record is the flattened, persistable form of an accepted article.
type Record struct {
	Title        string
	Byline       string
	Authors      string
	Body         string
	Complete     string
	PublishDate  string
	PublishTime  string
	Language     string
	Wires        string
	Subjects     string
	Industries   string
	Countries    string
	CompanyIDs   string
	CompanyNames string

	WordCount      int
	TokenCount     int
	CopyrightAWP   bool
	TableContained bool
	ParagraphCount int

	SourceFile string
	Checksum   string

	// Escaped is set when free-text fields carry doubled single quotes.
	Escaped bool
}
