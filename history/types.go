// Package history persists the bounded rename log and aggregate counters in
// SQLite. Every handled download ends here exactly once, whatever its
// outcome, so the log is the single audit trail for the pipeline.
package history

// Outcome classifies how a rename attempt ended.
type Outcome string

const (
	// OutcomeSuccess means a new filename was produced
	OutcomeSuccess Outcome = "success"

	// OutcomeFailure means the pipeline errored and the original name stands
	OutcomeFailure Outcome = "failure"

	// OutcomeSkipped means the file was deliberately left untouched
	OutcomeSkipped Outcome = "skipped"
)

// MaxEntries is the history retention cap. Recording entry N+1 evicts the
// oldest entry in the same transaction.
const MaxEntries = 100

// Entry is one recorded rename attempt.
type Entry struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"` // RFC 3339
	Outcome   Outcome `json:"outcome"`
	Original  string  `json:"originalFilename"`
	Renamed   string  `json:"newFilename,omitempty"`
	Caption   string  `json:"caption,omitempty"`
	Error     string  `json:"error,omitempty"`
	FileType  string  `json:"fileType"` // "image" or "pdf"
	Source    string  `json:"source,omitempty"`
}

// Stats are the aggregate counters, maintained alongside the log so they
// survive eviction of the entries they counted.
type Stats struct {
	TotalRenames int64            `json:"totalRenames"`
	Successful   int64            `json:"successful"`
	Failed       int64            `json:"failed"`
	Skipped      int64            `json:"skipped"`
	BySource     map[string]int64 `json:"bySource"`
}
