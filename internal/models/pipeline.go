package models

import "time"

// ItemState is the position of one item in the ingestion state machine
type ItemState string

const (
	StateQueued      ItemState = "queued"
	StateDownloading ItemState = "downloading"
	StateTranscoding ItemState = "transcoding"
	StatePublishing  ItemState = "publishing"
	StatePersisting  ItemState = "persisting"
	StateDone        ItemState = "done"
	StateFailed      ItemState = "failed"
)

// IsTerminal reports whether no further transition is possible
func (s ItemState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// ItemOutcome is the result of running one catalog item through the pipeline
type ItemOutcome struct {
	ItemID      string         `json:"itemId"`
	Title       string         `json:"title"`
	State       ItemState      `json:"state"`
	FailedStage ItemState      `json:"failedStage,omitempty"`
	Error       string         `json:"error,omitempty"`
	RecordID    string         `json:"recordId,omitempty"`
	Record      *ContentRecord `json:"record,omitempty"`
}

// BatchResult is the per-item outcome list of one batch invocation
type BatchResult struct {
	RunID      string        `json:"runId"`
	Query      string        `json:"query,omitempty"`
	Outcomes   []ItemOutcome `json:"outcomes"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
}
