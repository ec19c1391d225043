package model

import "time"

// LoadStatus is the dataset lifecycle state exposed to clients.
type LoadStatus string

const (
	StatusLoading LoadStatus = "loading"
	StatusReady   LoadStatus = "ready"
)

// Load log statuses as persisted by the store.
const (
	LoadRunning   = "running"
	LoadSucceeded = "succeeded"
	LoadFailed    = "failed"
)

// NormalizeStats counts what happened to each raw row during normalization.
type NormalizeStats struct {
	Raw            int `json:"raw"`
	Kept           int `json:"kept"`
	DroppedMissing int `json:"droppedMissing"`
	DroppedYear    int `json:"droppedYear"`
	RangeDefaulted int `json:"rangeDefaulted"`
}

// Dropped is the number of rows excluded from the record set.
func (s NormalizeStats) Dropped() int {
	return s.DroppedMissing + s.DroppedYear
}

// LoadInfo describes one dataset load attempt.
type LoadInfo struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Checksum   string         `json:"checksum,omitempty"`
	Status     string         `json:"status"`
	Stats      NormalizeStats `json:"stats"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt,omitempty"`
}
