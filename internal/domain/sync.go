package domain

import "time"

const (
	// MaxSampledIDs caps the per-category id samples stored in sync state.
	MaxSampledIDs = 50

	// MaxHistorySampledIDs caps the per-category id samples in a history entry.
	MaxHistorySampledIDs = 10

	// MaxHistoryEntries caps the newest-first history log.
	MaxHistoryEntries = 90
)

// DeltaSummary records how a run's product set compared to the previous one.
// Sampled id lists are capped; counts are authoritative.
type DeltaSummary struct {
	New        int      `json:"new"`
	Removed    int      `json:"removed"`
	Changed    int      `json:"changed"`
	Unchanged  int      `json:"unchanged"`
	NewIDs     []string `json:"newIds,omitempty"`
	RemovedIDs []string `json:"removedIds,omitempty"`
	ChangedIDs []string `json:"changedIds,omitempty"`
}

// SyncState is the durable record of the most recent run. ProductHash is
// carried verbatim into the next run's delta computation.
type SyncState struct {
	LastSync     *time.Time        `json:"lastSync"`
	ProductCount int               `json:"productCount"`
	ProductHash  map[string]string `json:"productHash"`
	Delta        DeltaSummary      `json:"delta"`
}

// EmptySyncState is the baseline used when no previous run exists.
func EmptySyncState() SyncState {
	return SyncState{ProductHash: map[string]string{}}
}

// HistoryEntry is one audit record in the newest-first history log. Entries
// are only written for runs that produced a non-empty delta.
type HistoryEntry struct {
	Timestamp    time.Time    `json:"timestamp"`
	RunID        string       `json:"runId"`
	ProductCount int          `json:"productCount"`
	Delta        DeltaSummary `json:"delta"`
}

// SampleIDs returns at most n ids, preserving order.
func SampleIDs(ids []string, n int) []string {
	if len(ids) <= n {
		return ids
	}
	return ids[:n]
}
