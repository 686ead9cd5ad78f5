package model

import "time"

// HashValue is a SHA-256 hash stored as a hex string.
type HashValue string

// GenesisHash is the PrevHash of the first journal record.
const GenesisHash HashValue = "0000000000000000000000000000000000000000000000000000000000000000"

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

// RunRecord is a single line in the run journal (JSONL format). The
// journal fills ID, Timestamp, PrevHash and RecordHash on append;
// callers provide the rest.
//
// RecordHash is the SHA-256 of the record's canonical JSON with
// RecordHash itself empty. PrevHash repeats the previous record's
// RecordHash, or GenesisHash for the first record.
type RunRecord struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	Job         string        `json:"job"`
	CommandLine []string      `json:"command_line"`
	Outcome     Outcome       `json:"outcome"`
	ExitCode    int           `json:"exit_code"`
	Duration    time.Duration `json:"duration"` // nanoseconds
	PrevHash    HashValue     `json:"prev_hash"`
	RecordHash  HashValue     `json:"record_hash"`
}
