// Package journal records every run as a line in an append-only JSONL
// file. Records form a hash chain so after-the-fact edits are
// detectable.
package journal

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wardrobe-project/wardrobe/pkg/errclass"
	"github.com/wardrobe-project/wardrobe/pkg/jsonutil"
	"github.com/wardrobe-project/wardrobe/pkg/model"
)

// Journal appends run records to a JSONL file with a hash chain.
// Concurrent processes are already excluded by the run lock; the flock
// guards against journal access outside a run.
type Journal struct {
	path string
	mu   sync.Mutex
}

// New returns a journal backed by the given file. The file and its
// directory are created on first append.
func New(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Append fills rec's ID, Timestamp, PrevHash and RecordHash, then writes
// it as one line and fsyncs. The filled record is returned.
func (j *Journal) Append(rec model.RunRecord) (model.RunRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return rec, fmt.Errorf("create journal dir: %w", err)
	}

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return rec, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return rec, fmt.Errorf("flock journal: %w", err)
	}
	defer unlockFile(file)

	prev, err := lastRecordHash(file)
	if err != nil {
		return rec, fmt.Errorf("last record hash: %w", err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.PrevHash = prev
	rec.RecordHash = ""
	hash, err := recordHash(rec)
	if err != nil {
		return rec, err
	}
	rec.RecordHash = hash

	line, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("marshal record: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return rec, fmt.Errorf("write record: %w", err)
	}
	if err := file.Sync(); err != nil {
		return rec, fmt.Errorf("sync journal: %w", err)
	}

	return rec, nil
}

// Read returns the most recent limit records, oldest first; limit 0
// means all. A missing journal reads as empty. Malformed lines are
// skipped here; Verify reports them.
func (j *Journal) Read(limit int) ([]model.RunRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	var records []model.RunRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec model.RunRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// Verify walks the whole chain and recomputes every hash. It returns
// the number of intact records, or E_JOURNAL_CHAIN_BROKEN naming the
// first line that does not check out. A missing journal verifies as
// empty.
func (j *Journal) Verify() (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	count := 0
	expected := model.GenesisHash
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		var rec model.RunRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return count, errclass.ErrJournalChainBroken.WithMessagef(
				"line %d: malformed record", line)
		}
		if rec.PrevHash != expected {
			return count, errclass.ErrJournalChainBroken.WithMessagef(
				"line %d: prev_hash %q does not match %q", line, rec.PrevHash, expected)
		}
		stored := rec.RecordHash
		rec.RecordHash = ""
		hash, err := recordHash(rec)
		if err != nil {
			return count, err
		}
		if hash != stored {
			return count, errclass.ErrJournalChainBroken.WithMessagef(
				"line %d: record_hash does not match content", line)
		}
		expected = stored
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("scan journal: %w", err)
	}
	return count, nil
}

// Stats summarizes the journal.
type Stats struct {
	Runs          int                  `json:"runs"`
	Failed        int                  `json:"failed"`
	SuccessRatio  float64              `json:"success_ratio"`
	TotalDuration time.Duration        `json:"total_duration"`
	MeanDuration  time.Duration        `json:"mean_duration"`
	LastRun       map[string]time.Time `json:"last_run"`
}

// Stats aggregates all records: run and failure counts, success ratio,
// total and mean duration, and the latest run time per job.
func (j *Journal) Stats() (Stats, error) {
	records, err := j.Read(0)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{LastRun: make(map[string]time.Time)}
	for _, rec := range records {
		st.Runs++
		if rec.Outcome == model.OutcomeFailed {
			st.Failed++
		}
		st.TotalDuration += rec.Duration
		if rec.Timestamp.After(st.LastRun[rec.Job]) {
			st.LastRun[rec.Job] = rec.Timestamp
		}
	}
	if st.Runs > 0 {
		st.SuccessRatio = float64(st.Runs-st.Failed) / float64(st.Runs)
		st.MeanDuration = st.TotalDuration / time.Duration(st.Runs)
	}
	return st, nil
}

func lastRecordHash(file *os.File) (model.HashValue, error) {
	if _, err := file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("seek to start: %w", err)
	}

	last := model.GenesisHash
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec model.RunRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		last = rec.RecordHash
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan journal: %w", err)
	}
	return last, nil
}

func recordHash(rec model.RunRecord) (model.HashValue, error) {
	data, err := jsonutil.Canonical(rec)
	if err != nil {
		return "", fmt.Errorf("canonical marshal: %w", err)
	}
	sum := sha256.Sum256(data)
	return model.HashValue(hex.EncodeToString(sum[:])), nil
}
