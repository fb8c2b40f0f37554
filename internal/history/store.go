// Package history persists a summary line after every completed sync so
// the dashboard can show how the tracked collection trends over time.
package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codeberry/pulldash/internal/constants"
	"github.com/codeberry/pulldash/internal/log"
	"github.com/codeberry/pulldash/internal/model"
	"github.com/codeberry/pulldash/internal/stats"
)

// Record captures aggregate state from a single completed sync.
type Record struct {
	Timestamp          time.Time `json:"ts"`
	Total              int       `json:"total"`
	Open               int       `json:"open"`
	Draft              int       `json:"draft"`
	InReview           int       `json:"inReview"`
	Approved           int       `json:"approved"`
	Merged             int       `json:"merged"`
	Closed             int       `json:"closed"`
	ReadyToShip        int       `json:"readyToShip"`
	NeedsReview        int       `json:"needsReview"`
	MedianOpenAgeHours float64   `json:"medianOpenAgeH"`
}

// NewRecord summarizes a synced record collection. Classification here is
// the repo-level rule, applied without any time window.
func NewRecord(prs []model.PullRequest, snap *stats.Snapshot, ts time.Time) Record {
	rec := Record{Timestamp: ts}

	for i := range prs {
		pr := &prs[i]
		if !pr.Valid() {
			continue
		}
		rec.Total++
		switch stats.Classify(pr) {
		case stats.StatusMerged:
			rec.Merged++
		case stats.StatusClosed:
			rec.Closed++
		case stats.StatusDraft:
			rec.Draft++
		case stats.StatusApproved:
			rec.Approved++
		case stats.StatusInReview:
			rec.InReview++
		case stats.StatusOpen:
			rec.Open++
		}
	}

	if snap != nil {
		rec.ReadyToShip = snap.ReadyToShip
		rec.NeedsReview = snap.NeedsReview
		rec.MedianOpenAgeHours = snap.MedianOpenAgeHours
	}

	return rec
}

// Store manages persistence of sync records as JSON Lines.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a new history store at ~/.cache/pulldash/history.jsonl.
func NewStore() (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(cacheDir, "pulldash")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Store{
		path: filepath.Join(dir, "history.jsonl"),
	}, nil
}

// NewStoreWithPath creates a store at the given path (for testing).
func NewStoreWithPath(path string) *Store {
	return &Store{path: path}
}

// Append adds a record and prunes to the last HistoryMaxRecords entries.
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		log.Debug("could not read history, starting fresh", "error", err)
		records = nil
	}

	records = append(records, rec)

	if len(records) > constants.HistoryMaxRecords {
		records = records[len(records)-constants.HistoryMaxRecords:]
	}

	return s.writeAll(records)
}

// Recent returns the last n records (or fewer if not enough exist).
func (s *Store) Recent(n int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil
	}

	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// readAll reads all records from disk.
func (s *Store) readAll() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue // skip malformed lines
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}

// writeAll writes all records to disk atomically.
func (s *Store) writeAll(records []Record) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, s.path)
}
