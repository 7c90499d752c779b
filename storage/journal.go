package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"newscrawl/news"

	bolt "go.etcd.io/bbolt"
)

var runsBucket = []byte("runs")

// RunEntry summarises one crawl run.
type RunEntry struct {
	ID             string        `json:"id"`
	URL            string        `json:"url"`
	Criteria       news.Criteria `json:"criteria"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
	ResultsFound   int           `json:"results_found"`
	RecordsWritten int           `json:"records_written"`
	RecordsSkipped int           `json:"records_skipped"`
	WorkbookPath   string        `json:"workbook_path,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// Journal keeps a history of runs in a BoltDB file.
type Journal struct {
	DBPath string
	db     *bolt.DB
	mu     sync.RWMutex
}

// OpenJournal opens (or creates) the journal at path.
func OpenJournal(path string) (*Journal, error) {
	j := &Journal{DBPath: path}
	if err := j.init(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Journal) init() error {
	dbDir := filepath.Dir(j.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for journal: %w", err)
	}

	db, err := bolt.Open(j.DBPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	j.db = db
	return nil
}

// Record stores entry under its ID, replacing any previous entry.
func (j *Journal) Record(entry RunEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", entry.ID, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).Put([]byte(entry.ID), data)
	})
}

// Get returns the entry for id.
func (j *Journal) Get(id string) (RunEntry, bool, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var entry RunEntry
	var found bool
	err := j.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(runsBucket).Get([]byte(id))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &entry)
	})
	return entry, found, err
}

// Runs returns every stored entry ordered by start time.
func (j *Journal) Runs() ([]RunEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var entries []RunEntry
	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(_, v []byte) error {
			var entry RunEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b RunEntry) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	return entries, nil
}

// Close closes the BoltDB database
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
