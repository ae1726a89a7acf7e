package ledger

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketSnapshots = []byte("snapshots")

// Entry records one snapshot attempt: what was cloned, for whom, and how it
// went. Entries are written after the orchestration sequence completes,
// success or not, so the ledger is a full audit trail of the daemon's side
// effects on the volume group.
type Entry struct {
	Name        string    `json:"name"`
	SourceGroup string    `json:"source_group"`
	SourceName  string    `json:"source_name"`
	Tags        []string  `json:"tags,omitempty"`
	Destination string    `json:"destination"`
	PeerPID     int       `json:"peer_pid"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ledger persists snapshot entries in a BoltDB file.
type Ledger struct {
	db *bolt.DB
}

// Open creates or opens the ledger database under dataDir.
func Open(dataDir string) (*Ledger, error) {
	dbPath := filepath.Join(dataDir, "snapfriend.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger bucket: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record persists one snapshot entry, keyed by snapshot name. Generated
// names are timestamp-prefixed, so bucket order is creation order. Attempts
// that failed before the snapshot was created carry no name and are keyed
// by timestamp instead.
func (l *Ledger) Record(entry *Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	key := entry.Name
	if key == "" {
		key = entry.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

// List returns all entries in key order (creation order for generated
// snapshot names).
func (l *Ledger) List() ([]*Entry, error) {
	var entries []*Entry
	err := l.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		return b.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("corrupt ledger entry %s: %w", k, err)
			}
			entries = append(entries, &entry)
			return nil
		})
	})
	return entries, err
}
