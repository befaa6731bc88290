// Package store persists digest history and user settings locally, as
// two JSON documents in a small SQLite key-value table.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
)

const (
	historyKey  = "digest_history"
	settingsKey = "settings"

	// historyLimit caps the stored history; older entries are dropped
	// silently on the next save.
	historyLimit = 20
)

type Store struct {
	path    string
	readDB  *sql.DB
	writeDB *sql.DB

	// Swappable in tests so history entries come out deterministic.
	now   func() time.Time
	newID func() string
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{
		path:    dbPath,
		readDB:  readDB,
		writeDB: writeDB,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// History returns the stored entries, newest first. A missing key,
// broken JSON or a non-array document all read as "no history".
func (s *Store) History() []digest.HistoryEntry {
	raw, err := s.get(historyKey)
	if err != nil {
		return nil
	}
	var entries []digest.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}

// SaveToHistory prepends a new entry for d, truncates to the cap and
// persists the result. The new list is returned so callers can update
// their view without a second read. Write failures are reported, not
// swallowed; the caller decides how loudly to surface them.
func (s *Store) SaveToHistory(d digest.DigestData) ([]digest.HistoryEntry, error) {
	now := s.now()
	entry := digest.HistoryEntry{
		ID:        s.newID(),
		Date:      now.Format("2006-01-02"),
		Data:      d,
		Timestamp: now.UnixMilli(),
	}

	entries := append([]digest.HistoryEntry{entry}, s.History()...)
	if len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}
	if err := s.set(historyKey, string(raw)); err != nil {
		return nil, fmt.Errorf("writing history: %w", err)
	}
	return entries, nil
}

// ClearHistory removes every stored entry.
func (s *Store) ClearHistory() error {
	_, err := s.writeDB.Exec("DELETE FROM kv WHERE key = ?", historyKey)
	if err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Settings returns the stored record with per-field defaulting: a
// missing or unreadable document yields the full default record, and
// any individual field that is absent, mistyped or out of range falls
// back alone without discarding its neighbors.
func (s *Store) Settings() digest.Settings {
	out := digest.DefaultSettings()
	raw, err := s.get(settingsKey)
	if err != nil {
		return out
	}
	// Decoding over the defaults keeps them for absent fields; on a
	// type mismatch the decoder skips that field and carries on.
	_ = json.Unmarshal([]byte(raw), &out)
	return sanitizeSettings(out)
}

// SaveSettings overwrites the record wholesale.
func (s *Store) SaveSettings(set digest.Settings) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.set(settingsKey, string(raw)); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

func sanitizeSettings(set digest.Settings) digest.Settings {
	def := digest.DefaultSettings()
	if _, err := time.Parse("15:04", set.DeliveryTime); err != nil {
		set.DeliveryTime = def.DeliveryTime
	}
	if set.Timezone == "" {
		set.Timezone = def.Timezone
	} else if _, err := time.LoadLocation(set.Timezone); err != nil {
		set.Timezone = def.Timezone
	}
	return set
}

// Stats describes the store for the stats command.
type Stats struct {
	Path      string
	SizeBytes int64
	Entries   int
	LastFetch time.Time
}

func (s *Store) Stats() (Stats, error) {
	st := Stats{Path: s.path}
	fi, err := os.Stat(s.path)
	if err != nil {
		return st, fmt.Errorf("statting db: %w", err)
	}
	st.SizeBytes = fi.Size()

	entries := s.History()
	st.Entries = len(entries)
	if len(entries) > 0 {
		st.LastFetch = time.UnixMilli(entries[0].Timestamp)
	}
	return st, nil
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.readDB.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
