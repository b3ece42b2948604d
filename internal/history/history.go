package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const HistoryFileName = "history.db"

// Entry is one recorded session outcome: the original request, the command
// the loop settled on, and whether the user ran it. Conversation state is
// never stored, only this command metadata.
type Entry struct {
	Timestamp   time.Time
	Request     string
	Command     string
	Executed    bool
	Refinements []string
}

// Store persists entries in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// DefaultPath returns the path to the history database.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ytdlpllm", HistoryFileName), nil
}

// Open creates or opens the history database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return store, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		request TEXT NOT NULL,
		command TEXT NOT NULL,
		executed INTEGER NOT NULL,
		refinements TEXT NOT NULL
	);`)
	return err
}

// Add inserts a new entry. A zero timestamp is filled with the current time.
func (s *Store) Add(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	refinements, err := json.Marshal(entry.Refinements)
	if err != nil {
		return fmt.Errorf("failed to marshal refinements: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO sessions (timestamp, request, command, executed, refinements)
		VALUES (?, ?, ?, ?, ?)`,
		entry.Timestamp.Format(time.RFC3339),
		entry.Request,
		entry.Command,
		boolToInt(entry.Executed),
		string(refinements),
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// Recent returns the newest entries, most recent first. A non-positive limit
// returns everything.
func (s *Store) Recent(limit int) ([]Entry, error) {
	query := `SELECT timestamp, request, command, executed, refinements FROM sessions ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var ts, refinements string
		var executed int
		if err := rows.Scan(&ts, &entry.Request, &entry.Command, &executed, &refinements); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.Timestamp = t
		}
		entry.Executed = executed == 1
		if err := json.Unmarshal([]byte(refinements), &entry.Refinements); err != nil {
			return nil, fmt.Errorf("failed to parse refinements: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Latest returns the most recent entry, or nil when the history is empty.
func (s *Store) Latest() (*Entry, error) {
	entries, err := s.Recent(1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
