package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vedsharma/soar/internal/model"

	_ "modernc.org/sqlite"
)

const (
	dbFile = "errors.db"

	// MaxErrorLogs is how many error reports are kept
	MaxErrorLogs = 100

	// Secure file permissions - owner read/write only
	secureFileMode = 0600 // -rw-------
	secureDirMode  = 0700 // drwx------
)

// parseJSONLines safely parses stored report lines, returning an empty slice on error
func parseJSONLines(jsonStr string) ([]string, error) {
	if jsonStr == "" {
		return []string{}, nil
	}

	var lines []string
	if err := json.Unmarshal([]byte(jsonStr), &lines); err != nil {
		return []string{}, fmt.Errorf("failed to parse lines JSON: %w", err)
	}

	if lines == nil {
		lines = []string{}
	}
	return lines, nil
}

// ensureSecureFile creates a file with secure permissions if it doesn't exist,
// or verifies/fixes permissions if it does exist. This prevents a TOCTOU race
// condition where the file could be created with insecure default permissions.
func ensureSecureFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, secureFileMode)
		if err != nil {
			return fmt.Errorf("failed to create secure file: %w", err)
		}
		f.Close()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if info.Mode().Perm() != secureFileMode {
		if err := os.Chmod(path, secureFileMode); err != nil {
			return fmt.Errorf("failed to set secure permissions: %w", err)
		}
	}
	return nil
}

// SQLiteStorage keeps saved error reports in a SQLite database
type SQLiteStorage struct {
	db      *sql.DB
	dataDir string
}

// NewStorage opens the error log database inside dataDir, creating it if needed
func NewStorage(dataDir string) (*SQLiteStorage, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("no data directory for the error log")
	}

	if err := os.MkdirAll(dataDir, secureDirMode); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, dbFile)

	if err := ensureSecureFile(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &SQLiteStorage{db: db, dataDir: dataDir}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *SQLiteStorage) Path() string {
	return filepath.Join(s.dataDir, dbFile)
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS error_logs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		kind TEXT NOT NULL,
		lines TEXT DEFAULT '[]',
		command TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_error_logs_timestamp ON error_logs(timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// AddErrorLog saves an error report and trims the table to the newest
// MaxErrorLogs rows. An empty ID or zero timestamp is filled in.
func (s *SQLiteStorage) AddErrorLog(entry model.ErrorLog) (model.ErrorLog, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()[:8]
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Lines == nil {
		entry.Lines = []string{}
	}

	linesJSON, err := json.Marshal(entry.Lines)
	if err != nil {
		return entry, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return entry, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO error_logs (id, timestamp, kind, lines, command)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp.UTC(), entry.Kind, string(linesJSON), entry.Command,
	)
	if err != nil {
		return entry, err
	}

	_, err = tx.Exec(`
		DELETE FROM error_logs
		WHERE id NOT IN (
			SELECT id FROM error_logs ORDER BY timestamp DESC LIMIT ?
		)`, MaxErrorLogs)
	if err != nil {
		return entry, err
	}

	return entry, tx.Commit()
}

// LoadErrorLogs returns saved reports, newest first. A limit of zero or less
// returns every report.
func (s *SQLiteStorage) LoadErrorLogs(limit int) ([]model.ErrorLog, error) {
	if limit <= 0 {
		limit = MaxErrorLogs
	}

	rows, err := s.db.Query(`
		SELECT id, timestamp, kind, lines, command
		FROM error_logs
		ORDER BY timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.ErrorLog{}
	for rows.Next() {
		entry, err := scanErrorLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *entry)
	}

	return logs, rows.Err()
}

// GetErrorLog returns one report, or nil when no report has the id
func (s *SQLiteStorage) GetErrorLog(id string) (*model.ErrorLog, error) {
	row := s.db.QueryRow(`
		SELECT id, timestamp, kind, lines, command
		FROM error_logs
		WHERE id = ?`, id)

	entry, err := scanErrorLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

// ClearErrorLogs deletes every saved report and returns how many were removed
func (s *SQLiteStorage) ClearErrorLogs() (int64, error) {
	res, err := s.db.Exec("DELETE FROM error_logs")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanErrorLog(row scanner) (*model.ErrorLog, error) {
	var entry model.ErrorLog
	var linesJSON string
	var command sql.NullString

	if err := row.Scan(&entry.ID, &entry.Timestamp, &entry.Kind, &linesJSON, &command); err != nil {
		return nil, err
	}

	// unreadable lines are shown as an empty report rather than failing
	entry.Lines, _ = parseJSONLines(linesJSON)
	entry.Command = command.String
	entry.Timestamp = entry.Timestamp.Local()

	return &entry, nil
}
