package export

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/iksnae/aisync/internal/model"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	provider      TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	working_dir   TEXT,
	project_name  TEXT,
	model         TEXT,
	summary       TEXT,
	source_file   TEXT NOT NULL,
	source_mtime  REAL NOT NULL,
	data          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_provider ON sessions(provider);
`

// Store persists sessions to a local sqlite database, one row per
// session with the full normalized session as a JSON column. Safe for
// concurrent use.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Upsert writes a session row, replacing any previous row with the same
// id. It reports false when the stored row already reflects the current
// source mtime, so unchanged sessions are not rewritten.
func (s *Store) Upsert(session *model.Session) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored float64
	err := s.db.QueryRow(`SELECT source_mtime FROM sessions WHERE id = ?`, session.ID).Scan(&stored)
	switch {
	case err == nil:
		if stored == session.SourceMtime {
			return false, nil
		}
	case err != sql.ErrNoRows:
		return false, fmt.Errorf("failed to check session %s: %w", session.ID, err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return false, fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}

	_, err = s.db.Exec(`
INSERT OR REPLACE INTO sessions
	(id, provider, created_at, working_dir, project_name, model, summary, source_file, source_mtime, data)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		string(session.Provider),
		session.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		session.WorkingDir,
		session.ProjectName,
		session.Model,
		session.Summary(),
		session.SourceFile,
		session.SourceMtime,
		string(data),
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert session %s: %w", session.ID, err)
	}
	return true, nil
}

// Count returns the number of stored sessions for a provider, or all
// sessions when provider is empty.
func (s *Store) Count(provider model.Provider) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	var err error
	if provider == "" {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE provider = ?`, string(provider)).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
