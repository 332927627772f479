package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ResponseCache stores raw model answers keyed by the hash of the
// input, so an identical receipt photo or message never pays for a
// second model call. SQLite keeps it a single local file.
type ResponseCache struct {
	conn   *sql.DB
	logger *slog.Logger
}

// Open creates or opens the cache file, creating parent directories as
// needed. Pass ":memory:" for an ephemeral cache.
func Open(path string, logger *slog.Logger) (*ResponseCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	c := &ResponseCache{conn: conn, logger: logger}
	if err := c.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *ResponseCache) Close() error {
	return c.conn.Close()
}

func (c *ResponseCache) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS model_responses (
  inputHash TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  model TEXT NOT NULL,
  response TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := c.conn.Exec(schema)
	return err
}

// Key hashes the model identity together with the raw input bytes.
func Key(model string, input []byte) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write(input)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached response for a key, or ok=false on a miss.
func (c *ResponseCache) Get(key string) (string, bool, error) {
	var response string
	err := c.conn.QueryRow(`SELECT response FROM model_responses WHERE inputHash = ?`, key).Scan(&response)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	c.logger.Debug("cache.hit", "key", key)
	return response, true, nil
}

// Put stores a response, replacing any earlier entry for the key.
func (c *ResponseCache) Put(key, kind, model, response string) error {
	_, err := c.conn.Exec(`
INSERT INTO model_responses (inputHash, kind, model, response)
VALUES (?, ?, ?, ?)
ON CONFLICT(inputHash) DO UPDATE SET
  kind=excluded.kind,
  model=excluded.model,
  response=excluded.response,
  createdAt=CURRENT_TIMESTAMP
`, key, kind, model, response)
	return err
}
