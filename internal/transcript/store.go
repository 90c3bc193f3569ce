// Package transcript records finished conversations to a local SQLite
// database so they can be listed and replayed from the command line.
package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zhubert/sheetchat/internal/chat"
	pErrors "github.com/zhubert/sheetchat/internal/errors"
	"github.com/zhubert/sheetchat/internal/logger"
)

// DefaultListLimit is used by ListConversations when limit is not positive.
const DefaultListLimit = 20

// Conversation summarizes one recorded session.
type Conversation struct {
	ID        string
	Provider  string
	File      string // name of the last attached workbook, if any
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  int
}

// Store is a SQLite-backed transcript database.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, pErrors.TranscriptFailed("Open", fmt.Errorf("cannot create database directory: %w", err))
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, pErrors.TranscriptFailed("Open", err)
	}

	// Single connection for SQLite
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, path: path, log: logger.WithComponent("transcript")}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, pErrors.TranscriptFailed("Open", fmt.Errorf("migration failed: %w", err))
	}
	s.log.Debug("transcript store opened", "path", path)
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id          TEXT PRIMARY KEY,
		provider    TEXT NOT NULL DEFAULT '',
		file        TEXT NOT NULL DEFAULT '',
		created_at  DATETIME NOT NULL,
		updated_at  DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		seq             INTEGER PRIMARY KEY AUTOINCREMENT,
		id              TEXT NOT NULL,
		conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		author          TEXT NOT NULL,
		content         TEXT NOT NULL,
		failed          INTEGER NOT NULL DEFAULT 0,
		created_at      DATETIME NOT NULL,
		UNIQUE (conversation_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conv ON messages(conversation_id, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// BeginConversation registers a conversation. Beginning an existing one is a no-op.
func (s *Store) BeginConversation(ctx context.Context, id, provider string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO conversations (id, provider, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, provider, at.UTC(), at.UTC(),
	)
	if err != nil {
		return pErrors.TranscriptFailed("BeginConversation", err)
	}
	return nil
}

// AppendMessage stores msg at the end of conversation id. A message that is
// already stored is skipped.
func (s *Store) AppendMessage(ctx context.Context, id string, msg chat.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pErrors.TranscriptFailed("AppendMessage", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO messages (id, conversation_id, author, content, failed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, id, msg.Author.String(), msg.Content, msg.Failed, msg.Timestamp.UTC(),
	)
	if err != nil {
		return pErrors.TranscriptFailed("AppendMessage", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`, msg.Timestamp.UTC(), id,
	); err != nil {
		return pErrors.TranscriptFailed("AppendMessage", err)
	}
	if err := tx.Commit(); err != nil {
		return pErrors.TranscriptFailed("AppendMessage", err)
	}
	return nil
}

// SetFile records the name of the workbook attached to conversation id.
func (s *Store) SetFile(ctx context.Context, id, name string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE conversations SET file = ? WHERE id = ?`, name, id); err != nil {
		return pErrors.TranscriptFailed("SetFile", err)
	}
	return nil
}

// ListConversations returns the most recently updated conversations first.
func (s *Store) ListConversations(ctx context.Context, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.provider, c.file, c.created_at, c.updated_at, COUNT(m.seq)
		 FROM conversations c LEFT JOIN messages m ON m.conversation_id = c.id
		 GROUP BY c.id
		 ORDER BY c.updated_at DESC, c.created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, pErrors.TranscriptFailed("ListConversations", err)
	}
	defer rows.Close()

	var convs []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.Provider, &c.File, &c.CreatedAt, &c.UpdatedAt, &c.Messages); err != nil {
			return nil, pErrors.TranscriptFailed("ListConversations", err)
		}
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, pErrors.TranscriptFailed("ListConversations", err)
	}
	return convs, nil
}

// Messages returns the recorded messages of conversation id in order.
func (s *Store) Messages(ctx context.Context, id string) ([]chat.Message, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return nil, pErrors.TranscriptFailed("Messages", err)
	}
	if exists == 0 {
		return nil, pErrors.TranscriptNotFound(id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author, content, failed, created_at FROM messages
		 WHERE conversation_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, pErrors.TranscriptFailed("Messages", err)
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			m      chat.Message
			author string
		)
		if err := rows.Scan(&m.ID, &author, &m.Content, &m.Failed, &m.Timestamp); err != nil {
			return nil, pErrors.TranscriptFailed("Messages", err)
		}
		m.Author, _ = chat.ParseAuthor(author)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, pErrors.TranscriptFailed("Messages", err)
	}
	return msgs, nil
}

// Delete removes conversation id and its messages.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return pErrors.TranscriptFailed("Delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pErrors.TranscriptNotFound(id)
	}
	return nil
}
