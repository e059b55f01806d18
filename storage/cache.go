package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"sichat/api"
	"sichat/config"
)

const cacheFile = "cache.db"

// HistoryCache keeps the last conversation list and the raw history of each
// opened conversation, keyed by tenant and user, so they can be shown when
// the backend is unreachable.
type HistoryCache struct {
	db  *sql.DB
	now func() time.Time
}

func NewHistoryCache(dataDir string) (*HistoryCache, error) {
	return openHistoryCache(filepath.Join(dataDir, cacheFile))
}

func openHistoryCache(dbPath string) (*HistoryCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; the TUI never issues concurrent writes worth a pool
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c := &HistoryCache{db: db, now: time.Now}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return c, nil
}

func (c *HistoryCache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		tenant_id TEXT NOT NULL,
		username TEXT NOT NULL,
		conversation_id TEXT NOT NULL,
		title TEXT NOT NULL,
		recent_timestamp TEXT NOT NULL,
		cached_at INTEGER NOT NULL,
		PRIMARY KEY (tenant_id, username, conversation_id)
	);
	CREATE TABLE IF NOT EXISTS histories (
		tenant_id TEXT NOT NULL,
		username TEXT NOT NULL,
		conversation_id TEXT NOT NULL,
		body BLOB NOT NULL,
		cached_at INTEGER NOT NULL,
		PRIMARY KEY (tenant_id, username, conversation_id)
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// SaveConversations replaces the cached list for the session's user
func (c *HistoryCache) SaveConversations(ctx context.Context, s api.Session, list []api.Conversation) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM conversations WHERE tenant_id = ? AND username = ?`,
		s.TenantID, s.Username,
	); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO conversations (tenant_id, username, conversation_id, title, recent_timestamp, cached_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	cachedAt := c.now().Unix()
	for _, conv := range list {
		if _, err := stmt.ExecContext(ctx, s.TenantID, s.Username, conv.ID, conv.Title, conv.RecentTimestamp, cachedAt); err != nil {
			return fmt.Errorf("failed to cache conversation %s: %w", conv.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit conversations: %w", err)
	}
	return nil
}

// Conversations returns the cached list, newest first
func (c *HistoryCache) Conversations(ctx context.Context, s api.Session) ([]api.Conversation, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT conversation_id, title, recent_timestamp
	FROM conversations
	WHERE tenant_id = ? AND username = ?
	`, s.TenantID, s.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	list := []api.Conversation{}
	for rows.Next() {
		var conv api.Conversation
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.RecentTimestamp); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		list = append(list, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	SortConversations(list)
	return list, nil
}

// SaveHistory stores the raw get_conversation_history body. Normalization
// runs on read so cached entries pick up fixes to it.
func (c *HistoryCache) SaveHistory(ctx context.Context, s api.Session, conversationID string, body json.RawMessage) error {
	_, err := c.db.ExecContext(ctx, `
	INSERT OR REPLACE INTO histories (tenant_id, username, conversation_id, body, cached_at)
	VALUES (?, ?, ?, ?, ?)
	`, s.TenantID, s.Username, conversationID, []byte(body), c.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to cache history %s: %w", conversationID, err)
	}
	return nil
}

// History returns ok=false on a cache miss
func (c *HistoryCache) History(ctx context.Context, s api.Session, conversationID string) (json.RawMessage, bool, error) {
	var body []byte
	err := c.db.QueryRowContext(ctx, `
	SELECT body FROM histories
	WHERE tenant_id = ? AND username = ? AND conversation_id = ?
	`, s.TenantID, s.Username, conversationID).Scan(&body)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read history %s: %w", conversationID, err)
	}
	return json.RawMessage(body), true, nil
}

func (c *HistoryCache) RenameConversation(ctx context.Context, s api.Session, conversationID, title string) error {
	_, err := c.db.ExecContext(ctx, `
	UPDATE conversations SET title = ?
	WHERE tenant_id = ? AND username = ? AND conversation_id = ?
	`, title, s.TenantID, s.Username, conversationID)
	if err != nil {
		return fmt.Errorf("failed to rename cached conversation: %w", err)
	}
	return nil
}

// Evict drops the list entries and histories of deleted conversations
func (c *HistoryCache) Evict(ctx context.Context, s api.Session, conversationIDs ...string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range conversationIDs {
		for _, table := range []string{"conversations", "histories"} {
			query := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = ? AND username = ? AND conversation_id = ?`, table)
			if _, err := tx.ExecContext(ctx, query, s.TenantID, s.Username, id); err != nil {
				return fmt.Errorf("failed to evict %s: %w", id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit eviction: %w", err)
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Cache] Evicted %d conversation(s)", len(conversationIDs))
	}
	return nil
}

func (c *HistoryCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
