package store

import (
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mizuki1229/Discord-gekou/internal/logging"
)

// ErrStorage indicates the persistence medium rejected a write. The mutation
// it carries was not applied.
var ErrStorage = errors.New("config store write failed")

const lockStripes = 64

// Store is the durable per-guild configuration store. Every mutation is
// persisted inside a single transaction before Mutate returns, and every read
// goes to the database, so reads always reflect the most recently completed
// write. Mutations for the same guild are serialized through a striped lock.
type Store struct {
	db    *sql.DB
	locks [lockStripes]sync.Mutex
}

// Open opens (or creates) the SQLite database at path and prepares the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS guild_config (
		guild_id TEXT PRIMARY KEY,
		auth_role_id TEXT DEFAULT '',
		invite_exempt_role_id TEXT DEFAULT '',
		created_at INTEGER DEFAULT 0,
		updated_at INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS guild_admins (
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		added_at INTEGER NOT NULL,
		UNIQUE(guild_id, user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_guild_admins_guild ON guild_admins(guild_id);

	CREATE TABLE IF NOT EXISTS warn_counts (
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL,
		UNIQUE(guild_id, user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_warn_counts_guild ON warn_counts(guild_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) guildLock(guildID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(guildID))
	return &s.locks[h.Sum32()%lockStripes]
}

type querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

func loadConfig(q querier, guildID string) (*GuildConfig, error) {
	cfg := newGuildConfig(guildID)

	err := q.QueryRow(
		`SELECT auth_role_id, invite_exempt_role_id, created_at, updated_at
		 FROM guild_config WHERE guild_id = ?`,
		guildID,
	).Scan(&cfg.AuthRoleID, &cfg.InviteExemptRoleID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := q.Query(`SELECT user_id FROM guild_admins WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		cfg.AdminUserIDs[userID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	warnRows, err := q.Query(`SELECT user_id, count FROM warn_counts WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, err
	}
	defer warnRows.Close()
	for warnRows.Next() {
		var userID string
		var count int
		if err := warnRows.Scan(&userID, &count); err != nil {
			return nil, err
		}
		cfg.WarnCounts[userID] = count
	}

	return cfg, warnRows.Err()
}

func persistConfig(tx *sql.Tx, cfg *GuildConfig) error {
	now := time.Now().Unix()
	cfg.UpdatedAt = now
	if cfg.CreatedAt == 0 {
		cfg.CreatedAt = now
	}

	_, err := tx.Exec(
		`INSERT OR REPLACE INTO guild_config (guild_id, auth_role_id, invite_exempt_role_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		cfg.GuildID, cfg.AuthRoleID, cfg.InviteExemptRoleID, cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM guild_admins WHERE guild_id = ?`, cfg.GuildID); err != nil {
		return err
	}
	for userID := range cfg.AdminUserIDs {
		if _, err := tx.Exec(
			`INSERT INTO guild_admins (guild_id, user_id, added_at) VALUES (?, ?, ?)`,
			cfg.GuildID, userID, now,
		); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM warn_counts WHERE guild_id = ?`, cfg.GuildID); err != nil {
		return err
	}
	for userID, count := range cfg.WarnCounts {
		if _, err := tx.Exec(
			`INSERT INTO warn_counts (guild_id, user_id, count, updated_at) VALUES (?, ?, ?, ?)`,
			cfg.GuildID, userID, count, now,
		); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the current configuration for a guild, or a default empty
// config if the guild has never been touched. A read failure is logged and
// degrades to the default config; it never fails the caller.
func (s *Store) Get(guildID string) *GuildConfig {
	cfg, err := loadConfig(s.db, guildID)
	if err != nil {
		logging.Warn("store: read guild %s failed: %v", guildID, err)
		return newGuildConfig(guildID)
	}
	return cfg
}

// Mutate applies fn to a fresh snapshot of the guild's config and persists
// the result durably before returning. Mutations for the same guild are
// serialized, so read-modify-write is one logical step. Returns ErrStorage
// (wrapped) when the medium is unwritable; the mutation is then discarded.
func (s *Store) Mutate(guildID string, fn func(*GuildConfig)) (*GuildConfig, error) {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	cfg, err := loadConfig(tx, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %v", ErrStorage, err)
	}

	fn(cfg)

	if err := persistConfig(tx, cfg); err != nil {
		return nil, fmt.Errorf("%w: persist: %v", ErrStorage, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrStorage, err)
	}

	return cfg, nil
}

// SetAuthRole records the role granted by the verification gate.
func (s *Store) SetAuthRole(guildID, roleID string) error {
	_, err := s.Mutate(guildID, func(cfg *GuildConfig) {
		cfg.AuthRoleID = roleID
	})
	return err
}

// SetExemptRole records the role exempt from invite-link sanctions.
func (s *Store) SetExemptRole(guildID, roleID string) error {
	_, err := s.Mutate(guildID, func(cfg *GuildConfig) {
		cfg.InviteExemptRoleID = roleID
	})
	return err
}

// AddAdmin grants delegated ban authority to a user in a guild.
func (s *Store) AddAdmin(guildID, userID string) error {
	_, err := s.Mutate(guildID, func(cfg *GuildConfig) {
		cfg.AdminUserIDs[userID] = true
	})
	return err
}

// IsAdmin reports whether a user holds delegated ban authority in a guild.
func (s *Store) IsAdmin(guildID, userID string) bool {
	return s.Get(guildID).IsAdmin(userID)
}

// IncrementWarn bumps a user's violation count by one and returns the
// post-increment value. Counts only ever grow.
func (s *Store) IncrementWarn(guildID, userID string) (int, error) {
	cfg, err := s.Mutate(guildID, func(cfg *GuildConfig) {
		cfg.WarnCounts[userID]++
	})
	if err != nil {
		return 0, err
	}
	return cfg.WarnCounts[userID], nil
}

// WarnCount returns a user's current violation count in a guild.
func (s *Store) WarnCount(guildID, userID string) int {
	return s.Get(guildID).WarnCounts[userID]
}
