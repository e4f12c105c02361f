package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Table names used by the journal
const (
	TableUsers        = "users"
	TableAuthSessions = "auth_sessions"
	TableEntries      = "entries"
	TableProfiles     = "profiles"
	TableQuests       = "quests"
	TableLeads        = "leads"
)

// TableDDL holds the CREATE statement of every journal table, keyed by table name
var TableDDL = map[string]string{
	TableUsers: `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    email_confirmed_at TIMESTAMPTZ,
    confirmation_token TEXT UNIQUE,
    confirmation_sent_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	TableAuthSessions: `
CREATE TABLE IF NOT EXISTS auth_sessions (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL,
    revoked_at TIMESTAMPTZ
);`,
	TableEntries: `
CREATE TABLE IF NOT EXISTS entries (
    id BIGSERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    emotion TEXT NOT NULL,
    intensity INTEGER NOT NULL,
    notes TEXT,
    image_url TEXT,
    pnl NUMERIC,
    trading_data JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT entries_user_id_date_key UNIQUE (user_id, date)
);`,
	TableProfiles: `
CREATE TABLE IF NOT EXISTS profiles (
    id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    alias TEXT NOT NULL,
    picture TEXT,
    journal_purpose TEXT,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	TableQuests: `
CREATE TABLE IF NOT EXISTS quests (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	TableLeads: `
CREATE TABLE IF NOT EXISTS leads (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
}

// TableOrder is the creation order that satisfies foreign keys
var TableOrder = []string{TableUsers, TableAuthSessions, TableEntries, TableProfiles, TableQuests, TableLeads}

// IndexDDL holds secondary indexes created after the tables
var IndexDDL = []string{
	"CREATE INDEX IF NOT EXISTS idx_auth_sessions_user_id ON auth_sessions(user_id);",
	"CREATE INDEX IF NOT EXISTS idx_quests_user_created ON quests(user_id, created_at);",
}

// CreateSchema creates every missing table and index
func CreateSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, table := range TableOrder {
		if _, err := db.Exec(ctx, TableDDL[table]); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	for _, stmt := range IndexDDL {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
