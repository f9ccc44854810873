package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent and applied at startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		user_id            TEXT        NOT NULL,
		email              TEXT        NOT NULL UNIQUE,
		name               TEXT        NOT NULL DEFAULT '',
		password           TEXT        NOT NULL DEFAULT '',
		is_google_user     BOOLEAN     NOT NULL DEFAULT FALSE,
		reset_token        TEXT,
		reset_token_expiry BIGINT,
		clubwise_url       TEXT        NOT NULL DEFAULT '',
		business_name      TEXT        NOT NULL DEFAULT '',
		logo               TEXT        NOT NULL DEFAULT '',
		first_name         TEXT        NOT NULL DEFAULT '',
		last_name          TEXT        NOT NULL DEFAULT '',
		phone              TEXT        NOT NULL DEFAULT '',
		crm_api_key        TEXT        NOT NULL DEFAULT '',
		crm_username       TEXT        NOT NULL DEFAULT '',
		crm_password       TEXT        NOT NULL DEFAULT '',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS accounts_reset_expiry_idx ON accounts (reset_token_expiry) WHERE reset_token_expiry IS NOT NULL`,
	`CREATE SEQUENCE IF NOT EXISTS club_records_id_seq`,
	`CREATE TABLE IF NOT EXISTS club_records (
		id                BIGINT PRIMARY KEY DEFAULT nextval('club_records_id_seq'),
		user_email        TEXT NOT NULL,
		club              TEXT NOT NULL,
		date_time         TEXT NOT NULL,
		lead_source_1     TEXT NOT NULL DEFAULT '',
		lead_source_2     TEXT NOT NULL DEFAULT '',
		lead_source_3     TEXT NOT NULL DEFAULT '',
		strategic_focus_1 TEXT NOT NULL DEFAULT '',
		strategic_focus_2 TEXT NOT NULL DEFAULT '',
		strategic_focus_3 TEXT NOT NULL DEFAULT '',
		objection_1       TEXT NOT NULL DEFAULT '',
		objection_2       TEXT NOT NULL DEFAULT '',
		objection_3       TEXT NOT NULL DEFAULT '',
		complaint_1       TEXT NOT NULL DEFAULT '',
		complaint_2       TEXT NOT NULL DEFAULT '',
		complaint_3       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS club_records_user_club_idx ON club_records (user_email, club)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
