package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// InitMigration creates the schema if it does not exist yet. In production, this
// would use a proper migration library like go-migrate
func InitMigration(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS wallet_transactions (
			id UUID PRIMARY KEY,
			message_id BIGINT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			wallet_address TEXT NOT NULL,
			wallet_alias TEXT NOT NULL,
			contract_address TEXT,
			ticker VARCHAR(20) NOT NULL,
			action VARCHAR(4) NOT NULL,
			amount_sol NUMERIC(12, 6),
			amount_usd NUMERIC(20, 2),
			market_cap NUMERIC(20, 2),
			sold_percent NUMERIC(5, 2),
			pnl NUMERIC(12, 6),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			CONSTRAINT wallet_transactions_message_id_key UNIQUE (message_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_wallet_transactions_wallet_timestamp ON wallet_transactions (wallet_address, timestamp DESC)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}
