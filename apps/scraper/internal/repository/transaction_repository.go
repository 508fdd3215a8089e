package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

type TransactionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewTransactionRepository(db *sql.DB, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{db: db, logger: logger}
}

// InsertTransaction stores tx unless a row with the same message_id already
// exists. It reports whether a new row was written. A fresh id is generated
// when tx.ID is empty.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, tx model.WalletTransaction) (bool, error) {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to acquire database connection: %w", err)
	}
	defer conn.Close()

	result, err := conn.ExecContext(ctx, `
		INSERT INTO wallet_transactions (
			id, message_id, timestamp, wallet_address, wallet_alias, contract_address, ticker, action,
			amount_sol, amount_usd, market_cap, sold_percent, pnl
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (message_id) DO NOTHING
	`, tx.ID, tx.MessageID, tx.Timestamp, tx.WalletAddress, tx.WalletAlias, nullString(tx.ContractAddress), tx.Ticker, string(tx.Action),
		tx.AmountSOL, tx.AmountUSD, tx.MarketCap, tx.SoldPercent, tx.PnL)
	if err != nil {
		return false, fmt.Errorf("failed to insert wallet transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return false, nil
	}

	r.logger.Debug("Stored wallet transaction",
		zap.String("id", tx.ID),
		zap.Int64("message_id", tx.MessageID))
	return true, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
