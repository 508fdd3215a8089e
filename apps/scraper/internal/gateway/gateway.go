package gateway

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/normalize"
)

// Outcome describes what happened to one extracted transaction.
type Outcome string

const (
	OutcomeInserted  Outcome = "inserted"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// TransactionStore persists a normalized transaction, ignoring rows whose
// message_id is already stored.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, tx model.WalletTransaction) (bool, error)
}

type Gateway struct {
	store  TransactionStore
	logger *zap.Logger
}

func NewGateway(store TransactionStore, logger *zap.Logger) *Gateway {
	return &Gateway{store: store, logger: logger}
}

// Insert validates, normalizes and stores tx. Only OutcomeFailed comes with a
// non-nil error; the other outcomes are expected results.
func (g *Gateway) Insert(ctx context.Context, tx *model.ExtractedTransaction) (Outcome, error) {
	if missing := MissingFields(tx); len(missing) > 0 {
		g.logger.Warn("Missing required fields, skipping insert",
			zap.Int64("message_id", tx.MessageID),
			zap.Strings("missing_fields", missing))
		return OutcomeRejected, nil
	}

	record := normalize.Transaction(tx)
	// amount_sol is required, so a fragment that does not survive normalization
	// counts as missing.
	if !record.AmountSOL.Valid || record.AmountSOL.Decimal.IsZero() {
		g.logger.Warn("Missing required fields, skipping insert",
			zap.Int64("message_id", tx.MessageID),
			zap.Strings("missing_fields", []string{"amount_sol"}),
			zap.String("raw_amount_sol", *tx.AmountSOL))
		return OutcomeRejected, nil
	}

	inserted, err := g.store.InsertTransaction(ctx, record)
	if err != nil {
		g.logger.Error("Database insert error",
			zap.Int64("message_id", tx.MessageID),
			zap.Error(err))
		return OutcomeFailed, fmt.Errorf("failed to store transaction %d: %w", tx.MessageID, err)
	}

	if !inserted {
		g.logger.Info("Transaction already stored",
			zap.Int64("message_id", tx.MessageID))
		return OutcomeDuplicate, nil
	}

	g.logger.Info("Transaction saved",
		zap.Int64("message_id", tx.MessageID),
		zap.String("action", string(record.Action)),
		zap.String("ticker", record.Ticker),
		zap.String("amount_sol", record.AmountSOL.Decimal.String()),
		zap.Time("timestamp", record.Timestamp))
	return OutcomeInserted, nil
}

// MissingFields lists the required fields that are unset on tx, in a stable order.
func MissingFields(tx *model.ExtractedTransaction) []string {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}

	check("message_id", tx.MessageID != 0)
	check("wallet_address", tx.WalletAddress != "")
	check("wallet_alias", tx.WalletAlias != "")
	check("contract_address", tx.ContractAddress != "")
	check("ticker", tx.Ticker != "")
	check("action", tx.Action != "")
	check("amount_sol", tx.AmountSOL != nil && *tx.AmountSOL != "")
	check("timestamp", !tx.Timestamp.IsZero())

	return missing
}
