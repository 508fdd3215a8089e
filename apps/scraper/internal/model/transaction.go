package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// ExtractedTransaction is the best-effort result of parsing a notice.
// Empty strings and nil fragments mean the field was not found.
type ExtractedTransaction struct {
	MessageID       int64
	Timestamp       time.Time
	WalletAddress   string
	WalletAlias     string
	ContractAddress string
	Ticker          string
	Action          Action
	AmountSOL       *string
	AmountUSD       *string
	MarketCap       *string // may keep a K/M suffix
	SoldPercent     *string
	PnL             *string
}

type WalletTransaction struct {
	ID              string              `db:"id"`
	MessageID       int64               `db:"message_id"`
	Timestamp       time.Time           `db:"timestamp"`
	WalletAddress   string              `db:"wallet_address"`
	WalletAlias     string              `db:"wallet_alias"`
	ContractAddress string              `db:"contract_address"`
	Ticker          string              `db:"ticker"`
	Action          Action              `db:"action"`
	AmountSOL       decimal.NullDecimal `db:"amount_sol"`
	AmountUSD       decimal.NullDecimal `db:"amount_usd"`
	MarketCap       decimal.NullDecimal `db:"market_cap"`
	SoldPercent     decimal.NullDecimal `db:"sold_percent"`
	PnL             decimal.NullDecimal `db:"pnl"`
}
