// Package normalize turns raw text fragments pulled from a notice into typed
// values. Every conversion is independent: a blank or malformed fragment
// becomes an absent value and never fails the surrounding record.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

// maxTickerLength matches the ticker column width. Longer values, such as a
// contract address used as a fallback ticker, are cut to fit.
const maxTickerLength = 20

var magnitudes = map[byte]decimal.Decimal{
	'K': decimal.NewFromInt(1_000),
	'k': decimal.NewFromInt(1_000),
	'M': decimal.NewFromInt(1_000_000),
	'm': decimal.NewFromInt(1_000_000),
}

// Decimal parses a fragment such as "12,345.6" or "+3.21".
func Decimal(raw *string) decimal.NullDecimal {
	if raw == nil {
		return decimal.NullDecimal{}
	}

	value := strings.ReplaceAll(strings.TrimSpace(*raw), ",", "")
	if value == "" {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(d)
}

// MarketCap parses a market cap fragment, expanding a trailing K or M.
// Fragments without a suffix are parsed as plain numbers.
func MarketCap(raw *string) decimal.NullDecimal {
	if raw == nil {
		return decimal.NullDecimal{}
	}

	value := strings.TrimSpace(*raw)
	if value == "" {
		return decimal.NullDecimal{}
	}

	multiplier, ok := magnitudes[value[len(value)-1]]
	if !ok {
		return Decimal(&value)
	}

	number := value[:len(value)-1]
	parsed := Decimal(&number)
	if !parsed.Valid {
		return parsed
	}

	return decimal.NewNullDecimal(parsed.Decimal.Mul(multiplier))
}

// Ticker truncates a ticker to the stored column width.
func Ticker(raw string) string {
	runes := []rune(raw)
	if len(runes) <= maxTickerLength {
		return raw
	}
	return string(runes[:maxTickerLength])
}

// Transaction converts an extracted transaction into its persisted form.
// The row id is left empty for the repository to assign.
func Transaction(tx *model.ExtractedTransaction) model.WalletTransaction {
	return model.WalletTransaction{
		MessageID:       tx.MessageID,
		Timestamp:       tx.Timestamp,
		WalletAddress:   tx.WalletAddress,
		WalletAlias:     tx.WalletAlias,
		ContractAddress: tx.ContractAddress,
		Ticker:          Ticker(tx.Ticker),
		Action:          tx.Action,
		AmountSOL:       Decimal(tx.AmountSOL),
		AmountUSD:       Decimal(tx.AmountUSD),
		MarketCap:       MarketCap(tx.MarketCap),
		SoldPercent:     Decimal(tx.SoldPercent),
		PnL:             Decimal(tx.PnL),
	}
}
