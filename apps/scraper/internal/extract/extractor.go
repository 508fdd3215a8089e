package extract

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

// skipCategories are notice kinds that are not wallet trades. Matching is
// case-insensitive against the whole description.
var skipCategories = []string{
	"TRANSFER",
	"CLOSE TOKEN ACCOUNT",
	"BUY USDC",
}

type fieldRule struct {
	field   string
	pattern *regexp.Regexp
	apply   func(tx *model.ExtractedTransaction, value string)
}

// Each rule runs on its own over the full description. A rule that does not
// match leaves its field unset.
var fieldRules = []fieldRule{
	{
		field:   "wallet_address",
		pattern: regexp.MustCompile("`([A-Za-z0-9]{25,})`"),
		apply:   func(tx *model.ExtractedTransaction, v string) { tx.WalletAddress = v },
	},
	{
		// First bold span in the notice, which the bot always renders as the alias.
		field:   "wallet_alias",
		pattern: regexp.MustCompile(`\*\*(.*?)\*\*`),
		apply:   func(tx *model.ExtractedTransaction, v string) { tx.WalletAlias = v },
	},
	{
		field:   "contract_address",
		pattern: regexp.MustCompile("`([A-Za-z0-9]{25,})`\n\n\\[TX\\]"),
		apply:   func(tx *model.ExtractedTransaction, v string) { tx.ContractAddress = v },
	},
	{
		field:   "ticker",
		pattern: regexp.MustCompile(`🔗 \*\*#([A-Za-z0-9]+)\*\*`),
		apply:   func(tx *model.ExtractedTransaction, v string) { tx.Ticker = v },
	},
	{
		field:   "amount_sol",
		pattern: regexp.MustCompile(`\*\*([\d,]+\.?\d*)\*\* \*\*\[SOL\]`),
		apply:   func(tx *model.ExtractedTransaction, v string) { tx.AmountSOL = &v },
	},
	{
		field:   "amount_usd",
		pattern: regexp.MustCompile(`\(\$([\d,]+\.\d+)\)`),
		apply:   func(tx *model.ExtractedTransaction, v string) { tx.AmountUSD = &v },
	},
	{
		field:   "market_cap",
		pattern: regexp.MustCompile(`\*\*MC\*\*: \$([\d,]*\d(?:\.\d+)?[KM]?)`),
		apply:   func(tx *model.ExtractedTransaction, v string) { tx.MarketCap = &v },
	},
	{
		field:   "sold_percent",
		pattern: regexp.MustCompile(`➖Sold: (\d+)%`),
		apply:   func(tx *model.ExtractedTransaction, v string) { tx.SoldPercent = &v },
	},
	{
		field:   "pnl",
		pattern: regexp.MustCompile(`📈PnL: \*\*([\d.+\-]+)\*\* SOL`),
		apply:   func(tx *model.ExtractedTransaction, v string) { tx.PnL = &v },
	},
}

type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract parses a notice description into a transaction. The second return
// value is false when the notice belongs to a category that is skipped.
// Missing fields are not an error; the gateway decides what is complete.
func (e *Extractor) Extract(description string, timestamp time.Time, messageID int64) (*model.ExtractedTransaction, bool) {
	if category, ok := skipCategory(description); ok {
		e.logger.Info("Skipping notice",
			zap.Int64("message_id", messageID),
			zap.String("category", category))
		return nil, false
	}

	tx := &model.ExtractedTransaction{
		MessageID: messageID,
		Timestamp: stripZone(timestamp),
		Action:    detectAction(description),
	}

	var unmatched []string
	for _, rule := range fieldRules {
		match := rule.pattern.FindStringSubmatch(description)
		if match == nil {
			unmatched = append(unmatched, rule.field)
			continue
		}
		rule.apply(tx, match[1])
	}

	if tx.Ticker == "" && tx.ContractAddress != "" {
		tx.Ticker = tx.ContractAddress
	}

	if len(unmatched) > 0 {
		e.logger.Debug("Notice fields not found",
			zap.Int64("message_id", messageID),
			zap.Strings("fields", unmatched))
	}

	return tx, true
}

func skipCategory(description string) (string, bool) {
	upper := strings.ToUpper(description)
	for _, category := range skipCategories {
		if strings.Contains(upper, category) {
			return category, true
		}
	}
	return "", false
}

// detectAction is case-sensitive and prefers BUY when both keywords appear.
func detectAction(description string) model.Action {
	switch {
	case strings.Contains(description, string(model.ActionBuy)):
		return model.ActionBuy
	case strings.Contains(description, string(model.ActionSell)):
		return model.ActionSell
	default:
		return ""
	}
}

// stripZone keeps the wall clock reading and drops the zone, so the value
// lands unchanged in a TIMESTAMP column.
func stripZone(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.UTC)
}
