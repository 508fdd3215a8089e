package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

const (
	testWallet   = "Abc123DefGhi456JklMno789PqrStu"
	testContract = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
)

// buyNotice mirrors the layout of the tracker bot's embed description.
var buyNotice = strings.Join([]string{
	"**WhaleAlias**",
	"`" + testWallet + "`",
	"🟢 BUY FOO on PUMP FUN",
	"🔹 swapped **12,345.6** **[SOL]** ($4,321.00) for **1,000,000** FOO",
	"**MC**: $2.5M",
	"🔗 **#FOO**",
	"➖Sold: 50%",
	"📈PnL: **+3.21** SOL",
	"`" + testContract + "`",
	"",
	"[TX](https://solscan.io/tx/abc)",
}, "\n")

var testTime = time.Date(2025, 2, 14, 9, 30, 15, 0, time.UTC)

func ptr(s string) *string { return &s }

func TestExtractFullBuyNotice(t *testing.T) {
	e := NewExtractor(zaptest.NewLogger(t))

	tx, ok := e.Extract(buyNotice, testTime, 1337)
	require.True(t, ok)

	assert.Equal(t, int64(1337), tx.MessageID)
	assert.Equal(t, testTime, tx.Timestamp)
	assert.Equal(t, model.ActionBuy, tx.Action)
	assert.Equal(t, testWallet, tx.WalletAddress)
	assert.Equal(t, "WhaleAlias", tx.WalletAlias)
	assert.Equal(t, testContract, tx.ContractAddress)
	assert.Equal(t, "FOO", tx.Ticker)
	assert.Equal(t, ptr("12,345.6"), tx.AmountSOL)
	assert.Equal(t, ptr("4,321.00"), tx.AmountUSD)
	assert.Equal(t, ptr("2.5M"), tx.MarketCap)
	assert.Equal(t, ptr("50"), tx.SoldPercent)
	assert.Equal(t, ptr("+3.21"), tx.PnL)
}

func TestExtractSkipsExcludedCategories(t *testing.T) {
	tests := []struct {
		name        string
		description string
		category    string
	}{
		{"transfer", "🔄 TRANSFER **WhaleAlias** sent 5 SOL", "TRANSFER"},
		{"transfer lowercase", "wallet transfer to exchange", "TRANSFER"},
		{"close token account", "**WhaleAlias** Close Token Account FOO", "CLOSE TOKEN ACCOUNT"},
		{"buy usdc", "🟢 buy usdc with **10** **[SOL]", "BUY USDC"},
		{"skip wins over a full notice", buyNotice + "\nTRANSFER", "TRANSFER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			e := NewExtractor(zap.New(core))

			tx, ok := e.Extract(tt.description, testTime, 42)
			assert.False(t, ok)
			assert.Nil(t, tx)

			entries := logs.FilterMessage("Skipping notice").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.category, entries[0].ContextMap()["category"])
		})
	}
}

func TestExtractAction(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    model.Action
	}{
		{"buy", "🟢 BUY FOO", model.ActionBuy},
		{"sell", "🔴 SELL FOO", model.ActionSell},
		{"both prefers buy", "SELL then BUY", model.ActionBuy},
		{"neither", "swap FOO", ""},
		{"lowercase is not an action", "buy foo", ""},
	}

	e := NewExtractor(zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, ok := e.Extract(tt.description, testTime, 1)
			require.True(t, ok)
			assert.Equal(t, tt.expected, tx.Action)
		})
	}
}

func TestExtractTickerFallsBackToContract(t *testing.T) {
	e := NewExtractor(zaptest.NewLogger(t))
	description := strings.Replace(buyNotice, "🔗 **#FOO**", "🔗 no ticker", 1)

	tx, ok := e.Extract(description, testTime, 7)
	require.True(t, ok)
	assert.Equal(t, testContract, tx.Ticker)
}

func TestExtractWithoutContractLeavesTickerEmpty(t *testing.T) {
	e := NewExtractor(zaptest.NewLogger(t))

	tx, ok := e.Extract("🟢 BUY **Alias** `"+testWallet+"`", testTime, 7)
	require.True(t, ok)
	assert.Empty(t, tx.ContractAddress)
	assert.Empty(t, tx.Ticker)
	// The contract rule needs the trailing [TX] marker, the wallet rule does not.
	assert.Equal(t, testWallet, tx.WalletAddress)
}

func TestExtractShortBacktickTokenIgnored(t *testing.T) {
	e := NewExtractor(zaptest.NewLogger(t))

	tx, ok := e.Extract("BUY `short` then `"+testWallet+"`", testTime, 7)
	require.True(t, ok)
	assert.Equal(t, testWallet, tx.WalletAddress)
}

func TestExtractAliasIsFirstBoldSpan(t *testing.T) {
	e := NewExtractor(zaptest.NewLogger(t))

	tx, ok := e.Extract("🟢 **BUY** by **WhaleAlias**", testTime, 7)
	require.True(t, ok)
	assert.Equal(t, "BUY", tx.WalletAlias)
}

func TestExtractRawFragments(t *testing.T) {
	tests := []struct {
		name        string
		description string
		check       func(*testing.T, *model.ExtractedTransaction)
	}{
		{
			name:        "market cap thousands suffix",
			description: "**MC**: $250K",
			check: func(t *testing.T, tx *model.ExtractedTransaction) {
				assert.Equal(t, ptr("250K"), tx.MarketCap)
			},
		},
		{
			name:        "market cap plain",
			description: "**MC**: $3.2",
			check: func(t *testing.T, tx *model.ExtractedTransaction) {
				assert.Equal(t, ptr("3.2"), tx.MarketCap)
			},
		},
		{
			name:        "malformed pnl is captured raw",
			description: "📈PnL: **+-3..2** SOL",
			check: func(t *testing.T, tx *model.ExtractedTransaction) {
				assert.Equal(t, ptr("+-3..2"), tx.PnL)
			},
		},
		{
			name:        "negative pnl",
			description: "📈PnL: **-0.75** SOL",
			check: func(t *testing.T, tx *model.ExtractedTransaction) {
				assert.Equal(t, ptr("-0.75"), tx.PnL)
			},
		},
		{
			name:        "integer sol amount",
			description: "**3** **[SOL]",
			check: func(t *testing.T, tx *model.ExtractedTransaction) {
				assert.Equal(t, ptr("3"), tx.AmountSOL)
			},
		},
		{
			name:        "usd without decimals is not matched",
			description: "($4,321)",
			check: func(t *testing.T, tx *model.ExtractedTransaction) {
				assert.Nil(t, tx.AmountUSD)
			},
		},
		{
			name:        "nothing found",
			description: "hello world",
			check: func(t *testing.T, tx *model.ExtractedTransaction) {
				assert.Empty(t, tx.WalletAddress)
				assert.Empty(t, tx.WalletAlias)
				assert.Empty(t, tx.Ticker)
				assert.Nil(t, tx.AmountSOL)
				assert.Nil(t, tx.AmountUSD)
				assert.Nil(t, tx.MarketCap)
				assert.Nil(t, tx.SoldPercent)
				assert.Nil(t, tx.PnL)
			},
		},
	}

	e := NewExtractor(zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, ok := e.Extract(tt.description, testTime, 1)
			require.True(t, ok)
			tt.check(t, tx)
		})
	}
}

func TestExtractStripsZone(t *testing.T) {
	e := NewExtractor(zaptest.NewLogger(t))
	zone := time.FixedZone("UTC+5", 5*60*60)
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, zone)

	tx, ok := e.Extract("BUY", ts, 1)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), tx.Timestamp)
	assert.Equal(t, time.UTC, tx.Timestamp.Location())
}
