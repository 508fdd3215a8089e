package test

import (
	"fmt"
	"strings"
)

const (
	// Channel the fake history belongs to
	TestChannelID = "1200000000000000000"

	// Wallet and token that appear in every generated notice
	TestWalletAddress  = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	TestWalletAlias    = "SmartMoney"
	TestContract       = "Ey2zpSAJ5gVLfYDD5WjccbksJD3E9jPFMPaJ8wxvpump"
	TestTicker         = "WIF"
	TestPostgresImage  = "postgres:16-alpine"
	TestDatabaseName   = "scraper_test"
	TestDatabaseUser   = "postgres"
	TestDatabasePasswd = "postgres"
)

// BuyNotice renders a buy notice the way the tracker bot posts it.
func BuyNotice(sol, usd, marketCap string) string {
	return strings.Join([]string{
		fmt.Sprintf("**%s**", TestWalletAlias),
		fmt.Sprintf("`%s`", TestWalletAddress),
		fmt.Sprintf("🟢 BUY %s on Raydium", TestTicker),
		fmt.Sprintf("swapped **%s** **[SOL]** ($%s) for **1,000,000** %s", sol, usd, TestTicker),
		fmt.Sprintf("**MC**: $%s", marketCap),
		fmt.Sprintf("🔗 **#%s**", TestTicker),
		fmt.Sprintf("`%s`", TestContract),
		"",
		"[TX](https://solscan.io/tx/abc)",
	}, "\n")
}

// SellNotice renders a sell notice with sold share and PnL lines.
func SellNotice(sol, soldPercent, pnl string) string {
	return strings.Join([]string{
		fmt.Sprintf("**%s**", TestWalletAlias),
		fmt.Sprintf("`%s`", TestWalletAddress),
		fmt.Sprintf("🔴 SELL %s on Raydium", TestTicker),
		fmt.Sprintf("swapped **1,000,000** %s for **%s** **[SOL]** ($99.50)", TestTicker, sol),
		fmt.Sprintf("➖Sold: %s%%", soldPercent),
		fmt.Sprintf("📈PnL: **%s** SOL", pnl),
		fmt.Sprintf("🔗 **#%s**", TestTicker),
		fmt.Sprintf("`%s`", TestContract),
		"",
		"[TX](https://solscan.io/tx/def)",
	}, "\n")
}

// TransferNotice renders a notice category that is never stored.
func TransferNotice() string {
	return strings.Join([]string{
		fmt.Sprintf("**%s**", TestWalletAlias),
		"🔄 Transfer",
		fmt.Sprintf("`%s`", TestWalletAddress),
	}, "\n")
}
