package renderer

import (
	"fmt"
	"strings"

	"cointax"
)

// AccountsMarkdown renders the final holdings: one balance row per account,
// and the open lots of asset and margin accounts with their remaining basis.
func AccountsMarkdown(state *cointax.LedgerState) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Accounts\n\n")

	fmt.Fprint(&b, "## Balances\n\n")
	fmt.Fprintln(&b, "| Account | Kind | Balance | Cost Basis |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	for account := range state.Book.Accounts() {
		if account.Kind == cointax.CashAccount {
			fmt.Fprintf(&b, "| %s | %s | %s | - |\n", account.Name, account.Kind, money(account.Cash))
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s %s | %s |\n",
			account.Name,
			account.Kind,
			account.Position(),
			account.Currency,
			money(account.CostBasis()),
		)
	}

	fmt.Fprint(&b, "\n## Open Lots\n\n")
	fmt.Fprintln(&b, "| Account | Acquired | Quantity | Unit Cost | Cost Basis |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
	for account := range state.Book.Accounts() {
		for _, open := range account.OpenLots() {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				account.Name,
				open.Acquired,
				open.Remaining,
				money(open.UnitCost),
				money(open.CostBasis()),
			)
		}
	}

	return b.String()
}
