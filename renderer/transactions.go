package renderer

import (
	"fmt"
	"strings"

	"cointax"
)

// TransactionsMarkdown renders the realized records: gains and losses per
// consumed lot portion, income, and expenses, each with totals.
func TransactionsMarkdown(state *cointax.LedgerState) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Transactions\n\n")

	fmt.Fprint(&b, "## Realized Gains and Losses\n\n")
	fmt.Fprintln(&b, "| Date | Account | Asset | Quantity | Acquired | Proceeds | Cost Basis | Gain | Term |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|:---|---:|---:|---:|:---|")
	for _, r := range state.GainLosses {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Date, r.Account, r.Asset, r.Quantity, r.Acquired,
			money(r.Proceeds), money(r.CostBasis), r.Gain.SignedString(), r.Term)
	}
	fmt.Fprintf(&b, "\nShort term: **%s**, Long term: **%s**\n",
		gainTotal(state, cointax.ShortTerm),
		gainTotal(state, cointax.LongTerm),
	)

	fmt.Fprint(&b, "\n## Income\n\n")
	fmt.Fprintln(&b, "| Date | Account | Asset | Quantity | Value |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|")
	for _, r := range state.Incomes {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			r.Date, r.Account, r.Asset, r.Quantity, money(r.Value))
	}
	fmt.Fprintf(&b, "| **Total** | | | | **%s** |\n", money(state.TotalIncome()))

	fmt.Fprint(&b, "\n## Expenses\n\n")
	fmt.Fprintln(&b, "| Date | Account | Asset | Quantity | Value |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|")
	for _, r := range state.Expenses {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			r.Date, r.Account, r.Asset, r.Quantity, money(r.Value))
	}
	fmt.Fprintf(&b, "| **Total** | | | | **%s** |\n", money(state.TotalExpense()))

	return b.String()
}
