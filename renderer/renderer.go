// Package renderer turns processed ledger results into markdown and CSV
// reports. Two report families are produced: Accounts, the point-in-time
// holdings, and Transactions, the realized records.
package renderer

import "cointax"

// money renders a monetary value for a table cell.
func money(m cointax.Money) string { return m.String() }

// gainTotal sums and renders the realized gains of one term.
func gainTotal(state *cointax.LedgerState, term cointax.Term) string {
	return state.RealizedGains(term).SignedString()
}
