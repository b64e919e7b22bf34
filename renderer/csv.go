package renderer

import (
	"encoding/csv"
	"io"

	"cointax"
)

// AccountsCSV writes the Accounts report as CSV: one row per open lot, with
// cash accounts as a single balance row.
func AccountsCSV(w io.Writer, state *cointax.LedgerState) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"account", "kind", "asset", "acquired", "quantity", "unit_cost", "cost_basis", "balance"}); err != nil {
		return err
	}
	for account := range state.Book.Accounts() {
		if account.Kind == cointax.CashAccount {
			row := []string{account.Name, account.Kind.String(), account.Currency, "", "", "", "", account.Cash.String()}
			if err := writer.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, open := range account.OpenLots() {
			row := []string{
				account.Name,
				account.Kind.String(),
				account.Currency,
				open.Acquired.String(),
				open.Remaining.String(),
				open.UnitCost.String(),
				open.CostBasis().String(),
				"",
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// TransactionsCSV writes the Transactions report as CSV: one row per
// realized record, gains first, then income, then expenses.
func TransactionsCSV(w io.Writer, state *cointax.LedgerState) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"record", "date", "account", "asset", "quantity", "acquired", "proceeds", "cost_basis", "gain", "term", "value"}); err != nil {
		return err
	}
	for _, r := range state.GainLosses {
		row := []string{
			"gain", r.Date.String(), r.Account, r.Asset, r.Quantity.String(), r.Acquired.String(),
			r.Proceeds.String(), r.CostBasis.String(), r.Gain.String(), r.Term.String(), "",
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	for _, r := range state.Incomes {
		row := []string{"income", r.Date.String(), r.Account, r.Asset, r.Quantity.String(), "", "", "", "", "", r.Value.String()}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	for _, r := range state.Expenses {
		row := []string{"expense", r.Date.String(), r.Account, r.Asset, r.Quantity.String(), "", "", "", "", "", r.Value.String()}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
