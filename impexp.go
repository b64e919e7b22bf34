package cointax

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// this file contains functions to handle the CSV import/export format.
// It should remain human readable, single file and easy to produce from a
// spreadsheet or an exchange's history export.

// csvHeader is the canonical column order of the import/export format.
var csvHeader = []string{"date", "type", "from", "to", "quantity", "received", "amount", "currency", "kind", "memo"}

// ImportLedger imports a full transaction history from 'r' in CSV format.
//
// The first row is a header naming the columns, in any order. Recognized
// columns: date, type, from, to, quantity, received, amount, currency, kind,
// memo. The type column holds a command name ("deposit", "withdraw", "buy",
// "exchange", "spend", "income"), or "account" for a declaration row, which
// uses the to column as account name and the kind column as account kind.
func ImportLedger(r io.Reader) (*Ledger, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	columns := make(map[string]int)
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["type"]; !ok {
		return nil, fmt.Errorf("CSV header has no %q column", "type")
	}

	ledger := NewLedger()
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		quantity := func(name string) (Quantity, error) {
			s := field(name)
			if s == "" {
				return Quantity{}, nil
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				return Quantity{}, fmt.Errorf("line %d: invalid %s %q: %w", line, name, s, err)
			}
			return Q(d), nil
		}

		command := CommandType(strings.ToLower(field("type")))
		if command == cmdAccount {
			kind, err := ParseAccountKind(field("kind"))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if err := ledger.Declare(field("to"), kind, field("currency")); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			continue
		}

		day, err := ParseDate(field("date"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		qty, err := quantity("quantity")
		if err != nil {
			return nil, err
		}
		received, err := quantity("received")
		if err != nil {
			return nil, err
		}
		var amount Money
		if s := field("amount"); s != "" {
			d, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, s, err)
			}
			amount = M(d, field("currency"))
		}
		memo := field("memo")

		var tx Transaction
		switch command {
		case CmdDeposit:
			tx = NewDeposit(day, memo, field("to"), amount)
		case CmdWithdraw:
			tx = NewWithdraw(day, memo, field("from"), amount)
		case CmdBuy:
			tx = NewBuy(day, memo, field("from"), field("to"), qty, amount)
		case CmdExchange:
			tx = NewExchange(day, memo, field("from"), field("to"), qty, received, amount)
		case CmdSpend:
			tx = NewSpend(day, memo, field("from"), qty, amount)
		case CmdIncome:
			tx = NewIncome(day, memo, field("to"), qty, amount)
		default:
			return nil, fmt.Errorf("line %d: unknown transaction type %q", line, command)
		}
		ledger.Append(tx)
	}
	return ledger, nil
}

// ExportLedger exports the ledger to 'w' in the CSV import/export format,
// declarations first, then the transactions in ledger order.
func ExportLedger(w io.Writer, ledger *Ledger) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for decl := range ledger.Declarations() {
		row := []string{"", string(cmdAccount), "", decl.Name, "", "", "", decl.Currency, decl.Kind.String(), ""}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("cannot write declaration for %q: %w", decl.Name, err)
		}
	}

	for _, tx := range ledger.Transactions() {
		var row []string
		switch v := tx.(type) {
		case Deposit:
			row = csvRow(v.Date, v.Command, "", v.To, "", "", v.Amount, v.Memo)
		case Withdraw:
			row = csvRow(v.Date, v.Command, v.From, "", "", "", v.Amount, v.Memo)
		case Buy:
			row = csvRow(v.Date, v.Command, v.From, v.To, v.Quantity.String(), "", v.Amount, v.Memo)
		case Exchange:
			received := ""
			if !v.Received.IsZero() {
				received = v.Received.String()
			}
			row = csvRow(v.Date, v.Command, v.From, v.To, v.Quantity.String(), received, v.Proceeds, v.Memo)
		case Spend:
			row = csvRow(v.Date, v.Command, v.From, "", v.Quantity.String(), "", v.Value, v.Memo)
		case Income:
			row = csvRow(v.Date, v.Command, "", v.To, v.Quantity.String(), "", v.Value, v.Memo)
		default:
			return fmt.Errorf("unsupported transaction type for export: %T", tx)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("cannot write transaction: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvRow(day Date, command CommandType, from, to, quantity, received string, amount Money, memo string) []string {
	return []string{day.String(), string(command), from, to, quantity, received, amount.value.String(), amount.Currency(), "", memo}
}
