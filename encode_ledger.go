package cointax

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amountCmd is a specialized struct to read a ledger amount from two fields.
// we could use json "inline" but it would work for some transactions not all.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money {
	return M(a.Amount, a.Currency)
}

// accountCmd is a specialized struct for decoding account declaration lines.
type accountCmd struct {
	Command  CommandType `json:"command"`
	Name     string      `json:"name"`
	Kind     string      `json:"kind"`
	Currency string      `json:"currency"`
}

// DecodeLedger decodes a ledger from a stream of JSONL data: account
// declaration lines are recorded on the ledger, every other line is decoded
// into the appropriate transaction struct. The line order is preserved.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		var decodedTx Transaction
		var err error

		switch identifier.Command {
		case cmdAccount:
			var temp accountCmd
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			kind, err := ParseAccountKind(temp.Kind)
			if err != nil {
				return nil, fmt.Errorf("invalid account declaration %q: %w", string(lineBytes), err)
			}
			if err := ledger.Declare(temp.Name, kind, temp.Currency); err != nil {
				return nil, err
			}
			continue
		case CmdDeposit:
			var tx Deposit
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdWithdraw:
			var tx Withdraw
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdBuy:
			var tx Buy
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdExchange:
			var tx Exchange
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdSpend:
			var tx Spend
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdIncome:
			var tx Income
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		default:
			err = fmt.Errorf("unknown transaction command: %q", identifier.Command)
		}

		if err != nil {
			return nil, err
		}
		ledger.Append(decodedTx)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	return ledger, nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	// Write the JSON data followed by a newline to create the JSONL format.
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger persists a ledger to an io.Writer in JSONL format: account
// declarations first, in name order, then the transactions in ledger order.
// The JSON keys within each line have a stable order for canonical output.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	decimal.MarshalJSONWithoutQuotes = true

	for decl := range ledger.Declarations() {
		var jw jsonObjectWriter
		jw.Append("command", cmdAccount)
		jw.Append("name", decl.Name)
		jw.Append("kind", decl.Kind.String())
		jw.Append("currency", decl.Currency)
		data, err := jw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("failed to marshal account declaration %q: %w", decl.Name, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write account declaration: %w", err)
		}
	}

	for _, tx := range ledger.Transactions() {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}

	return nil
}
