package cointax

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
)

// AccountDeclaration pins an account's kind and currency ahead of first use.
//
// Declarations are optional for cash and asset accounts, whose kind is
// implied by the transactions referencing them, but required for margin
// accounts.
type AccountDeclaration struct {
	Name     string
	Kind     AccountKind
	Currency string // home currency for cash accounts, asset code otherwise
}

// Ledger represents an ordered list of transactions.
//
// The order of transactions is authoritative: the engine processes them as
// given, it never re-sorts.
type Ledger struct {
	transactions []Transaction
	declarations map[string]AccountDeclaration
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		transactions: make([]Transaction, 0),
		declarations: make(map[string]AccountDeclaration),
	}
}

// Declare records an account declaration. Re-declaring an account with a
// different kind or currency is an error.
func (l *Ledger) Declare(name string, kind AccountKind, currency string) error {
	if name == "" {
		return fmt.Errorf("account declaration name is missing")
	}
	if existing, ok := l.declarations[name]; ok {
		if existing.Kind != kind || existing.Currency != currency {
			return fmt.Errorf("account %q already declared as %s %s", name, existing.Kind, existing.Currency)
		}
		return nil
	}
	l.declarations[name] = AccountDeclaration{Name: name, Kind: kind, Currency: currency}
	return nil
}

// Declaration returns the declaration for the named account, if any.
func (l *Ledger) Declaration(name string) (AccountDeclaration, bool) {
	decl, ok := l.declarations[name]
	return decl, ok
}

// Declarations iterates over account declarations in name order.
func (l *Ledger) Declarations() iter.Seq[AccountDeclaration] {
	return func(yield func(AccountDeclaration) bool) {
		names := slices.Collect(maps.Keys(l.declarations))
		slices.Sort(names)
		for _, name := range names {
			if !yield(l.declarations[name]) {
				return
			}
		}
	}
}

// Append appends transactions to this ledger, preserving the caller's order.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator that yields each transaction in ledger
// order. With filters, only transactions accepted by at least one filter are
// yielded.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if len(filters) > 0 {
				accept := false
				for _, filter := range filters {
					if filter(tx) {
						accept = true
						break
					}
				}
				if !accept {
					continue
				}
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// SortByDate sorts the ledger by transaction date. The sort is stable,
// meaning transactions on the same day maintain their original relative
// order.
func (l *Ledger) SortByDate() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
}

// OldestTransactionDate returns the date of the first transaction in the ledger.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].When()
}

// NewestTransactionDate returns the date of the last transaction in the ledger.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].When()
}

// Validate checks a transaction for correctness and applies quick fixes where
// applicable (e.g., filling a currency from a declaration). It returns the
// validated (and potentially modified) transaction or an error detailing any
// validation failures.
func (l *Ledger) Validate(tx Transaction) (Transaction, error) {
	var err error
	switch v := tx.(type) {
	case Deposit:
		tx, err = v.Validate(l)
	case Withdraw:
		tx, err = v.Validate(l)
	case Buy:
		tx, err = v.Validate(l)
	case Exchange:
		tx, err = v.Validate(l)
	case Spend:
		tx, err = v.Validate(l)
	case Income:
		tx, err = v.Validate(l)
	default:
		return tx, fmt.Errorf("unsupported transaction type for validation: %T %v", tx, tx)
	}
	if err != nil {
		return tx, fmt.Errorf("invalid %s transaction on %v: %w", tx.What(), tx.When(), err)
	}
	return tx, nil
}

// ByAccount returns a predicate that filters transactions touching the named
// account.
func ByAccount(name string) func(Transaction) bool {
	return func(tx Transaction) bool {
		switch v := tx.(type) {
		case Deposit:
			return v.To == name
		case Withdraw:
			return v.From == name
		case Buy:
			return v.From == name || v.To == name
		case Exchange:
			return v.From == name || v.To == name
		case Spend:
			return v.From == name
		case Income:
			return v.To == name
		default:
			return false
		}
	}
}

// AllAccounts iterates over all account names referenced by declarations or
// transactions, in first-appearance order.
func (l *Ledger) AllAccounts() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		visit := func(name string) bool {
			if name == "" {
				return true
			}
			if _, ok := visited[name]; ok {
				return true
			}
			visited[name] = struct{}{}
			return yield(name)
		}
		for _, tx := range l.transactions {
			var names []string
			switch v := tx.(type) {
			case Deposit:
				names = []string{v.To}
			case Withdraw:
				names = []string{v.From}
			case Buy:
				names = []string{v.From, v.To}
			case Exchange:
				names = []string{v.From, v.To}
			case Spend:
				names = []string{v.From}
			case Income:
				names = []string{v.To}
			}
			for _, name := range names {
				if !visit(name) {
					return
				}
			}
		}
		for decl := range l.Declarations() {
			if !visit(decl.Name) {
				return
			}
		}
	}
}
