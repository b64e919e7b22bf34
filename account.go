package cointax

import (
	"fmt"
	"iter"
)

// AccountKind classifies an account.
type AccountKind int

const (
	// CashAccount holds a scalar balance in the home currency.
	CashAccount AccountKind = iota
	// AssetAccount holds a lot inventory of a single asset.
	AssetAccount
	// MarginAccount is an asset account whose position may go negative
	// through borrowing.
	MarginAccount
)

func (k AccountKind) String() string {
	switch k {
	case CashAccount:
		return "cash"
	case AssetAccount:
		return "asset"
	case MarginAccount:
		return "margin"
	default:
		return "unknown"
	}
}

// ParseAccountKind parses a string into an AccountKind.
func ParseAccountKind(s string) (AccountKind, error) {
	switch s {
	case "cash":
		return CashAccount, nil
	case "asset":
		return AssetAccount, nil
	case "margin":
		return MarginAccount, nil
	default:
		return 0, fmt.Errorf("unknown account kind: %q", s)
	}
}

// Account is a named holding: a cash balance for cash accounts, a lot
// inventory for asset and margin accounts.
type Account struct {
	Name     string
	Kind     AccountKind
	Currency string // home currency for cash accounts, asset code otherwise
	Cash     Money  // cash accounts only
	Lots     lots   // asset and margin accounts only
}

// Position returns the account's total remaining quantity.
func (a *Account) Position() Quantity { return a.Lots.Quantity() }

// OpenLots returns the account's lots, in insertion order.
func (a *Account) OpenLots() []Lot { return a.Lots }

// CostBasis returns the account's total remaining basis.
func (a *Account) CostBasis() Money { return a.Lots.CostBasis() }

// Book is the set of accounts built up during a run. Accounts are owned by
// the book and looked up by name.
type Book struct {
	accounts []*Account
	index    map[string]int
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{index: make(map[string]int)}
}

// Open returns the account with the given name, creating it on first use.
// Opening an existing account is idempotent and ignores kind and currency.
func (b *Book) Open(name string, kind AccountKind, currency string) *Account {
	if i, ok := b.index[name]; ok {
		return b.accounts[i]
	}
	a := &Account{Name: name, Kind: kind, Currency: currency}
	if kind == CashAccount {
		a.Cash = M(0, currency)
	}
	b.index[name] = len(b.accounts)
	b.accounts = append(b.accounts, a)
	return a
}

// Lookup returns the named account, or nil if it was never opened.
func (b *Book) Lookup(name string) *Account {
	if i, ok := b.index[name]; ok {
		return b.accounts[i]
	}
	return nil
}

// Len returns the number of accounts in the book.
func (b *Book) Len() int { return len(b.accounts) }

// Accounts iterates over the accounts in the order they were first opened.
func (b *Book) Accounts() iter.Seq[*Account] {
	return func(yield func(*Account) bool) {
		for _, a := range b.accounts {
			if !yield(a) {
				return
			}
		}
	}
}
