package cointax

// Term classifies the holding period of a disposal.
type Term int

const (
	ShortTerm Term = iota
	LongTerm
)

func (t Term) String() string {
	switch t {
	case ShortTerm:
		return "short"
	case LongTerm:
		return "long"
	default:
		return "unknown"
	}
}

// classifyTerm classifies a disposal as long term when the asset was held
// strictly longer than the threshold in days.
func classifyTerm(acquired, disposed Date, longTermDays int) Term {
	if disposed.After(acquired.Add(longTermDays)) {
		return LongTerm
	}
	return ShortTerm
}

// GainLossRecord is the realized result of disposing one lot portion.
type GainLossRecord struct {
	Date      Date     // disposal date
	Account   string   // account disposed from
	Asset     string   // asset code
	Quantity  Quantity // quantity disposed from this lot
	Acquired  Date     // acquisition date of the consumed lot
	Proceeds  Money    // fair value allocated to this portion
	CostBasis Money    // basis of the consumed portion
	Gain      Money    // Proceeds - CostBasis
	Term      Term
}

// IncomeRecord is an inflow of value from outside the ledger.
type IncomeRecord struct {
	Date     Date
	Account  string
	Asset    string
	Quantity Quantity
	Value    Money // fair value at receipt
}

// ExpenseRecord is an outflow of value to outside the ledger.
type ExpenseRecord struct {
	Date     Date
	Account  string
	Asset    string
	Quantity Quantity
	Value    Money // fair value at spending
}

// LedgerState is the result of processing a ledger: the final book of
// accounts and the realized records, in ledger order.
type LedgerState struct {
	Book       *Book
	GainLosses []GainLossRecord
	Incomes    []IncomeRecord
	Expenses   []ExpenseRecord
}

// RealizedGains sums the realized gains of the given term.
func (s *LedgerState) RealizedGains(term Term) Money {
	var total Money
	for _, r := range s.GainLosses {
		if r.Term == term {
			total = total.Add(r.Gain)
		}
	}
	return total
}

// TotalIncome sums all income values.
func (s *LedgerState) TotalIncome() Money {
	var total Money
	for _, r := range s.Incomes {
		total = total.Add(r.Value)
	}
	return total
}

// TotalExpense sums all expense values.
func (s *LedgerState) TotalExpense() Money {
	var total Money
	for _, r := range s.Expenses {
		total = total.Add(r.Value)
	}
	return total
}
