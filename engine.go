package cointax

import "fmt"

// DefaultHomeCurrency is used when the configuration leaves the home
// currency empty.
const DefaultHomeCurrency = "USD"

// DefaultLongTermDays is the holding period threshold, in days, above which
// a disposal is classified long term.
const DefaultLongTermDays = 365

// Config holds the engine configuration for a run.
type Config struct {
	HomeCurrency string        // currency of all monetary values, default USD
	Method       CostingMethod // lot consumption order, default FIFO
	LikeKind     LikeKind      // like-kind deferral policy, disabled by default
	LongTermDays int           // long term threshold in days, default 365
}

// withDefaults fills the zero fields with the default values.
func (c Config) withDefaults() Config {
	if c.HomeCurrency == "" {
		c.HomeCurrency = DefaultHomeCurrency
	}
	if c.LongTermDays == 0 {
		c.LongTermDays = DefaultLongTermDays
	}
	return c
}

// check validates the configuration.
func (c Config) check() error {
	if err := ValidateCurrency(c.HomeCurrency); err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("home currency: %v", err)}
	}
	if c.Method != FIFO && c.Method != LIFO {
		return &ConfigurationError{Reason: fmt.Sprintf("unknown costing method %d", c.Method)}
	}
	if c.LongTermDays < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("long term threshold must not be negative, got %d days", c.LongTermDays)}
	}
	if c.LikeKind.Enabled && c.LikeKind.Cutoff.IsZero() {
		return &ConfigurationError{Reason: "like-kind deferral is enabled but has no cutoff date"}
	}
	return nil
}

// Process folds the ledger's transactions, in order, over a fresh state and
// returns the final book of accounts and the realized records.
//
// Each transaction is atomic: it either applies completely or not at all. On
// the first invariant violation Process aborts and returns the state as of
// the transaction before the failing one, together with a positioned error.
func Process(l *Ledger, cfg Config) (*LedgerState, error) {
	cfg = cfg.withDefaults()
	if err := cfg.check(); err != nil {
		return nil, err
	}

	state := &LedgerState{Book: NewBook()}
	var prev Date
	for i, tx := range l.Transactions() {
		tx, err := l.Validate(tx)
		if err != nil {
			return state, &MalformedTransactionError{Position: i, Command: tx.What(), Reason: err.Error()}
		}
		if !prev.IsZero() && tx.When().Before(prev) {
			return state, &MalformedTransactionError{
				Position: i,
				Command:  tx.What(),
				Reason:   fmt.Sprintf("on %s, out of order: previous transaction is on %s", tx.When(), prev),
			}
		}
		prev = tx.When()

		switch v := tx.(type) {
		case Deposit:
			err = applyDeposit(state, l, cfg, i, v)
		case Withdraw:
			err = applyWithdraw(state, l, cfg, i, v)
		case Buy:
			err = applyBuy(state, l, cfg, i, v)
		case Exchange:
			err = applyExchange(state, l, cfg, i, v)
		case Spend:
			err = applySpend(state, l, cfg, i, v)
		case Income:
			err = applyIncome(state, l, cfg, i, v)
		}
		if err != nil {
			return state, err
		}
	}
	return state, nil
}

// homeAmount checks that a monetary value is in the home currency, filling
// an empty currency with it.
func homeAmount(cfg Config, i int, what CommandType, m Money) (Money, error) {
	if m.Currency() == "" {
		return M(m.value, cfg.HomeCurrency), nil
	}
	if m.Currency() != cfg.HomeCurrency {
		return m, &MalformedTransactionError{
			Position: i,
			Command:  what,
			Reason:   fmt.Sprintf("currency %s does not match the home currency %s", m.Currency(), cfg.HomeCurrency),
		}
	}
	return m, nil
}

// openCash opens the named cash account.
func openCash(state *LedgerState, cfg Config, name string) *Account {
	return state.Book.Open(name, CashAccount, cfg.HomeCurrency)
}

// openAsset opens the named asset account, taking its kind and asset code
// from the ledger declaration when present. Undeclared asset accounts use
// their name as asset code.
func openAsset(state *LedgerState, l *Ledger, name string) *Account {
	kind, currency := AssetAccount, name
	if decl, ok := l.Declaration(name); ok {
		kind, currency = decl.Kind, decl.Currency
	}
	return state.Book.Open(name, kind, currency)
}

// checkKind rejects a reference to an account already open under the other
// kind family: cash on one side, asset and margin on the other. Undeclared
// names take their kind from first use, so a later conflicting use would
// otherwise silently land on the wrong account.
func checkKind(state *LedgerState, i int, what CommandType, name string, wantCash bool) error {
	existing := state.Book.Lookup(name)
	if existing == nil || (existing.Kind == CashAccount) == wantCash {
		return nil
	}
	want := "cash"
	if !wantCash {
		want = "asset or margin"
	}
	return &MalformedTransactionError{
		Position: i,
		Command:  what,
		Reason:   fmt.Sprintf("account %q is already open as %s, want %s", name, existing.Kind, want),
	}
}

func applyDeposit(state *LedgerState, l *Ledger, cfg Config, i int, t Deposit) error {
	amount, err := homeAmount(cfg, i, t.What(), t.Amount)
	if err != nil {
		return err
	}
	if err := checkKind(state, i, t.What(), t.To, true); err != nil {
		return err
	}
	acct := openCash(state, cfg, t.To)
	acct.Cash = acct.Cash.Add(amount)
	return nil
}

func applyWithdraw(state *LedgerState, l *Ledger, cfg Config, i int, t Withdraw) error {
	amount, err := homeAmount(cfg, i, t.What(), t.Amount)
	if err != nil {
		return err
	}
	if err := checkKind(state, i, t.What(), t.From, true); err != nil {
		return err
	}
	// cash balances have no floor, a withdrawal may leave them negative
	acct := openCash(state, cfg, t.From)
	acct.Cash = acct.Cash.Sub(amount)
	return nil
}

func applyBuy(state *LedgerState, l *Ledger, cfg Config, i int, t Buy) error {
	amount, err := homeAmount(cfg, i, t.What(), t.Amount)
	if err != nil {
		return err
	}
	if err := checkKind(state, i, t.What(), t.From, true); err != nil {
		return err
	}
	if err := checkKind(state, i, t.What(), t.To, false); err != nil {
		return err
	}
	cash := openCash(state, cfg, t.From)
	cash.Cash = cash.Cash.Sub(amount)

	asset := openAsset(state, l, t.To)
	asset.Lots = append(asset.Lots, Lot{
		Acquired:  t.Date,
		Original:  t.Quantity,
		Remaining: t.Quantity,
		UnitCost:  amount.Div(t.Quantity),
	})
	return nil
}

// dispose selects a quantity to consume from the source account, without
// committing: the caller assigns rest to the account's lots once the whole
// transaction is known to apply. Margin accounts cover a shortfall by
// borrowing: the shortfall is disposed at its own fair value (a zero gain)
// and a negative liability lot priced at that value is appended.
func dispose(cfg Config, i int, src *Account, on Date, quantity Quantity, value Money) ([]portion, lots, error) {
	taken, rest, short := src.Lots.take(quantity, cfg.Method)
	if short.IsPositive() {
		if src.Kind != MarginAccount {
			return nil, nil, &InsufficientBalanceError{
				Position:  i,
				Date:      on,
				Account:   src.Name,
				Requested: quantity,
				Available: src.Position(),
			}
		}
		unit := value.Div(quantity)
		taken = append(taken, portion{Acquired: on, Quantity: short, UnitCost: unit})
		rest = append(rest, Lot{
			Acquired:  on,
			Original:  short.Neg(),
			Remaining: short.Neg(),
			UnitCost:  unit,
		})
	}
	return taken, rest, nil
}

// allocate splits a total pro-rata over the portions' quantities. The last
// share absorbs the division remainder so the shares always sum to total.
func allocate(total Money, taken []portion, quantity Quantity) []Money {
	shares := make([]Money, len(taken))
	var allocated Money
	for i, p := range taken {
		if i == len(taken)-1 {
			shares[i] = total.Sub(allocated)
			break
		}
		shares[i] = total.Mul(p.Quantity).Div(quantity)
		allocated = allocated.Add(shares[i])
	}
	return shares
}

// allocateQuantity is allocate for quantities.
func allocateQuantity(total Quantity, taken []portion, quantity Quantity) []Quantity {
	shares := make([]Quantity, len(taken))
	var allocated Quantity
	for i, p := range taken {
		if i == len(taken)-1 {
			shares[i] = total.Sub(allocated)
			break
		}
		shares[i] = total.Mul(p.Quantity).Div(quantity)
		allocated = allocated.Add(shares[i])
	}
	return shares
}

// realize appends one gain/loss record per consumed portion.
func realize(state *LedgerState, cfg Config, src *Account, on Date, taken []portion, proceeds []Money) {
	for i, p := range taken {
		basis := p.CostBasis()
		state.GainLosses = append(state.GainLosses, GainLossRecord{
			Date:      on,
			Account:   src.Name,
			Asset:     src.Currency,
			Quantity:  p.Quantity,
			Acquired:  p.Acquired,
			Proceeds:  proceeds[i],
			CostBasis: basis,
			Gain:      proceeds[i].Sub(basis),
			Term:      classifyTerm(p.Acquired, on, cfg.LongTermDays),
		})
	}
}

func applyExchange(state *LedgerState, l *Ledger, cfg Config, i int, t Exchange) error {
	proceeds, err := homeAmount(cfg, i, t.What(), t.Proceeds)
	if err != nil {
		return err
	}
	if err := checkKind(state, i, t.What(), t.From, false); err != nil {
		return err
	}

	// resolve the destination before committing anything
	toAsset := t.Received.IsPositive()
	if decl, ok := l.Declaration(t.To); ok {
		toAsset = decl.Kind != CashAccount
	}
	if err := checkKind(state, i, t.What(), t.To, !toAsset); err != nil {
		return err
	}

	src := openAsset(state, l, t.From)
	taken, rest, err := dispose(cfg, i, src, t.Date, t.Quantity, proceeds)
	if err != nil {
		return err
	}

	if !toAsset {
		src.Lots = rest
		dst := openCash(state, cfg, t.To)
		dst.Cash = dst.Cash.Add(proceeds)
		realize(state, cfg, src, t.Date, taken, allocate(proceeds, taken, t.Quantity))
		return nil
	}

	received := allocateQuantity(t.Received, taken, t.Quantity)
	// a received share that rounds to zero would price the destination lot by
	// a zero division
	for _, share := range received {
		if !share.IsPositive() {
			return &MalformedTransactionError{
				Position: i,
				Command:  t.What(),
				Reason: fmt.Sprintf("received quantity %s is too small to allocate over %d consumed lots",
					t.Received, len(taken)),
			}
		}
	}
	src.Lots = rest
	dst := openAsset(state, l, t.To)
	if cfg.LikeKind.Applies(t.Date) {
		// deferred: the received lots inherit basis and acquisition date,
		// no gain is realized now
		for j, p := range taken {
			dst.Lots = append(dst.Lots, Lot{
				Acquired:  p.Acquired,
				Original:  received[j],
				Remaining: received[j],
				UnitCost:  p.CostBasis().Div(received[j]),
			})
		}
		return nil
	}
	proceedsShares := allocate(proceeds, taken, t.Quantity)
	for j := range taken {
		dst.Lots = append(dst.Lots, Lot{
			Acquired:  t.Date,
			Original:  received[j],
			Remaining: received[j],
			UnitCost:  proceedsShares[j].Div(received[j]),
		})
	}
	realize(state, cfg, src, t.Date, taken, proceedsShares)
	return nil
}

func applySpend(state *LedgerState, l *Ledger, cfg Config, i int, t Spend) error {
	value, err := homeAmount(cfg, i, t.What(), t.Value)
	if err != nil {
		return err
	}
	if err := checkKind(state, i, t.What(), t.From, false); err != nil {
		return err
	}
	src := openAsset(state, l, t.From)
	taken, rest, err := dispose(cfg, i, src, t.Date, t.Quantity, value)
	if err != nil {
		return err
	}
	src.Lots = rest
	realize(state, cfg, src, t.Date, taken, allocate(value, taken, t.Quantity))
	state.Expenses = append(state.Expenses, ExpenseRecord{
		Date:     t.Date,
		Account:  src.Name,
		Asset:    src.Currency,
		Quantity: t.Quantity,
		Value:    value,
	})
	return nil
}

func applyIncome(state *LedgerState, l *Ledger, cfg Config, i int, t Income) error {
	value, err := homeAmount(cfg, i, t.What(), t.Value)
	if err != nil {
		return err
	}
	if err := checkKind(state, i, t.What(), t.To, false); err != nil {
		return err
	}
	dst := openAsset(state, l, t.To)
	dst.Lots = append(dst.Lots, Lot{
		Acquired:  t.Date,
		Original:  t.Quantity,
		Remaining: t.Quantity,
		UnitCost:  value.Div(t.Quantity),
	})
	state.Incomes = append(state.Incomes, IncomeRecord{
		Date:     t.Date,
		Account:  dst.Name,
		Asset:    dst.Currency,
		Quantity: t.Quantity,
		Value:    value,
	})
	return nil
}
