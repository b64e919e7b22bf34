package cointax

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdDeposit  CommandType = "deposit"
	CmdWithdraw CommandType = "withdraw"
	CmdBuy      CommandType = "buy"
	CmdExchange CommandType = "exchange"
	CmdSpend    CommandType = "spend"
	CmdIncome   CommandType = "income"

	// cmdAccount identifies account declaration lines in the ledger file.
	// Declarations are not transactions, they carry no date and no effect.
	cmdAccount CommandType = "account"
)

// Transaction defines the common interface for all types of financial
// transactions that can be recorded in the ledger.
type Transaction interface {
	What() CommandType // What returns the command type of the transaction (e.g., "buy", "exchange").
	When() Date        // When returns the date on which the transaction occurred.
	Equal(Transaction) bool
	Validate(ledger *Ledger) (Transaction, error)
}

type baseCmd struct {
	Command CommandType `json:"command"`        // Command specifies the type of transaction (e.g., "buy", "spend").
	Date    Date        `json:"date"`           // Date is the date when the transaction took place.
	Memo    string      `json:"memo,omitempty"` // Memo provides an optional rationale or note for the transaction.
}

// What returns the command name for the transaction, which is used to identify the type of transaction.
func (t baseCmd) What() CommandType {
	return t.Command
}

// When returns the date of the transaction.
func (t baseCmd) When() Date {
	return t.Date
}

// Rationale returns the memo associated with the transaction.
func (t baseCmd) Rationale() string {
	return t.Memo
}

// MarshalJSON implements the json.Marshaler interface for baseCmd.
func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// Validate checks the base command fields. It sets the date to today if it's zero.
// It's meant to be embedded in other transaction validation methods.
func (t *baseCmd) Validate() {
	if t.Date == (Date{}) {
		t.Date = Today()
	}
}

// --- Deposit Command ---

// Deposit represents a transaction where home-currency cash enters a cash
// account from outside the ledger.
type Deposit struct {
	baseCmd
	To     string // To is the cash account receiving the deposit.
	Amount Money  // Amount is the quantity of cash deposited.
}

// NewDeposit creates a new Deposit transaction.
func NewDeposit(day Date, memo, to string, amount Money) Deposit {
	return Deposit{
		baseCmd: baseCmd{Command: CmdDeposit, Date: day, Memo: memo},
		To:      to,
		Amount:  amount,
	}
}

func (t Deposit) Currency() string { return t.Amount.Currency() }

// MarshalJSON implements the json.Marshaler interface for Deposit.
func (t Deposit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("to", t.To)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Deposit.
func (t *Deposit) UnmarshalJSON(data []byte) error {
	// Use a temporary type that has all possible fields.
	var temp struct {
		baseCmd
		amountCmd
		To string `json:"to"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.To = temp.To
	t.Amount = temp.Money()
	return nil
}

func (t Deposit) Equal(other Transaction) bool {
	o, ok := other.(Deposit)
	return ok && t.baseCmd == o.baseCmd && t.To == o.To && t.Amount.Equal(o.Amount)
}

// Validate checks the Deposit transaction's fields. It ensures the deposit
// amount is positive and the destination is a cash account when declared.
func (t Deposit) Validate(ledger *Ledger) (Transaction, error) {
	t.baseCmd.Validate()

	if t.To == "" {
		return t, errors.New("deposit destination account is missing")
	}
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("deposit amount must be positive, got %v", t.Amount)
	}
	if t.Currency() != "" {
		if err := ValidateCurrency(t.Currency()); err != nil {
			return t, fmt.Errorf("invalid currency for deposit: %w", err)
		}
	}
	if decl, ok := ledger.Declaration(t.To); ok {
		if decl.Kind != CashAccount {
			return t, fmt.Errorf("deposit destination %q is declared as %s, want cash", t.To, decl.Kind)
		}
		// quick fix the currency from the declaration
		if t.Currency() == "" {
			t.Amount = M(t.Amount.value, decl.Currency)
		} else if t.Currency() != decl.Currency {
			return t, fmt.Errorf("deposit currency %s does not match account currency %s", t.Currency(), decl.Currency)
		}
	}
	return t, nil
}

// --- Withdraw Command ---

// Withdraw represents a transaction where home-currency cash leaves a cash
// account to outside the ledger. The balance is allowed to go negative.
type Withdraw struct {
	baseCmd
	From   string // From is the cash account debited.
	Amount Money  // Amount is the quantity of cash withdrawn.
}

// NewWithdraw creates a new Withdraw transaction.
func NewWithdraw(day Date, memo, from string, amount Money) Withdraw {
	return Withdraw{
		baseCmd: baseCmd{Command: CmdWithdraw, Date: day, Memo: memo},
		From:    from,
		Amount:  amount,
	}
}

func (t Withdraw) Currency() string { return t.Amount.Currency() }

// MarshalJSON implements the json.Marshaler interface for Withdraw.
func (t Withdraw) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("from", t.From)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Withdraw.
func (t *Withdraw) UnmarshalJSON(data []byte) error {
	// Use a temporary type that has all possible fields.
	var temp struct {
		baseCmd
		amountCmd
		From string `json:"from"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.From = temp.From
	t.Amount = temp.Money()
	return nil
}

func (t Withdraw) Equal(other Transaction) bool {
	o, ok := other.(Withdraw)
	return ok && t.baseCmd == o.baseCmd && t.From == o.From && t.Amount.Equal(o.Amount)
}

// Validate checks the Withdraw transaction's fields. Withdrawing more than
// the balance is allowed, the balance simply goes negative.
func (t Withdraw) Validate(ledger *Ledger) (Transaction, error) {
	t.baseCmd.Validate()

	if t.From == "" {
		return t, errors.New("withdraw source account is missing")
	}
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("withdraw amount must be positive, got %v", t.Amount)
	}
	if t.Currency() != "" {
		if err := ValidateCurrency(t.Currency()); err != nil {
			return t, fmt.Errorf("invalid currency for withdraw: %w", err)
		}
	}
	if decl, ok := ledger.Declaration(t.From); ok {
		if decl.Kind != CashAccount {
			return t, fmt.Errorf("withdraw source %q is declared as %s, want cash", t.From, decl.Kind)
		}
		if t.Currency() == "" {
			t.Amount = M(t.Amount.value, decl.Currency)
		} else if t.Currency() != decl.Currency {
			return t, fmt.Errorf("withdraw currency %s does not match account currency %s", t.Currency(), decl.Currency)
		}
	}
	return t, nil
}

// --- Buy Command ---

// Buy represents a transaction where a quantity of an asset is purchased
// with cash, creating a new lot at unit cost Amount/Quantity.
type Buy struct {
	baseCmd
	From     string   // From is the cash account debited.
	To       string   // To is the asset account receiving the lot.
	Quantity Quantity // Quantity is the number of units bought.
	Amount   Money    // Amount is the total cost of the purchase.
}

// NewBuy creates a new Buy transaction.
func NewBuy(day Date, memo, from, to string, quantity Quantity, amount Money) Buy {
	return Buy{
		baseCmd:  baseCmd{Command: CmdBuy, Date: day, Memo: memo},
		From:     from,
		To:       to,
		Quantity: quantity,
		Amount:   amount,
	}
}

func (t Buy) Currency() string { return t.Amount.Currency() }

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("from", t.From)
	w.Append("to", t.To)
	w.Append("quantity", t.Quantity)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Buy.
// It handles the custom structure where amount and currency are separate fields.
func (t *Buy) UnmarshalJSON(data []byte) error {
	// Use a temporary type that has all possible fields.
	var temp struct {
		baseCmd
		amountCmd
		From     string   `json:"from"`
		To       string   `json:"to"`
		Quantity Quantity `json:"quantity"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.From = temp.From
	t.To = temp.To
	t.Quantity = temp.Quantity
	t.Amount = temp.Money()
	return nil
}

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.baseCmd == o.baseCmd && t.From == o.From && t.To == o.To &&
		t.Quantity.Equal(o.Quantity) && t.Amount.Equal(o.Amount)
}

// Validate checks the Buy transaction's fields. It ensures that the quantity
// and amount are positive and that source and destination are of compatible
// kinds when declared.
func (t Buy) Validate(ledger *Ledger) (Transaction, error) {
	t.baseCmd.Validate()

	if t.From == "" {
		return t, errors.New("buy source account is missing")
	}
	if t.To == "" {
		return t, errors.New("buy destination account is missing")
	}
	if !t.Quantity.IsPositive() {
		return t, fmt.Errorf("buy transaction quantity must be positive, got %s", t.Quantity)
	}
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("buy transaction amount must be positive, got %v", t.Amount)
	}
	if decl, ok := ledger.Declaration(t.From); ok && decl.Kind != CashAccount {
		return t, fmt.Errorf("buy source %q is declared as %s, want cash", t.From, decl.Kind)
	}
	if decl, ok := ledger.Declaration(t.To); ok && decl.Kind == CashAccount {
		return t, fmt.Errorf("buy destination %q is declared as cash, want asset or margin", t.To)
	}
	return t, nil
}

// --- Exchange Command ---

// Exchange represents a disposal of an asset at fair value. The destination
// is either a cash account, credited with the proceeds, or another asset
// account, credited with Received units allocated over the consumed lots.
type Exchange struct {
	baseCmd
	From     string   // From is the asset account disposed from.
	To       string   // To is the account receiving the counterpart.
	Quantity Quantity // Quantity is the number of units disposed.
	Received Quantity // Received is the number of units acquired, for asset destinations only.
	Proceeds Money    // Proceeds is the total fair value of the disposal in the home currency.
}

// NewExchange creates a new Exchange transaction.
func NewExchange(day Date, memo, from, to string, quantity, received Quantity, proceeds Money) Exchange {
	return Exchange{
		baseCmd:  baseCmd{Command: CmdExchange, Date: day, Memo: memo},
		From:     from,
		To:       to,
		Quantity: quantity,
		Received: received,
		Proceeds: proceeds,
	}
}

func (t Exchange) Currency() string { return t.Proceeds.Currency() }

// MarshalJSON implements the json.Marshaler interface for Exchange.
func (t Exchange) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("from", t.From)
	w.Append("to", t.To)
	w.Append("quantity", t.Quantity)
	if !t.Received.IsZero() {
		w.Append("received", t.Received)
	}
	w.EmbedFrom(t.Proceeds)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Exchange.
func (t *Exchange) UnmarshalJSON(data []byte) error {
	// Use a temporary type that has all possible fields.
	var temp struct {
		baseCmd
		amountCmd
		From     string   `json:"from"`
		To       string   `json:"to"`
		Quantity Quantity `json:"quantity"`
		Received Quantity `json:"received"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.From = temp.From
	t.To = temp.To
	t.Quantity = temp.Quantity
	t.Received = temp.Received
	t.Proceeds = temp.Money()
	return nil
}

func (t Exchange) Equal(other Transaction) bool {
	o, ok := other.(Exchange)
	return ok && t.baseCmd == o.baseCmd && t.From == o.From && t.To == o.To &&
		t.Quantity.Equal(o.Quantity) && t.Received.Equal(o.Received) && t.Proceeds.Equal(o.Proceeds)
}

// Validate checks the Exchange transaction's fields. Received must be
// positive exactly when the destination is an asset or margin account: an
// asset destination without a received quantity is ambiguous, and a cash
// destination is credited with the proceeds, not a quantity.
func (t Exchange) Validate(ledger *Ledger) (Transaction, error) {
	t.baseCmd.Validate()

	if t.From == "" {
		return t, errors.New("exchange source account is missing")
	}
	if t.To == "" {
		return t, errors.New("exchange destination account is missing")
	}
	if t.From == t.To {
		return t, fmt.Errorf("cannot exchange %q with itself", t.From)
	}
	if !t.Quantity.IsPositive() {
		return t, fmt.Errorf("exchange quantity must be positive, got %s", t.Quantity)
	}
	if t.Proceeds.IsNegative() {
		return t, fmt.Errorf("exchange proceeds must not be negative, got %v", t.Proceeds)
	}
	if t.Received.IsNegative() {
		return t, fmt.Errorf("exchange received quantity must not be negative, got %s", t.Received)
	}
	if decl, ok := ledger.Declaration(t.From); ok && decl.Kind == CashAccount {
		return t, fmt.Errorf("exchange source %q is declared as cash, want asset or margin", t.From)
	}
	if decl, ok := ledger.Declaration(t.To); ok {
		switch decl.Kind {
		case CashAccount:
			if !t.Received.IsZero() {
				return t, fmt.Errorf("exchange to cash account %q must not carry a received quantity", t.To)
			}
		default:
			if !t.Received.IsPositive() {
				return t, fmt.Errorf("exchange to asset account %q requires a positive received quantity", t.To)
			}
		}
	}
	return t, nil
}

// --- Spend Command ---

// Spend represents a disposal of an asset to outside the ledger, at fair
// value. It realizes gain or loss on the consumed lots and records an
// expense of the same value.
type Spend struct {
	baseCmd
	From     string   // From is the asset account disposed from.
	Quantity Quantity // Quantity is the number of units spent.
	Value    Money    // Value is the fair value of the spent units in the home currency.
}

// NewSpend creates a new Spend transaction.
func NewSpend(day Date, memo, from string, quantity Quantity, value Money) Spend {
	return Spend{
		baseCmd:  baseCmd{Command: CmdSpend, Date: day, Memo: memo},
		From:     from,
		Quantity: quantity,
		Value:    value,
	}
}

func (t Spend) Currency() string { return t.Value.Currency() }

// MarshalJSON implements the json.Marshaler interface for Spend.
func (t Spend) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("from", t.From)
	w.Append("quantity", t.Quantity)
	w.EmbedFrom(t.Value)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Spend.
func (t *Spend) UnmarshalJSON(data []byte) error {
	// Use a temporary type that has all possible fields.
	var temp struct {
		baseCmd
		amountCmd
		From     string   `json:"from"`
		Quantity Quantity `json:"quantity"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.From = temp.From
	t.Quantity = temp.Quantity
	t.Value = temp.Money()
	return nil
}

func (t Spend) Equal(other Transaction) bool {
	o, ok := other.(Spend)
	return ok && t.baseCmd == o.baseCmd && t.From == o.From &&
		t.Quantity.Equal(o.Quantity) && t.Value.Equal(o.Value)
}

// Validate checks the Spend transaction's fields.
func (t Spend) Validate(ledger *Ledger) (Transaction, error) {
	t.baseCmd.Validate()

	if t.From == "" {
		return t, errors.New("spend source account is missing")
	}
	if !t.Quantity.IsPositive() {
		return t, fmt.Errorf("spend quantity must be positive, got %s", t.Quantity)
	}
	if t.Value.IsNegative() {
		return t, fmt.Errorf("spend value must not be negative, got %v", t.Value)
	}
	if decl, ok := ledger.Declaration(t.From); ok && decl.Kind == CashAccount {
		return t, fmt.Errorf("spend source %q is declared as cash, want asset or margin", t.From)
	}
	return t, nil
}

// --- Income Command ---

// Income represents units received from outside the ledger (mining, staking,
// payment for services). It creates a lot at fair-value unit cost and records
// an income of the same value.
type Income struct {
	baseCmd
	To       string   // To is the asset account receiving the units.
	Quantity Quantity // Quantity is the number of units received.
	Value    Money    // Value is the fair value of the received units in the home currency.
}

// NewIncome creates a new Income transaction.
func NewIncome(day Date, memo, to string, quantity Quantity, value Money) Income {
	return Income{
		baseCmd:  baseCmd{Command: CmdIncome, Date: day, Memo: memo},
		To:       to,
		Quantity: quantity,
		Value:    value,
	}
}

func (t Income) Currency() string { return t.Value.Currency() }

// MarshalJSON implements the json.Marshaler interface for Income.
func (t Income) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("to", t.To)
	w.Append("quantity", t.Quantity)
	w.EmbedFrom(t.Value)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Income.
func (t *Income) UnmarshalJSON(data []byte) error {
	// Use a temporary type that has all possible fields.
	var temp struct {
		baseCmd
		amountCmd
		To       string   `json:"to"`
		Quantity Quantity `json:"quantity"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.To = temp.To
	t.Quantity = temp.Quantity
	t.Value = temp.Money()
	return nil
}

func (t Income) Equal(other Transaction) bool {
	o, ok := other.(Income)
	return ok && t.baseCmd == o.baseCmd && t.To == o.To &&
		t.Quantity.Equal(o.Quantity) && t.Value.Equal(o.Value)
}

// Validate checks the Income transaction's fields.
func (t Income) Validate(ledger *Ledger) (Transaction, error) {
	t.baseCmd.Validate()

	if t.To == "" {
		return t, errors.New("income destination account is missing")
	}
	if !t.Quantity.IsPositive() {
		return t, fmt.Errorf("income quantity must be positive, got %s", t.Quantity)
	}
	if t.Value.IsNegative() {
		return t, fmt.Errorf("income value must not be negative, got %v", t.Value)
	}
	if decl, ok := ledger.Declaration(t.To); ok && decl.Kind == CashAccount {
		return t, fmt.Errorf("income destination %q is declared as cash, want asset or margin", t.To)
	}
	return t, nil
}
