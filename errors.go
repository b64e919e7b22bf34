package cointax

import "fmt"

// ConfigurationError reports an invalid engine configuration.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// MalformedTransactionError reports a transaction that cannot be processed.
// Position is the zero-based index of the transaction in the ledger.
type MalformedTransactionError struct {
	Position int
	Command  CommandType
	Reason   string
}

func (e *MalformedTransactionError) Error() string {
	return fmt.Sprintf("transaction %d: %s", e.Position, e.Reason)
}

// InsufficientBalanceError reports a disposal exceeding the account's
// position. Position is the zero-based index of the transaction in the ledger.
type InsufficientBalanceError struct {
	Position  int
	Date      Date
	Account   string
	Requested Quantity
	Available Quantity
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("transaction %d: on %s, cannot dispose %s from %q, position is only %s",
		e.Position, e.Date, e.Requested, e.Account, e.Available)
}
