package cmd

import (
	"context"
	"flag"

	"cointax/renderer"
	"github.com/google/subcommands"
)

// transactionsCmd holds the flags for the 'transactions' subcommand.
type transactionsCmd struct {
	configFlags
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "realized gains, income and expenses" }
func (*transactionsCmd) Usage() string {
	return `ct transactions [-currency <code>] [-method <method>] [-lk-cutoff <date>]

  Processes the ledger and prints the Transactions report: every realized
  gain or loss with its term, plus income and expenses.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	c.configFlags.SetFlags(f)
}

func (c *transactionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	state, status := processLedger(&c.configFlags)
	if state == nil {
		return status
	}
	printMarkdown(renderer.TransactionsMarkdown(state))
	return subcommands.ExitSuccess
}
