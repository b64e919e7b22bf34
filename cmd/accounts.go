package cmd

import (
	"context"
	"flag"

	"cointax/renderer"
	"github.com/google/subcommands"
)

// accountsCmd holds the flags for the 'accounts' subcommand.
type accountsCmd struct {
	configFlags
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "final balances, open lots and cost basis" }
func (*accountsCmd) Usage() string {
	return `ct accounts [-currency <code>] [-method <method>] [-lk-cutoff <date>]

  Processes the ledger and prints the Accounts report: the final balance of
  every account with its open lots and remaining cost basis.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	c.configFlags.SetFlags(f)
}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	state, status := processLedger(&c.configFlags)
	if state == nil {
		return status
	}
	printMarkdown(renderer.AccountsMarkdown(state))
	return subcommands.ExitSuccess
}
