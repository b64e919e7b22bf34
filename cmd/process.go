package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"cointax"
	"cointax/renderer"
	"github.com/google/subcommands"
)

// processCmd holds the flags for the 'process' subcommand.
type processCmd struct {
	configFlags
	output string
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "run the engine and produce all reports" }
func (*processCmd) Usage() string {
	return `ct process [-currency <code>] [-method <method>] [-lk-cutoff <date>] [-o <dir>]

  Processes the ledger and prints the Accounts and Transactions reports.
  With -o, also writes both reports to the directory as markdown and CSV.
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {
	c.configFlags.SetFlags(f)
	f.StringVar(&c.output, "o", "", "directory to write the report files to")
}

func (c *processCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	state, status := processLedger(&c.configFlags)
	if state == nil {
		return status
	}

	accounts := renderer.AccountsMarkdown(state)
	transactions := renderer.TransactionsMarkdown(state)
	printMarkdown(accounts)
	printMarkdown(transactions)

	if c.output == "" {
		return subcommands.ExitSuccess
	}
	if err := c.export(state, accounts, transactions); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting reports: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// export writes both report families to the output directory.
func (c *processCmd) export(state *cointax.LedgerState, accounts, transactions string) error {
	if err := os.MkdirAll(c.output, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.output, "accounts.md"), []byte(accounts), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(c.output, "transactions.md"), []byte(transactions), 0o644); err != nil {
		return err
	}

	af, err := os.Create(filepath.Join(c.output, "accounts.csv"))
	if err != nil {
		return err
	}
	if err := renderer.AccountsCSV(af, state); err != nil {
		af.Close()
		return err
	}
	if err := af.Close(); err != nil {
		return err
	}

	tf, err := os.Create(filepath.Join(c.output, "transactions.csv"))
	if err != nil {
		return err
	}
	if err := renderer.TransactionsCSV(tf, state); err != nil {
		tf.Close()
		return err
	}
	return tf.Close()
}

// processLedger loads the ledger and runs the engine with the flag
// configuration. On failure it reports the error and returns a nil state
// with the exit status to use.
func processLedger(flags *configFlags) (*cointax.LedgerState, subcommands.ExitStatus) {
	cfg, err := flags.Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in configuration: %v\n", err)
		return nil, subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", *ledgerFile, err)
		return nil, subcommands.ExitFailure
	}

	state, err := cointax.Process(ledger, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error processing ledger: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return state, subcommands.ExitSuccess
}
