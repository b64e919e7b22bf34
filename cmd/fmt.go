package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cointax"
	"github.com/google/subcommands"
)

// fmtCmd holds the flags for the 'fmt' subcommand.
type fmtCmd struct {
	write bool
}

func (*fmtCmd) Name() string     { return "fmt" }
func (*fmtCmd) Synopsis() string { return "reformat the ledger file into canonical form" }
func (*fmtCmd) Usage() string {
	return `ct fmt [-w]

  Re-encodes the ledger file: stable-sorts transactions by date and
  normalizes the JSON key order. Prints to stdout unless -w is given.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.write, "w", false, "write the result back to the ledger file instead of stdout")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	ledger.SortByDate()

	if c.write {
		if err := EncodeLedger(ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing ledger: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	if err := cointax.EncodeLedger(os.Stdout, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
