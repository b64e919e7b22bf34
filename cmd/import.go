package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cointax"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a transaction history from CSV" }
func (*importCmd) Usage() string {
	return `ct import -i <file.csv>

  Imports a full transaction history from a CSV file and writes it to the
  ledger file in JSONL format.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "i", "", "CSV file to import, defaults to stdin")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in := os.Stdin
	if c.file != "" {
		var err error
		in, err = os.Open(c.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.file, err)
			return subcommands.ExitFailure
		}
		defer in.Close()
	}

	ledger, err := cointax.ImportLedger(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger.SortByDate()

	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d transactions into %s\n", ledger.Len(), *ledgerFile)
	return subcommands.ExitSuccess
}
