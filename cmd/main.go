package cmd

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"cointax"
	"github.com/google/subcommands"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&processCmd{}, "reports")
	c.Register(&accountsCmd{}, "reports")
	c.Register(&transactionsCmd{}, "reports")
}

var ledgerFile = flag.String("ledger-file", "ledger.jsonl", "Path to the ledger transactions file (JSONL format)")

// DecodeLedger is the central function to open the ledger file.
func DecodeLedger() (ledger *cointax.Ledger, err error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger file does not exist, using an empty ledger instead")
		return cointax.NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return cointax.DecodeLedger(f)
}

// EncodeLedger writes the ledger back to the ledger file.
func EncodeLedger(ledger *cointax.Ledger) error {
	f, err := os.Create(*ledgerFile)
	if err != nil {
		return err
	}
	if err := cointax.EncodeLedger(f, ledger); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// configFlags holds the engine configuration flags shared by the reporting
// subcommands.
type configFlags struct {
	currency     string
	method       string
	lkCutoff     string
	longTermDays int
}

func (c *configFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", cointax.DefaultHomeCurrency, "Home currency of all monetary values")
	f.StringVar(&c.method, "method", "fifo", "Costing method (fifo, lifo)")
	f.StringVar(&c.lkCutoff, "lk-cutoff", "", "Treat exchanges on or before this date as like-kind, deferring their gains")
	f.IntVar(&c.longTermDays, "long-term-days", cointax.DefaultLongTermDays, "Holding period in days above which a gain is long term")
}

// Config builds the engine configuration from the flags.
func (c *configFlags) Config() (cointax.Config, error) {
	cfg := cointax.Config{
		HomeCurrency: c.currency,
		LongTermDays: c.longTermDays,
	}
	method, err := cointax.ParseCostingMethod(c.method)
	if err != nil {
		return cfg, err
	}
	cfg.Method = method
	if c.lkCutoff != "" {
		cutoff, err := cointax.ParseDate(c.lkCutoff)
		if err != nil {
			return cfg, err
		}
		cfg.LikeKind = cointax.LikeKind{Enabled: true, Cutoff: cutoff}
	}
	return cfg, nil
}
