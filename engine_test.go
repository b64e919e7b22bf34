package cointax

import (
	"errors"
	"testing"
)

func TestProcess_FIFODisposalSpillsAcrossLots(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2018-01-01"), "", "Bank", "Wallet", Q(2), usd(200)),
		NewBuy(day("2018-06-01"), "", "Bank", "Wallet", Q(1), usd(400)),
		NewExchange(day("2019-07-01"), "", "Wallet", "Bank", Q(2.5), Q(0), usd(1250)),
	)

	state, err := Process(ledger, Config{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(state.GainLosses) != 2 {
		t.Fatalf("got %d gain/loss records, want 2", len(state.GainLosses))
	}
	first, second := state.GainLosses[0], state.GainLosses[1]

	if !first.Quantity.Equal(Q(2)) || !first.Proceeds.Equal(usd(1000)) || !first.Gain.Equal(usd(800)) {
		t.Errorf("first record = %s units, proceeds %s, gain %s; want 2, $1,000.00, $800.00",
			first.Quantity, first.Proceeds, first.Gain)
	}
	if first.Acquired != day("2018-01-01") || first.Term != LongTerm {
		t.Errorf("first record acquired %s term %s, want 2018-01-01 long", first.Acquired, first.Term)
	}
	if !second.Quantity.Equal(Q(0.5)) || !second.Proceeds.Equal(usd(250)) || !second.Gain.Equal(usd(50)) {
		t.Errorf("second record = %s units, proceeds %s, gain %s; want 0.5, $250.00, $50.00",
			second.Quantity, second.Proceeds, second.Gain)
	}

	wallet := state.Book.Lookup("Wallet")
	if !wallet.Position().Equal(Q(0.5)) {
		t.Errorf("Wallet position = %s, want 0.5", wallet.Position())
	}
	if !wallet.CostBasis().Equal(usd(200)) {
		t.Errorf("Wallet cost basis = %s, want $200.00", wallet.CostBasis())
	}
	bank := state.Book.Lookup("Bank")
	if !bank.Cash.Equal(usd(650)) {
		t.Errorf("Bank balance = %s, want $650.00", bank.Cash)
	}
}

func TestProcess_LIFOConsumesNewestFirst(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2018-01-01"), "", "Bank", "Wallet", Q(2), usd(200)),
		NewBuy(day("2018-06-01"), "", "Bank", "Wallet", Q(1), usd(400)),
		NewExchange(day("2019-07-01"), "", "Wallet", "Bank", Q(1), Q(0), usd(500)),
	)

	state, err := Process(ledger, Config{Method: LIFO})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(state.GainLosses) != 1 {
		t.Fatalf("got %d gain/loss records, want 1", len(state.GainLosses))
	}
	r := state.GainLosses[0]
	if !r.CostBasis.Equal(usd(400)) || !r.Gain.Equal(usd(100)) {
		t.Errorf("record basis %s gain %s, want $400.00 and $100.00", r.CostBasis, r.Gain)
	}
	if r.Acquired != day("2018-06-01") {
		t.Errorf("record acquired %s, want 2018-06-01", r.Acquired)
	}
}

func TestProcess_CashBalanceHasNoFloor(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewDeposit(day("2020-01-01"), "", "Bank", usd(100)),
		NewWithdraw(day("2020-01-02"), "", "Bank", usd(250)),
	)

	state, err := Process(ledger, Config{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := state.Book.Lookup("Bank").Cash; !got.Equal(usd(-150)) {
		t.Errorf("Bank balance = %s, want -$150.00", got)
	}
}

func TestProcess_InsufficientBalanceAborts(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewDeposit(day("2020-01-01"), "", "Bank", usd(1000)),
		NewBuy(day("2020-01-02"), "", "Bank", "Wallet", Q(3), usd(300)),
		NewExchange(day("2020-02-01"), "", "Wallet", "Bank", Q(5), Q(0), usd(900)),
	)

	state, err := Process(ledger, Config{})
	var insufficient *InsufficientBalanceError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Process() error = %v, want an InsufficientBalanceError", err)
	}
	if insufficient.Position != 2 {
		t.Errorf("error position = %d, want 2", insufficient.Position)
	}
	if !insufficient.Requested.Equal(Q(5)) || !insufficient.Available.Equal(Q(3)) {
		t.Errorf("error reports %s requested %s available, want 5 and 3",
			insufficient.Requested, insufficient.Available)
	}

	// the state is as of the transaction before the failing one
	if got := state.Book.Lookup("Wallet").Position(); !got.Equal(Q(3)) {
		t.Errorf("Wallet position = %s, want 3 (unchanged)", got)
	}
	if got := state.Book.Lookup("Bank").Cash; !got.Equal(usd(700)) {
		t.Errorf("Bank balance = %s, want $700.00 (unchanged)", got)
	}
	if len(state.GainLosses) != 0 {
		t.Errorf("got %d gain/loss records, want none", len(state.GainLosses))
	}
}

func TestProcess_SpendRealizesGainAndExpense(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2019-01-01"), "", "Bank", "Wallet", Q(1), usd(100)),
		NewSpend(day("2019-03-01"), "coffee", "Wallet", Q(1), usd(500)),
	)

	state, err := Process(ledger, Config{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(state.GainLosses) != 1 {
		t.Fatalf("got %d gain/loss records, want 1", len(state.GainLosses))
	}
	r := state.GainLosses[0]
	if !r.Gain.Equal(usd(400)) || r.Term != ShortTerm {
		t.Errorf("record gain %s term %s, want $400.00 short", r.Gain, r.Term)
	}
	if len(state.Expenses) != 1 || !state.Expenses[0].Value.Equal(usd(500)) {
		t.Fatalf("expenses = %v, want a single $500.00 record", state.Expenses)
	}
	if got := state.Book.Lookup("Wallet").Position(); !got.IsZero() {
		t.Errorf("Wallet position = %s, want 0", got)
	}
}

func TestProcess_IncomeCreatesLotAtFairValue(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewIncome(day("2021-05-01"), "mining", "Wallet", Q(2), usd(300)),
	)

	state, err := Process(ledger, Config{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(state.Incomes) != 1 || !state.Incomes[0].Value.Equal(usd(300)) {
		t.Fatalf("incomes = %v, want a single $300.00 record", state.Incomes)
	}
	wallet := state.Book.Lookup("Wallet")
	open := wallet.OpenLots()
	if len(open) != 1 {
		t.Fatalf("Wallet has %d lots, want 1", len(open))
	}
	if !open[0].UnitCost.Equal(usd(150)) {
		t.Errorf("lot unit cost = %s, want $150.00", open[0].UnitCost)
	}
}

func TestProcess_MarginBorrowGoesNegative(t *testing.T) {
	ledger := NewLedger()
	if err := ledger.Declare("Broker", MarginAccount, "BTC"); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	ledger.Append(
		NewExchange(day("2020-01-01"), "short sale", "Broker", "Bank", Q(1), Q(0), usd(500)),
	)

	state, err := Process(ledger, Config{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	broker := state.Book.Lookup("Broker")
	if !broker.Position().Equal(Q(-1)) {
		t.Errorf("Broker position = %s, want -1", broker.Position())
	}
	// the borrowed portion is disposed at its own fair value
	if len(state.GainLosses) != 1 || !state.GainLosses[0].Gain.IsZero() {
		t.Errorf("gain/losses = %v, want a single zero gain record", state.GainLosses)
	}
	if got := state.Book.Lookup("Bank").Cash; !got.Equal(usd(500)) {
		t.Errorf("Bank balance = %s, want $500.00", got)
	}
}

func TestProcess_AssetDestinationCreatesLots(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2020-01-01"), "", "Bank", "Wallet BTC", Q(1), usd(100)),
		NewExchange(day("2020-06-01"), "", "Wallet BTC", "Wallet ETH", Q(1), Q(10), usd(500)),
	)

	state, err := Process(ledger, Config{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(state.GainLosses) != 1 || !state.GainLosses[0].Gain.Equal(usd(400)) {
		t.Fatalf("gain/losses = %v, want a single $400.00 gain", state.GainLosses)
	}
	eth := state.Book.Lookup("Wallet ETH")
	if eth == nil || eth.Kind != AssetAccount {
		t.Fatalf("Wallet ETH = %v, want an asset account", eth)
	}
	open := eth.OpenLots()
	if len(open) != 1 {
		t.Fatalf("Wallet ETH has %d lots, want 1", len(open))
	}
	if open[0].Acquired != day("2020-06-01") || !open[0].UnitCost.Equal(usd(50)) {
		t.Errorf("lot acquired %s @ %s, want 2020-06-01 @ $50.00", open[0].Acquired, open[0].UnitCost)
	}
}

func TestProcess_MixedKindAccountUseIsRejected(t *testing.T) {
	t.Run("cash then asset", func(t *testing.T) {
		ledger := NewLedger()
		ledger.Append(
			NewDeposit(day("2020-01-01"), "", "Bank", usd(1000)),
			NewBuy(day("2020-01-02"), "", "Bank", "Wallet", Q(2), usd(200)),
			NewExchange(day("2020-02-01"), "", "Wallet", "Bank", Q(1), Q(5), usd(500)),
		)

		state, err := Process(ledger, Config{})
		var malformed *MalformedTransactionError
		if !errors.As(err, &malformed) {
			t.Fatalf("Process() error = %v, want a MalformedTransactionError", err)
		}
		if malformed.Position != 2 {
			t.Errorf("error position = %d, want 2", malformed.Position)
		}

		// Bank must stay a pure cash account, with the exchange rolled back
		bank := state.Book.Lookup("Bank")
		if bank.Kind != CashAccount || len(bank.OpenLots()) != 0 {
			t.Errorf("Bank is %s with %d lots, want cash with none", bank.Kind, len(bank.OpenLots()))
		}
		if !bank.Cash.Equal(usd(800)) {
			t.Errorf("Bank balance = %s, want $800.00 (unchanged)", bank.Cash)
		}
		if got := state.Book.Lookup("Wallet").Position(); !got.Equal(Q(2)) {
			t.Errorf("Wallet position = %s, want 2 (unchanged)", got)
		}
	})
	t.Run("asset then cash", func(t *testing.T) {
		ledger := NewLedger()
		ledger.Append(
			NewBuy(day("2020-01-01"), "", "Bank", "Wallet", Q(1), usd(100)),
			NewDeposit(day("2020-02-01"), "", "Wallet", usd(50)),
		)

		_, err := Process(ledger, Config{})
		var malformed *MalformedTransactionError
		if !errors.As(err, &malformed) {
			t.Fatalf("Process() error = %v, want a MalformedTransactionError", err)
		}
		if malformed.Position != 1 {
			t.Errorf("error position = %d, want 1", malformed.Position)
		}
	})
}

func TestProcess_ExchangeReceivedTooSmallIsRejected(t *testing.T) {
	// the tiny portion's received share rounds to zero under the division
	// precision, which must not panic the run
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2020-01-01"), "", "Bank", "Wallet", Q(1e-8), usd(1)),
		NewBuy(day("2020-02-01"), "", "Bank", "Wallet", Q(1e9), usd(100)),
		NewExchange(day("2020-06-01"), "", "Wallet", "Wallet ETH", Q(1e-8).Add(Q(1e9)), Q(1e-10), usd(1000)),
	)

	state, err := Process(ledger, Config{})
	var malformed *MalformedTransactionError
	if !errors.As(err, &malformed) {
		t.Fatalf("Process() error = %v, want a MalformedTransactionError", err)
	}
	if malformed.Position != 2 {
		t.Errorf("error position = %d, want 2", malformed.Position)
	}

	// the source inventory is untouched
	wallet := state.Book.Lookup("Wallet")
	if got := wallet.Position(); !got.Equal(Q(1e-8).Add(Q(1e9))) {
		t.Errorf("Wallet position = %s, want 1000000000.00000001 (unchanged)", got)
	}
	if len(wallet.OpenLots()) != 2 {
		t.Errorf("Wallet has %d lots, want 2 (unchanged)", len(wallet.OpenLots()))
	}
	if state.Book.Lookup("Wallet ETH") != nil && len(state.Book.Lookup("Wallet ETH").OpenLots()) != 0 {
		t.Error("Wallet ETH received lots from the rejected exchange")
	}
}

func TestProcess_ProRataProceedsSumToTotal(t *testing.T) {
	// one third of 100 does not terminate, the last share absorbs the
	// division remainder
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2020-01-01"), "", "Bank", "Wallet", Q(1), usd(10)),
		NewBuy(day("2020-02-01"), "", "Bank", "Wallet", Q(2), usd(20)),
		NewExchange(day("2020-06-01"), "", "Wallet", "Bank", Q(3), Q(0), usd(100)),
	)

	state, err := Process(ledger, Config{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(state.GainLosses) != 2 {
		t.Fatalf("got %d gain/loss records, want 2", len(state.GainLosses))
	}
	total := state.GainLosses[0].Proceeds.Add(state.GainLosses[1].Proceeds)
	if !total.Equal(usd(100)) {
		t.Errorf("proceeds sum = %s, want exactly $100.00", total)
	}
	if got := state.RealizedGains(ShortTerm); !got.Equal(usd(70)) {
		t.Errorf("realized gains = %s, want exactly $70.00", got)
	}
}

func TestProcess_OutOfOrderLedgerIsRejected(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewDeposit(day("2020-02-01"), "", "Bank", usd(100)),
		NewDeposit(day("2020-01-01"), "", "Bank", usd(100)),
	)

	_, err := Process(ledger, Config{})
	var malformed *MalformedTransactionError
	if !errors.As(err, &malformed) {
		t.Fatalf("Process() error = %v, want a MalformedTransactionError", err)
	}
	if malformed.Position != 1 {
		t.Errorf("error position = %d, want 1", malformed.Position)
	}
}

func TestProcess_ForeignCurrencyIsRejected(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewDeposit(day("2020-01-01"), "", "Bank", M(100, "EUR")),
	)

	_, err := Process(ledger, Config{HomeCurrency: "USD"})
	var malformed *MalformedTransactionError
	if !errors.As(err, &malformed) {
		t.Fatalf("Process() error = %v, want a MalformedTransactionError", err)
	}
}

func TestProcess_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad currency", Config{HomeCurrency: "NOPE"}},
		{"negative threshold", Config{LongTermDays: -1}},
		{"like-kind without cutoff", Config{LikeKind: LikeKind{Enabled: true}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Process(NewLedger(), tc.cfg)
			var conf *ConfigurationError
			if !errors.As(err, &conf) {
				t.Errorf("Process() error = %v, want a ConfigurationError", err)
			}
		})
	}
}

func TestClassifyTerm(t *testing.T) {
	tests := []struct {
		name     string
		acquired string
		disposed string
		want     Term
	}{
		{"same day", "2018-01-01", "2018-01-01", ShortTerm},
		{"exactly at threshold", "2018-01-01", "2019-01-01", ShortTerm},
		{"one day past threshold", "2018-01-01", "2019-01-02", LongTerm},
		{"years later", "2018-01-01", "2021-01-01", LongTerm},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyTerm(day(tc.acquired), day(tc.disposed), DefaultLongTermDays)
			if got != tc.want {
				t.Errorf("classifyTerm(%s, %s) = %s, want %s", tc.acquired, tc.disposed, got, tc.want)
			}
		})
	}
}
