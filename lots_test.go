package cointax

import "testing"

func inventory() lots {
	return lots{
		{Acquired: day("2018-01-01"), Original: Q(2), Remaining: Q(2), UnitCost: usd(100)},
		{Acquired: day("2018-06-01"), Original: Q(1), Remaining: Q(1), UnitCost: usd(400)},
	}
}

func TestLots_Take_FIFO(t *testing.T) {
	taken, rest, short := inventory().take(Q(2.5), FIFO)

	if !short.IsZero() {
		t.Fatalf("take() short = %s, want 0", short)
	}
	if len(taken) != 2 {
		t.Fatalf("take() produced %d portions, want 2", len(taken))
	}
	if !taken[0].Quantity.Equal(Q(2)) || !taken[0].UnitCost.Equal(usd(100)) {
		t.Errorf("first portion = %s @ %s, want 2 @ $100.00", taken[0].Quantity, taken[0].UnitCost)
	}
	if !taken[1].Quantity.Equal(Q(0.5)) || !taken[1].UnitCost.Equal(usd(400)) {
		t.Errorf("second portion = %s @ %s, want 0.5 @ $400.00", taken[1].Quantity, taken[1].UnitCost)
	}
	if len(rest) != 1 || !rest[0].Remaining.Equal(Q(0.5)) {
		t.Errorf("rest = %v, want a single lot of 0.5", rest)
	}
	if got := rest[0].Acquired; got != day("2018-06-01") {
		t.Errorf("surviving lot acquired on %s, want 2018-06-01", got)
	}
}

func TestLots_Take_LIFO(t *testing.T) {
	taken, rest, short := inventory().take(Q(2.5), LIFO)

	if !short.IsZero() {
		t.Fatalf("take() short = %s, want 0", short)
	}
	if len(taken) != 2 {
		t.Fatalf("take() produced %d portions, want 2", len(taken))
	}
	// newest lot first
	if !taken[0].Quantity.Equal(Q(1)) || !taken[0].UnitCost.Equal(usd(400)) {
		t.Errorf("first portion = %s @ %s, want 1 @ $400.00", taken[0].Quantity, taken[0].UnitCost)
	}
	if !taken[1].Quantity.Equal(Q(1.5)) || !taken[1].UnitCost.Equal(usd(100)) {
		t.Errorf("second portion = %s @ %s, want 1.5 @ $100.00", taken[1].Quantity, taken[1].UnitCost)
	}
	if len(rest) != 1 || !rest[0].Remaining.Equal(Q(0.5)) {
		t.Errorf("rest = %v, want a single lot of 0.5", rest)
	}
}

func TestLots_Take_SameDayTieBreak(t *testing.T) {
	l := lots{
		{Acquired: day("2020-03-01"), Original: Q(1), Remaining: Q(1), UnitCost: usd(10)},
		{Acquired: day("2020-03-01"), Original: Q(1), Remaining: Q(1), UnitCost: usd(20)},
	}

	for _, tc := range []struct {
		method CostingMethod
		want   Money
	}{
		{FIFO, usd(10)},
		{LIFO, usd(10)}, // same date: insertion order breaks the tie for both methods
	} {
		t.Run(tc.method.String(), func(t *testing.T) {
			taken, _, _ := l.take(Q(1), tc.method)
			if len(taken) != 1 {
				t.Fatalf("take() produced %d portions, want 1", len(taken))
			}
			if !taken[0].UnitCost.Equal(tc.want) {
				t.Errorf("consumed unit cost = %s, want %s", taken[0].UnitCost, tc.want)
			}
		})
	}
}

func TestLots_Take_Shortfall(t *testing.T) {
	taken, rest, short := inventory().take(Q(5), FIFO)

	if !short.Equal(Q(2)) {
		t.Errorf("take() short = %s, want 2", short)
	}
	if len(taken) != 2 {
		t.Errorf("take() produced %d portions, want 2", len(taken))
	}
	if len(rest) != 0 {
		t.Errorf("rest = %v, want empty", rest)
	}
}

func TestLots_Take_IsPure(t *testing.T) {
	l := inventory()
	l.take(Q(2.5), FIFO)

	if !l.Quantity().Equal(Q(3)) {
		t.Errorf("receiver was mutated, quantity = %s, want 3", l.Quantity())
	}
}

func TestLots_Take_SkipsBorrowLots(t *testing.T) {
	l := lots{
		{Acquired: day("2020-01-01"), Original: Q(-1), Remaining: Q(-1), UnitCost: usd(500)},
		{Acquired: day("2020-02-01"), Original: Q(2), Remaining: Q(2), UnitCost: usd(100)},
	}
	taken, rest, short := l.take(Q(1), FIFO)

	if !short.IsZero() {
		t.Fatalf("take() short = %s, want 0", short)
	}
	if len(taken) != 1 || !taken[0].UnitCost.Equal(usd(100)) {
		t.Fatalf("taken = %v, want a single portion from the positive lot", taken)
	}
	if !rest.Quantity().Equal(Q(0)) {
		t.Errorf("rest quantity = %s, want 0", rest.Quantity())
	}
}

func TestLots_CostBasis(t *testing.T) {
	if got := inventory().CostBasis(); !got.Equal(usd(600)) {
		t.Errorf("CostBasis() = %s, want $600.00", got)
	}
}
