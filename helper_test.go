package cointax

// test helpers shared by the package tests.

func day(s string) Date { return MustParse(s) }

func usd(v float64) Money { return M(v, "USD") }
