// Package cointax computes cost basis, realized gain and loss, income and
// expense from an ordered transaction log. It is designed to be local-first,
// auditable, and deterministic: the same ledger and configuration always
// produce the same result.
//
// The core functionalities include:
//   - Ledger Management: Recording transactions (deposits, withdrawals, buys,
//     exchanges, spends, and income) in an ordered, human-readable record.
//   - Lot Accounting: Per-account lot inventories tracking acquisition date,
//     quantity, and unit cost, consumed under a configurable costing method
//     (FIFO or LIFO).
//   - Tax Engine: A stateless fold over the ledger that produces realized
//     gain/loss records with short/long term classification, income records,
//     and expense records.
//   - Like-Kind Deferral: Optional deferral of gains on asset-to-asset
//     exchanges dated on or before a cutoff, carrying basis and acquisition
//     date forward into the received lots.
//   - Data Persistence: Encoding and decoding of the ledger to and from
//     human-readable, version-controllable formats (JSONL, CSV).
//
// This package serves as the foundational logic for the `ct` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package cointax
