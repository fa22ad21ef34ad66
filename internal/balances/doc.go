// Package balances implements side-aware balance arithmetic: the Tside and
// Phase enumerations, Balance, the BalanceCoordinate key and the
// BalanceDefaultDict aggregate keyed by it.
//
// The net of a Balance depends on the ledger side it is computed for. For
// TsideLiability net is credit minus debit; for TsideAsset it is debit minus
// credit. Adding balances sums credit, debit and net independently and never
// recomputes net, so callers must not mix sides.
package balances

// Default coordinate values used when a posting does not name them.
const (
	DefaultAddress = "DEFAULT"
	DefaultAsset   = "COMMERCIAL_BANK_MONEY"
)
