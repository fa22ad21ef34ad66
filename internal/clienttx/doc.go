// Package clienttx replays the posting instructions of one client transaction
// on one account.
//
// A client transaction opens with an authorisation, a hard settlement, a
// transfer or a custom instruction. Authorisations may be followed by
// adjustments, settlements and a release; a release or a final settlement
// closes the transaction. Ledger enforces that lifecycle and keeps running
// balances; ClientTransaction wraps it with the contract-facing queries
// (balances, effects, released, completed).
package clienttx
