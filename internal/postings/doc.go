// Package postings models posting instructions: the movements of funds that
// make up a client transaction.
//
// An instruction is proposed when contract code constructs it and committed
// once the ledger has set its output attributes through SetOutputAttributes.
// Only committed instructions carry committed postings, so only they can
// report balances. A CustomInstruction is the exception: its postings are its
// committed postings from construction.
//
// Every constructor validates its arguments unless strongtyping.Trusted() is
// passed, which is how the store and the replay harness rehydrate instructions
// that were validated when they were first written.
package postings
