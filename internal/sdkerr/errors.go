// Package sdkerr defines the error kinds surfaced to contract authors.
//
// Messages are part of the contract-author visible surface: tests assert on
// exact text, so Error() returns the message verbatim with no kind prefix.
package sdkerr

import (
	"errors"
	"fmt"
)

// Kind categorizes SDK errors.
type Kind string

const (
	// KindStrongTyping indicates a value did not conform to its declared type.
	KindStrongTyping Kind = "STRONG_TYPING"

	// KindInvalidSmartContract indicates a type-correct value that breaks a business rule.
	KindInvalidSmartContract Kind = "INVALID_SMART_CONTRACT"

	// KindInvalidPostingInstruction indicates a structural or replay violation within a
	// client transaction.
	KindInvalidPostingInstruction Kind = "INVALID_POSTING_INSTRUCTION"
)

// Error is an SDK error with a stable, deterministic message.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// StrongTypingf creates a KindStrongTyping error.
func StrongTypingf(format string, args ...any) *Error {
	return &Error{Kind: KindStrongTyping, Message: fmt.Sprintf(format, args...)}
}

// InvalidSmartContractf creates a KindInvalidSmartContract error.
func InvalidSmartContractf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidSmartContract, Message: fmt.Sprintf(format, args...)}
}

// InvalidPostingInstructionf creates a KindInvalidPostingInstruction error.
func InvalidPostingInstructionf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidPostingInstruction, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or "" if err is not an SDK error.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsStrongTyping returns true if err is a strong typing error.
func IsStrongTyping(err error) bool {
	return KindOf(err) == KindStrongTyping
}

// IsInvalidSmartContract returns true if err is a business-rule violation.
func IsInvalidSmartContract(err error) bool {
	return KindOf(err) == KindInvalidSmartContract
}

// IsInvalidPostingInstruction returns true if err is a client transaction violation.
func IsInvalidPostingInstruction(err error) bool {
	return KindOf(err) == KindInvalidPostingInstruction
}
