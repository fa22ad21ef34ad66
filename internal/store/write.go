package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/vaultsdk/internal/postings"
)

// AppendInstruction journals rec against accountID and returns its id.
//
// An id is generated when rec.Output.InstructionID is empty. The record
// receives the next seq; the journal never reorders instructions. The
// client transaction id is rec.ClientTransactionID, falling back to
// rec.Output.ClientTransactionID for instructions that do not carry one.
//
// Appending an id that is already journaled is a no-op and returns the
// existing id.
func (s *Store) AppendInstruction(ctx context.Context, accountID string, rec postings.Record) (string, error) {
	if accountID == "" {
		return "", fmt.Errorf("append instruction: account id is required")
	}
	if !rec.Type.Valid() {
		return "", fmt.Errorf("append instruction: unknown posting instruction type %q", rec.Type)
	}
	ctid := clientTransactionIDOf(rec)
	if ctid == "" {
		return "", fmt.Errorf("append instruction: %s has no client transaction id", rec.Type)
	}

	if rec.Output.InstructionID == "" {
		rec.Output.InstructionID = s.ids.Generate()
	}
	if rec.Output.OwnAccountID == "" {
		rec.Output.OwnAccountID = accountID
	}
	if rec.Output.ClientTransactionID == "" {
		rec.Output.ClientTransactionID = ctid
	}
	id := rec.Output.InstructionID

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("append instruction: marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("append instruction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM instructions`).Scan(&seq); err != nil {
		return "", fmt.Errorf("append instruction: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO instructions
		(id, account_id, client_transaction_id, instruction_type, seq, record, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		accountID,
		ctid,
		string(rec.Type),
		seq,
		string(data),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("append instruction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("append instruction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		s.logger.Debug("instruction already journaled", "id", id)
		return id, nil
	}
	s.logger.Debug("journaled instruction",
		"id", id,
		"account_id", accountID,
		"client_transaction_id", ctid,
		"type", string(rec.Type),
		"seq", seq)
	return id, nil
}

// AppendInstructions journals recs in order. It stops at the first error.
func (s *Store) AppendInstructions(ctx context.Context, accountID string, recs []postings.Record) ([]string, error) {
	ids := make([]string, 0, len(recs))
	for i, rec := range recs {
		id, err := s.AppendInstruction(ctx, accountID, rec)
		if err != nil {
			return ids, fmt.Errorf("instruction %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func clientTransactionIDOf(rec postings.Record) string {
	if rec.ClientTransactionID != "" {
		return rec.ClientTransactionID
	}
	return rec.Output.ClientTransactionID
}

