package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/clienttx"
	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/strongtyping"
)

// StoredInstruction is one journal row.
type StoredInstruction struct {
	ID     string
	Seq    int64
	Record postings.Record
}

// ReadInstructions returns the journaled records of one client transaction
// in seq order.
//
// Returns an empty slice (not nil) if nothing is journaled.
func (s *Store) ReadInstructions(ctx context.Context, accountID, clientTransactionID string) ([]StoredInstruction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, record
		FROM instructions
		WHERE account_id = ? AND client_transaction_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, accountID, clientTransactionID)
	if err != nil {
		return nil, fmt.Errorf("query instructions: %w", err)
	}
	defer rows.Close()

	out := []StoredInstruction{}
	for rows.Next() {
		var (
			si   StoredInstruction
			data string
		)
		if err := rows.Scan(&si.ID, &si.Seq, &data); err != nil {
			return nil, fmt.Errorf("scan instruction: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &si.Record); err != nil {
			return nil, fmt.Errorf("unmarshal instruction %s: %w", si.ID, err)
		}
		out = append(out, si)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instructions: %w", err)
	}
	return out, nil
}

// LoadClientTransaction rebuilds a client transaction from the journal.
// Records are trusted, so only lifecycle rules run during replay.
//
// Returns an error if nothing is journaled for the client transaction.
func (s *Store) LoadClientTransaction(ctx context.Context, accountID, clientTransactionID string, tside balances.Tside) (*clienttx.ClientTransaction, error) {
	stored, err := s.ReadInstructions(ctx, accountID, clientTransactionID)
	if err != nil {
		return nil, fmt.Errorf("load client transaction %s: %w", clientTransactionID, err)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("load client transaction %s: no instructions for account %s", clientTransactionID, accountID)
	}

	instructions := make([]postings.PostingInstruction, 0, len(stored))
	for _, si := range stored {
		pi, err := si.Record.Instruction(strongtyping.Trusted())
		if err != nil {
			return nil, fmt.Errorf("load client transaction %s: instruction %s: %w", clientTransactionID, si.ID, err)
		}
		instructions = append(instructions, pi)
	}

	ct, err := clienttx.New(clientTransactionID, accountID, instructions, tside,
		clienttx.Trusted(),
		clienttx.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("load client transaction %s: %w", clientTransactionID, err)
	}
	s.logger.Debug("loaded client transaction",
		"account_id", accountID,
		"client_transaction_id", clientTransactionID,
		"instructions", len(instructions))
	return ct, nil
}

// ClientTransactionIDs lists the client transactions journaled for
// accountID, ordered by their first instruction.
//
// Returns an empty slice (not nil) if the account has no instructions.
func (s *Store) ClientTransactionIDs(ctx context.Context, accountID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT client_transaction_id
		FROM instructions
		WHERE account_id = ?
		GROUP BY client_transaction_id
		ORDER BY MIN(seq) ASC, client_transaction_id COLLATE BINARY ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query client transaction ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan client transaction id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client transaction ids: %w", err)
	}
	return ids, nil
}
