package postings

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/strongtyping"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

const settlementYAML = `
type: Settlement
client_transaction_id: ct-1
amount: 0.1
final: true
transaction_code:
  domain: PMNT
  family: ICDT
  subfamily: STDO
output:
  id: pi-2
  value_datetime: 2023-03-01T12:00:00Z
  own_account_id: acc
  tside: LIABILITY
  denomination: GBP
  committed_postings:
    - credit: false
      amount: 0.1
      denomination: GBP
      account_id: acc
      account_address: DEFAULT
      asset: COMMERCIAL_BANK_MONEY
      phase: PENDING_IN
    - credit: true
      amount: 0.1
      denomination: GBP
      account_id: acc
      account_address: DEFAULT
      asset: COMMERCIAL_BANK_MONEY
      phase: COMMITTED
`

func decodeRecord(t *testing.T, src string) Record {
	t.Helper()
	var r Record
	dec := yaml.NewDecoder(bytes.NewBufferString(src))
	dec.KnownFields(true)
	require.NoError(t, dec.Decode(&r))
	return r
}

func TestRecordInstructionFromYAML(t *testing.T) {
	r := decodeRecord(t, settlementYAML)
	pi, err := r.Instruction()
	require.NoError(t, err)

	s, ok := pi.(*Settlement)
	require.True(t, ok)
	assert.True(t, s.IsFinal())
	assert.True(t, s.Amount.Equal(d("0.1")))
	assert.Equal(t, "pi-2", s.ID())
	assert.Equal(t, valueTime, *s.ValueDatetime())
	assert.Equal(t, "GBP", s.Denomination())
	require.NotNil(t, s.TransactionCode)
	assert.Equal(t, "ICDT", s.TransactionCode.Family)

	got, err := s.Balances("", 0)
	require.NoError(t, err)
	committed := posting("acc", true, "0.1", balances.PhaseCommitted).Coordinate()
	pending := posting("acc", true, "0.1", balances.PhasePendingIn).Coordinate()
	assert.True(t, got.Get(committed).Net.Equal(d("0.1")))
	assert.True(t, got.Get(pending).Net.Equal(d("-0.1")))
}

func TestRecordUnknownFieldRejected(t *testing.T) {
	var r Record
	dec := yaml.NewDecoder(bytes.NewBufferString("type: Release\nclient_txn: ct-1\n"))
	dec.KnownFields(true)
	assert.Error(t, dec.Decode(&r))
}

func TestRecordUnknownType(t *testing.T) {
	_, err := Record{Type: "Refund"}.Instruction()
	assert.EqualError(t, err, `unknown posting instruction type "Refund"`)
}

func TestRecordInstructionValidates(t *testing.T) {
	_, err := Record{Type: TypeCustomInstruction}.Instruction()
	assert.EqualError(t, err, "'CustomInstruction.postings' must be a non empty list, got None")

	pi, err := Record{Type: TypeCustomInstruction}.Instruction(strongtyping.Trusted())
	require.NoError(t, err)
	assert.Equal(t, TypeCustomInstruction, pi.Type())
}

func TestRecordOfRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		pi   func(t *testing.T) PostingInstruction
	}{
		{"settlement", func(t *testing.T) PostingInstruction {
			pi, err := decodeRecord(t, settlementYAML).Instruction()
			require.NoError(t, err)
			return pi
		}},
		{"outbound authorisation", func(t *testing.T) PostingInstruction {
			a := outboundAuth(t, "40")
			require.NoError(t, a.SetOutputAttributes(OutputAttributes{
				InstructionID: "pi-1",
				ValueDatetime: &valueTime,
				CommittedPostings: []Posting{
					posting("acc", false, "40", balances.PhasePendingOut),
				},
			}))
			return a
		}},
		{"adjustment", func(t *testing.T) PostingInstruction {
			a, err := NewAuthorisationAdjustment(AuthorisationAdjustment{
				ClientTransactionID: "ct-1",
				AdjustmentAmount:    &AdjustmentAmount{Amount: dp("7")},
			})
			require.NoError(t, err)
			require.NoError(t, a.SetOutputAttributes(OutputAttributes{AuthorisedAmount: dp("47"), DeltaAmount: dp("7")}))
			return a
		}},
		{"custom", func(t *testing.T) PostingInstruction {
			c, err := NewCustomInstruction(CustomInstruction{
				Postings: []Posting{
					posting("acc", true, "5", balances.PhaseCommitted),
					posting("other", false, "5", balances.PhaseCommitted),
				},
				Base: Base{InstructionDetails: map[string]string{"note": "fee"}},
			})
			require.NoError(t, err)
			return c
		}},
		{"transfer", func(t *testing.T) PostingInstruction {
			tr, err := NewTransfer(Transfer{Amount: d("3"), Denomination: "GBP", DebtorTargetAccountID: "a", CreditorTargetAccountID: "b"})
			require.NoError(t, err)
			return tr
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := RecordOf(tt.pi(t))

			data, err := json.Marshal(want)
			require.NoError(t, err)
			var fromJSON Record
			require.NoError(t, json.Unmarshal(data, &fromJSON))
			assert.Empty(t, cmp.Diff(want, fromJSON, decimalComparer))

			data, err = yaml.Marshal(want)
			require.NoError(t, err)
			fromYAML := decodeRecord(t, string(data))
			assert.Empty(t, cmp.Diff(want, fromYAML, decimalComparer))

			pi, err := fromYAML.Instruction(strongtyping.Trusted())
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(want, RecordOf(pi), decimalComparer))
		})
	}
}
