package escrow

import (
	"github.com/near/borsh-go"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
)

// RecordSize is the exact serialized size of an escrow record: one
// initialization byte, three addresses and a little-endian u64 amount.
const RecordSize = 1 + 3*ledger.AddressLength + 8

// Record is the escrow state persisted in the caller-funded record account
// between Initialize and Exchange.
type Record struct {
	// IsInitialized guards against re-initialization. Every read checks
	// it before trusting the rest of the record.
	IsInitialized bool

	// Initializer is the party that opened the escrow and receives the
	// record's native balance back on completion.
	Initializer ledger.Address

	// DepositAccount is the custodial token account holding the
	// deposited token under the derived address's authority.
	DepositAccount ledger.Address

	// ReceiveAccount is the initializer's token account that must
	// receive the expected amount.
	ReceiveAccount ledger.Address

	// ExpectedAmount is how much of the counter token the initializer
	// asked for.
	ExpectedAmount uint64
}

// Pack serializes the record into its fixed layout.
func (r *Record) Pack() ([]byte, error) {
	raw, err := borsh.Serialize(*r)
	if err != nil {
		return nil, errors.Wrap(err, "serialize escrow record")
	}
	if len(raw) != RecordSize {
		return nil, errors.Wrapf(errors.ErrHuman, "escrow record serialized to %d bytes", len(raw))
	}
	return raw, nil
}

// UnpackRecord reads a record from raw account data. The data must be
// exactly RecordSize bytes; in particular the empty data of a cleared
// record fails here. An all-zero buffer unpacks as an uninitialized record,
// which callers must check via IsInitialized.
func UnpackRecord(data []byte) (*Record, error) {
	if len(data) != RecordSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "escrow record data is %d bytes, want %d", len(data), RecordSize)
	}
	var r Record
	if err := borsh.Deserialize(&r, data); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "escrow record: %v", err)
	}
	return &r, nil
}
