package token

import (
	"github.com/near/borsh-go"

	"github.com/solstice-labs/ledger"
	"github.com/solstice-labs/ledger/errors"
)

// Instruction opcodes. Byte 0 of the instruction buffer selects the
// operation, the rest is the borsh-encoded payload.
const (
	opInitializeAccount byte = 0
	opTransfer          byte = 1
	opSetAuthority      byte = 2
	opCloseAccount      byte = 3
	opMintTo            byte = 4
)

// InitializeAccountMsg turns a rent-exempt ledger account owned by the
// service into a token account.
type InitializeAccountMsg struct {
	Mint      ledger.Address
	Authority ledger.Address
}

// TransferMsg moves Amount from the source to the destination account.
type TransferMsg struct {
	Amount uint64
}

// SetAuthorityMsg reassigns the source account's transfer authority.
type SetAuthorityMsg struct {
	NewAuthority ledger.Address
}

// CloseAccountMsg closes an emptied token account and sends its native
// balance to the destination.
type CloseAccountMsg struct{}

// MintToMsg creates Amount new tokens in the account. Only the mint itself
// may authorize new supply.
type MintToMsg struct {
	Amount uint64
}

// UnpackMsg decodes an instruction buffer into one of the typed messages.
func UnpackMsg(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "empty instruction")
	}
	payload := data[1:]
	switch data[0] {
	case opInitializeAccount:
		var msg InitializeAccountMsg
		if err := borsh.Deserialize(&msg, payload); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInstruction, "initialize account: %v", err)
		}
		return &msg, nil
	case opTransfer:
		var msg TransferMsg
		if err := borsh.Deserialize(&msg, payload); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInstruction, "transfer: %v", err)
		}
		return &msg, nil
	case opSetAuthority:
		var msg SetAuthorityMsg
		if err := borsh.Deserialize(&msg, payload); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInstruction, "set authority: %v", err)
		}
		return &msg, nil
	case opCloseAccount:
		return &CloseAccountMsg{}, nil
	case opMintTo:
		var msg MintToMsg
		if err := borsh.Deserialize(&msg, payload); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInstruction, "mint to: %v", err)
		}
		return &msg, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown opcode %d", data[0])
	}
}

func packMsg(op byte, msg interface{}) []byte {
	payload, err := borsh.Serialize(msg)
	if err != nil {
		// All message types serialize; anything else is a coding error.
		panic(err)
	}
	return append([]byte{op}, payload...)
}
