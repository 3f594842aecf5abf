package escrow

import (
	"github.com/near/borsh-go"

	"github.com/solstice-labs/ledger/errors"
)

// Instruction opcodes. Byte 0 of the buffer selects the operation, bytes
// 1-8 carry a little-endian u64 amount.
const (
	opInitialize byte = 0
	opExchange   byte = 1
)

// amountSize is the serialized size of the u64 amount payload.
const amountSize = 8

// InitializeMsg opens an escrow. Amount is how much of the counter token
// the initializer expects in return for the deposit.
type InitializeMsg struct {
	Amount uint64
}

// ExchangeMsg completes an escrow. Amount is how much of the deposited
// token the taker expects to receive; it must match the live deposit
// balance exactly.
type ExchangeMsg struct {
	Amount uint64
}

// UnpackMsg decodes an instruction buffer. A short buffer or an unknown
// opcode fails with ErrInvalidInstruction.
func UnpackMsg(data []byte) (interface{}, error) {
	if len(data) < 1+amountSize {
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "buffer of %d bytes is too short", len(data))
	}
	var amount uint64
	if err := borsh.Deserialize(&amount, data[1:1+amountSize]); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "amount: %v", err)
	}
	switch data[0] {
	case opInitialize:
		return &InitializeMsg{Amount: amount}, nil
	case opExchange:
		return &ExchangeMsg{Amount: amount}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown opcode %d", data[0])
	}
}

// PackInitialize builds the instruction buffer that opens an escrow.
func PackInitialize(amount uint64) []byte {
	return packAmount(opInitialize, amount)
}

// PackExchange builds the instruction buffer that completes an escrow.
func PackExchange(amount uint64) []byte {
	return packAmount(opExchange, amount)
}

func packAmount(op byte, amount uint64) []byte {
	payload, err := borsh.Serialize(amount)
	if err != nil {
		panic(err)
	}
	return append([]byte{op}, payload...)
}
