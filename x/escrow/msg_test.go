package escrow

import (
	"testing"

	"github.com/solstice-labs/ledger/errors"
	"github.com/solstice-labs/ledger/ledgertest/assert"
)

func TestUnpackMsg(t *testing.T) {
	cases := map[string]struct {
		data    []byte
		want    interface{}
		wantErr *errors.Error
	}{
		"initialize": {
			data: PackInitialize(1_000_000),
			want: &InitializeMsg{Amount: 1_000_000},
		},
		"exchange": {
			data: PackExchange(42),
			want: &ExchangeMsg{Amount: 42},
		},
		"empty buffer": {
			data:    nil,
			wantErr: errors.ErrInvalidInstruction,
		},
		"opcode without amount": {
			data:    []byte{opInitialize},
			wantErr: errors.ErrInvalidInstruction,
		},
		"truncated amount": {
			data:    []byte{opExchange, 1, 2, 3, 4, 5, 6, 7},
			wantErr: errors.ErrInvalidInstruction,
		},
		"unknown opcode": {
			data:    []byte{99, 0, 0, 0, 0, 0, 0, 0, 0},
			wantErr: errors.ErrInvalidInstruction,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg, err := UnpackMsg(tc.data)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.want, msg)
			}
		})
	}
}

func TestInstructionBufferLayout(t *testing.T) {
	// One opcode byte followed by the amount as a little-endian u64.
	assert.Equal(t, []byte{0, 2, 1, 0, 0, 0, 0, 0, 0}, PackInitialize(258))
	assert.Equal(t, []byte{1, 2, 1, 0, 0, 0, 0, 0, 0}, PackExchange(258))
}
