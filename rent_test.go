package ledger

import (
	"math"
	"testing"

	"github.com/solstice-labs/ledger/errors"
	"github.com/solstice-labs/ledger/ledgertest/assert"
)

func TestMinimumBalance(t *testing.T) {
	cases := map[string]struct {
		rent    Rent
		dataLen int
		want    uint64
		wantErr *errors.Error
	}{
		"no data charges the base cost only": {
			rent:    Rent{BaseCost: 100, NativePerByte: 7},
			dataLen: 0,
			want:    100,
		},
		"data is charged per byte": {
			rent:    Rent{BaseCost: 100, NativePerByte: 7},
			dataLen: 10,
			want:    170,
		},
		"default parameters": {
			rent:    DefaultRent,
			dataLen: 105,
			want:    890880 + 105*6960,
		},
		"threshold beyond uint64": {
			rent:    Rent{BaseCost: 1, NativePerByte: math.MaxUint64},
			dataLen: 2,
			wantErr: errors.ErrOverflow,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.rent.MinimumBalance(tc.dataLen)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestIsExempt(t *testing.T) {
	rent := Rent{BaseCost: 100, NativePerByte: 7}

	// Threshold for 10 bytes is 170. Exemption is inclusive.
	assert.Equal(t, true, rent.IsExempt(170, 10))
	assert.Equal(t, true, rent.IsExempt(171, 10))
	assert.Equal(t, false, rent.IsExempt(169, 10))

	// An unrepresentable threshold can never be met.
	huge := Rent{BaseCost: 1, NativePerByte: math.MaxUint64}
	assert.Equal(t, false, huge.IsExempt(math.MaxUint64, 2))
}

func TestRentPackUnpack(t *testing.T) {
	raw, err := DefaultRent.Pack()
	assert.Nil(t, err)

	got, err := UnpackRent(raw)
	assert.Nil(t, err)
	assert.Equal(t, DefaultRent, got)

	if _, err := UnpackRent([]byte{1, 2, 3}); !errors.ErrInvalidAccountData.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
