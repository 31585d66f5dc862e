package drop

import (
	"testing"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/errors"
	"github.com/iov-one/geodrop/geodroptest"
)

func TestDropValidate(t *testing.T) {
	alice := geodroptest.NewAddress()
	bob := geodroptest.NewAddress()

	cases := map[string]struct {
		drop    Drop
		wantErr *errors.Error
	}{
		"unclaimed": {
			drop: Drop{ID: 1, Creator: alice, Amount: coin.NewInt128p(5)},
		},
		"claimed": {
			drop: Drop{ID: 1, Creator: alice, Amount: coin.NewInt128p(5), Claimed: true, Claimer: bob},
		},
		"missing id": {
			drop:    Drop{Creator: alice, Amount: coin.NewInt128p(5)},
			wantErr: errors.ErrInvalidModel,
		},
		"zero amount": {
			drop:    Drop{ID: 1, Creator: alice, Amount: coin.NewInt128p(0)},
			wantErr: errors.ErrInvalidAmount,
		},
		"claimed without claimer": {
			drop:    Drop{ID: 1, Creator: alice, Amount: coin.NewInt128p(5), Claimed: true},
			wantErr: errors.ErrInvalidState,
		},
		"claimer without claim": {
			drop:    Drop{ID: 1, Creator: alice, Amount: coin.NewInt128p(5), Claimer: bob},
			wantErr: errors.ErrInvalidState,
		},
		"bad claimer": {
			drop:    Drop{ID: 1, Creator: alice, Amount: coin.NewInt128p(5), Claimed: true, Claimer: geodrop.Address("bob")},
			wantErr: errors.ErrInvalidInput,
		},
		"invalid utf-8 message": {
			drop:    Drop{ID: 1, Creator: alice, Amount: coin.NewInt128p(5), Message: "\xc3\x28"},
			wantErr: errors.ErrInvalidInput,
		},
		"claimed with heights": {
			drop: Drop{ID: 1, Creator: alice, Amount: coin.NewInt128p(5), Claimed: true, Claimer: bob, CreatedHeight: 4, ClaimedHeight: 9},
		},
		"negative height": {
			drop:    Drop{ID: 1, Creator: alice, Amount: coin.NewInt128p(5), CreatedHeight: -1},
			wantErr: errors.ErrInvalidModel,
		},
		"claim height without claim": {
			drop:    Drop{ID: 1, Creator: alice, Amount: coin.NewInt128p(5), ClaimedHeight: 3},
			wantErr: errors.ErrInvalidState,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.drop.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %+v", err)
				}
				return
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestDropCopy(t *testing.T) {
	d := &Drop{ID: 1, Amount: coin.NewInt128p(5)}
	cpy := d.Copy()
	cpy.Claimed = true
	*cpy.Amount = coin.NewInt128(6)
	if d.Claimed || !d.Amount.Equals(coin.NewInt128(5)) {
		t.Fatalf("original modified: %v", d)
	}
}

func TestCustodyAddress(t *testing.T) {
	if err := CustodyAddress.Validate(); err != nil {
		t.Fatalf("invalid custody address: %s", err)
	}
	if CustodyAddress.Equals(geodroptest.NewAddress()) {
		t.Fatal("custody address must be unique")
	}
}
