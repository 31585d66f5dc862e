package geodrop_test

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/crypto/bech32"
	"github.com/iov-one/geodrop/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("Given the address of a signature condition", t, func() {
		addr := geodrop.NewCondition("sigs", "ed25519", []byte("creator key")).Address()

		Convey("It prints as bech32 with the drop prefix", func() {
			So(strings.HasPrefix(addr.String(), geodrop.AddressHRP+"1"), ShouldBeTrue)
			So(strings.ToUpper(addr.String()), ShouldNotEqual, fmt.Sprintf("%X", []byte(addr)))
		})

		Convey("It parses back to the same bytes", func() {
			parsed, err := geodrop.ParseAddress(addr.String())
			So(err, ShouldBeNil)
			So(parsed.Equals(addr), ShouldBeTrue)
		})
	})

	Convey("An unset address prints a placeholder", t, func() {
		So(geodrop.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("A condition keeps its extension and type readable", t, func() {
		cond := geodrop.NewCondition("drop", "custody", []byte("escrow"))
		So(cond.String(), ShouldEqual, "drop/custody/"+strings.ToUpper(hex.EncodeToString([]byte("escrow"))))
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	cond := geodrop.NewCondition("drop", "custody", []byte("escrow"))
	custody := cond.Address()

	foreign, err := bech32.Encode("iov", custody)
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr geodrop.Address
	}{
		"plain bech32": {
			json:     `"` + custody.String() + `"`,
			wantAddr: custody,
		},
		"explicit bech32": {
			json:     `"bech32:` + custody.String() + `"`,
			wantAddr: custody,
		},
		"hex": {
			json:     fmt.Sprintf(`"hex:%x"`, []byte(custody)),
			wantAddr: custody,
		},
		"condition": {
			json:     fmt.Sprintf(`"cond:drop/custody/%x"`, []byte("escrow")),
			wantAddr: custody,
		},
		"bech32 of another chain": {
			json:    `"` + string(foreign) + `"`,
			wantErr: errors.ErrInvalidInput,
		},
		"broken checksum": {
			json:    `"drop1qqqqqqqqqqqqqqqqqqqq"`,
			wantErr: errors.ErrInvalidInput,
		},
		"short hex": {
			json:    `"hex:0102030405"`,
			wantErr: errors.ErrInvalidInput,
		},
		"condition without type": {
			json:    `"cond:drop/657363726f77"`,
			wantErr: errors.ErrInvalidInput,
		},
		"condition with bad data": {
			json:    `"cond:drop/custody/not-hex"`,
			wantErr: errors.ErrInvalidInput,
		},
		"unknown format": {
			json:    `"base58:abc"`,
			wantErr: errors.ErrInvalidType,
		},
		"empty": {
			json: `""`,
		},
		"empty hex": {
			json: `"hex:"`,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got geodrop.Address
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.wantAddr, got)
			}
		})
	}
}

func TestAddressJSONRoundTrip(t *testing.T) {
	type holder struct {
		Owner geodrop.Address `json:"owner"`
	}
	want := holder{Owner: geodrop.NewCondition("drop", "custody", []byte("escrow")).Address()}
	raw, err := json.Marshal(want)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"owner":"drop1`)

	var got holder
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, want.Owner, got.Owner)

	raw, err = json.Marshal(holder{})
	require.NoError(t, err)
	assert.Equal(t, `{"owner":""}`, string(raw))
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json    string
		wantErr *errors.Error
		want    geodrop.Condition
	}{
		"readable form": {
			json: `"sigs/ed25519/0A0B"`,
			want: geodrop.NewCondition("sigs", "ed25519", []byte{0x0a, 0x0b}),
		},
		"two sections": {
			json:    `"sigs/0A0B"`,
			wantErr: errors.ErrInvalidInput,
		},
		"data is not hex": {
			json:    `"sigs/ed25519/xyz"`,
			wantErr: errors.ErrInvalidInput,
		},
		"empty": {
			json: `""`,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got geodrop.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil && !got.Equals(tc.want) {
				t.Fatalf("want %q condition, got %q", tc.want, got)
			}
		})
	}
}

func TestConditionValidate(t *testing.T) {
	assert.NoError(t, geodrop.NewCondition("drop", "custody", []byte("escrow")).Validate())
	assert.Error(t, geodrop.Condition("no slashes here").Validate())
	assert.Error(t, geodrop.NewCondition("x", "custody", []byte("escrow")).Validate())

	ext, typ, data, err := geodrop.NewCondition("sigs", "ed25519", []byte{1, 2}).Parse()
	require.NoError(t, err)
	assert.Equal(t, "sigs", ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, []byte{1, 2}, data)
}
