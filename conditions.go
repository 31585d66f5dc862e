package geodrop

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/geodrop/crypto/bech32"
	"github.com/iov-one/geodrop/errors"
)

// AddressHRP is the human readable part of every bech32 encoded address.
const AddressHRP = "drop"

var (
	// AddressLength is the size of every address in bytes. Stored keys
	// depend on it, so it never changes for an existing store.
	AddressLength = 20

	// (?s) lets the data section contain any byte, newlines included.
	perm = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)
)

// Condition names who controls an address: the extension, a type within
// that extension and opaque data, joined as "<ext>/<type>/<data>". The
// drop custody account is "drop/custody/escrow", a signer is
// "sigs/ed25519/<public key>".
type Condition []byte

// NewCondition joins the three sections.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse splits a condition into extension, type and data.
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := perm.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.ErrInvalidInput.Newf("condition: %X", []byte(c))
	}
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address is the digest of the condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

func (c Condition) Equals(b Condition) bool {
	return bytes.Equal(c, b)
}

// String prints the extension and type as is and the data as hex.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

func (c Condition) Validate() error {
	if !perm.Match(c) {
		return errors.ErrInvalidInput.Newf("condition: %X", []byte(c))
	}
	return nil
}

// MarshalJSON uses the String form.
func (c Condition) MarshalJSON() ([]byte, error) {
	var serialized string
	if c != nil {
		serialized = c.String()
	}
	return json.Marshal(serialized)
}

// UnmarshalJSON reads the String form.
func (c *Condition) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	cond, err := ParseCondition(enc)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

// ParseCondition reads the String form of a condition. An empty string is
// a nil condition.
func ParseCondition(enc string) (Condition, error) {
	if len(enc) == 0 {
		return nil, nil
	}
	sections := strings.Split(enc, "/")
	if len(sections) != 3 {
		return nil, errors.ErrInvalidInput.Newf("condition %q: want <ext>/<type>/<hex data>", enc)
	}
	data, err := hex.DecodeString(sections[2])
	if err != nil {
		return nil, errors.ErrInvalidInput.Newf("condition data: %s", err)
	}
	return NewCondition(sections[0], sections[1], data), nil
}

// Address is a one way digest of a Condition, AddressLength bytes long.
// Creators, claimers, the custody account and tokens are all addresses.
type Address []byte

func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// MarshalJSON writes the bech32 form, or an empty string for a nil
// address.
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a bech32 string with the drop prefix, or
// one of the explicit formats "hex:<hex>", "cond:<condition>".
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes the human readable form of an address.
// An empty string results in a nil address.
func ParseAddress(enc string) (Address, error) {
	if len(enc) == 0 {
		return nil, nil
	}

	format := "bech32"
	if chunks := strings.SplitN(enc, ":", 2); len(chunks) == 2 {
		format, enc = chunks[0], chunks[1]
	}
	if len(enc) == 0 {
		return nil, nil
	}

	var addr Address
	switch format {
	case "bech32":
		payload, err := bech32.DecodeWithPrefix(AddressHRP, enc)
		if err != nil {
			return nil, errors.Wrap(err, "deserialize bech32")
		}
		addr = payload
	case "hex":
		val, err := hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidInput, "cannot decode hex")
		}
		addr = val
	case "cond":
		c, err := ParseCondition(enc)
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		addr = c.Address()
	default:
		return nil, errors.ErrInvalidType.Newf("unknown format %q", format)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// String returns the bech32 representation with the drop prefix.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	enc, err := bech32.Encode(AddressHRP, a)
	if err != nil {
		return strings.ToUpper(hex.EncodeToString(a))
	}
	return string(enc)
}

// Validate checks the length.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInvalidInput.Newf("address: %X", []byte(a))
	}
	return nil
}

// NewAddress is the truncated sha256 of data.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}
