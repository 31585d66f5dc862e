package orm

import (
	"encoding/binary"

	"github.com/iov-one/geodrop/errors"
)

// EncodeSequence serializes the value as 8 bytes big endian, so that the
// byte order of encoded values follows their numeric order. Use it to
// build keys from numeric ids.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}

// DecodeSequence reads back a value produced by EncodeSequence.
// A nil value decodes to zero.
func DecodeSequence(bz []byte) (uint64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "sequence must be 8 bytes, got %d", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}
