package geodroptest

import (
	"testing"

	"github.com/iov-one/geodrop"
)

// ParseAddress takes an address in a human readable format and returns
// its binary representation. It fails the test if the address cannot be
// parsed.
func ParseAddress(t testing.TB, encodedAddress string) geodrop.Address {
	t.Helper()

	addr, err := geodrop.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
