package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/errors"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *geodrop.Address {
	var a geodrop.Address
	if defaultVal != "" {
		var err error
		a, err = geodrop.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var((*flagaddr)(&a), name, usage)
	return &a
}

type flagaddr geodrop.Address

func (a flagaddr) String() string {
	if len(a) == 0 {
		return ""
	}
	return geodrop.Address(a).String()
}

func (a *flagaddr) Set(raw string) error {
	addr, err := geodrop.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagaddr(addr)
	return nil
}

// flAmount returns an amount flag. Zero is used when not provided.
func flAmount(fl *flag.FlagSet, name, usage string) *coin.Int128 {
	var amount coin.Int128
	fl.Var((*flagamount)(&amount), name, usage)
	return &amount
}

type flagamount coin.Int128

func (a flagamount) String() string {
	return coin.Int128(a).String()
}

func (a *flagamount) Set(raw string) error {
	v, err := coin.ParseInt128(raw)
	if err != nil {
		return err
	}
	*a = flagamount(v)
	return nil
}

// flHex returns a hex encoded binary flag.
func flHex(fl *flag.FlagSet, name, usage string) *[]byte {
	var b []byte
	fl.Var((*flagbyte)(&b), name, usage)
	return &b
}

type flagbyte []byte

func (b flagbyte) String() string {
	return hex.EncodeToString(b)
}

func (b *flagbyte) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*b = val
	return nil
}

// fundFlag collects repeated -fund <address>=<amount> values.
type fundFlag []funding

type funding struct {
	addr   geodrop.Address
	amount coin.Int128
}

func (f fundFlag) String() string {
	parts := make([]string, len(f))
	for i, fu := range f {
		parts[i] = fu.addr.String() + "=" + fu.amount.String()
	}
	return strings.Join(parts, ",")
}

func (f *fundFlag) Set(raw string) error {
	i := strings.LastIndex(raw, "=")
	if i < 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "want <address>=<amount>, got %q", raw)
	}
	addr, err := geodrop.ParseAddress(raw[:i])
	if err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	amount, err := coin.ParseInt128(raw[i+1:])
	if err != nil {
		return err
	}
	*f = append(*f, funding{addr: addr, amount: amount})
	return nil
}
