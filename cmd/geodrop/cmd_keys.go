package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/geodrop/crypto"
)

func cmdKeys(input io.Reader, output io.Writer, args []string) error {
	sub := map[string]func(io.Reader, io.Writer, []string) error{
		"new":    cmdKeysNew,
		"derive": cmdKeysDerive,
		"show":   cmdKeysShow,
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: keys new|derive|show [<flags>]")
	}
	run, ok := sub[args[0]]
	if !ok {
		return fmt.Errorf("unknown keys command %q", args[0])
	}
	return run(input, output, args[1:])
}

func keyPathFlag(fl *flag.FlagSet) *string {
	return fl.String("key", env("GEODROP_PRIV_KEY", filepath.Join(defaultHome(), keyFile)),
		"Path to the private key file that transactions are signed with. You can use GEODROP_PRIV_KEY environment variable to set it.")
}

func cmdKeysNew(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key and print its address.

This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	keyPathFl := keyPathFlag(fl)
	fl.Parse(args)

	return saveKey(output, *keyPathFl, crypto.GenPrivKeyEd25519())
}

func cmdKeysDerive(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Derive a private key from a hex encoded BIP-39 seed and print its address.

The same seed and path always result in the same key. This command fails if
the private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = keyPathFlag(fl)
		seedFl    = flHex(fl, "seed", "Hex encoded seed, at least 16 bytes.")
		pathFl    = fl.String("path", crypto.StellarPath, "Derivation path.")
	)
	fl.Parse(args)

	if len(*seedFl) < 16 {
		flagDie("seed must be at least 16 bytes")
	}
	key, err := crypto.DeriveForPath(*pathFl, *seedFl)
	if err != nil {
		return err
	}
	return saveKey(output, *keyPathFl, key)
}

func cmdKeysShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your private key.
`)
		fl.PrintDefaults()
	}
	keyPathFl := keyPathFlag(fl)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

func saveKey(output io.Writer, path string, key crypto.PrivateKey) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return fmt.Errorf("private key file %q already exists, delete this file and try again", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("cannot create key directory: %s", err)
	}

	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

// flagDie terminates the program when an invalid flag value is provided.
func flagDie(description string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(description, args...))
	os.Exit(2)
}
