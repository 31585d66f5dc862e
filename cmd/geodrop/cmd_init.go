package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/app"
	"github.com/iov-one/geodrop/x/cash"
	"github.com/iov-one/geodrop/x/drop"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create the config.toml and genesis.json files in the home directory.

Genesis funds every -fund address with the given amount of the -token and
sets the token of the drop engine. Without -token the engine has to be
initialized later. Use the genesis command to load the created file.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		chainIDFl = fl.String("chain-id", "local-geodrop", "Chain ID that all signatures are bound to.")
		tokenFl   = flAddress(fl, "token", "", "Address of the token that drops hold.")
		dbFl      = fl.String("db", DefaultConfig("").DBPath, "Database path relative to home. Empty keeps the state in memory.")
		funds     fundFlag
	)
	fl.Var(&funds, "fund", "Genesis wallet as <address>=<amount>. Can be repeated.")
	fl.Parse(args)

	if !geodrop.IsValidChainID(*chainIDFl) {
		flagDie("invalid chain id %q", *chainIDFl)
	}
	if len(funds) != 0 && len(*tokenFl) == 0 {
		flagDie("-fund requires -token")
	}

	gen := app.Genesis{
		ChainID:  *chainIDFl,
		AppState: geodrop.Options{},
	}
	if len(*tokenFl) != 0 {
		raw, err := json.Marshal(map[string]interface{}{
			drop.ConfigPkg: drop.GenesisConfig{Token: *tokenFl},
		})
		if err != nil {
			return err
		}
		gen.AppState["conf"] = raw
	}
	if len(funds) != 0 {
		accounts := make([]cash.GenesisAccount, 0, len(funds))
		for _, f := range funds {
			accounts = append(accounts, cash.GenesisAccount{
				Address: f.addr,
				Token:   *tokenFl,
				Amount:  f.amount,
			})
		}
		raw, err := json.Marshal(accounts)
		if err != nil {
			return err
		}
		gen.AppState["cash"] = raw
	}

	if err := os.MkdirAll(*homeFl, 0755); err != nil {
		return fmt.Errorf("cannot create home directory: %s", err)
	}
	conf := DefaultConfig(*chainIDFl)
	conf.DBPath = *dbFl
	if err := writeConfig(*homeFl, conf); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize genesis: %s", err)
	}
	path := filepath.Join(*homeFl, genesisFile)
	if err := ioutil.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("cannot write genesis: %s", err)
	}
	_, err = fmt.Fprintln(output, path)
	return err
}

func cmdGenesis(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Load the genesis file into a fresh database.

The chain id of the genesis file must match the configuration.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		genesisFl = fl.String("genesis", "", "Genesis file path. Defaults to genesis.json in the home directory.")
	)
	fl.Parse(args)

	path := *genesisFl
	if path == "" {
		path = filepath.Join(*homeFl, genesisFile)
	}
	gen, err := app.LoadGenesis(path)
	if err != nil {
		return err
	}

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	if gen.ChainID != n.conf.ChainID {
		return fmt.Errorf("genesis chain id %q does not match configured %q", gen.ChainID, n.conf.ChainID)
	}
	if err := n.app.InitChain(gen.ChainID, gen.AppState); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s initialized at height %d\n", gen.ChainID, n.app.Height())
	return err
}
