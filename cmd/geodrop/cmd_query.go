package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/coin"
	"github.com/iov-one/geodrop/x/cash"
	"github.com/iov-one/geodrop/x/drop"

	geodropapp "github.com/iov-one/geodrop/cmd/geodrop/app"
)

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print a drop as JSON. Cancelled drops no longer exist.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		idFl   = fl.Uint64("id", 0, "ID of the drop.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()
	return showDrop(n, output, *idFl)
}

func showDrop(n *node, output io.Writer, id uint64) error {
	var d *drop.Drop
	err := n.app.View(func(db geodrop.ReadOnlyKVStore) error {
		var err error
		d, err = geodropapp.Controller().GetDrop(db, id)
		return err
	})
	if err != nil {
		return err
	}
	return writeJSON(output, d)
}

func cmdCount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the number of drops ever created.
`)
		fl.PrintDefaults()
	}
	homeFl := fl.String("home", defaultHome(), "Directory of the configuration and the database.")
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	var count uint64
	err = n.app.View(func(db geodrop.ReadOnlyKVStore) error {
		var err error
		count, err = geodropapp.Controller().GetDropCount(db)
		return err
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, count)
	return err
}

func cmdList(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print existing drops as a JSON list, newest first.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl      = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		creatorFl   = flAddress(fl, "creator", "", "Only list drops of this creator.")
		unclaimedFl = fl.Bool("unclaimed", false, "Only list drops that can be claimed.")
		beforeFl    = fl.Uint64("before", 0, "Only list drops with a lower ID. Use for pagination.")
		limitFl     = fl.Int("limit", drop.DefaultListLimit, "Maximum number of drops.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	filter := drop.ListFilter{
		Creator:       *creatorFl,
		UnclaimedOnly: *unclaimedFl,
		BeforeID:      *beforeFl,
		Limit:         *limitFl,
	}
	var drops []*drop.Drop
	err = n.app.View(func(db geodrop.ReadOnlyKVStore) error {
		var err error
		drops, err = geodropapp.Controller().ListDrops(db, filter)
		return err
	})
	if err != nil {
		return err
	}
	if drops == nil {
		drops = []*drop.Drop{}
	}
	return writeJSON(output, drops)
}

func cmdStats(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the drop totals of an identity as JSON.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl  = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		ownerFl = flAddress(fl, "owner", "", "Address of the identity.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	var stats *drop.Stats
	err = n.app.View(func(db geodrop.ReadOnlyKVStore) error {
		var err error
		stats, err = geodropapp.Controller().GetStats(db, *ownerFl)
		return err
	})
	if err != nil {
		return err
	}
	return writeJSON(output, stats)
}

func cmdLeaderboard(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the identities that created the most drops as a JSON list.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl  = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		limitFl = fl.Int("limit", 10, "Maximum number of entries.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	var board []*drop.Stats
	err = n.app.View(func(db geodrop.ReadOnlyKVStore) error {
		var err error
		board, err = geodropapp.Controller().Leaderboard(db, *limitFl)
		return err
	})
	if err != nil {
		return err
	}
	if board == nil {
		board = []*drop.Stats{}
	}
	return writeJSON(output, board)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the balance of an identity in the token of the drop engine. Use
-custody to print the amount held for all unclaimed drops.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		ownerFl   = flAddress(fl, "owner", "", "Address of the identity.")
		custodyFl = fl.Bool("custody", false, "Print the custody balance instead.")
	)
	fl.Parse(args)

	if !*custodyFl && len(*ownerFl) == 0 {
		flagDie("-owner is required")
	}

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	var balance coin.Int128
	err = n.app.View(func(db geodrop.ReadOnlyKVStore) error {
		ctrl := geodropapp.Controller()
		if *custodyFl {
			var err error
			balance, err = ctrl.CustodyBalance(db)
			return err
		}
		conf, err := ctrl.GetConfig(db)
		if err != nil {
			return err
		}
		balance, err = cash.NewController().Balance(db, conf.Token, *ownerFl)
		return err
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, balance)
	return err
}
