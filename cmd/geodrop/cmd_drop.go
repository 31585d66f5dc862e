package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/geodrop/orm"
	"github.com/iov-one/geodrop/x/drop"
)

func cmdInitialize(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Set the token of the drop engine. This succeeds only once, and only if
genesis did not set the token already.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl  = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		tokenFl = flAddress(fl, "token", "", "Address of the token that drops hold.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	if _, err := n.deliver(&drop.InitMsg{Token: *tokenFl}); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, *tokenFl)
	return err
}

func cmdCreate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Deposit tokens of the key owner into a new drop and print the drop id.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		keyPathFl = keyPathFlag(fl)
		amountFl  = flAmount(fl, "amount", "Amount of tokens to deposit.")
		messageFl = fl.String("message", "", "Free text stored with the drop.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	amount := *amountFl
	msg := &drop.CreateDropMsg{
		Creator: key.PublicKey().Address(),
		Amount:  &amount,
		Message: *messageFl,
	}
	if msg.Credential, err = n.sign(key, msg); err != nil {
		return err
	}
	res, err := n.deliver(msg)
	if err != nil {
		return err
	}
	id, err := orm.DecodeSequence(res.Data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, id)
	return err
}

func cmdClaim(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Claim a drop. The funds are moved to the key owner.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		keyPathFl = keyPathFlag(fl)
		idFl      = fl.Uint64("id", 0, "ID of the drop.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	msg := &drop.ClaimDropMsg{
		DropID:  *idFl,
		Claimer: key.PublicKey().Address(),
	}
	if msg.Credential, err = n.sign(key, msg); err != nil {
		return err
	}
	if _, err := n.deliver(msg); err != nil {
		return err
	}
	return showDrop(n, output, *idFl)
}

func cmdCancel(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Cancel an unclaimed drop of the key owner and get the funds back.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the configuration and the database.")
		keyPathFl = keyPathFlag(fl)
		idFl      = fl.Uint64("id", 0, "ID of the drop.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	msg := &drop.CancelDropMsg{
		DropID:  *idFl,
		Creator: key.PublicKey().Address(),
	}
	if msg.Credential, err = n.sign(key, msg); err != nil {
		return err
	}
	if _, err := n.deliver(msg); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "drop %d cancelled\n", *idFl)
	return err
}
