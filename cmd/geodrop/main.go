package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/geodrop"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name, and parses them with the
// flag package. Results are written to the output, logs go to stderr.
//
// All state lives under the -home directory: the config.toml file, the
// genesis.json file and the database. A usual session is
//
//   $ geodrop keys new
//   $ geodrop init -chain-id local-drops -token <address> -fund <address>=1000
//   $ geodrop genesis
//   $ geodrop create -amount 10 -message "behind the fountain"
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"balance":     cmdBalance,
	"cancel":      cmdCancel,
	"claim":       cmdClaim,
	"count":       cmdCount,
	"create":      cmdCreate,
	"genesis":     cmdGenesis,
	"init":        cmdInit,
	"initialize":  cmdInitialize,
	"keys":        cmdKeys,
	"leaderboard": cmdLeaderboard,
	"list":        cmdList,
	"show":        cmdShow,
	"stats":       cmdStats,
	"version":     cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line interface for the drop engine.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, geodrop.Version())
	return err
}
