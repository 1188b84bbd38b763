// Command fundctl is the operator CLI of the savings fund: loan quotes, the
// fund summary, CSV import/export, legacy data migration and snapshots.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&quoteCmd{}, "loans")

	commander.Register(&summaryCmd{}, "reports")
	commander.Register(&snapshotCmd{}, "reports")

	commander.Register(&exportMembersCmd{}, "transfer")
	commander.Register(&exportEntriesCmd{}, "transfer")
	commander.Register(&importMembersCmd{}, "transfer")
	commander.Register(&importLegacyCmd{}, "transfer")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
