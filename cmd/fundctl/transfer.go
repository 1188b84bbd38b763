package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"savingsfund/internal/core/services"

	"github.com/google/subcommands"
)

// openOutput returns stdout for "" or "-", else creates the file
func openOutput(name string) (io.WriteCloser, error) {
	if name == "" || name == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(name)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func transferService(a *app) *services.TransferService {
	return services.NewTransferService(a.store, services.NewGate(a.store), a.cfg, time.Now)
}

// exportCmd holds what both CSV exports share
type exportCmd struct {
	out string
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "-", "Output file, - for stdout")
}

func (c *exportCmd) run(ctx context.Context, export func(*services.TransferService, context.Context, io.Writer) error) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	w, err := openOutput(c.out)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	if err := export(transferService(a), ctx, w); err != nil {
		fail("export: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type exportMembersCmd struct{ exportCmd }

func (*exportMembersCmd) Name() string     { return "export-members" }
func (*exportMembersCmd) Synopsis() string { return "export members with their totals as CSV" }
func (*exportMembersCmd) Usage() string {
	return `fundctl export-members [-o file]
`
}

func (c *exportMembersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, (*services.TransferService).ExportMembers)
}

type exportEntriesCmd struct{ exportCmd }

func (*exportEntriesCmd) Name() string     { return "export-entries" }
func (*exportEntriesCmd) Synopsis() string { return "export the savings ledger as CSV" }
func (*exportEntriesCmd) Usage() string {
	return `fundctl export-entries [-o file]
`
}

func (c *exportEntriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, (*services.TransferService).ExportEntries)
}

// importCmd holds what both imports share
type importCmd struct {
	admin string
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.admin, "admin", "", "Email of the importing admin (defaults to ADMIN_EMAIL)")
}

// open resolves the acting admin and opens the single file argument
func (c *importCmd) open(ctx context.Context, f *flag.FlagSet) (*app, string, *os.File, subcommands.ExitStatus) {
	if f.NArg() != 1 {
		fail("expected exactly one file argument")
		return nil, "", nil, subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		fail("%v", err)
		return nil, "", nil, subcommands.ExitFailure
	}
	actorID, err := a.actorID(ctx, c.admin)
	if err != nil {
		a.close()
		fail("%v", err)
		return nil, "", nil, subcommands.ExitFailure
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		a.close()
		fail("%v", err)
		return nil, "", nil, subcommands.ExitFailure
	}
	return a, actorID, file, subcommands.ExitSuccess
}

type importMembersCmd struct{ importCmd }

func (*importMembersCmd) Name() string     { return "import-members" }
func (*importMembersCmd) Synopsis() string { return "create members from a CSV file" }
func (*importMembersCmd) Usage() string {
	return `fundctl import-members [-admin email] <file.csv>

  Each row with a Name and Email becomes a member with the default import
  password. A positive Total Savings becomes one ledger entry. Rows that
  cannot be imported are reported and skipped.
`
}

func (c *importMembersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, actorID, file, status := c.open(ctx, f)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer a.close()
	defer file.Close()

	result, err := transferService(a).ImportMembers(ctx, actorID, file)
	if err != nil {
		fail("import: %v", err)
		return subcommands.ExitFailure
	}

	printResult("Members", result)
	return subcommands.ExitSuccess
}

type importLegacyCmd struct{ importCmd }

func (*importLegacyCmd) Name() string     { return "import-legacy" }
func (*importLegacyCmd) Synopsis() string { return "load users, entries and loans from a legacy JSON dump" }
func (*importLegacyCmd) Usage() string {
	return `fundctl import-legacy [-admin email] <dump.json>

  Reads the savings-fund-users, savings-fund-entries and savings-fund-loans
  keys of a storage dump. Ids are kept; existing records are skipped.
`
}

func (c *importLegacyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, actorID, file, status := c.open(ctx, f)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer a.close()
	defer file.Close()

	result, err := transferService(a).ImportLegacy(ctx, actorID, file)
	if err != nil {
		fail("import: %v", err)
		return subcommands.ExitFailure
	}

	printResult("Users", &result.Users)
	printResult("Entries", &result.Entries)
	printResult("Loans", &result.Loans)
	return subcommands.ExitSuccess
}

func printResult(what string, r *services.ImportResult) {
	fmt.Printf("%s: %d imported, %d failed\n", what, r.Imported, r.Failed)
	for _, e := range r.Errors {
		fmt.Printf("  - %s\n", e)
	}
}
