package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/report"
	"github.com/trezcool/luct/core/user"
	"github.com/trezcool/luct/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("this command needs the postgres storage")
)

type commandLine struct {
	conf      *core.Config
	db        *sql.DB // nil with the memory storage
	repos     database.Repositories
	usrSvc    user.Service
	reportSvc report.Service
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                                   - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  seed                                                     - create the sample users, courses, classes & reports")
	fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL -role ROLE [-faculty F]  - create a user; the password is prompted")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL                               - reset a user's password; the password is prompted")
	fmt.Fprintln(cli.out, "  users [-ordering FIELDS]                                 - list users")
	fmt.Fprintln(cli.out, "  reports [-status S] [-week N] [-search Q] [-limit N]     - list the latest reports")
	fmt.Fprintln(cli.out, "  stats                                                    - count reports per status")
	fmt.Fprintln(cli.out, "  export -format xlsx|csv|pdf -out FILE [-from D] [-to D]  - export reports")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "seed":
		return cli.seed()

	case "adduser":
		cmd := cli.newFlagSet("adduser")
		name := cmd.String("name", "", "The user's full name.")
		email := cmd.String("email", "", "The user's email. The password will be prompted next.")
		role := cmd.String("role", "", "One of student, lecturer, principal_lecturer, program_leader.")
		faculty := cmd.String("faculty", "", "The user's faculty. Defaults to "+cli.conf.DefaultFaculty+".")
		if err := cmd.Parse(args[2:]); err != nil {
			return parseErr(err)
		}
		if *name == "" || *email == "" || *role == "" {
			cmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.addUser(user.NewUser{Name: *name, Email: *email, Password: pwd, Role: *role, Faculty: *faculty})

	case "resetpassword":
		cmd := cli.newFlagSet("resetpassword")
		email := cmd.String("email", "", "The user's email. The password will be prompted next.")
		if err := cmd.Parse(args[2:]); err != nil {
			return parseErr(err)
		}
		if *email == "" {
			cmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*email, pwd)

	case "users":
		cmd := cli.newFlagSet("users")
		ordering := cmd.String("ordering", "", "Comma-separated fields, \"-\" prefix for descending. e.g. role,-created_at")
		if err := cmd.Parse(args[2:]); err != nil {
			return parseErr(err)
		}
		return cli.listUsers(core.ParseOrdering(*ordering))

	case "reports":
		cmd := cli.newFlagSet("reports")
		var filter report.QueryFilter
		cmd.StringVar(&filter.Status, "status", "", "pending, approved or rejected.")
		cmd.IntVar(&filter.Week, "week", 0, "Week of reporting.")
		cmd.StringVar(&filter.Search, "search", "", "Matches course, lecturer or topic.")
		limit := cmd.Int("limit", cli.conf.ReportsPageSize, "How many reports to list.")
		if err := cmd.Parse(args[2:]); err != nil {
			return parseErr(err)
		}
		return cli.listReports(filter, *limit)

	case "stats":
		return cli.stats()

	case "export":
		cmd := cli.newFlagSet("export")
		format := cmd.String("format", report.FormatXLSX, "xlsx, csv or pdf.")
		out := cmd.String("out", "", "Destination file. Defaults to luct-reports.<format>.")
		var filter report.QueryFilter
		cmd.StringVar(&filter.StartDate, "from", "", "First date of lecture (YYYY-MM-DD).")
		cmd.StringVar(&filter.EndDate, "to", "", "Last date of lecture (YYYY-MM-DD).")
		if err := cmd.Parse(args[2:]); err != nil {
			return parseErr(err)
		}
		return cli.export(*format, *out, filter)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// parseErr turns -h into errHelp; the flag set already printed the usage.
func parseErr(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return errHelp
	}
	return err
}
