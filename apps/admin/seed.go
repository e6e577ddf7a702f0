package main

import (
	"context"

	"github.com/fatih/color"

	"github.com/trezcool/luct/storage/database"
)

func (cli *commandLine) seed() error {
	res, err := database.Seed(context.Background(), cli.repos)
	if err != nil {
		return err
	}
	if len(res.Users) == 0 {
		color.New(color.FgYellow).Fprintln(cli.out, "Sample data already exists")
		return nil
	}
	color.New(color.FgGreen).Fprintf(
		cli.out, "Created %d users, %d courses, %d classes and %d reports\n",
		len(res.Users), len(res.Courses), len(res.Classes), len(res.Reports),
	)
	return nil
}
