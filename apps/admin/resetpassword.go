package main

import (
	"context"

	"github.com/fatih/color"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	usr, err := cli.usrSvc.SetPassword(context.Background(), email, pwd)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "Password of %s updated\n", usr.Email)
	return nil
}
