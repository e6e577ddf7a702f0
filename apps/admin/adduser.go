package main

import (
	"context"

	"github.com/fatih/color"

	"github.com/trezcool/luct/core/user"
)

// addUser registers a user the same way the API does, password policy included.
func (cli *commandLine) addUser(nu user.NewUser) error {
	usr, err := cli.usrSvc.Register(context.Background(), nu)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "User #%d %s <%s> created as %s\n", usr.ID, usr.Name, usr.Email, usr.Role)
	return nil
}
