package main

import (
	"context"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/user"
)

func (cli *commandLine) listUsers(ordering []core.DBOrdering) error {
	users, err := cli.usrSvc.QueryAll(context.Background(), ordering)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"ID", "Name", "Email", "Role", "Faculty", "Created At"})
	for _, usr := range users {
		table.Append([]string{
			strconv.Itoa(usr.ID),
			usr.Name,
			usr.Email,
			roleName(usr.Role),
			usr.Faculty,
			usr.CreatedAt.Format(core.DateLayout),
		})
	}
	table.SetFooter([]string{"", "", "", "", "Total", strconv.Itoa(len(users))})
	table.Render()
	return nil
}

func roleName(role string) string {
	for _, r := range user.Roles {
		if r.Value == role {
			return r.Name
		}
	}
	return role
}
