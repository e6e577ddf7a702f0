package main

import (
	"context"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/report"
	"github.com/trezcool/luct/core/user"
)

// the CLI reads reports with the widest visibility
var adminViewer = report.Viewer{Role: user.RoleProgramLeader}

func (cli *commandLine) listReports(filter report.QueryFilter, limit int) error {
	page := core.NewPage(1, limit, cli.conf.ReportsPageSize, cli.conf.ReportsMaxPageSize)
	res, err := cli.reportSvc.Query(context.Background(), adminViewer, filter, nil, page)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cli.out)
	table.SetHeader(append([]string{"ID"}, report.Columns...))
	table.SetAutoWrapText(false)
	for _, v := range res.Reports {
		table.Append(append([]string{strconv.Itoa(v.ID)}, report.Row(v)...))
	}
	table.Render()

	color.New(color.FgCyan).Fprintf(cli.out, "%d of %d report(s)\n", len(res.Reports), res.Pagination.Total)
	return nil
}

func (cli *commandLine) stats() error {
	stats, err := cli.reportSvc.Stats(context.Background(), adminViewer)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Status", "Reports"})
	table.AppendBulk([][]string{
		{report.StatusPending, strconv.Itoa(stats.Pending)},
		{report.StatusApproved, strconv.Itoa(stats.Approved)},
		{report.StatusRejected, strconv.Itoa(stats.Rejected)},
	})
	table.SetFooter([]string{"Total", strconv.Itoa(stats.Total)})
	table.Render()
	return nil
}

func (cli *commandLine) export(format, dest string, filter report.QueryFilter) error {
	exporter, err := report.NewExporter(format, cli.conf.AppName+" - Lecture Reports")
	if err != nil {
		return err
	}
	views, err := cli.reportSvc.Export(context.Background(), adminViewer, filter)
	if err != nil {
		return err
	}

	if dest == "" {
		dest = exporter.Filename()
	}
	f, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err = exporter.Write(f, views); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "writing export")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}

	color.New(color.FgGreen).Fprintf(cli.out, "%d report(s) exported to %s\n", len(views), dest)
	return nil
}
