package echoapi

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/report"
	"github.com/trezcool/luct/core/user"
)

type reportApi struct {
	conf   *core.Config
	usrSvc user.Service
	svc    report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, conf *core.Config, usrSvc user.Service, svc report.Service) {
	api := reportApi{conf: conf, usrSvc: usrSvc, svc: svc}

	rg := g.Group("/reports", jwt)
	rg.GET("", api.query)
	rg.POST("", api.create, requireRoles(user.RoleLecturer))
	// static routes before "/:id"
	rg.GET("/export", api.export)
	rg.GET("/stats", api.stats)
	rg.GET("/:id", api.retrieve)
	rg.PATCH("/:id/status", api.updateStatus, requireRoles(user.ReviewerRoles...))
}

func (api *reportApi) viewer(ctx echo.Context) (report.Viewer, error) {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return report.Viewer{}, errors.Wrap(err, "getting context user")
	}
	return report.ViewerOf(usr), nil
}

func reportID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		return 0, report.ErrNotFound
	}
	return id, nil
}

// Handlers

func (api *reportApi) query(ctx echo.Context) error {
	viewer, err := api.viewer(ctx)
	if err != nil {
		return err
	}

	var filter report.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx, api.conf.ReportsPageSize, api.conf.ReportsMaxPageSize)

	res, err := api.svc.Query(ctx.Request().Context(), viewer, filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying reports")
	}
	return respond(ctx, http.StatusOK, "", res)
}

func (api *reportApi) create(ctx echo.Context) error {
	viewer, err := api.viewer(ctx)
	if err != nil {
		return err
	}

	var data report.NewReport
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReport")
	}

	v, warnings, err := api.svc.Create(ctx.Request().Context(), viewer, data)
	if err != nil {
		return errors.Wrap(err, "creating report")
	}
	payload := echo.Map{"report": v}
	if len(warnings) > 0 {
		payload["warnings"] = warnings
	}
	return respond(ctx, http.StatusCreated, "Report created successfully", payload)
}

func (api *reportApi) retrieve(ctx echo.Context) error {
	viewer, err := api.viewer(ctx)
	if err != nil {
		return err
	}
	id, err := reportID(ctx)
	if err != nil {
		return err
	}

	v, err := api.svc.Get(ctx.Request().Context(), viewer, id)
	if err != nil {
		return errors.Wrap(err, "getting report")
	}
	return respond(ctx, http.StatusOK, "", echo.Map{"report": v})
}

func (api *reportApi) updateStatus(ctx echo.Context) error {
	viewer, err := api.viewer(ctx)
	if err != nil {
		return err
	}
	id, err := reportID(ctx)
	if err != nil {
		return err
	}

	var data report.StatusUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}

	v, err := api.svc.UpdateStatus(ctx.Request().Context(), viewer, id, data)
	if err != nil {
		return errors.Wrap(err, "updating report status")
	}
	return respond(ctx, http.StatusOK, "Report updated successfully", echo.Map{"report": v})
}

func (api *reportApi) stats(ctx echo.Context) error {
	viewer, err := api.viewer(ctx)
	if err != nil {
		return err
	}

	stats, err := api.svc.Stats(ctx.Request().Context(), viewer)
	if err != nil {
		return errors.Wrap(err, "counting reports")
	}
	return respond(ctx, http.StatusOK, "", echo.Map{"stats": stats})
}

// export streams the visible reports as `?format=xlsx|csv|pdf` (xlsx by default), within `?startDate=&endDate=`.
func (api *reportApi) export(ctx echo.Context) error {
	viewer, err := api.viewer(ctx)
	if err != nil {
		return err
	}

	exporter, err := report.NewExporter(ctx.QueryParam("format"), api.conf.AppName+" - Lecture Reports")
	if err != nil {
		return err
	}
	filter := report.QueryFilter{
		StartDate: ctx.QueryParam("startDate"),
		EndDate:   ctx.QueryParam("endDate"),
	}

	views, err := api.svc.Export(ctx.Request().Context(), viewer, filter)
	if err != nil {
		return errors.Wrap(err, "exporting reports")
	}

	// render before writing any header so that failures still get a JSON error
	var buf bytes.Buffer
	if err = exporter.Write(&buf, views); err != nil {
		return errors.Wrap(err, "rendering export")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exporter.Filename()+`"`)
	return ctx.Blob(http.StatusOK, exporter.ContentType(), buf.Bytes())
}
