package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/luct/core/catalog"
	"github.com/trezcool/luct/core/user"
)

type catalogApi struct {
	usrSvc user.Service
	svc    catalog.Service
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc user.Service, svc catalog.Service) {
	api := catalogApi{usrSvc: usrSvc, svc: svc}

	g.GET("/courses", api.queryCourses, jwt)
	g.GET("/classes", api.queryClasses, jwt)
	g.GET("/classes/:id", api.retrieveClass, jwt)
}

func (api *catalogApi) queryCourses(ctx echo.Context) error {
	courses, err := api.svc.QueryCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return respond(ctx, http.StatusOK, "", echo.Map{"courses": courses})
}

// queryClasses accepts `lecturer_id` ("me" for the caller) and `course_id`; unparsable ids are ignored.
func (api *catalogApi) queryClasses(ctx echo.Context) error {
	var filter catalog.ClassFilter
	if lid := ctx.QueryParam("lecturer_id"); lid == "me" {
		usr, err := getContextUser(ctx, api.usrSvc)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}
		filter.LecturerID = usr.ID
	} else {
		filter.LecturerID, _ = strconv.Atoi(lid)
	}
	filter.CourseID, _ = strconv.Atoi(ctx.QueryParam("course_id"))

	classes, err := api.svc.QueryClasses(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []catalog.Class{}
	}
	return respond(ctx, http.StatusOK, "", echo.Map{"classes": classes})
}

func (api *catalogApi) retrieveClass(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return catalog.ErrClassNotFound
	}
	class, err := api.svc.GetClass(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting class")
	}
	return respond(ctx, http.StatusOK, "", echo.Map{"class": class})
}
