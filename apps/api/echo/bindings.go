package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/luct/core"
)

const (
	orderingParam = "ordering"
	pageParam     = "page"
	limitParam    = "limit"
)

// Ordering binds `?ordering=field,-other` (a leading "-" means descending).
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	ord.Orderings = core.ParseOrdering(ctx.QueryParam(orderingParam))
}

// bindPage reads `?page=&limit=`; missing or malformed values fall back to the defaults.
func bindPage(ctx echo.Context, defaultSize, maxSize int) core.Page {
	number, _ := strconv.Atoi(ctx.QueryParam(pageParam))
	size, _ := strconv.Atoi(ctx.QueryParam(limitParam))
	return core.NewPage(number, size, defaultSize, maxSize)
}
