package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/user"
)

type userApi struct {
	conf *core.Config
	svc  user.Service
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, conf *core.Config, svc user.Service) {
	api := userApi{conf: conf, svc: svc}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
	ag.GET("/me", api.me, jwt)
	ag.POST("/token-refresh", api.refreshToken, jwt)

	g.GET("/users", api.query, jwt, requireRoles(user.RoleProgramLeader))
}

type (
	LoginResponse struct {
		Token string       `json:"token"`
		User  user.Profile `json:"user"`
	}

	// UserListItem is a row of the users list.
	UserListItem struct {
		ID        int       `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		Faculty   string    `json:"faculty"`
		CreatedAt time.Time `json:"created_at"`
	}
)

func NewUserListItem(usr user.User) UserListItem {
	return UserListItem{
		ID:        usr.ID,
		Name:      usr.Name,
		Email:     usr.Email,
		Role:      usr.Role,
		Faculty:   usr.Faculty,
		CreatedAt: usr.CreatedAt,
	}
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return respond(ctx, http.StatusCreated, "Registration successful! You can now login.", echo.Map{"user": usr.Profile()})
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		if err == user.ErrInvalidCredentials {
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return respond(ctx, http.StatusOK, "Login successful!", LoginResponse{Token: token, User: usr.Profile()})
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return respond(ctx, http.StatusOK, "", echo.Map{"user": usr.Profile()})
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.conf, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return respond(ctx, http.StatusOK, "", echo.Map{"token": token})
}

func (api *userApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	users, err := api.svc.QueryAll(ctx.Request().Context(), ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	items := make([]UserListItem, 0, len(users))
	for _, usr := range users {
		items = append(items, NewUserListItem(usr))
	}
	return respond(ctx, http.StatusOK, "", echo.Map{"users": items})
}
