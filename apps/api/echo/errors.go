package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/user"
)

const errServerMessage = "Something went wrong!"

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code    int
			message string
			fldErrs map[string]string
		)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = fmt.Sprint(origErr.Message)
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
			}
			if code == http.StatusNotFound && origErr == echo.ErrNotFound {
				message = "Route not found: " + ctx.Request().RequestURI
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
			fldErrs = origErr.FieldMessages(translator)
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			vErr := core.ValidationError{Errs: origErr}
			message = "Invalid input"
			fldErrs = vErr.FieldMessages(translator)
		case *core.NotFoundError:
			code = http.StatusNotFound
			message = origErr.Error()
		default:
			if errors.Cause(err) == core.ErrForbidden {
				code = http.StatusForbidden
				message = core.ErrForbidden.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			message = errServerMessage

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID, _ = claims.UserID()
				usr.Name = claims.Name
				usr.Email = claims.Email
				usr.Role = claims.Role
			}
			extra := map[string]interface{}{
				"request_id": ctx.Response().Header().Get(echo.HeaderXRequestID),
				"path":       ctx.Request().URL.Path,
			}
			logger.Error(message, errors.Wrap(err, message), extra, usr)

			if ctx.Echo().Debug {
				message = err.Error()
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = respondError(ctx, code, message, fldErrs)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
