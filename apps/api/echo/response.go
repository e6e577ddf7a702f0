package echoapi

import (
	"github.com/labstack/echo/v4"
)

// Response is the envelope of every JSON body.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respond(ctx echo.Context, code int, message string, data interface{}) error {
	return ctx.JSON(code, Response{Success: true, Message: message, Data: data})
}

func respondError(ctx echo.Context, code int, message string, fldErrs map[string]string) error {
	return ctx.JSON(code, Response{Success: false, Message: message, Errors: fldErrs})
}
