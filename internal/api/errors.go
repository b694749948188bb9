package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"study-planner/internal/logger"
	"study-planner/internal/model"
	"study-planner/internal/validate"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(log logger.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string
		var fields map[string]string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = "missing or malformed jwt"
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = "invalid input"
			fields = fieldMap(validate.Fields(origErr))
		case *model.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
			fields = fieldMap(origErr.Fields)
		default:
			if origErr == model.ErrNotFound {
				code = http.StatusNotFound
				message = err.Error()
				break
			}
			// any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)

			args := []interface{}{errors.WithMessage(err, message)}
			if usr, ok := ctx.Get(contextUserKey).(*model.User); ok {
				args = append(args, usr)
			}
			if log != nil {
				log.Error(ctx.Request().Method+" "+ctx.Path(), args...)
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		body := echo.Map{"ok": false, "error": message}
		if len(fields) > 0 {
			body["fields"] = fields
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func fieldMap(flds []model.FieldError) map[string]string {
	if len(flds) == 0 {
		return nil
	}
	out := make(map[string]string, len(flds))
	for _, f := range flds {
		out[f.Field] = f.Error
	}
	return out
}
