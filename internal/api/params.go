package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"study-planner/internal/model"
)

// respond writes a success body. Extra keys are merged next to "ok".
func respond(ctx echo.Context, code int, data echo.Map) error {
	body := echo.Map{"ok": true}
	for k, v := range data {
		body[k] = v
	}
	return ctx.JSON(code, body)
}

func ok(ctx echo.Context, data echo.Map) error {
	return respond(ctx, http.StatusOK, data)
}

// idParam reads a positive numeric path parameter. Anything else is a 404.
func idParam(ctx echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errHttpNotFound
	}
	return uint(id), nil
}

// planFilter reads the optional plan_id query parameter, 0 when absent.
func planFilter(ctx echo.Context) (uint, error) {
	raw := ctx.QueryParam("plan_id")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, model.NewValidationError("invalid plan_id",
			model.FieldError{Field: "plan_id", Error: "must be a positive integer"})
	}
	return uint(id), nil
}

func bind(ctx echo.Context, v interface{}) error {
	if err := ctx.Bind(v); err != nil {
		return errors.Wrapf(err, "binding to %T", v)
	}
	return nil
}
