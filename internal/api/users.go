package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"study-planner/internal/service"
)

type userApi struct {
	svc     *service.UserService
	session *session
}

func registerUserAPI(e *echo.Echo, jwt echo.MiddlewareFunc, sess *session, svc *service.UserService) {
	api := userApi{svc: svc, session: sess}

	// un-authed endpoints
	e.POST("/login", api.login)

	// authed endpoints
	ag := e.Group("/me", jwt)
	ag.GET("", api.me)
	ag.PUT("/telegram", api.linkTelegram)
}

func (api *userApi) login(ctx echo.Context) error {
	var data service.LoginInput
	if err := bind(ctx, &data); err != nil {
		return err
	}

	usr, created, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	token, err := api.session.GenerateToken(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return respond(ctx, code, echo.Map{"token": token, "user": usr})
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	return ok(ctx, echo.Map{"user": usr})
}

func (api *userApi) linkTelegram(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	var data service.TelegramInput
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := api.svc.LinkTelegram(ctx.Request().Context(), usr, data); err != nil {
		return err
	}
	return ok(ctx, echo.Map{"user": usr})
}
