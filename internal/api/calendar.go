package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"study-planner/internal/service"
)

type calendarApi struct {
	users    *service.UserService
	calendar *service.CalendarService
	opts     *Options
}

func registerCalendarAPI(e *echo.Echo, jwt echo.MiddlewareFunc, opts *Options) {
	api := calendarApi{users: opts.UserSvc, calendar: opts.CalendarSvc, opts: opts}

	cg := e.Group("/calendar", jwt)
	cg.GET("/:year", api.year)
	cg.GET("/:year/days/:day_id", api.day)
}

func (api *calendarApi) year(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		return errHttpNotFound
	}
	planID, err := planFilter(ctx)
	if err != nil {
		return err
	}

	today := api.opts.Now().In(api.opts.Location)
	view, err := api.calendar.Year(ctx.Request().Context(), usr, year, planID, today)
	if err != nil {
		return err
	}
	return ok(ctx, echo.Map{
		"year":     view.Year,
		"plan_id":  view.PlanID,
		"calendar": view.Calendar,
		"stats":    view.Stats,
		"summary":  view.Summary,
		"plans":    view.Plans,
		"today":    today.Format("2006-01-02"),
	})
}

func (api *calendarApi) day(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		return errHttpNotFound
	}
	planID, err := planFilter(ctx)
	if err != nil {
		return err
	}

	view, err := api.calendar.Day(ctx.Request().Context(), usr, year, ctx.Param("day_id"), planID)
	if err != nil {
		return err
	}
	return ok(ctx, echo.Map{"date": view.Date, "day_id": view.DayID, "tasks": view.Tasks})
}
