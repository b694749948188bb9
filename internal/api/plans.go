package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"study-planner/internal/service"
)

type planApi struct {
	users    *service.UserService
	plans    *service.PlanService
	progress *service.ProgressService
}

func registerPlanAPI(e *echo.Echo, jwt echo.MiddlewareFunc, opts *Options) {
	api := planApi{users: opts.UserSvc, plans: opts.PlanSvc, progress: opts.ProgressSvc}

	pg := e.Group("/plans", jwt)
	pg.GET("", api.list)
	pg.POST("", api.create)
	pg.POST("/from-template", api.createFromTemplate)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
	pg.GET("/:id/daily", api.dailyTasks)
	pg.PUT("/:id/daily", api.replaceDailyTasks)

	e.POST("/tasks/:id/log", api.logTask, jwt)
}

func (api *planApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return err
	}
	plans, err := api.plans.List(ctx.Request().Context(), usr)
	if err != nil {
		return err
	}
	stats, err := api.plans.Stats(ctx.Request().Context(), usr, 0)
	if err != nil {
		return err
	}
	return ok(ctx, echo.Map{"plans": plans, "stats": stats})
}

func (api *planApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return err
	}
	var data service.PlanInput
	if err := bind(ctx, &data); err != nil {
		return err
	}
	plan, err := api.plans.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, echo.Map{"plan_id": plan.ID, "plan": plan})
}

func (api *planApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data service.PlanInput
	if err := bind(ctx, &data); err != nil {
		return err
	}
	plan, err := api.plans.Update(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return err
	}
	return ok(ctx, echo.Map{"plan": plan})
}

func (api *planApi) destroy(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.plans.Delete(ctx.Request().Context(), usr, id); err != nil {
		return err
	}
	return ok(ctx, echo.Map{"plan_id": id})
}

func (api *planApi) dailyTasks(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	tasks, err := api.plans.DailyTasks(ctx.Request().Context(), usr, id)
	if err != nil {
		return err
	}
	return ok(ctx, echo.Map{"plan_id": id, "daily_plans": tasks})
}

func (api *planApi) replaceDailyTasks(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data service.DailyTasksInput
	if err := bind(ctx, &data); err != nil {
		return err
	}
	tasks, err := api.plans.ReplaceDailyTasks(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return err
	}
	return ok(ctx, echo.Map{"plan_id": id, "count": len(tasks)})
}

func (api *planApi) createFromTemplate(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return err
	}
	var data service.FromTemplateInput
	if err := bind(ctx, &data); err != nil {
		return err
	}
	plan, err := api.plans.CreateFromTemplate(ctx.Request().Context(), usr, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, echo.Map{"plan_id": plan.ID, "count": len(plan.Tasks)})
}

func (api *planApi) logTask(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return err
	}
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data service.LogInput
	if err := bind(ctx, &data); err != nil {
		return err
	}
	log, err := api.progress.Record(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, echo.Map{"log": log})
}
