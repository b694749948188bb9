package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"study-planner/internal/model"
	"study-planner/internal/service"
)

// maxUploadSize caps imported CSV files.
const maxUploadSize = 2 << 20

type templateApi struct {
	svc *service.TemplateService
}

func registerTemplateAPI(e *echo.Echo, jwt echo.MiddlewareFunc, svc *service.TemplateService) {
	api := templateApi{svc: svc}

	tg := e.Group("/templates", jwt)
	tg.GET("", api.list)
	tg.POST("", api.create)
	tg.DELETE("/:id", api.destroy)
	tg.GET("/:id/items", api.items)
	tg.POST("/:id/items", api.addItems)
	tg.PUT("/:id/items", api.replaceItems)
	tg.DELETE("/:id/items/:item_id", api.destroyItem)
	tg.POST("/:id/import", api.importItems)
}

func (api *templateApi) list(ctx echo.Context) error {
	tpls, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ok(ctx, echo.Map{"templates": tpls})
}

func (api *templateApi) create(ctx echo.Context) error {
	var data service.TemplateInput
	if err := bind(ctx, &data); err != nil {
		return err
	}
	tpl, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, echo.Map{"template_id": tpl.ID, "template": tpl})
}

func (api *templateApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ok(ctx, echo.Map{"template_id": id})
}

func (api *templateApi) items(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	items, err := api.svc.Items(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(ctx, echo.Map{"template_id": id, "items": items})
}

func (api *templateApi) addItems(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data service.TemplateItemsInput
	if err := bind(ctx, &data); err != nil {
		return err
	}
	items, err := api.svc.AddItems(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, echo.Map{"count": len(items), "items": items})
}

func (api *templateApi) replaceItems(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data service.TemplateItemsInput
	if err := bind(ctx, &data); err != nil {
		return err
	}
	items, err := api.svc.ReplaceItems(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ok(ctx, echo.Map{"count": len(items), "items": items})
}

func (api *templateApi) destroyItem(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	itemID, err := idParam(ctx, "item_id")
	if err != nil {
		return err
	}
	if err := api.svc.DeleteItem(ctx.Request().Context(), id, itemID); err != nil {
		return err
	}
	return ok(ctx, echo.Map{"item_id": itemID})
}

// importItems accepts JSON with paste_text or rows, or a multipart form carrying a .csv file.
func (api *templateApi) importItems(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}

	var data service.ImportInput
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return model.NewValidationError("file is required",
				model.FieldError{Field: "file", Error: "file is required"})
		}
		if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
			return model.NewValidationError("unsupported file",
				model.FieldError{Field: "file", Error: "only .csv files are supported"})
		}
		if fh.Size > maxUploadSize {
			return model.NewValidationError("file too large",
				model.FieldError{Field: "file", Error: "file must be smaller than 2MB"})
		}
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening upload")
		}
		defer f.Close()
		data.CSV = f
	} else if err := bind(ctx, &data); err != nil {
		return err
	}

	items, err := api.svc.Import(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, echo.Map{"count": len(items), "items": items})
}
