package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core/analytics"
	"github.com/alramz/cxdash/core/cache"
)

type serviceDataApi struct {
	svc      analytics.ServiceInterface
	validate *validator.Validate
}

func registerServiceDataAPI(g *echo.Group, optionalAuth echo.MiddlewareFunc, svc analytics.ServiceInterface, validate *validator.Validate) {
	api := serviceDataApi{svc: svc, validate: validate}

	sg := g.Group("/service-data/:period", optionalAuth)
	sg.GET("", api.retrieve)
	sg.PUT("", api.save)
}

type (
	ServiceDataResponse struct {
		Categories []analytics.ServiceCategory `json:"categories"`
		Source     cache.Source                `json:"source"`
	}

	SaveServiceDataRequest struct {
		Categories []analytics.ServiceCategory `json:"categories" validate:"required,min=1,dive"`
	}
)

func (api *serviceDataApi) retrieve(ctx echo.Context) error {
	period, err := bindPeriod(ctx)
	if err != nil {
		return err
	}
	categories, src := api.svc.ServiceData(ctx.Request().Context(), period)
	return ctx.JSON(http.StatusOK, ServiceDataResponse{Categories: categories, Source: src})
}

func (api *serviceDataApi) save(ctx echo.Context) error {
	period, err := bindPeriod(ctx)
	if err != nil {
		return err
	}
	var data SaveServiceDataRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveServiceDataRequest")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	persisted, err := api.svc.SaveServiceData(ctx.Request().Context(), sessionUserID(ctx), period, data.Categories)
	return writeResult(ctx, persisted, err, data.Categories)
}
