package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core/cache"
	"github.com/alramz/cxdash/core/kpi"
)

type metricApi struct {
	svc      kpi.ServiceInterface
	validate *validator.Validate
}

func registerMetricAPI(g *echo.Group, optionalAuth echo.MiddlewareFunc, svc kpi.ServiceInterface, validate *validator.Validate) {
	api := metricApi{svc: svc, validate: validate}

	mg := g.Group("/metrics/:period", optionalAuth)
	mg.GET("", api.query)
	mg.PUT("", api.save)
	mg.GET("/evaluations", api.evaluate)
}

type (
	MetricsResponse struct {
		Metrics []kpi.Metric `json:"metrics"`
		Source  cache.Source `json:"source"`
	}

	EvaluationsResponse struct {
		Evaluations []kpi.MetricEvaluation `json:"evaluations"`
		Source      cache.Source           `json:"source"`
	}
)

func (api *metricApi) query(ctx echo.Context) error {
	period, err := bindPeriod(ctx)
	if err != nil {
		return err
	}
	metrics, src := api.svc.Query(ctx.Request().Context(), period)
	return ctx.JSON(http.StatusOK, MetricsResponse{Metrics: metrics, Source: src})
}

func (api *metricApi) evaluate(ctx echo.Context) error {
	period, err := bindPeriod(ctx)
	if err != nil {
		return err
	}
	evals, src := api.svc.Evaluate(ctx.Request().Context(), period)
	return ctx.JSON(http.StatusOK, EvaluationsResponse{Evaluations: evals, Source: src})
}

func (api *metricApi) save(ctx echo.Context) error {
	period, err := bindPeriod(ctx)
	if err != nil {
		return err
	}
	var data kpi.SaveMetrics
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveMetrics")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	metrics, persisted, err := api.svc.Save(ctx.Request().Context(), sessionUserID(ctx), period, data)
	return writeResult(ctx, persisted, err, metrics)
}
