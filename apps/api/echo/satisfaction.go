package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alramz/cxdash/core/cache"
	"github.com/alramz/cxdash/core/satisfaction"
)

type satisfactionApi struct {
	svc      satisfaction.ServiceInterface
	validate *validator.Validate
}

func registerSatisfactionAPI(g *echo.Group, optionalAuth echo.MiddlewareFunc, svc satisfaction.ServiceInterface, validate *validator.Validate) {
	api := satisfactionApi{svc: svc, validate: validate}

	sg := g.Group("/satisfaction/:period", optionalAuth)
	sg.GET("", api.retrieve)
	sg.PUT("", api.save)
}

// SurveyResponse carries the survey along with its per-category scores.
type SurveyResponse struct {
	Survey satisfaction.Survey  `json:"survey"`
	Scores []satisfaction.Score `json:"scores"`
	Source cache.Source         `json:"source"`
}

func (api *satisfactionApi) retrieve(ctx echo.Context) error {
	period, err := bindPeriod(ctx)
	if err != nil {
		return err
	}
	survey, src := api.svc.Get(ctx.Request().Context(), period)
	return ctx.JSON(http.StatusOK, SurveyResponse{Survey: survey, Scores: satisfaction.Scores(survey), Source: src})
}

func (api *satisfactionApi) save(ctx echo.Context) error {
	period, err := bindPeriod(ctx)
	if err != nil {
		return err
	}
	var survey satisfaction.Survey
	if err = ctx.Bind(&survey); err != nil {
		return errors.Wrap(err, "binding to Survey")
	}
	if err = api.validate.Struct(survey); err != nil {
		return err
	}

	survey, persisted, err := api.svc.Save(ctx.Request().Context(), sessionUserID(ctx), period, survey)
	return writeResult(ctx, persisted, err, survey)
}
